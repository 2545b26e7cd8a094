package gui

import (
	"image/color"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/spacetime/internal/render"
)

// curveSteps is how many line pieces approximate one quadratic segment.
const curveSteps = 8

// Surface paints render commands with raylib. It must only be used on the
// thread that owns the window, between BeginDrawing and EndDrawing.
type Surface struct {
	textures map[string]rl.Texture2D
	failed   map[string]bool
	logger   *slog.Logger
}

func NewSurface(logger *slog.Logger) *Surface {
	return &Surface{
		textures: make(map[string]rl.Texture2D),
		failed:   make(map[string]bool),
		logger:   logger,
	}
}

func vec(p r2.Vec) rl.Vector2 { return rl.NewVector2(float32(p.X), float32(p.Y)) }

func rgba(c color.Color) rl.Color {
	if c == nil {
		return rl.Black
	}
	r, g, b, a := c.RGBA()
	return rl.NewColor(uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8))
}

func (s *Surface) Size() (float64, float64) {
	return float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
}

func (s *Surface) Clear() { rl.ClearBackground(rl.White) }

func (s *Surface) FillCircle(c r2.Vec, r float64, clr color.Color) {
	rl.DrawCircleV(vec(c), float32(r), rgba(clr))
}

func (s *Surface) StrokeCircle(c r2.Vec, r, w float64, clr color.Color) {
	inner := max(0, r-w/2)
	rl.DrawRing(vec(c), float32(inner), float32(r+w/2), 0, 360, 64, rgba(clr))
}

func (s *Surface) StrokeLine(a, b r2.Vec, w float64, clr color.Color) {
	rl.DrawLineEx(vec(a), vec(b), float32(w), rgba(clr))
}

func (s *Surface) StrokePath(p *render.Path, w float64, clr color.Color) {
	if p == nil {
		return
	}
	pts := p.Flatten(curveSteps)
	col := rgba(clr)
	for i := 1; i < len(pts); i++ {
		rl.DrawLineEx(vec(pts[i-1]), vec(pts[i]), float32(w), col)
	}
}

// texture resolves a handle to a GPU texture, loading it on first use. A
// path that failed once is not retried.
func (s *Surface) texture(t *render.Texture) (rl.Texture2D, bool) {
	if t == nil || t.Path == "" || s.failed[t.Path] {
		return rl.Texture2D{}, false
	}
	if tex, ok := s.textures[t.Path]; ok {
		return tex, true
	}
	tex := rl.LoadTexture(t.Path)
	if tex.ID == 0 {
		s.failed[t.Path] = true
		s.logger.Warn("texture load failed", "path", t.Path)
		return rl.Texture2D{}, false
	}
	s.textures[t.Path] = tex
	return tex, true
}

func (s *Surface) DrawImage(t *render.Texture, dst render.Rect) {
	tex, ok := s.texture(t)
	if !ok {
		s.FillCircle(r2.Vec{X: dst.X + dst.W/2, Y: dst.Y + dst.H/2}, dst.W/2, render.ColBody)
		return
	}
	src := rl.NewRectangle(0, 0, float32(tex.Width), float32(tex.Height))
	to := rl.NewRectangle(float32(dst.X), float32(dst.Y), float32(dst.W), float32(dst.H))
	rl.DrawTexturePro(tex, src, to, rl.NewVector2(0, 0), 0, rl.White)
}

func (s *Surface) FillPattern(t *render.Texture, dst render.Rect) {
	tex, ok := s.texture(t)
	if !ok || tex.Width <= 0 || tex.Height <= 0 {
		return
	}
	for y := int32(dst.Y); y < int32(dst.Y+dst.H); y += tex.Height {
		for x := int32(dst.X); x < int32(dst.X+dst.W); x += tex.Width {
			rl.DrawTexture(tex, x, y, rl.White)
		}
	}
}

// Unload frees every cached texture.
func (s *Surface) Unload() {
	for path, tex := range s.textures {
		rl.UnloadTexture(tex)
		delete(s.textures, path)
	}
}
