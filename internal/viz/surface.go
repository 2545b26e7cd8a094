package viz

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/spacetime/internal/render"
)

// DefaultScale is how many surface units one Braille dot covers.
const DefaultScale = 4.0

// pathSteps is the number of line pieces per quadratic segment.
const pathSteps = 6

// CanvasSurface adapts a Canvas to render.Surface. Surface coordinates are
// divided by Scale to get dots, so a terminal can show a window-sized scene.
type CanvasSurface struct {
	Canvas *Canvas
	Theme  Theme
	Scale  float64
}

// NewCanvasSurface creates a surface of cols x rows terminal cells.
func NewCanvasSurface(cols, rows int, scale float64, theme Theme) *CanvasSurface {
	if scale <= 0 {
		scale = DefaultScale
	}
	return &CanvasSurface{Canvas: NewCanvas(cols, rows), Theme: theme, Scale: scale}
}

func (s *CanvasSurface) Size() (float64, float64) {
	return float64(s.Canvas.Width*2) * s.Scale, float64(s.Canvas.Height*4) * s.Scale
}

func (s *CanvasSurface) dot(p r2.Vec) (int, int) {
	return int(math.Round(p.X / s.Scale)), int(math.Round(p.Y / s.Scale))
}

func (s *CanvasSurface) dots(r float64) int {
	return int(math.Round(r / s.Scale))
}

func (s *CanvasSurface) pen(c color.Color) {
	s.Canvas.Pen = s.Theme.Colour(c)
}

func (s *CanvasSurface) Clear() { s.Canvas.Clear() }

func (s *CanvasSurface) FillCircle(c r2.Vec, r float64, clr color.Color) {
	s.pen(clr)
	x, y := s.dot(c)
	s.Canvas.FillCircle(x, y, s.dots(r))
}

// StrokeCircle only draws outlines big enough to be told apart from the fill.
func (s *CanvasSurface) StrokeCircle(c r2.Vec, r, _ float64, clr color.Color) {
	rd := s.dots(r)
	if rd < 2 {
		return
	}
	s.pen(clr)
	x, y := s.dot(c)
	s.Canvas.DrawCircle(x, y, rd)
}

func (s *CanvasSurface) StrokeLine(a, b r2.Vec, _ float64, clr color.Color) {
	s.pen(clr)
	x0, y0 := s.dot(a)
	x1, y1 := s.dot(b)
	s.Canvas.DrawLine(x0, y0, x1, y1)
}

func (s *CanvasSurface) StrokePath(p *render.Path, _ float64, clr color.Color) {
	pts := p.Flatten(pathSteps)
	if len(pts) < 2 {
		return
	}
	s.pen(clr)
	x0, y0 := s.dot(pts[0])
	for _, pt := range pts[1:] {
		x1, y1 := s.dot(pt)
		s.Canvas.DrawLine(x0, y0, x1, y1)
		x0, y0 = x1, y1
	}
}

// DrawImage fills the disc inscribed in dst.
func (s *CanvasSurface) DrawImage(_ *render.Texture, dst render.Rect) {
	s.pen(render.ColBody)
	x, y := s.dot(r2.Vec{X: dst.X + dst.W/2, Y: dst.Y + dst.H/2})
	s.Canvas.FillCircle(x, y, s.dots(math.Min(dst.W, dst.H)/2))
}

func (s *CanvasSurface) FillPattern(*render.Texture, render.Rect) {}
