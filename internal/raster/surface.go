// Package raster draws frames into an in-memory RGBA image with anti-aliased
// shapes from golang.org/x/image/vector. It backs PNG snapshots and GIF
// recordings.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/spacetime/internal/render"
)

const pathSteps = 8

// Surface is a render.Surface backed by an *image.RGBA.
type Surface struct {
	Background color.Color

	img    *image.RGBA
	z      *vector.Rasterizer
	images map[string]image.Image
}

func New(w, h int) *Surface {
	return &Surface{
		Background: color.White,
		img:        image.NewRGBA(image.Rect(0, 0, w, h)),
		z:          vector.NewRasterizer(w, h),
		images:     make(map[string]image.Image),
	}
}

// Image returns the backing image. It is overwritten by the next frame.
func (s *Surface) Image() *image.RGBA { return s.img }

func (s *Surface) Size() (float64, float64) {
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.Background), image.Point{}, draw.Src)
}

func (s *Surface) fill(clr color.Color) {
	if clr == nil {
		clr = color.Black
	}
	s.z.Draw(s.img, s.img.Bounds(), image.NewUniform(clr), image.Point{})
}

func (s *Surface) begin() {
	b := s.img.Bounds()
	s.z.Reset(b.Dx(), b.Dy())
}

// circle adds a closed polygon approximating a circle. Clockwise circles
// cancel counter-clockwise ones, which is how rings are cut out.
func (s *Surface) circle(c r2.Vec, r float64, clockwise bool) {
	n := int(math.Min(math.Max(12, r*2), 128))
	dir := 1.0
	if clockwise {
		dir = -1
	}
	s.z.MoveTo(float32(c.X+r), float32(c.Y))
	for i := 1; i < n; i++ {
		a := dir * 2 * math.Pi * float64(i) / float64(n)
		s.z.LineTo(float32(c.X+r*math.Cos(a)), float32(c.Y+r*math.Sin(a)))
	}
	s.z.ClosePath()
}

// segment adds a rectangle of the given width around a-b.
func (s *Surface) segment(a, b r2.Vec, width float64) {
	d := r2.Sub(b, a)
	l := r2.Norm(d)
	if l == 0 {
		return
	}
	hw := math.Max(width, 1) / 2
	n := r2.Scale(hw/l, r2.Vec{X: -d.Y, Y: d.X})
	p0, p1 := r2.Add(a, n), r2.Add(b, n)
	p2, p3 := r2.Sub(b, n), r2.Sub(a, n)
	s.z.MoveTo(float32(p0.X), float32(p0.Y))
	s.z.LineTo(float32(p1.X), float32(p1.Y))
	s.z.LineTo(float32(p2.X), float32(p2.Y))
	s.z.LineTo(float32(p3.X), float32(p3.Y))
	s.z.ClosePath()
}

func (s *Surface) FillCircle(c r2.Vec, r float64, clr color.Color) {
	if r <= 0 {
		return
	}
	s.begin()
	s.circle(c, r, false)
	s.fill(clr)
}

func (s *Surface) StrokeCircle(c r2.Vec, r, width float64, clr color.Color) {
	if r <= 0 {
		return
	}
	hw := math.Max(width, 1) / 2
	s.begin()
	s.circle(c, r+hw, false)
	if r > hw {
		s.circle(c, r-hw, true)
	}
	s.fill(clr)
}

func (s *Surface) StrokeLine(a, b r2.Vec, width float64, clr color.Color) {
	s.begin()
	s.segment(a, b, width)
	s.fill(clr)
}

func (s *Surface) StrokePath(p *render.Path, width float64, clr color.Color) {
	pts := p.Flatten(pathSteps)
	for i := 1; i < len(pts); i++ {
		s.StrokeLine(pts[i-1], pts[i], width, clr)
	}
}

// texture decodes and caches the image behind t.
func (s *Surface) texture(t *render.Texture) (image.Image, error) {
	if img, ok := s.images[t.Path]; ok {
		return img, nil
	}
	f, err := os.Open(t.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("raster: decode %s: %w", t.Path, err)
	}
	s.images[t.Path] = img
	return img, nil
}

// Preload registers an already decoded image for a texture path.
func (s *Surface) Preload(path string, img image.Image) { s.images[path] = img }

// DrawImage scales the texture into dst. Textures that fail to load are
// drawn as a plain disc.
func (s *Surface) DrawImage(t *render.Texture, dst render.Rect) {
	img, err := s.texture(t)
	if err != nil {
		s.FillCircle(r2.Vec{X: dst.X + dst.W/2, Y: dst.Y + dst.H/2}, math.Min(dst.W, dst.H)/2, render.ColBody)
		return
	}
	xdraw.BiLinear.Scale(s.img, toRect(dst), img, img.Bounds(), xdraw.Over, nil)
}

// FillPattern tiles the texture over dst at its natural size.
func (s *Surface) FillPattern(t *render.Texture, dst render.Rect) {
	img, err := s.texture(t)
	if err != nil {
		return
	}
	area := toRect(dst).Intersect(s.img.Bounds())
	tw, th := img.Bounds().Dx(), img.Bounds().Dy()
	if tw == 0 || th == 0 {
		return
	}
	for y := area.Min.Y; y < area.Max.Y; y += th {
		for x := area.Min.X; x < area.Max.X; x += tw {
			r := image.Rect(x, y, x+tw, y+th).Intersect(area)
			draw.Draw(s.img, r, img, img.Bounds().Min, draw.Over)
		}
	}
}

func toRect(r render.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.W)), int(math.Ceil(r.Y+r.H)),
	)
}

func (s *Surface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}
