package render

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// Surface is the drawing target a frame is painted onto. It abstracts the
// underlying graphics backend so the frame pipeline can run against a window,
// a terminal canvas, an SVG document or a recorder in tests.
type Surface interface {
	// Size returns the drawable area in surface units.
	Size() (width, height float64)

	// Clear erases the whole surface.
	Clear()

	// Shapes
	FillCircle(center r2.Vec, radius float64, clr color.Color)
	StrokeCircle(center r2.Vec, radius, width float64, clr color.Color)
	StrokeLine(from, to r2.Vec, width float64, clr color.Color)
	StrokePath(p *Path, width float64, clr color.Color)

	// Images
	DrawImage(tex *Texture, dst Rect)
	FillPattern(tex *Texture, dst Rect)
}

// Presenter is implemented by surfaces that buffer a frame and need to be
// told when it is complete.
type Presenter interface {
	Present()
}

// Rect is an axis-aligned rectangle in surface units.
type Rect struct {
	X, Y, W, H float64
}

// Texture is an explicit handle to an image resource. Backends resolve the
// handle (usually by Path) to their own image type.
type Texture struct {
	Name   string
	Path   string
	Width  int
	Height int
}

// QuadSegment is one quadratic Bézier segment of a Path.
type QuadSegment struct {
	Control r2.Vec
	End     r2.Vec
}

// Path is a continuous curve made of quadratic segments, built the same way
// as a canvas path: MoveTo once, then QuadTo.
type Path struct {
	Start    r2.Vec
	Segments []QuadSegment
}

// MoveTo resets the path to start at p.
func (p *Path) MoveTo(pt r2.Vec) {
	p.Start = pt
	p.Segments = p.Segments[:0]
}

// QuadTo appends a quadratic segment.
func (p *Path) QuadTo(ctrl, end r2.Vec) {
	p.Segments = append(p.Segments, QuadSegment{Control: ctrl, End: end})
}

// End returns the last point of the path.
func (p *Path) End() r2.Vec {
	if len(p.Segments) == 0 {
		return p.Start
	}
	return p.Segments[len(p.Segments)-1].End
}

// Flatten samples every segment at steps points and returns the resulting
// polyline, starting with Start.
func (p *Path) Flatten(steps int) []r2.Vec {
	if steps < 1 {
		steps = 1
	}
	pts := make([]r2.Vec, 0, 1+len(p.Segments)*steps)
	pts = append(pts, p.Start)
	from := p.Start
	for _, seg := range p.Segments {
		for i := 1; i <= steps; i++ {
			t := float64(i) / float64(steps)
			pts = append(pts, quadPoint(from, seg.Control, seg.End, t))
		}
		from = seg.End
	}
	return pts
}

// quadPoint evaluates B(t) = (1-t)²·p0 + 2(1-t)t·c + t²·p1.
func quadPoint(p0, c, p1 r2.Vec, t float64) r2.Vec {
	u := 1 - t
	return r2.Add(r2.Add(r2.Scale(u*u, p0), r2.Scale(2*u*t, c)), r2.Scale(t*t, p1))
}
