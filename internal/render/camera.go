package render

import "gonum.org/v1/gonum/spatial/r2"

// DefaultPanStep is how far one directional pan signal moves the camera.
const DefaultPanStep = 10.0

// Direction is one of the four pan signals.
type Direction int

const (
	PanUp Direction = iota
	PanDown
	PanLeft
	PanRight
)

// Camera maps world coordinates onto the surface. Offset is the world point
// shown at the surface origin.
type Camera struct {
	Offset  r2.Vec
	Zoom    float64
	PanStep float64
}

func NewCamera() Camera {
	return Camera{Zoom: 1, PanStep: DefaultPanStep}
}

// WorldToScreen converts a world point to surface coordinates.
func (c Camera) WorldToScreen(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: (p.X - c.Offset.X) * c.Zoom,
		Y: (p.Y - c.Offset.Y) * c.Zoom,
	}
}

// ScreenToWorld converts a surface point back to world coordinates.
func (c Camera) ScreenToWorld(s r2.Vec) r2.Vec {
	return r2.Vec{
		X: c.Offset.X + s.X/c.Zoom,
		Y: c.Offset.Y + s.Y/c.Zoom,
	}
}

// Pan moves the offset one step in the given direction.
func (c *Camera) Pan(d Direction) {
	step := c.PanStep
	if step == 0 {
		step = DefaultPanStep
	}
	switch d {
	case PanUp:
		c.Offset.Y -= step
	case PanDown:
		c.Offset.Y += step
	case PanLeft:
		c.Offset.X -= step
	case PanRight:
		c.Offset.X += step
	}
}

// SetZoom replaces the zoom factor. Callers are responsible for keeping it
// positive.
func (c *Camera) SetZoom(z float64) { c.Zoom = z }

// CenterOn moves the camera so that p lands in the middle of a viewport of
// the given size.
func (c *Camera) CenterOn(p r2.Vec, viewW, viewH float64) {
	c.Offset.X = p.X - viewW/2/c.Zoom
	c.Offset.Y = p.Y - viewH/2/c.Zoom
}
