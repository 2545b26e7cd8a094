package render

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Palette
var (
	ColTrail   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	ColBody    = color.RGBA{0x00, 0x00, 0x00, 0xff}
	ColFocus   = color.RGBA{0x40, 0xa2, 0xbf, 0xff}
	ColGrid    = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}
	ColOverlay = color.RGBA{0xaa, 0xaa, 0xaa, 0xff}
	ColVector  = color.RGBA{0xdd, 0x55, 0x55, 0xff}
)

// Body is the read-only view of one simulated body. Path is chronological,
// oldest point first.
type Body struct {
	Position    r2.Vec
	Mass        float64
	Density     float64
	Path        []r2.Vec
	CameraFocus bool
	Texture     *Texture
}

// Spacetime is the simulation accessor the frame pulls bodies from. The
// returned slice must not be mutated by the simulation while a frame reads it.
type Spacetime interface {
	Bodies() []Body
}

// SpacetimeFunc adapts a function to the Spacetime interface.
type SpacetimeFunc func() []Body

func (f SpacetimeFunc) Bodies() []Body { return f() }

// Radius derives a body's drawn radius from its mass and density, treating
// mass*density as a volume proxy: cbrt(mass*density*mm*π/12). Inputs that do
// not produce a finite non-negative radicand yield 0.
func Radius(mass, density, massMultiplier float64) float64 {
	v := mass * density * massMultiplier * math.Pi / 12
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return math.Cbrt(v)
}

// DrawBody paints one body in schematic or realistic mode.
func DrawBody(s Surface, cam Camera, settings Settings, b Body, massMultiplier float64) {
	radius := Radius(b.Mass, b.Density, massMultiplier)
	center := cam.WorldToScreen(b.Position)

	if settings.RealisticMode && b.Texture != nil {
		size := radius * cam.Zoom * 2
		s.DrawImage(b.Texture, Rect{
			X: center.X - size/2,
			Y: center.Y - size/2,
			W: size,
			H: size,
		})
		return
	}

	fill := ColBody
	if b.CameraFocus {
		fill = ColFocus
	}
	s.FillCircle(center, radius*cam.Zoom, fill)
	s.StrokeCircle(center, radius*cam.Zoom, 1, ColTrail)
}
