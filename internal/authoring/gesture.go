// Package authoring turns pointer input into new bodies. A gesture runs in
// three stages that mirror the pointer overlay: placement (hover), mass (drag
// out a radius) and velocity (aim), and a final click commits the body.
package authoring

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/spacetime/internal/render"
	"github.com/san-kum/spacetime/internal/spacetime"
)

const (
	DefaultPlacementRadius = 4.0
	DefaultMinRadius       = 2.0
	DefaultVelocityScale   = 0.02
)

// MassForRadius inverts render.Radius: it returns the mass whose body is drawn
// with the given world radius.
func MassForRadius(radius, density, massMultiplier float64) float64 {
	if radius <= 0 || density <= 0 || massMultiplier <= 0 {
		return 0
	}
	return radius * radius * radius * 12 / (density * massMultiplier * math.Pi)
}

type stage int

const (
	idle stage = iota
	placing
	sizing
	aiming
)

// Gesture is the authoring state machine. It is driven from a single input
// goroutine and is not safe for concurrent use.
type Gesture struct {
	Density         float64
	MassMultiplier  float64
	VelocityScale   float64
	PlacementRadius float64
	MinRadius       float64

	stage     stage
	primary   r2.Vec
	secondary r2.Vec
	radius    float64
}

func NewGesture(density, massMultiplier float64) *Gesture {
	return &Gesture{
		Density:         density,
		MassMultiplier:  massMultiplier,
		VelocityScale:   DefaultVelocityScale,
		PlacementRadius: DefaultPlacementRadius,
		MinRadius:       DefaultMinRadius,
	}
}

// Active reports whether a body is being sized or aimed.
func (g *Gesture) Active() bool { return g.stage == sizing || g.stage == aiming }

// Move tracks the pointer at surface point p.
func (g *Gesture) Move(p r2.Vec) {
	switch g.stage {
	case idle, placing:
		g.stage = placing
		g.primary, g.secondary = p, p
		g.radius = g.PlacementRadius
	case sizing:
		g.radius = math.Max(r2.Norm(r2.Sub(p, g.primary)), g.MinRadius)
	case aiming:
		g.secondary = p
	}
}

// Press handles a button press at p. In the aiming stage it commits and
// returns the new body, placed at the world point under the first press.
func (g *Gesture) Press(p r2.Vec, cam render.Camera) (spacetime.Body, bool) {
	if g.stage == aiming {
		g.secondary = p
		b := g.body(cam)
		g.stage = placing
		g.primary, g.secondary = p, p
		g.radius = g.PlacementRadius
		return b, true
	}
	g.stage = sizing
	g.primary, g.secondary = p, p
	g.radius = g.MinRadius
	return spacetime.Body{}, false
}

// Release ends the sizing drag and starts aiming.
func (g *Gesture) Release(p r2.Vec) {
	if g.stage != sizing {
		return
	}
	g.stage = aiming
	g.secondary = p
}

// Cancel abandons the gesture and hides the overlay.
func (g *Gesture) Cancel() {
	g.stage = idle
}

func (g *Gesture) body(cam render.Camera) spacetime.Body {
	zoom := cam.Zoom
	if zoom == 0 {
		zoom = 1
	}
	return spacetime.Body{
		Position: cam.ScreenToWorld(g.primary),
		Velocity: r2.Scale(g.VelocityScale/zoom, r2.Sub(g.secondary, g.primary)),
		Mass:     MassForRadius(g.radius/zoom, g.Density, g.MassMultiplier),
		Density:  g.Density,
	}
}

// Overlay returns the preview the renderer should draw.
func (g *Gesture) Overlay() render.PointerOverlay {
	o := render.PointerOverlay{
		Visible:       g.stage != idle,
		Primary:       g.primary,
		Secondary:     g.secondary,
		PreviewRadius: g.radius,
	}
	switch g.stage {
	case sizing:
		o.State = render.OverlayMass
	case aiming:
		o.State = render.OverlayVelocity
	default:
		o.State = render.OverlayPlacement
	}
	return o
}
