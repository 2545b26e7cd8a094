package render

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// OverlayState is the stage of an in-progress body-authoring gesture.
type OverlayState int

const (
	OverlayPlacement OverlayState = iota
	OverlayMass
	OverlayVelocity
)

func (s OverlayState) String() string {
	switch s {
	case OverlayPlacement:
		return "placement"
	case OverlayMass:
		return "mass"
	case OverlayVelocity:
		return "velocity"
	}
	return fmt.Sprintf("OverlayState(%d)", int(s))
}

// PointerOverlay is a snapshot of the authoring preview. Primary and
// Secondary are surface coordinates.
type PointerOverlay struct {
	Visible       bool
	State         OverlayState
	Primary       r2.Vec
	Secondary     r2.Vec
	PreviewRadius float64
}

// DrawOverlay renders the current overlay snapshot.
func DrawOverlay(s Surface, o PointerOverlay) {
	if !o.Visible {
		return
	}
	switch o.State {
	case OverlayPlacement:
		s.FillCircle(o.Primary, o.PreviewRadius, ColOverlay)
	case OverlayMass:
		s.FillCircle(o.Secondary, o.PreviewRadius, ColOverlay)
	case OverlayVelocity:
		s.FillCircle(o.Secondary, o.PreviewRadius, ColOverlay)
		s.StrokeLine(o.Primary, o.Secondary, 2, ColVector)
	}
}
