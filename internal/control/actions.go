package control

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/san-kum/spacetime/internal/render"
)

const (
	MinZoom  = 0.05
	MaxZoom  = 20.0
	ZoomStep = 1.1
)

type Action int

const (
	None Action = iota
	PanUp
	PanDown
	PanLeft
	PanRight
	ToggleGrid
	ToggleLockCamera
	ToggleRealistic
	ZoomIn
	ZoomOut
	TogglePause
)

var actionNames = map[Action]string{
	None:             "none",
	PanUp:            "pan up",
	PanDown:          "pan down",
	PanLeft:          "pan left",
	PanRight:         "pan right",
	ToggleGrid:       "toggle grid",
	ToggleLockCamera: "toggle camera lock",
	ToggleRealistic:  "toggle realistic mode",
	ZoomIn:           "zoom in",
	ZoomOut:          "zoom out",
	TogglePause:      "pause",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Keys binds key names to actions. Names follow bubbletea's KeyMsg.String.
var Keys = map[string]Action{
	"w": PanUp,
	"s": PanDown,
	"a": PanLeft,
	"d": PanRight,
	"g": ToggleGrid,
	"l": ToggleLockCamera,
	"r": ToggleRealistic,
	"+": ZoomIn,
	"=": ZoomIn,
	"-": ZoomOut,
	" ": TogglePause,
}

func Lookup(key string) (Action, bool) {
	a, ok := Keys[key]
	return a, ok
}

// Zoom multiplies z by ZoomStep per notch and clamps the result.
func Zoom(z, notches float64) float64 {
	if z <= 0 || math.IsNaN(z) {
		z = 1
	}
	return math.Min(MaxZoom, math.Max(MinZoom, z*math.Pow(ZoomStep, notches)))
}

// View is the part of the renderer the controls drive.
type View interface {
	Pan(d render.Direction)
	ToggleGrid()
	ToggleLockCamera()
	ToggleRealisticMode() error
	SetZoom(z float64)
	Camera() render.Camera
}

// Pauser is the part of the simulation the controls drive.
type Pauser interface {
	TogglePause() bool
}

type Controls struct {
	view   View
	sim    Pauser
	logger *slog.Logger
}

func New(view View, sim Pauser) *Controls {
	return &Controls{view: view, sim: sim, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithLogger sets the logger used to report applied actions.
func (c *Controls) WithLogger(l *slog.Logger) *Controls {
	c.logger = l
	return c
}

// Do applies a. Only realistic mode can fail, when no background is loaded.
func (c *Controls) Do(a Action) error {
	switch a {
	case PanUp:
		c.view.Pan(render.PanUp)
	case PanDown:
		c.view.Pan(render.PanDown)
	case PanLeft:
		c.view.Pan(render.PanLeft)
	case PanRight:
		c.view.Pan(render.PanRight)
	case ToggleGrid:
		c.view.ToggleGrid()
	case ToggleLockCamera:
		c.view.ToggleLockCamera()
	case ToggleRealistic:
		if err := c.view.ToggleRealisticMode(); err != nil {
			c.logger.Warn("realistic mode unavailable", "err", err)
			return err
		}
	case ZoomIn:
		c.ZoomBy(1)
	case ZoomOut:
		c.ZoomBy(-1)
	case TogglePause:
		if c.sim != nil {
			paused := c.sim.TogglePause()
			c.logger.Info("simulation paused", "paused", paused)
		}
	default:
		return nil
	}
	c.logger.Debug("action", "action", a)
	return nil
}

// ZoomBy zooms by a number of wheel notches, positive zooming in.
func (c *Controls) ZoomBy(notches float64) {
	c.view.SetZoom(Zoom(c.view.Camera().Zoom, notches))
}
