// Package gui is the windowed front end built on raylib. The frame renderer
// draws into a double-buffered display list from its own goroutine; the
// window thread replays the latest finished frame and feeds input back.
package gui

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/spacetime/internal/authoring"
	"github.com/san-kum/spacetime/internal/control"
	"github.com/san-kum/spacetime/internal/render"
	"github.com/san-kum/spacetime/internal/spacetime"
)

var (
	ColText    = rl.NewColor(60, 60, 60, 255)
	ColTextDim = rl.NewColor(140, 140, 140, 255)
	ColWarn    = rl.NewColor(200, 80, 60, 255)
)

// Renderer is what the window needs from the frame renderer.
type Renderer interface {
	control.View
	SetPointerOverlay(o render.PointerOverlay)
	Settings() render.Settings
	MassMultiplier() float64
}

type Options struct {
	Title   string
	Width   int
	Height  int
	FPS     int
	Density float64
	Logger  *slog.Logger
}

type App struct {
	renderer Renderer
	frame    *render.Buffered
	sim      *spacetime.Spacetime
	controls *control.Controls
	gesture  *authoring.Gesture
	logger   *slog.Logger

	ShowHUD bool
	status  string
	quit    bool
	pointer r2.Vec
}

// NewApp wires the input handlers. It does not touch the window, so it can be
// built without a display.
func NewApp(r Renderer, frame *render.Buffered, st *spacetime.Spacetime, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Density <= 0 {
		opts.Density = spacetime.DefaultDensity
	}
	return &App{
		renderer: r,
		frame:    frame,
		sim:      st,
		controls: control.New(r, st).WithLogger(opts.Logger),
		gesture:  authoring.NewGesture(opts.Density, r.MassMultiplier()),
		logger:   opts.Logger,
		ShowHUD:  true,
	}
}

// initWindow opens a resizable window and keeps Escape for cancelling
// gestures instead of closing.
func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(0)
}

// Run opens the window and blocks until it is closed, q is pressed or ctx is
// cancelled. It must be called from the main goroutine.
func Run(ctx context.Context, r Renderer, frame *render.Buffered, st *spacetime.Spacetime, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("gui: invalid window size %dx%d", opts.Width, opts.Height)
	}
	if opts.FPS <= 0 {
		opts.FPS = render.DefaultFPS
	}
	if opts.Title == "" {
		opts.Title = "spacetime"
	}

	initWindow(opts)
	defer rl.CloseWindow()

	app := NewApp(r, frame, st, opts)
	surface := NewSurface(app.logger)
	defer surface.Unload()

	frame.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
	app.logger.Info("window opened", "width", opts.Width, "height", opts.Height, "fps", opts.FPS)

	for !rl.WindowShouldClose() && !app.quit {
		if ctx.Err() != nil {
			break
		}
		app.Update()
		app.Draw(surface)
	}
	return nil
}

// Update polls raylib for input once per frame.
func (a *App) Update() {
	if rl.IsWindowResized() {
		a.frame.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
	}

	// characters arrive with the OS key repeat applied, so holding a pan key
	// keeps panning
	for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
		a.HandleKey(string(rune(c)))
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.HandleKey("esc")
	}
	if w := rl.GetMouseWheelMove(); w != 0 {
		a.controls.ZoomBy(float64(w))
	}

	m := rl.GetMousePosition()
	a.HandlePointer(r2.Vec{X: float64(m.X), Y: float64(m.Y)},
		rl.IsMouseButtonPressed(rl.MouseButtonLeft),
		rl.IsMouseButtonReleased(rl.MouseButtonLeft))
}

// HandleKey applies one typed key.
func (a *App) HandleKey(key string) {
	switch key {
	case "q":
		a.quit = true
		return
	case "h":
		a.ShowHUD = !a.ShowHUD
		return
	case "esc":
		a.gesture.Cancel()
		a.renderer.SetPointerOverlay(a.gesture.Overlay())
		return
	}
	act, ok := control.Lookup(key)
	if !ok {
		return
	}
	if err := a.controls.Do(act); err != nil {
		a.status = err.Error()
		return
	}
	a.status = ""
}

// HandlePointer feeds the pointer position and left-button edges of one frame
// into the authoring gesture.
func (a *App) HandlePointer(p r2.Vec, pressed, released bool) {
	if p != a.pointer {
		a.gesture.Move(p)
		a.pointer = p
	}
	if pressed {
		a.gesture.MassMultiplier = a.renderer.MassMultiplier()
		if b, ok := a.gesture.Press(p, a.renderer.Camera()); ok {
			if err := a.sim.Add(b); err != nil {
				a.status = err.Error()
				a.logger.Warn("body rejected", "err", err)
			} else {
				a.logger.Info("body added", "mass", b.Mass, "x", b.Position.X, "y", b.Position.Y)
			}
		}
	}
	if released {
		a.gesture.Release(p)
	}
	a.renderer.SetPointerOverlay(a.gesture.Overlay())
}

// Draw replays the latest frame and the HUD.
func (a *App) Draw(s render.Surface) {
	rl.BeginDrawing()
	rl.ClearBackground(rl.White)
	a.frame.Replay(s)
	if a.ShowHUD {
		a.drawHUD()
	}
	rl.EndDrawing()
}

func (a *App) drawHUD() {
	cam := a.renderer.Camera()
	settings := a.renderer.Settings()
	t, steps := a.sim.Time()

	state := "running"
	if a.sim.Paused() {
		state = "paused"
	}
	rl.DrawText(fmt.Sprintf("%s  bodies %d  t %.1f  steps %d", state, a.sim.Len(), t, steps), 16, 16, 16, ColText)
	rl.DrawText(fmt.Sprintf("zoom %.2f  offset %.0f,%.0f  grid %v  lock %v  realistic %v",
		cam.Zoom, cam.Offset.X, cam.Offset.Y, settings.ShowGrid, settings.LockCamera, settings.RealisticMode), 16, 36, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 16, int32(rl.GetScreenHeight())-28, 14, ColTextDim)
	if a.status != "" {
		rl.DrawText(a.status, 16, 56, 14, ColWarn)
	}
}
