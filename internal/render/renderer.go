package render

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// ErrMissingTexture is returned when realistic mode is enabled without a
// background texture.
var ErrMissingTexture = errors.New("render: realistic mode needs a background texture")

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for loop events and recovered panics.
func WithLogger(l *slog.Logger) Option { return func(r *Renderer) { r.logger = l } }

// WithFPS sets the target tick rate.
func WithFPS(fps int) Option {
	return func(r *Renderer) {
		if fps > 0 {
			r.interval = time.Second / time.Duration(fps)
		}
	}
}

// WithTickSource replaces the wall-clock ticker, mostly for tests.
func WithTickSource(src NewTickSource) Option { return func(r *Renderer) { r.tickSource = src } }

// WithSettings sets the initial toggles.
func WithSettings(s Settings) Option { return func(r *Renderer) { r.settings = s } }

// WithCamera sets the initial camera.
func WithCamera(c Camera) Option { return func(r *Renderer) { r.camera = c } }

// WithGridSize sets the grid cell size in world units.
func WithGridSize(cell float64) Option { return func(r *Renderer) { r.gridSize = cell } }

// WithBackground sets the tiled background used in realistic mode.
func WithBackground(t *Texture) Option { return func(r *Renderer) { r.background = t } }

// Renderer draws a Spacetime onto a Surface, once per tick. It owns the view
// state (camera, toggles, pointer overlay, mass multiplier); all of it is
// guarded by one mutex so input handlers on other goroutines can change it
// between ticks.
type Renderer struct {
	surface    Surface
	spacetime  Spacetime
	logger     *slog.Logger
	interval   time.Duration
	tickSource NewTickSource
	scheduler  *Scheduler

	mu             sync.Mutex
	camera         Camera
	settings       Settings
	overlay        PointerOverlay
	massMultiplier float64
	gridSize       float64
	background     *Texture
	ticks          uint64
}

// New wires a renderer to its drawing surface and simulation accessor. The
// loop is not started.
func New(surface Surface, st Spacetime, massMultiplier float64, opts ...Option) (*Renderer, error) {
	if surface == nil {
		return nil, fmt.Errorf("render: nil surface")
	}
	if st == nil {
		return nil, fmt.Errorf("render: nil spacetime accessor")
	}
	r := &Renderer{
		surface:        surface,
		spacetime:      st,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		interval:       time.Second / DefaultFPS,
		camera:         NewCamera(),
		settings:       DefaultSettings(),
		massMultiplier: massMultiplier,
		gridSize:       DefaultGridSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.settings.RealisticMode && r.background == nil {
		return nil, ErrMissingTexture
	}
	r.scheduler = NewScheduler(r.interval, r.RenderFrame, r.tickSource, r.logger)
	return r, nil
}

func (r *Renderer) StartLoop()    { r.scheduler.Start() }
func (r *Renderer) StopLoop()     { r.scheduler.Stop() }
func (r *Renderer) Running() bool { return r.scheduler.Running() }

func (r *Renderer) ToggleGrid() {
	r.mu.Lock()
	r.settings.ShowGrid = !r.settings.ShowGrid
	r.mu.Unlock()
}

func (r *Renderer) ToggleLockCamera() {
	r.mu.Lock()
	r.settings.LockCamera = !r.settings.LockCamera
	r.mu.Unlock()
}

// ToggleRealisticMode flips realistic mode. Turning it on without a background
// texture fails and leaves the mode off.
func (r *Renderer) ToggleRealisticMode() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.settings.RealisticMode && r.background == nil {
		return ErrMissingTexture
	}
	r.settings.RealisticMode = !r.settings.RealisticMode
	return nil
}

// SetBackground replaces the realistic-mode background texture.
func (r *Renderer) SetBackground(t *Texture) {
	r.mu.Lock()
	r.background = t
	if t == nil {
		r.settings.RealisticMode = false
	}
	r.mu.Unlock()
}

func (r *Renderer) UpdateMassMultiplier(v float64) {
	r.mu.Lock()
	r.massMultiplier = v
	r.mu.Unlock()
}

func (r *Renderer) MassMultiplier() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.massMultiplier
}

func (r *Renderer) SetZoom(z float64) {
	r.mu.Lock()
	r.camera.SetZoom(z)
	r.mu.Unlock()
}

// Pan moves the camera one step in response to a directional signal.
func (r *Renderer) Pan(d Direction) {
	r.mu.Lock()
	r.camera.Pan(d)
	r.mu.Unlock()
}

func (r *Renderer) SetPointerOverlay(o PointerOverlay) {
	r.mu.Lock()
	r.overlay = o
	r.mu.Unlock()
}

// Camera returns a snapshot of the camera, e.g. to convert a click with
// ScreenToWorld.
func (r *Renderer) Camera() Camera {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.camera
}

func (r *Renderer) Settings() Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings
}

// Ticks returns how many ticks have completed.
func (r *Renderer) Ticks() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks
}

// RenderFrame runs the frame pipeline once. The scheduler calls it on every
// tick; one-shot exports and tests call it directly.
func (r *Renderer) RenderFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() {
		if v := recover(); v != nil {
			r.logger.Error("frame tick failed", "tick", r.ticks, "panic", v)
		}
		r.ticks++
		if p, ok := r.surface.(Presenter); ok {
			p.Present()
		}
	}()

	bodies := r.spacetime.Bodies()
	s := r.surface
	s.Clear()
	w, h := s.Size()

	if r.settings.LockCamera {
		r.centerCamera(bodies, w, h)
	}

	if r.settings.RealisticMode && r.background != nil {
		s.FillPattern(r.background, Rect{W: w, H: h})
	}

	if r.settings.ShowGrid {
		DrawGrid(s, r.camera, r.gridSize)
	}

	for i := len(bodies) - 1; i >= 0; i-- {
		r.drawBody(i, bodies[i])
	}

	DrawOverlay(s, r.overlay)
}

// centerCamera scans bodies back to front; the focused body scanned last
// decides the offset.
func (r *Renderer) centerCamera(bodies []Body, w, h float64) {
	for i := len(bodies) - 1; i >= 0; i-- {
		if bodies[i].CameraFocus {
			r.camera.CenterOn(bodies[i].Position, w, h)
		}
	}
}

func (r *Renderer) drawBody(i int, b Body) {
	defer func() {
		if v := recover(); v != nil {
			r.logger.Error("body draw failed", "tick", r.ticks, "body", i, "panic", v)
		}
	}()
	DrawTrail(r.surface, r.camera, b.Path)
	DrawBody(r.surface, r.camera, r.settings, b, r.massMultiplier)
}
