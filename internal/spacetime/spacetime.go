package spacetime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/spacetime/internal/dynamo"
	"github.com/san-kum/spacetime/internal/integrators"
	"github.com/san-kum/spacetime/internal/physics"
	"github.com/san-kum/spacetime/internal/render"
)

const DefaultDensity = 1.0

var (
	// ErrInvalidBody is returned by Add for bodies without a positive finite mass.
	ErrInvalidBody = errors.New("spacetime: invalid body")

	// ErrNoBody is returned when an index does not name a body.
	ErrNoBody = errors.New("spacetime: no such body")
)

// Body is one point mass. Position and Velocity are in world units.
type Body struct {
	Name     string
	Position r2.Vec
	Velocity r2.Vec
	Mass     float64
	Density  float64
	Focus    bool
	Texture  *render.Texture
	Path     []r2.Vec
}

func (b Body) clone() Body {
	b.Path = append([]r2.Vec(nil), b.Path...)
	return b
}

// Params tunes the simulation.
type Params struct {
	G          float64
	Softening  float64
	Theta      float64
	Integrator string

	// PathEvery records a trail point every n steps; 0 disables trails.
	PathEvery int
	// MaxPath caps the trail length; the oldest points are dropped first.
	MaxPath int
}

func DefaultParams() Params {
	return Params{
		G:          1,
		Softening:  5,
		Theta:      0.5,
		Integrator: "leapfrog",
		PathEvery:  2,
		MaxPath:    200,
	}
}

// Spacetime owns a set of bodies and advances them under gravity. It is safe
// for concurrent use: the simulation goroutine steps it while the renderer
// reads snapshots.
type Spacetime struct {
	params Params
	logger *slog.Logger

	mu      sync.Mutex
	bodies  []Body
	gravity *physics.Gravity
	integ   dynamo.Integrator
	t       float64
	steps   uint64
	paused  bool
}

func New(p Params, logger *slog.Logger) (*Spacetime, error) {
	integ, err := integrators.ByName(p.Integrator)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Spacetime{
		params:  p,
		logger:  logger,
		integ:   integ,
		gravity: physics.NewGravity(nil, p.G, p.Softening, p.Theta),
	}, nil
}

func validBody(b Body) error {
	if b.Mass <= 0 || math.IsNaN(b.Mass) || math.IsInf(b.Mass, 0) {
		return fmt.Errorf("%w: mass %v", ErrInvalidBody, b.Mass)
	}
	if b.Density < 0 || math.IsNaN(b.Density) {
		return fmt.Errorf("%w: density %v", ErrInvalidBody, b.Density)
	}
	if !dynamo.State([]float64{b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y}).IsValid() {
		return fmt.Errorf("%w: non-finite position or velocity", ErrInvalidBody)
	}
	return nil
}

// Add appends a body. A zero density is replaced by DefaultDensity.
func (s *Spacetime) Add(b Body) error {
	if err := validBody(b); err != nil {
		return err
	}
	if b.Density == 0 {
		b.Density = DefaultDensity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies = append(s.bodies, b.clone())
	s.syncMasses()
	s.logger.Debug("body added", "name", b.Name, "mass", b.Mass, "count", len(s.bodies))
	return nil
}

// Reset replaces every body and rewinds the clock.
func (s *Spacetime) Reset(bodies []Body) error {
	next := make([]Body, 0, len(bodies))
	for i, b := range bodies {
		if err := validBody(b); err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
		if b.Density == 0 {
			b.Density = DefaultDensity
		}
		next = append(next, b.clone())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies = next
	s.t, s.steps = 0, 0
	s.syncMasses()
	return nil
}

func (s *Spacetime) syncMasses() {
	masses := make([]float64, len(s.bodies))
	for i, b := range s.bodies {
		masses[i] = b.Mass
	}
	s.gravity.Masses = masses
}

// SetFocus makes body i the only camera focus. A negative index clears it.
func (s *Spacetime) SetFocus(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i >= len(s.bodies) {
		return fmt.Errorf("%w: %d", ErrNoBody, i)
	}
	for j := range s.bodies {
		s.bodies[j].Focus = j == i
	}
	return nil
}

// Snapshot returns a deep copy of every body.
func (s *Spacetime) Snapshot() []Body {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Body, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = b.clone()
	}
	return out
}

// Bodies returns the render view of every body. The slices are copies, so the
// renderer may hold them while the simulation keeps stepping.
func (s *Spacetime) Bodies() []render.Body {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]render.Body, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = render.Body{
			Position:    b.Position,
			Mass:        b.Mass,
			Density:     b.Density,
			Path:        append([]r2.Vec(nil), b.Path...),
			CameraFocus: b.Focus,
			Texture:     b.Texture,
		}
	}
	return out
}

func (s *Spacetime) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bodies)
}

// Time returns the simulated time and the number of steps taken.
func (s *Spacetime) Time() (float64, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t, s.steps
}

func (s *Spacetime) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

func (s *Spacetime) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
}

// TogglePause flips the paused flag and returns the new value.
func (s *Spacetime) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = !s.paused
	return s.paused
}

func (s *Spacetime) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *Spacetime) state() dynamo.State {
	pos := make([]r2.Vec, len(s.bodies))
	vel := make([]r2.Vec, len(s.bodies))
	for i, b := range s.bodies {
		pos[i], vel[i] = b.Position, b.Velocity
	}
	return physics.Pack(pos, vel)
}

// Energy returns the total energy of the current configuration.
func (s *Spacetime) Energy() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gravity.Energy(s.state())
}

// Step advances the simulation by dt, paused or not. A step that would produce
// a non-finite state is discarded.
func (s *Spacetime) Step(dt float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.bodies) > 0 {
		x := s.state()
		if len(x) != s.gravity.StateDim() {
			return fmt.Errorf("step %d: %d state values for %d masses: %w",
				s.steps, len(x), len(s.gravity.Masses), dynamo.ErrDimensionMismatch)
		}
		next := s.integ.Step(s.gravity, x, s.t, dt)
		if !next.IsValid() {
			return fmt.Errorf("step %d at t=%.4f: %w", s.steps, s.t, dynamo.ErrInvalidState)
		}
		for i := range s.bodies {
			s.bodies[i].Position = physics.Position(next, i)
			s.bodies[i].Velocity = physics.Velocity(next, i)
		}
	}
	s.t += dt
	s.steps++

	if s.params.PathEvery > 0 && s.steps%uint64(s.params.PathEvery) == 0 {
		s.recordPaths()
	}
	return nil
}

func (s *Spacetime) recordPaths() {
	for i := range s.bodies {
		b := &s.bodies[i]
		b.Path = append(b.Path, b.Position)
		if limit := s.params.MaxPath; limit > 0 && len(b.Path) > limit {
			b.Path = append(b.Path[:0], b.Path[len(b.Path)-limit:]...)
		}
	}
}

// Run steps the simulation hz times per second until ctx is done. Ticks that
// arrive while paused are skipped.
func (s *Spacetime) Run(ctx context.Context, hz int, dt float64) error {
	if hz <= 0 {
		return fmt.Errorf("spacetime: hz must be positive, got %d", hz)
	}
	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()

	s.logger.Info("simulation started", "hz", hz, "dt", dt, "bodies", s.Len())
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("simulation stopped")
			return ctx.Err()
		case <-ticker.C:
			if s.Paused() {
				continue
			}
			if err := s.Step(dt); err != nil {
				s.logger.Error("simulation halted", "err", err)
				return err
			}
		}
	}
}
