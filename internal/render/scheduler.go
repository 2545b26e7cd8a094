package render

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultFPS is the target tick rate of the frame loop.
const DefaultFPS = 60

// TickSource produces tick times at a fixed interval until stopped.
type TickSource interface {
	C() <-chan time.Time
	Stop()
}

// NewTickSource creates a TickSource for the given interval.
type NewTickSource func(interval time.Duration) TickSource

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// WallClock is the default TickSource backed by time.Ticker.
func WallClock(interval time.Duration) TickSource {
	return timeTicker{t: time.NewTicker(interval)}
}

// Scheduler calls tick at a fixed cadence from a single goroutine, so ticks
// never overlap. It starts stopped.
type Scheduler struct {
	interval  time.Duration
	tick      func()
	newSource NewTickSource
	logger    *slog.Logger

	mu   sync.Mutex
	stop chan struct{}

	// held for the whole of a tick, including its stop check
	tickMu sync.Mutex
}

func NewScheduler(interval time.Duration, tick func(), src NewTickSource, logger *slog.Logger) *Scheduler {
	if src == nil {
		src = WallClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Second / DefaultFPS
	}
	return &Scheduler{interval: interval, tick: tick, newSource: src, logger: logger}
}

// Running reports whether a tick source is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

// Start begins ticking. Calling it while running does nothing.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	go s.loop(s.newSource(s.interval), s.stop)
	s.logger.Debug("frame loop started", "interval", s.interval)
}

// Stop halts ticking. A tick already running finishes before Stop returns,
// and none starts afterwards. Calling it while stopped does nothing. It must
// not be called from inside a tick.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stop == nil {
		s.mu.Unlock()
		return
	}
	close(s.stop)
	s.stop = nil
	s.mu.Unlock()

	// wait out a tick in flight
	s.tickMu.Lock()
	s.tickMu.Unlock()
	s.logger.Debug("frame loop stopped")
}

func (s *Scheduler) loop(src TickSource, stop <-chan struct{}) {
	defer src.Stop()
	for {
		select {
		case <-stop:
			return
		case <-src.C():
			if !s.runTick(stop) {
				return
			}
		}
	}
}

// runTick runs one tick unless stop has been closed. The check and the tick
// share tickMu with Stop, so Stop cannot slip in between them.
func (s *Scheduler) runTick(stop <-chan struct{}) bool {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	select {
	case <-stop:
		return false
	default:
	}
	s.tick()
	return true
}
