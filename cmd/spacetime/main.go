package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/spacetime/internal/config"
	"github.com/san-kum/spacetime/internal/render"
	"github.com/san-kum/spacetime/internal/spacetime"
)

var (
	configFile string
	preset     string
	integrator string
	dataDir    string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "spacetime",
		Short:         "interactive 2D gravity sandbox",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runWindow,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a preset scene")
	pf.StringVar(&integrator, "integrator", "", "override the integrator")
	pf.StringVar(&dataDir, "data", ".spacetime", "data directory")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		tuiCmd(),
		snapshotCmd(),
		benchCmd(),
		listCmd(),
		presetsCmd(),
		configCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", logLevel, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// loadConfig reads --config (or the defaults) and applies the flag overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	}
	if preset != "" {
		cfg.Scene.Preset = preset
		cfg.Scene.Bodies = nil
	}
	if integrator != "" {
		cfg.Sim.Integrator = integrator
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is a simulation with a renderer drawing it into a buffered frame.
type session struct {
	cfg      *config.Config
	sim      *spacetime.Spacetime
	frame    *render.Buffered
	renderer *render.Renderer
	logger   *slog.Logger
}

func newSession(cfg *config.Config, w, h float64, logger *slog.Logger) (*session, error) {
	st, err := spacetime.New(cfg.Params(), logger)
	if err != nil {
		return nil, err
	}
	bodies, err := cfg.SceneBodies()
	if err != nil {
		return nil, err
	}
	if err := st.Reset(bodies); err != nil {
		return nil, err
	}
	bg, err := cfg.Background()
	if err != nil {
		return nil, err
	}

	cam := cfg.Camera()
	cam.CenterOn(r2.Vec{}, w, h)

	opts := []render.Option{
		render.WithLogger(logger),
		render.WithFPS(cfg.Window.FPS),
		render.WithSettings(cfg.Settings()),
		render.WithCamera(cam),
		render.WithGridSize(cfg.View.GridSize),
	}
	if bg != nil {
		opts = append(opts, render.WithBackground(bg))
	}

	frame := render.NewBuffered(w, h)
	r, err := render.New(frame, st, cfg.View.MassMultiplier, opts...)
	if err != nil {
		return nil, err
	}
	logger.Debug("session ready", "bodies", st.Len(), "width", w, "height", h)
	return &session{cfg: cfg, sim: st, frame: frame, renderer: r, logger: logger}, nil
}

// start runs the simulation and the frame loop until ctx is done. The
// returned stop function waits for the simulation goroutine.
func (s *session) start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := s.sim.Run(ctx, s.cfg.Sim.Hz, s.cfg.Sim.Dt)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("simulation stopped", "err", err)
		}
	}()
	s.renderer.StartLoop()
	return func() {
		s.renderer.StopLoop()
		cancel()
		<-done
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// logFile opens the log file used while a full-screen UI owns the terminal.
func logFile() (*os.File, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dataDir, "spacetime.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
