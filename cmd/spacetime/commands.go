package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/spacetime/internal/config"
	"github.com/san-kum/spacetime/internal/export"
	"github.com/san-kum/spacetime/internal/gui"
	"github.com/san-kum/spacetime/internal/integrators"
	"github.com/san-kum/spacetime/internal/metrics"
	"github.com/san-kum/spacetime/internal/raster"
	"github.com/san-kum/spacetime/internal/render"
	"github.com/san-kum/spacetime/internal/spacetime"
	"github.com/san-kum/spacetime/internal/storage"
	"github.com/san-kum/spacetime/internal/tui"
	"github.com/san-kum/spacetime/internal/viz"
)

func runWindow(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := newSession(cfg, float64(cfg.Window.Width), float64(cfg.Window.Height), logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	stop := s.start(ctx)
	defer stop()

	return gui.Run(ctx, s.renderer, s.frame, s.sim, gui.Options{
		Title:   cfg.Window.Title,
		Width:   cfg.Window.Width,
		Height:  cfg.Window.Height,
		FPS:     cfg.Window.FPS,
		Density: cfg.Sim.Density,
		Logger:  logger,
	})
}

func tuiCmd() *cobra.Command {
	var (
		theme    string
		scale    float64
		recordTo string
	)
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "run the sandbox in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := logFile()
			if err != nil {
				return err
			}
			defer f.Close()
			logger, err := newLogger(f)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// the model resizes the frame on the first WindowSizeMsg
			w, h := viz.NewCanvasSurface(80, 22, scale, viz.GetTheme(theme)).Size()
			s, err := newSession(cfg, w, h, logger)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()
			stop := s.start(ctx)
			defer stop()

			model := tui.NewModel(s.renderer, s.frame, s.sim, tui.Options{
				FPS:      cfg.Window.FPS,
				Scale:    scale,
				Theme:    theme,
				Density:  cfg.Sim.Density,
				RecordTo: recordTo,
				Logger:   logger,
			})
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
			_, err = p.Run()
			if err != nil && ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "night", "colour theme")
	cmd.Flags().Float64Var(&scale, "scale", viz.DefaultScale, "world units per Braille dot")
	cmd.Flags().StringVar(&recordTo, "record", "spacetime.gif", "GIF path used by the record key")
	return cmd
}

func snapshotCmd() *cobra.Command {
	var (
		steps    int
		out      string
		pngOut   string
		jsonOut  string
		save     bool
		boundary float64
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "step a scene headlessly and export one frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(os.Stderr)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			w, h := float64(cfg.Window.Width), float64(cfg.Window.Height)
			s, err := newSession(cfg, w, h, logger)
			if err != nil {
				return err
			}

			drift := metrics.NewEnergyDrift()
			bounded := metrics.NewBounded(boundary)
			ms := []metrics.Metric{drift, bounded}
			observe(ms, s.sim)

			for i := 0; i < steps; i++ {
				if err := s.sim.Step(cfg.Sim.Dt); err != nil {
					return err
				}
				observe(ms, s.sim)
			}

			s.renderer.RenderFrame()
			svg := export.NewSVGSurface(w, h)
			s.frame.Replay(svg)

			if out != "" {
				if err := os.WriteFile(out, svg.Bytes(), 0644); err != nil {
					return err
				}
				fmt.Printf("frame written to %s\n", out)
			}
			if pngOut != "" {
				img := raster.New(int(w), int(h))
				s.frame.Replay(img)
				var buf bytes.Buffer
				if err := img.EncodePNG(&buf); err != nil {
					return err
				}
				if err := os.WriteFile(pngOut, buf.Bytes(), 0644); err != nil {
					return err
				}
				fmt.Printf("image written to %s\n", pngOut)
			}

			t, n := s.sim.Time()
			scene := cfg.Scene.Preset
			if len(cfg.Scene.Bodies) > 0 {
				scene = "custom"
			}
			meta := storage.RunMetadata{
				Scene:         scene,
				Steps:         n,
				SimTime:       t,
				Dt:            cfg.Sim.Dt,
				Integrator:    cfg.Sim.Integrator,
				Theta:         cfg.Sim.Theta,
				InitialEnergy: drift.Initial(),
				Energy:        drift.Current(),
				EnergyDrift:   drift.Value(),
			}
			bodies := s.sim.Snapshot()

			if jsonOut != "" {
				if err := storage.ExportJSON(jsonOut, meta, bodies); err != nil {
					return err
				}
				fmt.Printf("bodies written to %s\n", jsonOut)
			}
			if save {
				st := storage.New(dataDir)
				if err := st.Init(); err != nil {
					return err
				}
				id, err := st.Save(meta, bodies, svg.Bytes())
				if err != nil {
					return err
				}
				fmt.Printf("saved run %s\n", id)
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "BODIES\tSTEPS\tTIME\tENERGY\tDRIFT\tBOUNDED")
			fmt.Fprintf(tw, "%d\t%d\t%.2f\t%.6g\t%.2e\t%.1f%%\n",
				len(bodies), n, t, drift.Current(), drift.Value(), bounded.Value()*100)
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1000, "steps to run before the frame")
	cmd.Flags().StringVar(&out, "out", "", "write the frame as SVG")
	cmd.Flags().StringVar(&pngOut, "png", "", "write the frame as PNG")
	cmd.Flags().StringVar(&jsonOut, "json", "", "write the final bodies as JSON")
	cmd.Flags().BoolVar(&save, "save", true, "store the run in the data directory")
	cmd.Flags().Float64Var(&boundary, "boundary", 5000, "radius a body may reach before the scene counts as unbound")
	return cmd
}

func observe(ms []metrics.Metric, st *spacetime.Spacetime) {
	bodies := st.Bodies()
	pos := make([]r2.Vec, len(bodies))
	for i, b := range bodies {
		pos[i] = b.Position
	}
	t, _ := st.Time()
	metrics.ObserveAll(ms, metrics.Sample{T: t, Energy: st.Energy(), Positions: pos})
}

func benchCmd() *cobra.Command {
	var (
		steps int
		plot  bool
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "compare integrators and time frame rendering on a scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(os.Stderr)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			bodies, err := cfg.SceneBodies()
			if err != nil {
				return err
			}

			fmt.Printf("benchmarking %d bodies, %d steps, dt %.3g\n\n", len(bodies), steps, cfg.Sim.Dt)
			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "INTEGRATOR\tMEAN STEP\tP95 STEP\tSTEPS/SEC\tDRIFT")

			var frames metrics.Timing
			for _, name := range integrators.Names() {
				p := cfg.Params()
				p.Integrator = name
				st, err := spacetime.New(p, logger)
				if err != nil {
					return err
				}
				if err := st.Reset(bodies); err != nil {
					return err
				}

				var timing metrics.Timing
				drift := metrics.NewEnergyDrift()
				drift.Observe(metrics.Sample{Energy: st.Energy()})
				for i := 0; i < steps; i++ {
					start := time.Now()
					if err := st.Step(cfg.Sim.Dt); err != nil {
						return fmt.Errorf("%s: %w", name, err)
					}
					timing.Add(time.Since(start))
				}
				drift.Observe(metrics.Sample{Energy: st.Energy()})

				rate := float64(timing.Len()) / timing.Total().Seconds()
				fmt.Fprintf(tw, "%s\t%v\t%v\t%.0f\t%.2e\n",
					name, timing.Mean(), timing.Percentile(95), rate, drift.Value())

				if name == cfg.Sim.Integrator {
					frames = timeFrames(cfg, st, logger)
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Printf("\nframe: mean %v, p95 %v over %d frames\n", frames.Mean(), frames.Percentile(95), frames.Len())
			if plot && frames.Len() > 1 {
				fmt.Println()
				fmt.Println(asciigraph.Plot(frames.Micros(),
					asciigraph.Height(10),
					asciigraph.Width(80),
					asciigraph.Caption("frame time (µs)"),
				))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 2000, "steps per integrator")
	cmd.Flags().BoolVar(&plot, "plot", true, "plot frame times")
	return cmd
}

// timeFrames renders frames of st into a display list, the same work the
// frame loop does on each tick.
func timeFrames(cfg *config.Config, st *spacetime.Spacetime, logger *slog.Logger) metrics.Timing {
	var t metrics.Timing
	settings := cfg.Settings()
	settings.RealisticMode = false
	r, err := render.New(render.NewDisplayList(float64(cfg.Window.Width), float64(cfg.Window.Height)), st,
		cfg.View.MassMultiplier, render.WithSettings(settings), render.WithCamera(cfg.Camera()), render.WithLogger(logger))
	if err != nil {
		logger.Warn("frame timing skipped", "err", err)
		return t
	}
	for i := 0; i < 200; i++ {
		start := time.Now()
		r.RenderFrame()
		t.Add(time.Since(start))
	}
	return t
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSCENE\tTIME\tBODIES\tSTEPS\tINTEG\tDRIFT")
			for _, run := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%.2e\n",
					run.ID,
					run.Scene,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Bodies,
					run.Steps,
					run.Integrator,
					run.EnergyDrift,
				)
			}
			return tw.Flush()
		},
	}
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list preset scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tBODIES\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(tw, "%s\t%d\t%s\n", name, len(p.Bodies), p.Description)
			}
			return tw.Flush()
		},
	}
}

func configCmd() *cobra.Command {
	var write string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if write != "" {
				if err := config.Save(write, cfg); err != nil {
					return err
				}
				fmt.Printf("config written to %s\n", write)
				return nil
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&write, "write", "", "write the configuration to a file instead")
	return cmd
}
