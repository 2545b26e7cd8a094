package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/spacetime/internal/integrators"
	"github.com/san-kum/spacetime/internal/render"
	"github.com/san-kum/spacetime/internal/spacetime"
)

const (
	DefaultWidth          = 1280
	DefaultHeight         = 800
	DefaultTitle          = "spacetime"
	DefaultFPS            = render.DefaultFPS
	DefaultMassMultiplier = 1.0
	DefaultDt             = 0.5
	DefaultHz             = 120
	DefaultPreset         = "solar"
)

var (
	ErrInvalidConfig = errors.New("config: invalid")
	ErrUnknownPreset = errors.New("config: unknown preset")
)

type Config struct {
	Window   WindowConfig  `yaml:"window"`
	View     ViewConfig    `yaml:"view"`
	Textures TextureConfig `yaml:"textures"`
	Sim      SimConfig     `yaml:"sim"`
	Scene    SceneConfig   `yaml:"scene"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	FPS    int    `yaml:"fps"`
}

type ViewConfig struct {
	Zoom           float64 `yaml:"zoom"`
	PanStep        float64 `yaml:"pan_step"`
	GridSize       float64 `yaml:"grid_size"`
	ShowGrid       bool    `yaml:"show_grid"`
	Realistic      bool    `yaml:"realistic"`
	LockCamera     bool    `yaml:"lock_camera"`
	MassMultiplier float64 `yaml:"mass_multiplier"`
}

// TextureConfig names image files. Bodies maps onto scene bodies by index;
// a scene body's own texture takes precedence.
type TextureConfig struct {
	Background string   `yaml:"background"`
	Bodies     []string `yaml:"bodies"`
}

type SimConfig struct {
	G          float64 `yaml:"g"`
	Softening  float64 `yaml:"softening"`
	Theta      float64 `yaml:"theta"`
	Dt         float64 `yaml:"dt"`
	Hz         int     `yaml:"hz"`
	Integrator string  `yaml:"integrator"`
	PathEvery  int     `yaml:"path_every"`
	MaxPath    int     `yaml:"max_path"`
	Density    float64 `yaml:"density"`
}

// SceneConfig selects the initial bodies. Explicit bodies win over a preset.
type SceneConfig struct {
	Preset string       `yaml:"preset,omitempty"`
	Bodies []BodyConfig `yaml:"bodies,omitempty"`
}

type BodyConfig struct {
	Name    string  `yaml:"name,omitempty"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	VX      float64 `yaml:"vx"`
	VY      float64 `yaml:"vy"`
	Mass    float64 `yaml:"mass"`
	Density float64 `yaml:"density,omitempty"`
	Focus   bool    `yaml:"focus,omitempty"`
	Texture string  `yaml:"texture,omitempty"`
}

func DefaultConfig() *Config {
	p := spacetime.DefaultParams()
	return &Config{
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  DefaultTitle,
			FPS:    DefaultFPS,
		},
		View: ViewConfig{
			Zoom:           1,
			PanStep:        render.DefaultPanStep,
			GridSize:       render.DefaultGridSize,
			ShowGrid:       true,
			LockCamera:     true,
			MassMultiplier: DefaultMassMultiplier,
		},
		Sim: SimConfig{
			G:          p.G,
			Softening:  p.Softening,
			Theta:      p.Theta,
			Dt:         DefaultDt,
			Hz:         DefaultHz,
			Integrator: p.Integrator,
			PathEvery:  p.PathEvery,
			MaxPath:    p.MaxPath,
			Density:    spacetime.DefaultDensity,
		},
		Scene: SceneConfig{Preset: DefaultPreset},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	check(c.Window.FPS > 0, "window.fps must be positive, got %d", c.Window.FPS)
	check(c.View.Zoom > 0, "view.zoom must be positive, got %v", c.View.Zoom)
	check(c.View.GridSize > 0, "view.grid_size must be positive, got %v", c.View.GridSize)
	check(c.View.MassMultiplier > 0, "view.mass_multiplier must be positive, got %v", c.View.MassMultiplier)
	check(!c.View.Realistic || c.Textures.Background != "", "view.realistic needs textures.background")
	check(c.Sim.Dt > 0, "sim.dt must be positive, got %v", c.Sim.Dt)
	check(c.Sim.Hz > 0, "sim.hz must be positive, got %d", c.Sim.Hz)
	check(c.Sim.Theta >= 0, "sim.theta must not be negative, got %v", c.Sim.Theta)
	check(c.Sim.Softening >= 0, "sim.softening must not be negative, got %v", c.Sim.Softening)
	check(c.Sim.Density > 0, "sim.density must be positive, got %v", c.Sim.Density)
	check(c.Sim.PathEvery >= 0 && c.Sim.MaxPath >= 0, "sim.path_every and sim.max_path must not be negative")
	check(slices.Contains(integrators.Names(), c.Sim.Integrator), "sim.integrator %q is not one of %v", c.Sim.Integrator, integrators.Names())

	if len(c.Scene.Bodies) == 0 && c.Scene.Preset != "" {
		check(GetPreset(c.Scene.Preset) != nil, "scene.preset %q: %v", c.Scene.Preset, ErrUnknownPreset)
	}
	for i, b := range c.Scene.Bodies {
		check(b.Mass > 0, "scene.bodies[%d].mass must be positive, got %v", i, b.Mass)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Params converts the sim section for spacetime.New.
func (c *Config) Params() spacetime.Params {
	return spacetime.Params{
		G:          c.Sim.G,
		Softening:  c.Sim.Softening,
		Theta:      c.Sim.Theta,
		Integrator: c.Sim.Integrator,
		PathEvery:  c.Sim.PathEvery,
		MaxPath:    c.Sim.MaxPath,
	}
}

// Settings converts the view toggles for the renderer.
func (c *Config) Settings() render.Settings {
	return render.Settings{
		ShowGrid:      c.View.ShowGrid,
		RealisticMode: c.View.Realistic,
		LockCamera:    c.View.LockCamera,
	}
}

// Camera returns the initial camera with the world origin in the middle of
// the window.
func (c *Config) Camera() render.Camera {
	cam := render.NewCamera()
	cam.Zoom = c.View.Zoom
	if c.View.PanStep > 0 {
		cam.PanStep = c.View.PanStep
	}
	cam.CenterOn(r2.Vec{}, float64(c.Window.Width), float64(c.Window.Height))
	return cam
}

// SceneBodies resolves the scene into bodies, loading any textures it names.
func (c *Config) SceneBodies() ([]spacetime.Body, error) {
	src := c.Scene.Bodies
	if len(src) == 0 && c.Scene.Preset != "" {
		src = GetPreset(c.Scene.Preset)
		if src == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, c.Scene.Preset)
		}
	}

	bodies := make([]spacetime.Body, 0, len(src))
	for i, bc := range src {
		b := spacetime.Body{
			Name:     bc.Name,
			Position: r2.Vec{X: bc.X, Y: bc.Y},
			Velocity: r2.Vec{X: bc.VX, Y: bc.VY},
			Mass:     bc.Mass,
			Density:  bc.Density,
			Focus:    bc.Focus,
		}
		if b.Density == 0 {
			b.Density = c.Sim.Density
		}

		texPath := bc.Texture
		if texPath == "" && i < len(c.Textures.Bodies) {
			texPath = c.Textures.Bodies[i]
		}
		if texPath != "" {
			tex, err := render.LoadTexture(texPath)
			if err != nil {
				return nil, fmt.Errorf("body %d: %w", i, err)
			}
			b.Texture = tex
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

// Background loads the realistic-mode background, or returns nil if none is
// configured.
func (c *Config) Background() (*render.Texture, error) {
	if c.Textures.Background == "" {
		return nil, nil
	}
	return render.LoadTexture(c.Textures.Background)
}
