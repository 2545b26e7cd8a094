package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/spacetime/internal/spacetime"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Window.FPS != 60 {
		t.Errorf("expected 60 fps, got %d", cfg.Window.FPS)
	}
	if !cfg.View.ShowGrid || !cfg.View.LockCamera || cfg.View.Realistic {
		t.Errorf("unexpected default toggles %+v", cfg.View)
	}
	if cfg.Sim.Dt <= 0 {
		t.Error("dt should be positive")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spacetime.yaml")
	cfg := DefaultConfig()
	cfg.View.Zoom = 2.5
	cfg.Scene = SceneConfig{Bodies: []BodyConfig{{Name: "x", X: 1, Mass: 3}}}

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.View.Zoom != 2.5 || len(got.Scene.Bodies) != 1 || got.Scene.Bodies[0].Mass != 3 {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := writeFile(path, "view:\n  zoom: 3\n"); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.View.Zoom != 3 || cfg.Sim.Integrator != "leapfrog" || cfg.Window.Width != DefaultWidth {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(path, "window: [unclosed")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero fps", func(c *Config) { c.Window.FPS = 0 }, "window.fps"},
		{"negative zoom", func(c *Config) { c.View.Zoom = -1 }, "view.zoom"},
		{"realistic without background", func(c *Config) { c.View.Realistic = true }, "textures.background"},
		{"bad integrator", func(c *Config) { c.Sim.Integrator = "rk45" }, "sim.integrator"},
		{"unknown preset", func(c *Config) { c.Scene.Preset = "galaxy" }, "scene.preset"},
		{"massless body", func(c *Config) { c.Scene.Bodies = []BodyConfig{{}} }, "scene.bodies[0].mass"},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error %q should mention %q", tt.name, err, tt.want)
		}
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sim.Dt = 0
	cfg.Sim.Hz = 0
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "sim.dt") || !strings.Contains(err.Error(), "sim.hz") {
		t.Errorf("expected both problems reported, got %v", err)
	}
}

func TestCameraCentresOrigin(t *testing.T) {
	cfg := DefaultConfig()
	cam := cfg.Camera()
	s := cam.WorldToScreen(r2.Vec{})
	if s.X != float64(cfg.Window.Width)/2 || s.Y != float64(cfg.Window.Height)/2 {
		t.Errorf("world origin should be mid-window, got %v", s)
	}
}

func TestSceneBodiesFromPreset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scene.Preset = "binary"
	bodies, err := cfg.SceneBodies()
	if err != nil {
		t.Fatal(err)
	}
	if len(bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(bodies))
	}
	if bodies[0].Density != cfg.Sim.Density {
		t.Errorf("expected sim density to fill in, got %v", bodies[0].Density)
	}

	cfg.Scene.Bodies = []BodyConfig{{Mass: 1, Density: 4}}
	bodies, _ = cfg.SceneBodies()
	if len(bodies) != 1 || bodies[0].Density != 4 {
		t.Errorf("explicit bodies should win over the preset, got %+v", bodies)
	}
}

func TestSceneBodiesMissingTexture(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scene.Preset = "binary"
	cfg.Textures.Bodies = []string{filepath.Join(t.TempDir(), "nope.png")}
	if _, err := cfg.SceneBodies(); err == nil {
		t.Error("expected error for missing body texture")
	}
}

func TestGetPreset(t *testing.T) {
	bodies := GetPreset("figure8")
	if len(bodies) != 3 {
		t.Fatalf("expected 3 bodies, got %d", len(bodies))
	}
	bodies[0].Mass = -1
	if GetPreset("figure8")[0].Mass <= 0 {
		t.Error("GetPreset should return a copy")
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	want := []string{"binary", "cluster", "figure8", "solar"}
	got := ListPresets()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestPresetsHaveZeroMomentum(t *testing.T) {
	for _, name := range []string{"binary", "figure8"} {
		var px, py float64
		for _, b := range GetPreset(name) {
			px += b.Mass * b.VX
			py += b.Mass * b.VY
		}
		if math.Abs(px) > 1e-6 || math.Abs(py) > 1e-6 {
			t.Errorf("%s: net momentum (%v, %v)", name, px, py)
		}
	}
}

func TestPresetsLoadIntoSpacetime(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := DefaultConfig()
		cfg.Scene.Preset = name
		bodies, err := cfg.SceneBodies()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		st, err := spacetime.New(cfg.Params(), nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := st.Reset(bodies); err != nil {
			t.Errorf("%s: %v", name, err)
		}
		for i := 0; i < 10; i++ {
			if err := st.Step(cfg.Sim.Dt); err != nil {
				t.Errorf("%s: step %d: %v", name, i, err)
				break
			}
		}
	}
}

func writeFile(path, data string) error {
	return os.WriteFile(path, []byte(data), 0644)
}
