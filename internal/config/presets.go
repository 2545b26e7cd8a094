package config

import (
	"fmt"
	"math"
	"sort"
)

type Preset struct {
	Description string
	Bodies      []BodyConfig
}

var Presets = map[string]Preset{
	"binary": {
		Description: "two equal stars on a circular orbit",
		Bodies:      binaryScene(),
	},
	"solar": {
		Description: "a heavy star with three planets",
		Bodies:      solarScene(),
	},
	"cluster": {
		Description: "a rotating disc of forty light bodies",
		Bodies:      clusterScene(40),
	},
	"figure8": {
		Description: "three equal masses chasing each other on a figure eight",
		Bodies:      figure8Scene(),
	},
}

// circular returns the speed of a circular orbit of radius r around mass m
// with G = 1.
func circular(m, r float64) float64 { return math.Sqrt(m / r) }

func binaryScene() []BodyConfig {
	// each star orbits the barycentre at r=100 under the other's pull at d=200
	v := math.Sqrt(1000.0 / 400.0)
	return []BodyConfig{
		{Name: "alpha", X: -100, VY: -v, Mass: 1000},
		{Name: "beta", X: 100, VY: v, Mass: 1000},
	}
}

func solarScene() []BodyConfig {
	const sun = 20000.0
	bodies := []BodyConfig{{Name: "sun", Mass: sun, Focus: true}}
	for i, p := range []struct {
		name string
		r, m float64
	}{
		{"inner", 150, 10},
		{"middle", 260, 40},
		{"outer", 420, 120},
	} {
		angle := float64(i) * 2.1
		v := circular(sun, p.r)
		bodies = append(bodies, BodyConfig{
			Name: p.name,
			X:    p.r * math.Cos(angle),
			Y:    p.r * math.Sin(angle),
			VX:   -v * math.Sin(angle),
			VY:   v * math.Cos(angle),
			Mass: p.m,
		})
	}
	return bodies
}

func clusterScene(n int) []BodyConfig {
	golden := math.Pi * (3 - math.Sqrt(5))
	bodies := make([]BodyConfig, n)
	for i := range bodies {
		r := 30 + 12*math.Sqrt(float64(i)*10)
		angle := float64(i) * golden
		// slow rigid rotation keeps the disc from collapsing immediately
		v := 0.004 * r
		bodies[i] = BodyConfig{
			Name: fmt.Sprintf("c%02d", i),
			X:    r * math.Cos(angle),
			Y:    r * math.Sin(angle),
			VX:   -v * math.Sin(angle),
			VY:   v * math.Cos(angle),
			Mass: 50 + float64(i%5)*25,
		}
	}
	return bodies
}

func figure8Scene() []BodyConfig {
	// Chenciner-Montgomery initial conditions scaled to length L and mass M.
	const L, M = 150.0, 1000.0
	vs := math.Sqrt(M / L)
	x1, y1 := 0.97000436, -0.24308753
	vx3, vy3 := -0.93240737, -0.86473146
	return []BodyConfig{
		{Name: "a", X: x1 * L, Y: y1 * L, VX: -vx3 / 2 * vs, VY: -vy3 / 2 * vs, Mass: M},
		{Name: "b", X: -x1 * L, Y: -y1 * L, VX: -vx3 / 2 * vs, VY: -vy3 / 2 * vs, Mass: M},
		{Name: "c", VX: vx3 * vs, VY: vy3 * vs, Mass: M},
	}
}

// GetPreset returns a copy of the preset's bodies, or nil if there is none.
func GetPreset(name string) []BodyConfig {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return append([]BodyConfig(nil), p.Bodies...)
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
