package metrics

import "math"

// EnergyDrift tracks the largest relative departure of the total energy from
// its first observed value.
type EnergyDrift struct {
	initial  float64
	current  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(s Sample) {
	if math.IsNaN(s.Energy) || math.IsInf(s.Energy, 0) {
		return
	}
	if e.samples == 0 {
		e.initial = s.Energy
	}
	e.current = s.Energy
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(s.Energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Initial() float64 { return e.initial }
func (e *EnergyDrift) Current() float64 { return e.current }

func (e *EnergyDrift) Reset() { *e = EnergyDrift{} }
