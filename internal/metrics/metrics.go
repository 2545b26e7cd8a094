// Package metrics summarises a run while it steps: energy drift, whether the
// system stayed bound, and how long steps took.
package metrics

import "gonum.org/v1/gonum/spatial/r2"

// Sample is what a metric sees after each step.
type Sample struct {
	T         float64
	Energy    float64
	Positions []r2.Vec
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// ObserveAll feeds one sample to every metric.
func ObserveAll(ms []Metric, s Sample) {
	for _, m := range ms {
		m.Observe(s)
	}
}
