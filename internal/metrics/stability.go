package metrics

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Bounded is the fraction of samples in which every body stayed within
// radius of the origin.
type Bounded struct {
	radius     float64
	violations int
	samples    int
}

func NewBounded(radius float64) *Bounded {
	return &Bounded{radius: radius}
}

func (b *Bounded) Name() string { return "bounded" }

func (b *Bounded) Observe(s Sample) {
	b.samples++
	for _, p := range s.Positions {
		if r2.Norm(p) > b.radius {
			b.violations++
			break
		}
	}
}

func (b *Bounded) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Bounded) Reset() {
	b.violations = 0
	b.samples = 0
}
