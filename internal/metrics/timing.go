package metrics

import (
	"sort"
	"time"
)

// Timing collects step or frame durations.
type Timing struct {
	durations []time.Duration
}

func (t *Timing) Add(d time.Duration) { t.durations = append(t.durations, d) }

func (t *Timing) Len() int { return len(t.durations) }

func (t *Timing) Total() time.Duration {
	var sum time.Duration
	for _, d := range t.durations {
		sum += d
	}
	return sum
}

func (t *Timing) Mean() time.Duration {
	if len(t.durations) == 0 {
		return 0
	}
	return t.Total() / time.Duration(len(t.durations))
}

// Percentile returns the nearest-rank percentile, p in [0, 100].
func (t *Timing) Percentile(p float64) time.Duration {
	if len(t.durations) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), t.durations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(p/100*float64(len(sorted))+0.5) - 1
	return sorted[max(0, min(idx, len(sorted)-1))]
}

// Micros returns the durations in microseconds, for plotting.
func (t *Timing) Micros() []float64 {
	out := make([]float64, len(t.durations))
	for i, d := range t.durations {
		out[i] = float64(d) / float64(time.Microsecond)
	}
	return out
}
