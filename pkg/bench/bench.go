// Package bench is a small statistical timing harness. It measures a
// computation with the plain wall clock and is independent of the event
// and record pipeline.
package bench

import (
	"fmt"
	"math"
	"sort"
	"time"
)

type Stats struct {
	// N is the number of samples kept after discarding extremes.
	N      int
	Mean   time.Duration
	StdDev time.Duration
	Min    time.Duration
	Max    time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("n=%d mean=%s stddev=%s min=%s max=%s",
		s.N, s.Mean, s.StdDev, s.Min, s.Max)
}

// Run times f over trials runs after warmup unmeasured runs, then drops
// the discard lowest and discard highest samples before computing
// statistics.
func Run(trials, warmup, discard int, f func()) (Stats, error) {
	if trials <= 0 {
		return Stats{}, fmt.Errorf("bench: trials must be positive, got %d", trials)
	}
	if kept := trials - 2*discard; kept <= 0 {
		return Stats{}, fmt.Errorf("bench: discarding %d extremes leaves no samples out of %d trials", discard, trials)
	}

	for i := 0; i < warmup; i++ {
		f()
	}

	samples := make([]time.Duration, trials)
	for i := range samples {
		t0 := time.Now()
		f()
		samples[i] = time.Since(t0)
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	kept := samples[discard : trials-discard]

	var sum time.Duration
	for _, d := range kept {
		sum += d
	}
	mean := sum / time.Duration(len(kept))

	var variance float64
	for _, d := range kept {
		diff := float64(d - mean)
		variance += diff * diff
	}
	variance /= float64(len(kept))

	return Stats{
		N:      len(kept),
		Mean:   mean,
		StdDev: time.Duration(math.Sqrt(variance)),
		Min:    kept[0],
		Max:    kept[len(kept)-1],
	}, nil
}
