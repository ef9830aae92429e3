package cli

import (
	"github.com/dimtrace/dimtrace/pkg/profiling"
)

// runWorkload is the instrumented demo computation: per round, a cheap
// tokenize phase nested under an evaluate phase, so reports have
// something to break down by event and round.
func runWorkload(s *profiling.Session, rounds int) int {
	total := 0
	for i := 0; i < rounds; i++ {
		round := int64(i)
		total += profiling.Wrap(s, func() profiling.DimensionMap {
			return profiling.DimensionMap{
				"event": profiling.String("round"),
				"round": profiling.Int(round),
			}
		}, func() int {
			n := phase(s, "tokenize", round, 2000)
			n += phase(s, "evaluate", round, 8000)
			return n
		})
	}
	return total
}

func phase(s *profiling.Session, name string, round int64, spins int) int {
	return profiling.Wrap(s, func() profiling.DimensionMap {
		return profiling.DimensionMap{
			"event": profiling.String(name),
			"round": profiling.Int(round),
		}
	}, func() int {
		n := 0
		for i := 0; i < spins; i++ {
			n += i % 7
		}
		return n
	})
}
