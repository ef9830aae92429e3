package profiling

import (
	"strings"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// EventID identifies a Start event within a session. 0 is the sentinel
// returned while recording is disabled and never matches a real event.
type EventID uint64

type EventKind uint8

const (
	KindStart EventKind = iota
	KindFinish
)

func (k EventKind) String() string {
	if k == KindStart {
		return "start"
	}
	return "finish"
}

// Event is a single timestamped Start or Finish occurrence. Events are
// immutable once appended to the session buffer.
type Event struct {
	ID   EventID
	Kind EventKind
	Dims DimensionMap
	Time time.Time
}

// DimsFunc supplies event dimensions lazily. The session only invokes it
// while recording is enabled, so disabled instrumentation never pays for
// dimension construction.
type DimsFunc func() DimensionMap

// canonicalKeys returns dimension names in rendering order: the "event"
// dimension first, the rest lexicographic.
func canonicalKeys(dims DimensionMap) []string {
	keys := maps.Keys(dims)
	slices.Sort(keys)
	for i, k := range keys {
		if k == "event" {
			copy(keys[1:i+1], keys[:i])
			keys[0] = "event"
			break
		}
	}
	return keys
}

// FormatDims renders a dimension map in canonical order, for traces and
// diagnostics.
func FormatDims(dims DimensionMap) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range canonicalKeys(dims) {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(dims[k].String())
	}
	sb.WriteByte('}')
	return sb.String()
}
