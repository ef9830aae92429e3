package profiling

import (
	"errors"
	"fmt"
	"time"
)

// Correlation failures are programmer errors in the instrumentation,
// not user input errors. They abort Stop with a diagnostic naming the
// offending event.
var (
	ErrUnmatchedFinish     = errors.New("finish event with no open start")
	ErrMismatchedNesting   = errors.New("finish event does not match most recent open start")
	ErrUnterminatedSession = errors.New("start event left open at end of session")
)

// Record is the correlated result of one matched Start/Finish pair.
// Dims is the union of both events' dimensions with the Start event
// winning on key conflict. Records are never mutated after correlation.
type Record struct {
	// SelfTime is the pair's elapsed time minus time spent in
	// descendants and minus the amortized recording overhead,
	// clamped at zero.
	SelfTime time.Duration
	Dims     DimensionMap
	// Direct holds records closed immediately inside this pair.
	Direct []*Record
	// All holds every record closed inside this pair, transitively.
	All []*Record
}

// Result carries one session's correlated records plus the session's
// wall-clock duration. Records is flat: it contains every record, not
// only the roots.
type Result struct {
	Records []*Record
	Total   time.Duration
}

// Profiled is the total self time across all records.
func (r *Result) Profiled() time.Duration {
	var sum time.Duration
	for _, rec := range r.Records {
		sum += rec.SelfTime
	}
	return sum
}

// Roots returns the records with no enclosing pair, in correlation
// order.
func (r *Result) Roots() []*Record {
	nested := make(map[*Record]struct{})
	for _, rec := range r.Records {
		for _, child := range rec.Direct {
			nested[child] = struct{}{}
		}
	}
	roots := make([]*Record, 0, len(r.Records))
	for _, rec := range r.Records {
		if _, ok := nested[rec]; !ok {
			roots = append(roots, rec)
		}
	}
	return roots
}

// frame is one pending open plus the records accumulated under it. The
// base frame (open == nil) represents the session root.
type frame struct {
	open   *Event
	direct []*Record
	all    []*Record
}

// correlate matches Start/Finish pairs from the chronological event
// buffer into records. Nesting must be parenthesis-like: every Finish
// must name the most recently opened Start.
func correlate(events []Event, overhead time.Duration) ([]*Record, error) {
	// One overhead share, amortized equally across all records so
	// recording cost does not bias any one self time.
	var share time.Duration
	if n := len(events) / 2; n > 0 {
		share = overhead / time.Duration(n) / 2
	}

	frames := []*frame{{}}
	for i := range events {
		ev := &events[i]
		switch ev.Kind {
		case KindStart:
			frames = append(frames, &frame{open: ev})

		case KindFinish:
			if len(frames) == 1 {
				return nil, fmt.Errorf("%w: %s", ErrUnmatchedFinish, formatEvent(ev))
			}
			top := frames[len(frames)-1]
			frames = frames[:len(frames)-1]
			if top.open.ID != ev.ID {
				return nil, fmt.Errorf("%w: %s (open is %s)",
					ErrMismatchedNesting, formatEvent(ev), formatEvent(top.open))
			}

			var descTime time.Duration
			for _, d := range top.all {
				descTime += d.SelfTime
			}
			self := ev.Time.Sub(top.open.Time) - descTime - share
			if self < 0 {
				self = 0
			}
			rec := &Record{
				SelfTime: self,
				Dims:     mergeDims(top.open.Dims, ev.Dims),
				Direct:   top.direct,
				All:      top.all,
			}

			parent := frames[len(frames)-1]
			parent.direct = append(parent.direct, rec)
			parent.all = append(parent.all, top.all...)
			parent.all = append(parent.all, rec)
		}
	}

	if len(frames) > 1 {
		return nil, fmt.Errorf("%w: %s", ErrUnterminatedSession, formatEvent(frames[len(frames)-1].open))
	}
	return frames[0].all, nil
}

func formatEvent(ev *Event) string {
	return fmt.Sprintf("%s #%d %s", ev.Kind, ev.ID, FormatDims(ev.Dims))
}
