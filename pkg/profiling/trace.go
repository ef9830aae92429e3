package profiling

import (
	"fmt"
	"io"
)

// Trace replays the recorded events in order, writing one line per
// event matching pred. A nil pred matches everything. Timestamps are
// printed relative to the session start.
func (s *Session) Trace(w io.Writer, pred func(Event) bool) error {
	s.mu.Lock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	begin := s.begin
	s.mu.Unlock()

	for _, ev := range events {
		if pred != nil && !pred(ev) {
			continue
		}
		_, err := fmt.Fprintf(w, "%-6s #%-4d +%-12s %s\n",
			ev.Kind, ev.ID, ev.Time.Sub(begin), FormatDims(ev.Dims))
		if err != nil {
			return err
		}
	}
	return nil
}
