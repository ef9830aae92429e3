package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dimtrace/dimtrace/pkg/profiling"
)

// Width limits for inline bucket values. Longer values, and values with
// line breaks, are moved to footnotes.
const (
	maxInlineWithTimings = 25
	maxInlineCountOnly   = 62
)

// Sink receives rendered report text. The default sink writes to
// stderr.
type Sink interface {
	Emit(s string)
	Emitln(s string)
}

type writerSink struct {
	w io.Writer
}

// NewWriterSink wraps an io.Writer as a report sink.
func NewWriterSink(w io.Writer) Sink {
	return &writerSink{w}
}

func (s *writerSink) Emit(text string) {
	fmt.Fprint(s.w, text)
}

func (s *writerSink) Emitln(text string) {
	fmt.Fprintln(s.w, text)
}

// Reporter renders aggregated results as fixed-width tables. The zero
// value reports with timings to stderr using the default lookup.
type Reporter struct {
	// Sink receives all output. Nil means stderr.
	Sink Sink
	// Lookup resolves dimension values. Nil means DefaultLookup.
	Lookup LookupFunc
	// HideTimings drops the three timing column pairs, leaving
	// count and value.
	HideTimings bool
	// SuppressTables disables the default tabular rendering so the
	// hooks can render the aggregation themselves.
	SuppressTables bool
	// Before and After run before the first table and after the
	// last, with the full requested dimension name list.
	Before func(dims []string)
	After  func(dims []string)

	footnotes     []string
	footnoteIndex map[string]int
}

func (r *Reporter) sink() Sink {
	if r.Sink == nil {
		return NewWriterSink(os.Stderr)
	}
	return r.Sink
}

// Write renders the session header, one table per (possibly nested)
// dimension grouping, and any accumulated footnotes.
func (r *Reporter) Write(res *profiling.Result, dims []string) {
	sink := r.sink()
	r.footnotes = nil
	r.footnoteIndex = make(map[string]int)

	profiled := res.Profiled()
	sink.Emitln(fmt.Sprintf("%d ms total time", millis(res.Total)))
	sink.Emitln(fmt.Sprintf("%d ms profiled time (%s%%)",
		millis(profiled), Percent(profiled.Nanoseconds(), res.Total.Nanoseconds())))
	sink.Emitln(fmt.Sprintf("%d profile records", len(res.Records)))

	if r.Before != nil {
		r.Before(dims)
	}
	if !r.SuppressTables {
		for _, table := range Tables(res.Records, dims, r.Lookup) {
			r.writeTable(sink, table, res)
		}
	}
	if r.After != nil {
		r.After(dims)
	}

	for i, text := range r.footnotes {
		sink.Emitln(fmt.Sprintf("[%d] %s", i+1, text))
	}
}

// StopAndWrite stops the session and renders a single report: the
// one-shot companion of Session.Stop plus Bind.
func StopAndWrite(s *profiling.Session, r *Reporter, dims []string) error {
	res, err := s.Stop()
	if err != nil {
		return err
	}
	if r == nil {
		r = &Reporter{}
	}
	r.Write(res, dims)
	return nil
}

// Bind returns a report function closed over an already-correlated
// result, so reports for different dimension combinations can be
// produced without re-running correlation.
func (r *Reporter) Bind(res *profiling.Result) func(dims []string) {
	return func(dims []string) {
		r.Write(res, dims)
	}
}

func (r *Reporter) writeTable(sink Sink, table *Table, res *profiling.Result) {
	sink.Emitln("")
	if table.Label != "" {
		sink.Emitln(fmt.Sprintf("%s, by %s:", table.Label, table.Dim))
	} else {
		sink.Emitln(fmt.Sprintf("by %s:", table.Dim))
	}
	if r.HideTimings {
		sink.Emitln(" count      %")
	} else {
		sink.Emitln("total-ms      %  self-ms      %  desc-ms      %   count      %")
	}

	var totalCount int
	for _, b := range table.Buckets {
		totalCount += b.Count
	}
	totalNs := res.Total.Nanoseconds()

	for _, b := range table.Buckets {
		value := r.inlineValue(b.Key)
		if r.HideTimings {
			sink.Emitln(fmt.Sprintf("%6d %5s%%  %s",
				b.Count, Percent(int64(b.Count), int64(totalCount)), value))
			continue
		}
		sink.Emitln(fmt.Sprintf("%8d %5s%% %8d %5s%% %8d %5s%% %7d %5s%%  %s",
			millis(b.Time()), Percent(b.Time().Nanoseconds(), totalNs),
			millis(b.SelfTime), Percent(b.SelfTime.Nanoseconds(), totalNs),
			millis(b.DescTime), Percent(b.DescTime.Nanoseconds(), totalNs),
			b.Count, Percent(int64(b.Count), int64(totalCount)),
			value))
	}
}

// inlineValue renders a bucket value for a table row, diverting
// oversized or multi-line renderings to a footnote. Repeated values
// reuse their footnote ordinal.
func (r *Reporter) inlineValue(v profiling.Value) string {
	text := v.String()
	limit := maxInlineWithTimings
	if r.HideTimings {
		limit = maxInlineCountOnly
	}
	if len(text) <= limit && !strings.ContainsRune(text, '\n') {
		return text
	}
	key := v.Key()
	ord, ok := r.footnoteIndex[key]
	if !ok {
		r.footnotes = append(r.footnotes, text)
		ord = len(r.footnotes)
		r.footnoteIndex[key] = ord
	}
	return fmt.Sprintf("[%d]", ord)
}

// Percent formats value*100/total with one decimal place. A zero total
// reports "100" so empty sessions render sanely.
func Percent(value, total int64) string {
	if total == 0 {
		return "100"
	}
	return fmt.Sprintf("%.1f", float64(value)*100/float64(total))
}

func millis(d time.Duration) int64 {
	return d.Nanoseconds() / int64(time.Millisecond)
}
