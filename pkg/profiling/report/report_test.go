package report_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dimtrace/dimtrace/pkg/profiling"
	"github.com/dimtrace/dimtrace/pkg/profiling/report"
)

func TestPercent(t *testing.T) {
	for _, test := range []struct {
		value, total int64
		expected     string
	}{
		{0, 0, "100"},
		{42, 0, "100"},
		{50, 200, "25.0"},
		{200, 200, "100.0"},
		{1, 3, "33.3"},
	} {
		require.Equal(t, test.expected, report.Percent(test.value, test.total),
			"percent(%d, %d)", test.value, test.total)
	}
}

func nestedPairResult() *profiling.Result {
	recB := record(2*time.Millisecond, eventDims("B"))
	recA := record(3*time.Millisecond, eventDims("A"), recB)
	return &profiling.Result{
		Records: []*profiling.Record{recB, recA},
		Total:   10 * time.Millisecond,
	}
}

func TestWriteHeaderAndTable(t *testing.T) {
	var buf bytes.Buffer
	r := &report.Reporter{Sink: report.NewWriterSink(&buf)}
	r.Write(nestedPairResult(), []string{"event"})

	out := buf.String()
	lines := strings.Split(out, "\n")
	require.Equal(t, "10 ms total time", lines[0])
	require.Equal(t, "5 ms profiled time (50.0%)", lines[1])
	require.Equal(t, "2 profile records", lines[2])

	require.Contains(t, out, "by event:")
	// A: 5ms aggregate of a 10ms session; one of two records.
	require.Contains(t, out, "       5  50.0%        3  30.0%        2  20.0%       1  50.0%  A")
	require.Contains(t, out, "       2  20.0%        2  20.0%        0   0.0%       1  50.0%  B")
}

func TestWriteFootnoteReuse(t *testing.T) {
	long := strings.Repeat("x", 40)
	rec := record(1*time.Millisecond, profiling.DimensionMap{
		"a": profiling.String(long),
		"b": profiling.String(long),
	})
	res := &profiling.Result{Records: []*profiling.Record{rec}, Total: time.Millisecond}

	var buf bytes.Buffer
	r := &report.Reporter{Sink: report.NewWriterSink(&buf)}
	r.Write(res, []string{"a", "b"})

	out := buf.String()
	// The same oversized value appears in both tables but gets a
	// single footnote ordinal.
	require.Equal(t, 2, strings.Count(out, "[1]\n"))
	require.Equal(t, 1, strings.Count(out, "[1] "+long))
	require.NotContains(t, out, "[2]")
}

func TestWriteFootnotesMultilineValue(t *testing.T) {
	rec := record(1*time.Millisecond, profiling.DimensionMap{
		"a": profiling.String("two\nlines"),
	})
	res := &profiling.Result{Records: []*profiling.Record{rec}, Total: time.Millisecond}

	var buf bytes.Buffer
	r := &report.Reporter{Sink: report.NewWriterSink(&buf)}
	r.Write(res, []string{"a"})

	require.Contains(t, buf.String(), "[1]\n")
	require.Contains(t, buf.String(), "[1] two\nlines")
}

func TestHideTimingsWidensInlineLimit(t *testing.T) {
	// 40 columns: footnoted with the timing columns, inline without.
	value := strings.Repeat("v", 40)
	rec := record(1*time.Millisecond, profiling.DimensionMap{
		"a": profiling.String(value),
	})
	res := &profiling.Result{Records: []*profiling.Record{rec}, Total: time.Millisecond}

	var withTimings bytes.Buffer
	r := &report.Reporter{Sink: report.NewWriterSink(&withTimings)}
	r.Write(res, []string{"a"})
	require.Contains(t, withTimings.String(), "[1]")

	var countOnly bytes.Buffer
	r = &report.Reporter{Sink: report.NewWriterSink(&countOnly), HideTimings: true}
	r.Write(res, []string{"a"})
	require.NotContains(t, countOnly.String(), "[1]")
	require.Contains(t, countOnly.String(), value)
	require.NotContains(t, countOnly.String(), "total-ms")
}

func TestSuppressTablesAndHooks(t *testing.T) {
	var buf bytes.Buffer
	var before, after []string
	r := &report.Reporter{
		Sink:           report.NewWriterSink(&buf),
		SuppressTables: true,
		Before:         func(dims []string) { before = dims },
		After:          func(dims []string) { after = dims },
	}
	r.Write(nestedPairResult(), []string{"event", "round"})

	require.Equal(t, []string{"event", "round"}, before)
	require.Equal(t, []string{"event", "round"}, after)
	require.NotContains(t, buf.String(), "by event:")
	require.Contains(t, buf.String(), "profile records")
}

func TestStopAndWrite(t *testing.T) {
	s := profiling.NewSession()
	s.Begin(false)
	profiling.Wrap(s, func() profiling.DimensionMap {
		return eventDims("work")
	}, func() struct{} { return struct{}{} })

	var buf bytes.Buffer
	err := report.StopAndWrite(s, &report.Reporter{Sink: report.NewWriterSink(&buf)}, []string{"event"})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "1 profile records")
	require.Contains(t, buf.String(), "work")

	s = profiling.NewSession()
	s.Begin(false)
	s.Start(func() profiling.DimensionMap { return eventDims("open") })
	err = report.StopAndWrite(s, nil, []string{"event"})
	require.ErrorIs(t, err, profiling.ErrUnterminatedSession)
}

func TestBindReportsRepeatedly(t *testing.T) {
	var buf bytes.Buffer
	r := &report.Reporter{Sink: report.NewWriterSink(&buf)}
	bound := r.Bind(nestedPairResult())

	bound([]string{"event"})
	bound(nil)
	require.Equal(t, 2, strings.Count(buf.String(), "profile records"))
}
