package repl_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dimtrace/dimtrace/pkg/repl"
)

func TestRunUntilQuit(t *testing.T) {
	var calls [][]string
	input := strings.NewReader("event\nevent,round\n\n:q\nignored\n")
	var out bytes.Buffer

	err := repl.Run(input, &out, func(dims []string) {
		calls = append(calls, dims)
	})
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"event"},
		{"event", "round"},
		nil,
	}, calls)
	require.Equal(t, 4, strings.Count(out.String(), "dims> "))
}

func TestRunStopsAtEOF(t *testing.T) {
	var calls int
	err := repl.Run(strings.NewReader("event\n"), &bytes.Buffer{}, func([]string) {
		calls++
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}
