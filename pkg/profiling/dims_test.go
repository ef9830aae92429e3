package profiling_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dimtrace/dimtrace/pkg/profiling"
)

func TestParseDims(t *testing.T) {
	for _, test := range []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a,b,c", []string{"a", "b", "c"}},
	} {
		require.Equal(t, test.expected, profiling.ParseDims(test.input), "input %q", test.input)
	}
}

func TestValueRendering(t *testing.T) {
	for _, test := range []struct {
		value    profiling.Value
		kind     profiling.ValueKind
		rendered string
	}{
		{profiling.String("hello"), profiling.KindString, "hello"},
		{profiling.Int(-42), profiling.KindInt, "-42"},
		{profiling.Float(2.5), profiling.KindFloat, "2.5"},
		{profiling.Bool(true), profiling.KindBool, "true"},
		{profiling.Object([]int{1, 2}), profiling.KindObject, "[1 2]"},
	} {
		require.Equal(t, test.kind, test.value.Kind())
		require.Equal(t, test.rendered, test.value.String())
	}
}

func TestValueKeysDoNotCollideAcrossKinds(t *testing.T) {
	// "42" the string and 42 the integer render identically but must
	// land in different buckets.
	require.Equal(t, profiling.Int(42).String(), profiling.String("42").String())
	require.NotEqual(t, profiling.Int(42).Key(), profiling.String("42").Key())
	require.True(t, profiling.Int(42).Equal(profiling.Int(42)))
	require.False(t, profiling.Int(42).Equal(profiling.String("42")))
}

func TestFormatDimsCanonicalOrder(t *testing.T) {
	dims := profiling.DimensionMap{
		"zone":  profiling.String("b"),
		"event": profiling.String("run"),
		"alpha": profiling.Int(1),
	}
	formatted := profiling.FormatDims(dims)
	require.Equal(t, "{event=run, alpha=1, zone=b}", formatted)
}

func TestCaller(t *testing.T) {
	name := profiling.Caller().String()
	require.True(t, strings.Contains(name, "TestCaller"), "got %q", name)
}
