package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	conf, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, "info", conf.LogLevel)
	require.Equal(t, []string{"event"}, conf.Dimensions)
	require.Equal(t, 20, conf.Bench.Trials)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
dimensions: [event, round]
logging: true
bench:
  trials: 5
  warmup: 1
  discard: 1
`), 0o644))

	conf, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "debug", conf.LogLevel)
	require.Equal(t, []string{"event", "round"}, conf.Dimensions)
	require.True(t, conf.Logging)
	require.Equal(t, BenchConfig{Trials: 5, Warmup: 1, Discard: 1}, conf.Bench)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
