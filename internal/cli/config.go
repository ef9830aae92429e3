package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type BenchConfig struct {
	// Number of measured runs.
	Trials int `yaml:"trials"`

	// Number of unmeasured runs before measuring starts.
	Warmup int `yaml:"warmup"`

	// Number of lowest and highest samples to drop before computing
	// statistics.
	Discard int `yaml:"discard"`
}

type Config struct {
	LogLevel string `yaml:"log_level"`

	// Dimension names to break the report down by, outermost first.
	Dimensions []string `yaml:"dimensions"`

	// Emit events through the logger as they happen instead of only
	// buffering them. Useful for workloads that may not terminate.
	Logging bool `yaml:"logging"`

	Bench BenchConfig `yaml:"bench"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:   "info",
		Dimensions: []string{"event"},
		Bench: BenchConfig{
			Trials:  20,
			Warmup:  3,
			Discard: 2,
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	conf := DefaultConfig()
	if path == "" {
		return conf, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return conf, nil
}
