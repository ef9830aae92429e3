package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dimtrace/dimtrace/pkg/bench"
	"github.com/dimtrace/dimtrace/pkg/profiling"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time the demo workload with the statistical harness",
	Long:  "Runs the demo workload repeatedly with profiling disabled, discards extreme samples and reports mean and standard deviation",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runBench()
	},
}

func init() {
	benchCmd.Flags().IntVar(&rounds, "rounds", 3, "demo workload rounds")
	rootCmd.AddCommand(benchCmd)
}

func runBench() error {
	conf, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	// Disabled session: the harness also demonstrates that idle
	// instrumentation stays out of the measurement.
	session := profiling.NewSession()
	stats, err := bench.Run(conf.Bench.Trials, conf.Bench.Warmup, conf.Bench.Discard, func() {
		runWorkload(session, rounds)
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, stats)
	return err
}
