package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dimtrace/dimtrace/pkg/flamegraph/collapsed"
	"github.com/dimtrace/dimtrace/pkg/must"
	"github.com/dimtrace/dimtrace/pkg/profiling"
	"github.com/dimtrace/dimtrace/pkg/profiling/pprofexport"
	"github.com/dimtrace/dimtrace/pkg/profiling/report"
	"github.com/dimtrace/dimtrace/pkg/repl"
)

var (
	dims        string
	format      string
	interactive bool
	logging     bool
	rounds      int
	outputPath  string
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Profile a built-in demo workload and report the time breakdown",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runDemo()
	},
}

func init() {
	demoCmd.Flags().StringVarP(&dims, "dims", "d", "", "comma-separated dimension names to group by")
	demoCmd.Flags().StringVarP(&format, "format", "f", "table", "output format (one of `table`, `collapsed`, `pprof`, `trace`)")
	demoCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "read dimension lists interactively until :q")
	demoCmd.Flags().BoolVar(&logging, "logging", false, "emit events through the logger as they happen")
	demoCmd.Flags().IntVar(&rounds, "rounds", 3, "demo workload rounds")
	demoCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default stdout for collapsed/pprof)")
	must.Must(demoCmd.MarkFlagFilename("output"))
	rootCmd.AddCommand(demoCmd)
}

func runDemo() error {
	conf, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if rootCmd.PersistentFlags().Changed("log-level") {
		conf.LogLevel = logLevel
	}
	logger, err := NewLogger(conf.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	session := profiling.NewSession(profiling.WithLogger(logger))
	session.Begin(logging || conf.Logging)
	result := runWorkload(session, rounds)
	logger.Debug("demo workload finished", zap.Int("result", result))

	if format == "trace" {
		return session.Trace(os.Stdout, nil)
	}

	res, err := session.Stop()
	if err != nil {
		return err
	}
	logger.Info("correlated session",
		zap.Int("records", len(res.Records)),
		zap.Duration("total", res.Total),
		zap.Duration("profiled", res.Profiled()),
	)

	switch format {
	case "table":
		names := profiling.ParseDims(dims)
		if names == nil {
			names = conf.Dimensions
		}
		reporter := &report.Reporter{Sink: report.NewWriterSink(os.Stderr)}
		if interactive {
			return repl.Run(os.Stdin, os.Stderr, reporter.Bind(res))
		}
		reporter.Write(res, names)
		return nil

	case "collapsed":
		out, closeOut, err := openOutput()
		if err != nil {
			return err
		}
		defer closeOut()
		return collapsed.Encode(collapsed.FromResult(res, "event"), out)

	case "pprof":
		out, closeOut, err := openOutput()
		if err != nil {
			return err
		}
		defer closeOut()
		return pprofexport.Build(res, "event").Write(out)

	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func openOutput() (*os.File, func(), error) {
	if outputPath == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
