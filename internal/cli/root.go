package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	logLevel   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:           "dimtrace",
	Short:         "Dimensional instrumentation profiler",
	Long:          "Record timed start/finish events with named dimensions and break the time down by any dimension combination",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level (one of `debug`, `info`, `warn`, `error`)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to yaml config")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err.Error())
		os.Exit(1)
	}
}
