package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/safing/cursorcreate/base/info"
	"github.com/safing/cursorcreate/base/log"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "cursorcreate",
	Short: "Build cursor themes for Linux, Windows and macOS from a single set of cursors",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logLevel == "" {
			logLevel = os.Getenv("CURSORCREATE_LOG")
		}
		return log.Start(logLevel)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "", "Set the log level (trace, debug, info, warning, error, critical), defaults to $CURSORCREATE_LOG or info")
}

func main() {
	info.Set("CursorCreate", "", "GPLv3")
	rootCmd.Version = info.Version()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
