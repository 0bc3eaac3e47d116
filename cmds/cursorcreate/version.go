package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/safing/cursorcreate/base/info"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), info.FullVersion())
		return err
	},
}
