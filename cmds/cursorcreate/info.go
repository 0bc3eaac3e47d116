package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/safing/cursorcreate/formats/loader"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Show the frames, sizes, delays and hotspots of a cursor file",
	Args:  cobra.ExactArgs(1),
	RunE:  showInfo,
}

func showInfo(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	// Decode without normalizing, to show what the file actually holds.
	a, err := loader.Decode(f)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "FRAME\tDELAY\tSIZES\tHOTSPOTS")
	for i, frame := range a.Frames() {
		sizes := frame.Cursor.Sizes()
		sizeNames := make([]string, len(sizes))
		hotspots := make([]string, len(sizes))
		for j, size := range sizes {
			sizeNames[j] = size.String()
			x, y := frame.Cursor.Get(size).Hotspot()
			hotspots[j] = fmt.Sprintf("%d,%d", x, y)
		}
		_, _ = fmt.Fprintf(tw, "%d\t%dms\t%s\t%s\n", i, frame.Delay, strings.Join(sizeNames, " "), strings.Join(hotspots, " "))
	}
	_, _ = fmt.Fprintf(tw, "total\t%dms\t\t\n", a.TotalDuration())
	return tw.Flush()
}
