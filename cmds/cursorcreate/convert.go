package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/safing/cursorcreate/base/log"
	"github.com/safing/cursorcreate/base/utils/renameio"
	"github.com/safing/cursorcreate/formats/loader"
)

var convertFormat string

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "Output format (ani, xcur, cur), defaults to the extension of OUT")
}

var convertCmd = &cobra.Command{
	Use:   "convert IN OUT",
	Short: "Convert a cursor or image into a cursor file",
	Long: `Convert reads any supported cursor format, raster image or SVG and
writes it as a cursor file. Images are scaled to the default cursor sizes.`,
	Args: cobra.ExactArgs(2),
	RunE: convert,
}

func convert(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]

	formatID := convertFormat
	if formatID == "" {
		formatID = filepath.Ext(out)
	}
	format, err := loader.Lookup(formatID)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, loader.IDs())
	}

	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	a, err := loader.Load(f)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", in, err)
	}

	if err := renameio.WriteWith(out, 0o644, func(w io.Writer) error {
		return format.Encode(a, w)
	}); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	log.Infof("converted %s (%d frames) to %s", in, a.Len(), out)
	return nil
}
