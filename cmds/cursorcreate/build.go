package main

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/safing/cursorcreate/base/log"
	"github.com/safing/cursorcreate/project"
	"github.com/safing/cursorcreate/theme"
)

var (
	buildOutDir    string
	buildPlatforms []string
	buildParallel  bool
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutDir, "out", "o", ".", "Directory to write the themes to")
	buildCmd.Flags().StringSliceVarP(&buildPlatforms, "platform", "p", nil, "Only build for the given platforms (linux, windows, mousecape_macos, preview_picture)")
	buildCmd.Flags().BoolVar(&buildParallel, "parallel", false, "Run the platform builders concurrently")
}

var buildCmd = &cobra.Command{
	Use:   "build BUILD_FILE...",
	Short: "Build themes from project build files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  build,
}

func build(cmd *cobra.Command, args []string) error {
	opts := &theme.Options{Parallel: buildParallel}
	if len(buildPlatforms) > 0 {
		builders, err := theme.SelectBuilders(buildPlatforms...)
		if err != nil {
			return err
		}
		opts.Builders = builders
	}

	// Keep going after a failing project, so every problem is reported at once.
	var errs *multierror.Error
	for _, buildFile := range args {
		p, err := project.Load(buildFile)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to load %s: %w", buildFile, err))
			continue
		}

		log.Infof("building theme %q with %d cursors", p.Name, len(p.Cursors))
		if err := theme.Build(p.Theme(), buildOutDir, opts); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("theme %q: %w", p.Name, err))
		}
	}
	return errs.ErrorOrNil()
}
