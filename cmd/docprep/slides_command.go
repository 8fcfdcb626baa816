package main

import (
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"docprep/internal/slides"
)

func newSlidesCommand(ctx *commandContext) *cobra.Command {
	var columns int
	var rows int
	var imageOptions string

	cmd := &cobra.Command{
		Use:   "slides [flags] <image>...",
		Short: "Print beamer frames laying out the images in a grid",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			_, logger, closeLog, err := ctx.runLogger(cmd)
			if err != nil {
				return err
			}
			defer closeLog()
			wd, err := workingDir()
			if err != nil {
				return err
			}

			opts := slides.OptionsFromConfig(cfg)
			opts.BaseDir = wd
			if cmd.Flags().Changed("columns") {
				opts.Columns = columns
			}
			if cmd.Flags().Changed("rows") {
				opts.Rows = rows
			}
			if cmd.Flags().Changed("image-options") {
				opts.ImageOptions = imageOptions
			}

			images := slides.Sanitize(osfs.New("/"), args, opts, logger)
			frames, err := slides.Build(images, opts)
			if err != nil {
				return err
			}
			return slides.Write(cmd.OutOrStdout(), frames)
		},
	}

	cmd.Flags().IntVarP(&columns, "columns", "x", 0, "Number of image columns (default from slides.columns)")
	cmd.Flags().IntVarP(&rows, "rows", "y", 0, "Number of image rows (default from slides.rows)")
	cmd.Flags().StringVarP(&imageOptions, "image-options", "o", "", "Options for includegraphics (default from slides.image_options)")
	return cmd
}
