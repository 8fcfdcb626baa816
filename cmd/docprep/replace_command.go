package main

import (
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"docprep/internal/logging"
	"docprep/internal/placeholder"
)

func newReplaceCommand(ctx *commandContext) *cobra.Command {
	var keyword string

	cmd := &cobra.Command{
		Use:   "replace [flags] <file>",
		Short: "Print a file with marked lines replaced by the files they name",
		Long: "Print <file>, replacing every line whose trimmed form starts with the keyword\n" +
			"by the contents of the file named after the keyword. Relative names are\n" +
			"resolved against the working directory.",
		Args: cobra.ExactArgs(1),
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
			path, err := absPath(args[0])
			if err != nil {
				return err
			}

			opts := placeholder.Options{Keyword: cfg.Replace.Keyword, BaseDir: wd}
			if cmd.Flags().Changed("keyword") {
				opts.Keyword = keyword
			}

			n, err := placeholder.Expand(osfs.New("/"), path, cmd.OutOrStdout(), opts)
			if err != nil {
				return err
			}
			logger.Debug("replaced placeholder lines",
				logging.String("file", path),
				logging.Int("replacements", n),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "Keyword triggering replacement at the beginning of a line (default from replace.keyword)")
	return cmd
}
