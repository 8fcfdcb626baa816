package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"docprep/internal/logging"
	"docprep/internal/quarantine"
)

func newQuarantineCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quarantine",
		Short: "Inspect or purge a directory of relocated pictures",
	}
	cmd.AddCommand(newQuarantineListCommand(ctx))
	cmd.AddCommand(newQuarantinePurgeCommand(ctx))
	return cmd
}

func newQuarantineListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list <quarantine-dir>",
		Short: "List quarantined pictures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := absPath(args[0])
			if err != nil {
				return err
			}
			entries, err := quarantine.List(osfs.New("/"), root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "Quarantine is empty")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			var total int64
			for _, e := range entries {
				rows = append(rows, []string{e.Rel, logging.FormatBytes(e.Size), humanize.Time(e.ModTime)})
				total += e.Size
			}
			fmt.Fprintln(out, renderTable(
				[]column{{Title: "Picture"}, {Title: "Size", Numeric: true}, {Title: "Quarantined"}},
				rows,
			))
			fmt.Fprintf(out, "%d files, %s\n", len(entries), logging.FormatBytes(total))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")
	return cmd
}

func newQuarantinePurgeCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "purge <quarantine-dir>",
		Short: "Delete quarantined pictures older than a cutoff",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := absPath(args[0])
			if err != nil {
				return err
			}
			runCtx, logger, closeLog, err := ctx.runLogger(cmd)
			if err != nil {
				return err
			}
			defer closeLog()
			result, err := quarantine.Purge(runCtx, osfs.New("/"), root, quarantine.PurgeOptions{
				MaxAge: olderThan,
				DryRun: dryRun,
			}, logger)
			if err != nil {
				return err
			}
			verb := "Purged"
			if dryRun {
				verb = "Would purge"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d files (%s).\n", verb, len(result.Removed), logging.FormatBytes(result.Bytes))
			if result.DirsDeleted > 0 {
				fmt.Fprintf(out, "Deleted %d empty directories.\n", result.DirsDeleted)
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d files could not be removed", len(result.Errors))
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Only purge files quarantined longer ago than this")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "D", false, "List what would be purged without deleting")
	return cmd
}
