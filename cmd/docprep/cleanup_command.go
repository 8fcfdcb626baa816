package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"docprep/internal/cleanup"
	"docprep/internal/logging"
	"docprep/internal/preflight"
	"docprep/internal/runlock"
)

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var pruneRoot bool
	var quarantineFlag string
	var asTable bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "cleanup [flags] <scan-dir> <document>...",
		Short: "Move pictures no document includes into a quarantine directory",
		Long: "Scan <scan-dir> for pictures, drop every picture named by an \\includegraphics\n" +
			"in the documents, move the rest into a quarantine directory that mirrors\n" +
			"their relative paths, then delete directories left empty.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asTable && asJSON {
				return errors.New("--table and --json are mutually exclusive")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			scanArg := args[0]
			scanRoot, err := absPath(scanArg)
			if err != nil {
				return err
			}
			docs := make([]string, 0, len(args)-1)
			for _, doc := range args[1:] {
				abs, err := absPath(doc)
				if err != nil {
					return err
				}
				docs = append(docs, abs)
			}
			quarantine := filepath.Join(filepath.Dir(scanRoot), cfg.Cleanup.QuarantineDirName)
			if strings.TrimSpace(quarantineFlag) != "" {
				if quarantine, err = absPath(quarantineFlag); err != nil {
					return err
				}
			}

			if err := preflight.FirstFailure(preflight.RunAll(preflight.Inputs{
				ScanRoot:       scanRoot,
				Documents:      docs,
				QuarantineRoot: quarantine,
				DryRun:         dryRun,
			})); err != nil {
				return err
			}

			runCtx, logger, closeLog, err := ctx.runLogger(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			if !dryRun {
				lockDir, err := runlock.DefaultDir()
				if err != nil {
					return err
				}
				lock, err := runlock.Acquire(lockDir, scanRoot)
				if err != nil {
					return err
				}
				defer func() {
					if err := lock.Release(); err != nil {
						logger.Warn("failed to release run lock", logging.Error(err))
					}
				}()
			}

			opts := cleanup.OptionsFromConfig(cfg)
			opts.ScanRoot = scanRoot
			opts.RefRoot = scanArg
			opts.Documents = docs
			opts.QuarantineRoot = quarantine
			opts.DryRun = dryRun
			opts.PruneRoot = pruneRoot
			out := cmd.OutOrStdout()
			if !asJSON {
				opts.Out = out
			}

			res, err := cleanup.Run(runCtx, osfs.New("/"), opts, logger)
			if err != nil {
				if res.Totals.Count > 0 {
					logging.WarnWithContext(logger, "cleanup stopped after relocating some files", "cleanup_partial",
						logging.Int("moved", res.Totals.Count),
						logging.String(logging.FieldImpact, "moved files stay in the quarantine directory"),
						logging.String(logging.FieldErrorHint, "fix the reported path and run cleanup again"),
					)
				}
				return err
			}
			if len(res.Unresolved) > 0 {
				logging.WarnWithContext(logger, "references match no picture in the scan directory", "references_unresolved",
					logging.Int("count", len(res.Unresolved)),
					logging.String(logging.FieldErrorHint, "run with --log-level debug to list them"),
				)
			}

			if asJSON {
				return writeJSON(out, res)
			}
			if asTable && len(res.Moves) > 0 {
				fmt.Fprintln(out, renderMovesTable(res.Moves))
			}
			return writeSummary(out, res)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "D", false, "Don't move any files, just list what would be done")
	cmd.Flags().StringVar(&quarantineFlag, "quarantine", "", "Directory receiving unused pictures (default: sibling of <scan-dir> named by cleanup.quarantine_dir_name)")
	cmd.Flags().BoolVar(&pruneRoot, "prune-root", false, "Allow deleting <scan-dir> itself when it ends up empty")
	cmd.Flags().BoolVar(&asTable, "table", false, "Print relocated pictures as a table")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func renderMovesTable(moves []cleanup.Move) string {
	rows := make([][]string, 0, len(moves))
	for _, move := range moves {
		rows = append(rows, []string{move.Asset.Rel, move.Dest, logging.FormatBytes(move.Asset.Size)})
	}
	return renderTable(
		[]column{{Title: "Picture"}, {Title: "Destination"}, {Title: "Size", Numeric: true}},
		rows,
	)
}
