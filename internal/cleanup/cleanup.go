package cleanup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"

	"docprep/internal/assets"
	"docprep/internal/config"
	"docprep/internal/logging"
)

// Options describes one cleanup invocation.
type Options struct {
	// ScanRoot is the directory searched for pictures.
	ScanRoot string
	// RefRoot is the scan root as the user spelled it. Document references
	// are compared against it joined with each picture's relative path.
	// Defaults to ScanRoot.
	RefRoot string
	// Documents are the LaTeX sources whose references keep pictures alive.
	Documents []string
	// QuarantineRoot receives the unused pictures.
	QuarantineRoot string
	DryRun         bool
	PruneRoot      bool

	Suffixes         []string
	Marker           string
	Ignore           []string
	IgnoreFile       string
	NormalizeUnicode bool

	// Out receives the per-action lines of a dry run. Nil discards them.
	Out io.Writer
}

// OptionsFromConfig seeds Options with the [cleanup] section of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return Options{
		Suffixes:         append([]string(nil), cfg.Cleanup.Suffixes...),
		Marker:           cfg.Cleanup.Marker,
		Ignore:           append([]string(nil), cfg.Cleanup.Ignore...),
		IgnoreFile:       cfg.Cleanup.IgnoreFile,
		NormalizeUnicode: cfg.Cleanup.NormalizeUnicode,
	}
}

// Result summarises a cleanup run. A dry run and an execute run over the same
// tree produce equal Totals and DirsDeleted.
type Result struct {
	DryRun         bool          `json:"dry_run"`
	ScanRoot       string        `json:"scan_root"`
	QuarantineRoot string        `json:"quarantine_root"`
	Scanned        int           `json:"scanned"`
	References     int           `json:"references"`
	Moves          []Move        `json:"moves"`
	Totals         Totals        `json:"totals"`
	DirsDeleted    int           `json:"dirs_deleted"`
	Unresolved     []string      `json:"unresolved,omitempty"`
	Duration       time.Duration `json:"duration_ns"`
}

// Run extracts references, scans for pictures, relocates the unused ones and
// prunes the directories they leave empty. With opts.DryRun nothing on fsys
// changes. On failure the partial Result describes what was already done.
func Run(ctx context.Context, fsys billy.Filesystem, opts Options, logger *slog.Logger) (Result, error) {
	started := time.Now()
	logger = logging.NewComponentLogger(logger, "cleanup")

	scanRoot := filepath.Clean(opts.ScanRoot)
	quarantine := filepath.Clean(opts.QuarantineRoot)
	res := Result{DryRun: opts.DryRun, ScanRoot: scanRoot, QuarantineRoot: quarantine}
	if strings.TrimSpace(opts.QuarantineRoot) == "" {
		return res, errors.New("quarantine directory is required")
	}
	if quarantine == scanRoot {
		return res, fmt.Errorf("quarantine directory %q is the scan root", quarantine)
	}

	refs, err := assets.ExtractReferences(fsys, opts.Documents, assets.ExtractOptions{
		Marker:           opts.Marker,
		NormalizeUnicode: opts.NormalizeUnicode,
		Logger:           logger,
	})
	if err != nil {
		return res, err
	}
	res.References = len(refs)

	nested := within(quarantine, scanRoot)
	var exclude []string
	if nested {
		exclude = append(exclude, quarantine)
	}
	found, err := assets.Scan(fsys, scanRoot, assets.ScanOptions{
		Suffixes:         opts.Suffixes,
		RefRoot:          opts.RefRoot,
		Ignore:           opts.Ignore,
		IgnoreFile:       opts.IgnoreFile,
		Exclude:          exclude,
		NormalizeUnicode: opts.NormalizeUnicode,
	})
	if err != nil {
		return res, err
	}
	res.Scanned = len(found)
	res.Unresolved = assets.Unresolved(found, refs)

	unused := assets.Unused(found, refs)
	logger.Info("resolved unused assets",
		logging.Int("scanned", len(found)),
		logging.Int("references", len(refs)),
		logging.Int("unused", len(unused)),
		logging.Bool(logging.FieldDryRun, opts.DryRun),
		logging.String(logging.FieldEventType, "assets_resolved"),
	)
	for _, ref := range res.Unresolved {
		logger.Debug("reference matches no scanned asset", logging.String("ref", ref))
	}

	strategy := newStrategy(fsys, opts, logger)

	moves, totals, err := Relocate(ctx, fsys, unused, scanRoot, quarantine, strategy)
	res.Moves = moves
	res.Totals = totals
	if err != nil {
		return res, err
	}

	pruneOpts := PruneOptions{PruneRoot: opts.PruneRoot, Gone: make(map[string]struct{}, len(moves))}
	for _, move := range moves {
		pruneOpts.Gone[move.Asset.Path] = struct{}{}
	}
	if nested && (len(moves) > 0 || exists(fsys, quarantine)) {
		pruneOpts.Keep = []string{quarantine}
	}
	deleted, err := Prune(ctx, fsys, scanRoot, pruneOpts, strategy)
	res.DirsDeleted = deleted
	res.Duration = time.Since(started)
	if err != nil {
		return res, err
	}

	logger.Info("cleanup complete",
		logging.Int("moved", totals.Count),
		logging.Bytes("bytes", totals.Bytes),
		logging.Int("dirs_deleted", deleted),
		logging.Duration("duration", res.Duration),
		logging.Bool(logging.FieldDryRun, opts.DryRun),
		logging.String(logging.FieldEventType, "cleanup_complete"),
	)
	return res, nil
}

func newStrategy(fsys billy.Filesystem, opts Options, logger *slog.Logger) Strategy {
	if opts.DryRun {
		return NewPlanner(logger, opts.Out)
	}
	return NewExecutor(fsys, logger)
}

// within reports whether path lies strictly below root.
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func exists(fsys billy.Filesystem, path string) bool {
	_, err := fsys.Lstat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// Summary renders the closing lines of a run: the relocation total, and the
// pruned directory count when any were removed.
func (r Result) Summary() string {
	verb := "Moved"
	dirVerb := "Deleted"
	if r.DryRun {
		verb = "Would move"
		dirVerb = "Would delete"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d (%.1f MB) unused files to directory '%s'.\n",
		verb, r.Totals.Count, r.Totals.MegaBytes(), filepath.Base(r.QuarantineRoot))
	if r.DirsDeleted > 0 {
		fmt.Fprintf(&b, "%s %d empty directories.\n", dirVerb, r.DirsDeleted)
	}
	return b.String()
}
