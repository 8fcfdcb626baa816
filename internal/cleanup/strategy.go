package cleanup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/go-git/go-billy/v5"

	"docprep/internal/logging"
)

// Strategy applies, or merely records, the mutations decided by Relocate and
// Prune.
type Strategy interface {
	// DryRun reports whether the strategy leaves the filesystem untouched.
	DryRun() bool
	// Move relocates one file. dst does not exist yet.
	Move(ctx context.Context, src, dst string, size int64) error
	// RemoveDir deletes an empty directory.
	RemoveDir(ctx context.Context, path string) error
}

// Planner is the dry-run strategy.
type Planner struct {
	logger *slog.Logger
	out    io.Writer
}

// NewPlanner returns a dry-run strategy. When out is non-nil each decision
// is also printed there as a human readable line.
func NewPlanner(logger *slog.Logger, out io.Writer) *Planner {
	return &Planner{logger: logging.NewComponentLogger(logger, "cleanup"), out: out}
}

func (p *Planner) DryRun() bool { return true }

func (p *Planner) Move(_ context.Context, src, dst string, size int64) error {
	p.logger.Info("would move unused asset",
		logging.String("src", src),
		logging.String("dst", dst),
		logging.Bytes("size", size),
		logging.Bool(logging.FieldDryRun, true),
		logging.String(logging.FieldEventType, "asset_move_planned"),
	)
	if p.out != nil {
		if _, err := fmt.Fprintf(p.out, "Move '%s' > '%s'\n", src, dst); err != nil {
			return err
		}
	}
	return nil
}

func (p *Planner) RemoveDir(_ context.Context, path string) error {
	p.logger.Info("would delete empty directory",
		logging.String("path", path),
		logging.Bool(logging.FieldDryRun, true),
		logging.String(logging.FieldEventType, "dir_prune_planned"),
	)
	if p.out != nil {
		if _, err := fmt.Fprintf(p.out, "Delete empty directory '%s'\n", path); err != nil {
			return err
		}
	}
	return nil
}

// Executor is the strategy that mutates the filesystem.
type Executor struct {
	fs     billy.Filesystem
	logger *slog.Logger
	rename func(from, to string) error
}

// NewExecutor returns a strategy that moves files and removes directories on fsys.
func NewExecutor(fsys billy.Filesystem, logger *slog.Logger) *Executor {
	return &Executor{
		fs:     fsys,
		logger: logging.NewComponentLogger(logger, "cleanup"),
		rename: fsys.Rename,
	}
}

func (e *Executor) DryRun() bool { return false }

func (e *Executor) Move(_ context.Context, src, dst string, size int64) error {
	if err := e.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dst), err)
	}
	copied, err := moveFile(e.fs, e.rename, src, dst)
	if err != nil {
		return err
	}
	e.logger.Info("moved unused asset",
		logging.String("src", src),
		logging.String("dst", dst),
		logging.Bytes("size", size),
		logging.Bool("copied", copied),
		logging.String(logging.FieldEventType, "asset_moved"),
	)
	return nil
}

func (e *Executor) RemoveDir(_ context.Context, path string) error {
	if err := e.fs.Remove(path); err != nil {
		return err
	}
	e.logger.Info("deleted empty directory",
		logging.String("path", path),
		logging.String(logging.FieldEventType, "dir_pruned"),
	)
	return nil
}
