// Package quarantine inspects and purges the directory that receives unused
// pictures. Files are kept there for later reuse; Purge reclaims the space
// once they have aged past a cutoff.
package quarantine

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"docprep/internal/cleanup"
	"docprep/internal/logging"
)

// Entry describes one quarantined file.
type Entry struct {
	Rel     string    `json:"rel"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// List returns every file below root ordered by Rel. A missing root yields
// no entries.
func List(fsys billy.Filesystem, root string) ([]Entry, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, nil
	}
	root = filepath.Clean(root)

	var entries []Entry
	err := util.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{
			Rel:     filepath.ToSlash(rel),
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Rel < entries[j].Rel })
	return entries, nil
}

// PurgeOptions controls which files Purge removes.
type PurgeOptions struct {
	// MaxAge keeps files modified more recently than this.
	MaxAge time.Duration
	DryRun bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// PurgeResult contains the outcome of a purge.
type PurgeResult struct {
	Removed     []string       `json:"removed"`
	Bytes       int64          `json:"bytes"`
	DirsDeleted int            `json:"dirs_deleted"`
	Errors      []PurgeFailure `json:"errors,omitempty"`
}

// PurgeFailure pairs a path with the error that kept it in place.
type PurgeFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Purge removes quarantined files older than opts.MaxAge, then prunes the
// directories they leave empty. The quarantine root itself is kept. A file
// that cannot be removed is recorded and the purge carries on.
func Purge(ctx context.Context, fsys billy.Filesystem, root string, opts PurgeOptions, logger *slog.Logger) (PurgeResult, error) {
	result := PurgeResult{}
	if strings.TrimSpace(root) == "" {
		return result, nil
	}
	logger = logging.NewComponentLogger(logger, "quarantine")

	entries, err := List(fsys, root)
	if err != nil {
		return result, err
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	cutoff := now().Add(-opts.MaxAge)

	gone := make(map[string]struct{})
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !entry.ModTime.Before(cutoff) {
			continue
		}
		if !opts.DryRun {
			if err := fsys.Remove(entry.Path); err != nil {
				result.Errors = append(result.Errors, PurgeFailure{Path: entry.Path, Error: err.Error()})
				logger.Warn("failed to remove quarantined file",
					logging.String("path", entry.Path),
					logging.Error(err),
					logging.String(logging.FieldEventType, "quarantine_purge_failed"),
					logging.String(logging.FieldErrorHint, "check quarantine directory permissions"),
					logging.String(logging.FieldImpact, "disk space not reclaimed"),
				)
				continue
			}
		}
		gone[entry.Path] = struct{}{}
		result.Removed = append(result.Removed, entry.Path)
		result.Bytes += entry.Size
		logger.Info("purged quarantined file",
			logging.String("path", entry.Path),
			logging.Duration("age", now().Sub(entry.ModTime)),
			logging.Bytes("size", entry.Size),
			logging.Bool(logging.FieldDryRun, opts.DryRun),
			logging.String(logging.FieldEventType, "quarantine_purge"),
		)
	}

	var strategy cleanup.Strategy = cleanup.NewExecutor(fsys, logger)
	if opts.DryRun {
		strategy = cleanup.NewPlanner(logger, nil)
	}
	deleted, err := cleanup.Prune(ctx, fsys, root, cleanup.PruneOptions{Gone: gone}, strategy)
	result.DirsDeleted = deleted
	return result, err
}
