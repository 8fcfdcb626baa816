package cleanup

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"

	"docprep/internal/fault"
)

// PruneOptions controls empty directory removal.
type PruneOptions struct {
	// PruneRoot allows the root itself to be removed once empty.
	PruneRoot bool
	// Gone lists files that have been, or in a dry run would have been,
	// relocated. They are treated as absent.
	Gone map[string]struct{}
	// Keep lists directories that are never descended into or removed.
	// Their ancestors are never removed either, whether or not the kept
	// directory exists yet.
	Keep []string
}

type pruner struct {
	fs       billy.Filesystem
	strategy Strategy
	gone     map[string]struct{}
	keep     map[string]struct{}
}

// Prune removes every directory below root that holds no files once its
// own empty subdirectories are gone, and returns how many it removed (or
// would remove). A directory that disappears while Prune runs counts as
// empty but not as removed.
func Prune(ctx context.Context, fsys billy.Filesystem, root string, opts PruneOptions, strategy Strategy) (int, error) {
	p := &pruner{
		fs:       fsys,
		strategy: strategy,
		gone:     make(map[string]struct{}, len(opts.Gone)),
		keep:     make(map[string]struct{}, len(opts.Keep)),
	}
	for path := range opts.Gone {
		p.gone[filepath.Clean(path)] = struct{}{}
	}
	for _, path := range opts.Keep {
		p.keep[filepath.Clean(path)] = struct{}{}
	}
	_, deleted, err := p.prune(ctx, filepath.Clean(root), opts.PruneRoot)
	return deleted, err
}

// prune visits children first. It reports whether dir is now empty, or
// would be in a dry run, and how many directories were removed below and
// including dir.
func (p *pruner) prune(ctx context.Context, dir string, candidate bool) (bool, int, error) {
	if err := ctx.Err(); err != nil {
		return false, 0, err
	}

	entries, err := p.fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, 0, nil
		}
		return false, 0, fault.Wrap(fault.ErrDeletionFailed, "list", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	deleted := 0
	remaining := 0
	for _, entry := range entries {
		child := filepath.Join(dir, entry.Name())
		if !entry.IsDir() {
			if _, gone := p.gone[child]; !gone {
				remaining++
			}
			continue
		}
		if _, keep := p.keep[child]; keep {
			remaining++
			continue
		}
		empty, n, err := p.prune(ctx, child, true)
		deleted += n
		if err != nil {
			return false, deleted, err
		}
		if !empty {
			remaining++
		}
	}

	if remaining > 0 || p.holdsKept(dir) {
		return false, deleted, nil
	}
	if !candidate {
		return true, deleted, nil
	}
	if err := p.strategy.RemoveDir(ctx, dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, deleted, nil
		}
		return false, deleted, fault.Wrap(fault.ErrDeletionFailed, "remove", dir, err)
	}
	return true, deleted + 1, nil
}

func (p *pruner) holdsKept(dir string) bool {
	prefix := dir + string(filepath.Separator)
	for kept := range p.keep {
		if strings.HasPrefix(kept, prefix) {
			return true
		}
	}
	return false
}
