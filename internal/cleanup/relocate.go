package cleanup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"

	"docprep/internal/assets"
	"docprep/internal/fault"
)

// Move pairs an unused asset with its quarantine destination.
type Move struct {
	Asset assets.Asset `json:"asset"`
	Dest  string       `json:"dest"`
}

// Totals accumulates relocated files.
type Totals struct {
	Count int   `json:"count"`
	Bytes int64 `json:"bytes"`
}

// MegaBytes reports Bytes in MiB, the unit of the cleanup summary.
func (t Totals) MegaBytes() float64 {
	return float64(t.Bytes) / (1024 * 1024)
}

func (t *Totals) add(size int64) {
	t.Count++
	t.Bytes += size
}

// Destination re-roots path, which must lie below scanRoot, onto
// quarantineRoot. sub/a.png under the scan root becomes sub/a.png under the
// quarantine root.
func Destination(path, scanRoot, quarantineRoot string) (string, error) {
	rel, err := filepath.Rel(filepath.Clean(scanRoot), filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("relative path of %q: %w", path, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q is not below scan root %q", path, scanRoot)
	}
	return filepath.Join(quarantineRoot, rel), nil
}

// Plan computes the destination of every unused asset. It fails with
// ErrDestinationCollision, before anything is moved, when two assets share a
// destination or a destination already exists.
func Plan(fsys billy.Filesystem, unused []assets.Asset, scanRoot, quarantineRoot string) ([]Move, error) {
	moves := make([]Move, 0, len(unused))
	claimed := make(map[string]string, len(unused))
	for _, asset := range unused {
		dest, err := Destination(asset.Path, scanRoot, quarantineRoot)
		if err != nil {
			return nil, fault.Wrap(fault.ErrMoveFailed, "plan", asset.Path, err)
		}
		if other, ok := claimed[dest]; ok {
			return nil, fault.Wrap(fault.ErrDestinationCollision, "plan", dest,
				fmt.Errorf("claimed by both %q and %q", other, asset.Path))
		}
		claimed[dest] = asset.Path

		_, err = fsys.Lstat(dest)
		switch {
		case err == nil:
			return nil, fault.Wrap(fault.ErrDestinationCollision, "plan", dest,
				fmt.Errorf("already exists, refusing to overwrite with %q", asset.Path))
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fault.Wrap(fault.ErrMoveFailed, "stat destination", dest, err)
		}

		moves = append(moves, Move{Asset: asset, Dest: dest})
	}
	return moves, nil
}

// Apply hands every move to strategy in order and stops at the first failure.
// Moves completed before a failure stay in place and are counted.
func Apply(ctx context.Context, moves []Move, strategy Strategy) (Totals, error) {
	var totals Totals
	for _, move := range moves {
		if err := ctx.Err(); err != nil {
			return totals, err
		}
		if err := strategy.Move(ctx, move.Asset.Path, move.Dest, move.Asset.Size); err != nil {
			return totals, fault.Wrap(fault.ErrMoveFailed, "move", move.Asset.Path, err)
		}
		totals.add(move.Asset.Size)
	}
	return totals, nil
}

// Relocate plans and applies the relocation of unused assets.
func Relocate(ctx context.Context, fsys billy.Filesystem, unused []assets.Asset, scanRoot, quarantineRoot string, strategy Strategy) ([]Move, Totals, error) {
	moves, err := Plan(fsys, unused, scanRoot, quarantineRoot)
	if err != nil {
		return nil, Totals{}, err
	}
	totals, err := Apply(ctx, moves, strategy)
	return moves, totals, err
}
