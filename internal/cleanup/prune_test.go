package cleanup

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docprep/internal/fault"
	"docprep/internal/logging"
	"docprep/internal/testsupport"
)

// recordingStrategy counts removals and can fail selected ones.
type recordingStrategy struct {
	removed []string
	fail    map[string]error
}

func (r *recordingStrategy) DryRun() bool { return true }

func (r *recordingStrategy) Move(context.Context, string, string, int64) error { return nil }

func (r *recordingStrategy) RemoveDir(_ context.Context, path string) error {
	if err, ok := r.fail[path]; ok {
		return err
	}
	r.removed = append(r.removed, path)
	return nil
}

func TestPruneIsPostOrder(t *testing.T) {
	fsys := memfs.New()
	testsupport.Mkdir(t, fsys, "/r/a/b/c")
	testsupport.Mkdir(t, fsys, "/r/d")
	testsupport.WriteFile(t, fsys, "/r/e/keep.txt", 1)

	n, err := Prune(context.Background(), fsys, "/r", PruneOptions{}, NewExecutor(fsys, logging.NewNop()))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.False(t, testsupport.Exists(t, fsys, "/r/a"))
	assert.False(t, testsupport.Exists(t, fsys, "/r/d"))
	assert.True(t, testsupport.Exists(t, fsys, "/r/e/keep.txt"))
	assert.True(t, testsupport.Exists(t, fsys, "/r"))
}

func TestPruneNeverRemovesRootUnlessAsked(t *testing.T) {
	fsys := memfs.New()
	testsupport.Mkdir(t, fsys, "/r")

	n, err := Prune(context.Background(), fsys, "/r", PruneOptions{}, NewExecutor(fsys, logging.NewNop()))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, testsupport.Exists(t, fsys, "/r"))

	n, err = Prune(context.Background(), fsys, "/r", PruneOptions{PruneRoot: true}, NewExecutor(fsys, logging.NewNop()))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, testsupport.Exists(t, fsys, "/r"))
}

func TestPruneTreatsGoneFilesAsAbsent(t *testing.T) {
	fsys := memfs.New()
	testsupport.WriteFile(t, fsys, "/r/a/x.png", 1)
	testsupport.WriteFile(t, fsys, "/r/b/y.png", 1)
	rec := &recordingStrategy{}

	n, err := Prune(context.Background(), fsys, "/r", PruneOptions{
		Gone: map[string]struct{}{"/r/a/x.png": {}},
	}, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"/r/a"}, rec.removed)
}

func TestPruneSkipsKeptDirectories(t *testing.T) {
	fsys := memfs.New()
	testsupport.Mkdir(t, fsys, "/r/q/empty")
	rec := &recordingStrategy{}

	n, err := Prune(context.Background(), fsys, "/r", PruneOptions{PruneRoot: true, Keep: []string{"/r/q"}}, rec)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, rec.removed)
}

func TestPruneVanishedRemovalIsNotCounted(t *testing.T) {
	fsys := memfs.New()
	testsupport.Mkdir(t, fsys, "/r/a/b")
	rec := &recordingStrategy{fail: map[string]error{
		"/r/a/b": &os.PathError{Op: "remove", Path: "/r/a/b", Err: fs.ErrNotExist},
	}}

	n, err := Prune(context.Background(), fsys, "/r", PruneOptions{}, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"/r/a"}, rec.removed)
}

// vanishingFS deletes a directory right before it is listed.
type vanishingFS struct {
	billy.Filesystem
	target string
}

func (v vanishingFS) ReadDir(path string) ([]os.FileInfo, error) {
	if filepath.Clean(path) == v.target {
		if err := v.Filesystem.Remove(path); err != nil {
			return nil, err
		}
	}
	return v.Filesystem.ReadDir(path)
}

func TestPruneVanishedDirectoryCountsAsEmpty(t *testing.T) {
	fsys := vanishingFS{Filesystem: memfs.New(), target: "/r/a/b"}
	testsupport.Mkdir(t, fsys, "/r/a/b")

	n, err := Prune(context.Background(), fsys, "/r", PruneOptions{}, NewExecutor(fsys, logging.NewNop()))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, testsupport.Exists(t, fsys, "/r/a"))
}

func TestPruneRemovalFailureAborts(t *testing.T) {
	fsys := memfs.New()
	testsupport.Mkdir(t, fsys, "/r/a")
	rec := &recordingStrategy{fail: map[string]error{"/r/a": errors.New("busy")}}

	_, err := Prune(context.Background(), fsys, "/r", PruneOptions{}, rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, fault.ErrDeletionFailed)
	assert.Contains(t, err.Error(), "/r/a")
}

func TestPruneDryRunMatchesExecute(t *testing.T) {
	build := func() billy.Filesystem {
		fsys := memfs.New()
		testsupport.Mkdir(t, fsys, "/r/a/b/c")
		testsupport.Mkdir(t, fsys, "/r/a/d")
		testsupport.WriteFile(t, fsys, "/r/f/g/x.png", 1)
		testsupport.WriteFile(t, fsys, "/r/h/y.png", 1)
		return fsys
	}
	gone := map[string]struct{}{"/r/f/g/x.png": {}}

	dry, err := Prune(context.Background(), build(), "/r", PruneOptions{Gone: gone}, NewPlanner(logging.NewNop(), nil))
	require.NoError(t, err)

	execFS := build()
	require.NoError(t, execFS.Remove("/r/f/g/x.png"))
	real, err := Prune(context.Background(), execFS, "/r", PruneOptions{}, NewExecutor(execFS, logging.NewNop()))
	require.NoError(t, err)

	assert.Equal(t, real, dry)
	assert.Equal(t, 6, real)
}
