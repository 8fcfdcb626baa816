package cleanup

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"docprep/internal/assets"
	"docprep/internal/fault"
	"docprep/internal/logging"
	"docprep/internal/testsupport"
)

func unusedAt(paths ...string) []assets.Asset {
	out := make([]assets.Asset, 0, len(paths))
	for _, p := range paths {
		out = append(out, assets.Asset{Path: p, Size: 10})
	}
	return out
}

func TestDestinationPreservesRelativePath(t *testing.T) {
	dest, err := Destination("/w/pics/a/b/c.png", "/w/pics", "/w/unused_pics")
	require.NoError(t, err)
	assert.Equal(t, "/w/unused_pics/a/b/c.png", dest)

	dest, err = Destination("pics/c.png", "./pics/", "q")
	require.NoError(t, err)
	assert.Equal(t, "q/c.png", dest)
}

func TestDestinationRejectsPathsOutsideRoot(t *testing.T) {
	for _, p := range []string{"/w/other/a.png", "/w/pics", "/w/picsmore/a.png"} {
		_, err := Destination(p, "/w/pics", "/w/q")
		assert.Error(t, err, p)
	}
}

func TestPlanDetectsExistingDestination(t *testing.T) {
	fsys := memfs.New()
	testsupport.WriteFile(t, fsys, "/w/pics/a.png", 1)
	testsupport.WriteFile(t, fsys, "/w/q/a.png", 1)

	_, err := Plan(fsys, unusedAt("/w/pics/a.png"), "/w/pics", "/w/q")
	require.Error(t, err)
	assert.ErrorIs(t, err, fault.ErrDestinationCollision)
}

func TestPlanDetectsDuplicateDestinations(t *testing.T) {
	fsys := memfs.New()

	_, err := Plan(fsys, unusedAt("/w/pics/a.png", "/w/pics/sub/../a.png"), "/w/pics", "/w/q")
	require.Error(t, err)
	assert.ErrorIs(t, err, fault.ErrDestinationCollision)
}

func TestApplyCountsOnlyCompletedMoves(t *testing.T) {
	fsys := memfs.New()
	testsupport.WriteFile(t, fsys, "/w/pics/a.png", 10)
	testsupport.WriteFile(t, fsys, "/w/pics/b.png", 10)

	moves, err := Plan(fsys, unusedAt("/w/pics/a.png", "/w/pics/b.png", "/w/pics/c.png"), "/w/pics", "/w/q")
	require.NoError(t, err)

	totals, err := Apply(context.Background(), moves, NewExecutor(fsys, logging.NewNop()))
	require.Error(t, err)
	assert.ErrorIs(t, err, fault.ErrMoveFailed)
	assert.Contains(t, err.Error(), "/w/pics/c.png")
	assert.Equal(t, Totals{Count: 2, Bytes: 20}, totals)
	assert.True(t, testsupport.Exists(t, fsys, "/w/q/a.png"))
	assert.True(t, testsupport.Exists(t, fsys, "/w/q/b.png"))
}

func TestPlannerPrintsWithoutMoving(t *testing.T) {
	fsys := memfs.New()
	testsupport.WriteFile(t, fsys, "/w/pics/a.png", 10)
	var out bytes.Buffer

	moves, totals, err := Relocate(context.Background(), fsys, unusedAt("/w/pics/a.png"), "/w/pics", "/w/q", NewPlanner(logging.NewNop(), &out))
	require.NoError(t, err)
	assert.Len(t, moves, 1)
	assert.Equal(t, Totals{Count: 1, Bytes: 10}, totals)
	assert.Equal(t, "Move '/w/pics/a.png' > '/w/q/a.png'\n", out.String())
	assert.True(t, testsupport.Exists(t, fsys, "/w/pics/a.png"))
	assert.False(t, testsupport.Exists(t, fsys, "/w/q"))
}

func crossDevice(from, to string) error {
	return &os.LinkError{Op: "rename", Old: from, New: to, Err: unix.EXDEV}
}

func TestExecutorFallsBackToCopyAcrossDevices(t *testing.T) {
	fsys := memfs.New()
	testsupport.WriteText(t, fsys, "/w/pics/a.png", "picture bytes")

	exec := NewExecutor(fsys, logging.NewNop())
	exec.rename = crossDevice

	require.NoError(t, exec.Move(context.Background(), "/w/pics/a.png", "/mnt/q/a.png", 13))
	assert.False(t, testsupport.Exists(t, fsys, "/w/pics/a.png"))
	data, err := util.ReadFile(fsys, "/mnt/q/a.png")
	require.NoError(t, err)
	assert.Equal(t, "picture bytes", string(data))
}

func TestExecutorCrossDeviceCopyFailureKeepsSource(t *testing.T) {
	fsys := memfs.New()
	testsupport.WriteText(t, fsys, "/w/pics/a.png", "picture bytes")
	testsupport.WriteText(t, fsys, "/mnt/q/a.png", "someone else")

	exec := NewExecutor(fsys, logging.NewNop())
	exec.rename = crossDevice

	err := exec.Move(context.Background(), "/w/pics/a.png", "/mnt/q/a.png", 13)
	require.Error(t, err)
	assert.True(t, testsupport.Exists(t, fsys, "/w/pics/a.png"))
	data, err := util.ReadFile(fsys, "/mnt/q/a.png")
	require.NoError(t, err)
	assert.Equal(t, "someone else", string(data))
}

func TestExecutorDoesNotCopyOnOtherRenameErrors(t *testing.T) {
	fsys := memfs.New()
	testsupport.WriteText(t, fsys, "/w/pics/a.png", "x")

	exec := NewExecutor(fsys, logging.NewNop())
	denied := errors.New("permission denied")
	exec.rename = func(string, string) error { return denied }

	err := exec.Move(context.Background(), "/w/pics/a.png", "/w/q/a.png", 1)
	require.ErrorIs(t, err, denied)
	assert.False(t, testsupport.Exists(t, fsys, "/w/q/a.png"))
}
