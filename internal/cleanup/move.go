package cleanup

import (
	"errors"
	"fmt"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/sys/unix"

	"docprep/internal/fileutil"
)

// moveFile renames src to dst. When the two live on different devices it
// falls back to a verified copy and removes src only once the copy is
// complete, so a failure at any point leaves src intact. The bool reports
// whether the copy path was taken.
func moveFile(fsys billy.Filesystem, rename func(from, to string) error, src, dst string) (bool, error) {
	err := rename(src, dst)
	if err == nil {
		return false, nil
	}
	if !isCrossDevice(err) {
		return false, err
	}

	if err := fileutil.CopyFileVerified(fsys, src, dst); err != nil {
		return true, fmt.Errorf("copy across devices: %w", err)
	}
	if err := fsys.Remove(src); err != nil {
		// Keep exactly one copy: the source is still there, so drop the new one.
		_ = fsys.Remove(dst)
		return true, fmt.Errorf("remove source after copy: %w", err)
	}
	return true, nil
}

func isCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
