package testsupport

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, fsys billy.Filesystem, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := util.WriteFile(fsys, path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, fsys billy.Filesystem, path, content string) {
	t.Helper()

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := util.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Mkdir creates a directory and its parents.
func Mkdir(t testing.TB, fsys billy.Filesystem, path string) {
	t.Helper()

	if err := fsys.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

// Exists reports whether path is present on fsys.
func Exists(t testing.TB, fsys billy.Filesystem, path string) bool {
	t.Helper()

	_, err := fsys.Lstat(path)
	switch {
	case err == nil:
		return true
	case errors.Is(err, fs.ErrNotExist), os.IsNotExist(err):
		return false
	default:
		t.Fatalf("lstat %s: %v", path, err)
		return false
	}
}
