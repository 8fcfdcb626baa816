// Package fileutil holds file copy helpers that work on any billy filesystem.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
)

// CopyFileVerified copies src to dst keeping the source permissions, then
// reads dst back and compares its size and SHA-256 against what was read
// from src. dst must not exist beforehand and is removed on any failure.
func CopyFileVerified(fsys billy.Filesystem, src, dst string) (err error) {
	info, err := fsys.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	want, n, err := writeFrom(fsys, src, dst, info.Mode().Perm())
	defer func() {
		if err != nil && n >= 0 {
			_ = fsys.Remove(dst)
		}
	}()
	if err != nil {
		return err
	}
	if n != info.Size() {
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), n)
	}

	got, m, err := digest(fsys, dst)
	if err != nil {
		return fmt.Errorf("verify copy: %w", err)
	}
	if m != n || !bytes.Equal(want, got) {
		return fmt.Errorf("verify copy: %s does not match %s", dst, src)
	}
	return nil
}

// writeFrom copies src into a freshly created dst and returns the source
// digest and byte count. A negative count means dst was never created.
func writeFrom(fsys billy.Filesystem, src, dst string, perm os.FileMode) ([]byte, int64, error) {
	in, err := fsys.Open(src)
	if err != nil {
		return nil, -1, err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, perm)
	if err != nil {
		return nil, -1, err
	}
	h := sha256.New()
	n, err := io.Copy(out, io.TeeReader(in, h))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return h.Sum(nil), n, err
}

func digest(fsys billy.Filesystem, name string) ([]byte, int64, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	h := sha256.New()
	n, err := io.Copy(h, f)
	return h.Sum(nil), n, err
}
