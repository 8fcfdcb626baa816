package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

func TestCopyFileVerified(t *testing.T) {
	fsys := memfs.New()
	content := []byte("verified copy content")
	if err := util.WriteFile(fsys, "/pics/src.png", content, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFileVerified(fsys, "/pics/src.png", "/dst.png"); err != nil {
		t.Fatal(err)
	}

	got, err := util.ReadFile(fsys, "/dst.png")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
	if _, err := fsys.Stat("/pics/src.png"); err != nil {
		t.Fatalf("source should be left in place: %v", err)
	}
}

func TestCopyFileVerifiedKeepsPermissions(t *testing.T) {
	dir := t.TempDir()
	fsys := osfs.New(dir)
	if err := util.WriteFile(fsys, "src.png", []byte("data"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := CopyFileVerified(fsys, "src.png", "dst.png"); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(filepath.Join(dir, "dst.png"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o077 != 0 {
		t.Fatalf("expected owner-only permissions, got %o", info.Mode().Perm())
	}
}

func TestCopyFileVerifiedRefusesExistingDestination(t *testing.T) {
	fsys := memfs.New()
	if err := util.WriteFile(fsys, "/src.png", []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := util.WriteFile(fsys, "/dst.png", []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFileVerified(fsys, "/src.png", "/dst.png"); err == nil {
		t.Fatal("expected error for existing destination")
	}
	got, err := util.ReadFile(fsys, "/dst.png")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "old" {
		t.Fatalf("existing destination overwritten: %q", got)
	}
}

func TestCopyFileVerifiedMissingSource(t *testing.T) {
	fsys := memfs.New()
	if err := CopyFileVerified(fsys, "/nonexistent", "/dst.png"); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := fsys.Stat("/dst.png"); !os.IsNotExist(err) {
		t.Fatalf("destination should not exist, stat err = %v", err)
	}
}
