package assets

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	ignore "github.com/sabhiram/go-gitignore"

	"docprep/internal/fault"
	"docprep/internal/textutil"
)

// Asset is a picture file found under the scan root.
type Asset struct {
	// Path locates the file on the scanned filesystem.
	Path string `json:"path"`
	// Rel is slash separated and relative to the scan root.
	Rel string `json:"rel"`
	// Ref is the name compared against document references: the scan root as
	// the user spelled it joined with Rel.
	Ref  string `json:"ref"`
	Size int64  `json:"size"`
}

// ScanOptions controls which files Scan reports.
type ScanOptions struct {
	// Suffixes are matched case-sensitively against file names.
	Suffixes []string
	// RefRoot is the spelling of the scan root used to build Asset.Ref.
	// Defaults to the root passed to Scan.
	RefRoot string
	// Ignore holds gitignore-style patterns relative to the scan root.
	Ignore []string
	// IgnoreFile names a file in the scan root with additional patterns.
	IgnoreFile string
	// Exclude lists directories that are not descended into.
	Exclude []string
	// NormalizeUnicode composes Ref to NFC.
	NormalizeUnicode bool
}

// HasSuffix reports whether name ends in one of suffixes.
func HasSuffix(name string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// Scan walks root and returns every asset below it, ordered by Rel. A root
// that is itself a symlink is resolved before walking, but Path keeps the
// spelling of root. Symlinked directories below the root are not followed,
// so each file is visited once. A symlinked file reports the size of its
// target, or zero when the link dangles.
func Scan(fsys billy.Filesystem, root string, opts ScanOptions) ([]Asset, error) {
	root = filepath.Clean(root)
	info, err := fsys.Stat(root)
	if err != nil {
		return nil, fault.Wrap(fault.ErrDirectoryNotFound, "stat", root, err)
	}
	if !info.IsDir() {
		return nil, fault.Wrap(fault.ErrDirectoryNotFound, "", root, errors.New("not a directory"))
	}
	walkRoot, err := resolveLink(fsys, root)
	if err != nil {
		return nil, fault.Wrap(fault.ErrDirectoryNotFound, "readlink", root, err)
	}

	matcher, err := compileIgnore(fsys, root, opts)
	if err != nil {
		return nil, err
	}

	refRoot := opts.RefRoot
	if strings.TrimSpace(refRoot) == "" {
		refRoot = root
	}
	refRoot = filepath.ToSlash(refRoot)

	excluded := make(map[string]struct{}, len(opts.Exclude))
	for _, dir := range opts.Exclude {
		excluded[filepath.Clean(dir)] = struct{}{}
	}

	var found []Asset
	err = util.Walk(fsys, walkRoot, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walk %q: %w", p, err)
		}
		rel, err := filepath.Rel(walkRoot, p)
		if err != nil {
			return fmt.Errorf("relative path for %q: %w", p, err)
		}
		spelled := filepath.Join(root, rel)

		if info.IsDir() {
			if _, skip := excluded[spelled]; skip && rel != "." {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() && info.Mode()&fs.ModeSymlink == 0 {
			return nil
		}
		if !HasSuffix(info.Name(), opts.Suffixes) {
			return nil
		}

		rel = filepath.ToSlash(rel)
		if matcher != nil && matcher.MatchesPath(rel) {
			return nil
		}

		size := info.Size()
		if info.Mode()&fs.ModeSymlink != 0 {
			target, err := fsys.Stat(p)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				size = 0
			case err != nil:
				return fmt.Errorf("stat link target %q: %w", p, err)
			case target.IsDir():
				return nil
			default:
				size = target.Size()
			}
		}

		ref := textutil.CleanSlashPath(path.Join(refRoot, rel))
		if opts.NormalizeUnicode {
			ref = textutil.NFC(ref)
		}
		found = append(found, Asset{Path: spelled, Rel: rel, Ref: ref, Size: size})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Rel < found[j].Rel })
	return found, nil
}

// maxLinkHops bounds resolveLink on link cycles.
const maxLinkHops = 40

// resolveLink follows p while it names a symlink and returns the final
// target. Relative targets are taken against the link's directory.
func resolveLink(fsys billy.Filesystem, p string) (string, error) {
	for range maxLinkHops {
		info, err := fsys.Lstat(p)
		if err != nil {
			return "", err
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			return p, nil
		}
		target, err := fsys.Readlink(p)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(p), target)
		}
		p = filepath.Clean(target)
	}
	return "", fmt.Errorf("too many levels of symbolic links")
}

func compileIgnore(fsys billy.Filesystem, root string, opts ScanOptions) (*ignore.GitIgnore, error) {
	lines := append([]string{}, opts.Ignore...)
	if name := strings.TrimSpace(opts.IgnoreFile); name != "" {
		data, err := util.ReadFile(fsys, fsys.Join(root, name))
		switch {
		case err == nil:
			scanner := bufio.NewScanner(bytes.NewReader(data))
			for scanner.Scan() {
				lines = append(lines, scanner.Text())
			}
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("read ignore file %s: %w", name, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read ignore file %s: %w", name, err)
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}
	return ignore.CompileIgnoreLines(lines...), nil
}
