// Package placeholder splices files into a text document. A line whose
// trimmed form starts with the keyword is replaced by the contents of the
// file named after the keyword, e.g.
//
//	%%REPLACE%% tables/results.tex
package placeholder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"docprep/internal/fault"
)

// DefaultKeyword marks a line for replacement.
const DefaultKeyword = "%%REPLACE%% "

// ErrNoReplacements is returned when the document holds no marked line.
var ErrNoReplacements = errors.New("no lines to replace found")

// Options controls expansion.
type Options struct {
	// Keyword defaults to DefaultKeyword.
	Keyword string
	// BaseDir resolves relative replacement paths.
	BaseDir string
}

// Expand copies the document at path to w, substituting every marked line.
// It returns the number of substitutions; zero is reported as
// ErrNoReplacements after the document has been written.
func Expand(fsys billy.Filesystem, path string, w io.Writer, opts Options) (int, error) {
	keyword := opts.Keyword
	if keyword == "" {
		keyword = DefaultKeyword
	}

	file, err := fsys.Open(path)
	if err != nil {
		return 0, fault.Wrap(fault.ErrInputNotFound, "open", path, err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	replaced := 0
	lineNo := 0
	for {
		line, readErr := reader.ReadString('\n')
		if line != "" {
			lineNo++
			if err := expandLine(fsys, line, keyword, opts.BaseDir, w); err != nil {
				return replaced, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			if isMarked(line, keyword) {
				replaced++
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return replaced, fmt.Errorf("read %s: %w", path, readErr)
		}
	}

	if replaced == 0 {
		return 0, ErrNoReplacements
	}
	return replaced, nil
}

func isMarked(line, keyword string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), keyword)
}

func expandLine(fsys billy.Filesystem, line, keyword, baseDir string, w io.Writer) error {
	if !isMarked(line, keyword) {
		_, err := io.WriteString(w, line)
		return err
	}

	name := strings.TrimSpace(strings.TrimSpace(line)[len(keyword):])
	if name == "" {
		return errors.New("marked line names no file")
	}
	if !filepath.IsAbs(name) && baseDir != "" {
		name = filepath.Join(baseDir, name)
	}
	data, err := util.ReadFile(fsys, name)
	if err != nil {
		return fault.Wrap(fault.ErrInputNotFound, "read replacement", name, err)
	}
	_, err = w.Write(data)
	return err
}
