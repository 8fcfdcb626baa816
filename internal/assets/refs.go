package assets

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/go-git/go-billy/v5"

	"docprep/internal/fault"
	"docprep/internal/logging"
	"docprep/internal/textutil"
)

// DefaultMarker is the LaTeX command whose argument names a picture.
const DefaultMarker = "includegraphics"

const maxLineSize = 1 << 20

// ReferenceSet holds every token extracted from the reference documents.
// Duplicates collapse; order is irrelevant.
type ReferenceSet map[string]struct{}

// Has reports whether token was referenced.
func (s ReferenceSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Add records a token.
func (s ReferenceSet) Add(token string) {
	s[token] = struct{}{}
}

// ExtractOptions controls reference extraction.
type ExtractOptions struct {
	// Marker defaults to DefaultMarker.
	Marker string
	// NormalizeUnicode composes tokens to NFC.
	NormalizeUnicode bool
	Logger           *slog.Logger
}

// ExtractReferences reads every document and collects the tokens named by
// the graphics marker. A missing document fails the whole extraction.
func ExtractReferences(fsys billy.Filesystem, docs []string, opts ExtractOptions) (ReferenceSet, error) {
	marker := opts.Marker
	if marker == "" {
		marker = DefaultMarker
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	refs := make(ReferenceSet)
	for _, doc := range docs {
		count, err := extractDocument(fsys, doc, marker, opts.NormalizeUnicode, refs, logger)
		if err != nil {
			return nil, err
		}
		logger.Debug("extracted references",
			logging.String("document", doc),
			logging.Int("references", count),
		)
	}
	return refs, nil
}

func extractDocument(fsys billy.Filesystem, doc, marker string, normalize bool, refs ReferenceSet, logger *slog.Logger) (int, error) {
	file, err := fsys.Open(doc)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fault.Wrap(fault.ErrInputNotFound, "open", doc, err)
		}
		return 0, fmt.Errorf("open document %q: %w", doc, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	count := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if !strings.Contains(line, marker) {
			continue
		}
		tokens := ExtractLine(line, marker)
		if len(tokens) == 0 {
			logger.Debug("graphics marker without argument",
				logging.String("document", doc),
				logging.Int("line", lineNo),
			)
			continue
		}
		for _, token := range tokens {
			if normalize {
				token = textutil.NFC(token)
			}
			refs.Add(token)
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("read document %q: %w", doc, err)
	}
	return count, nil
}

// ExtractLine returns the cleaned brace arguments of every marker occurrence
// in line. An optional star and [options] block after the marker are
// skipped. Occurrences without a closing brace on the same line are dropped.
func ExtractLine(line, marker string) []string {
	var tokens []string
	rest := line
	for {
		idx := strings.Index(rest, marker)
		if idx < 0 {
			return tokens
		}
		rest = rest[idx+len(marker):]

		pos := 0
		for pos < len(rest) && (rest[pos] == ' ' || rest[pos] == '\t' || rest[pos] == '*') {
			pos++
		}
		if pos < len(rest) && rest[pos] == '[' {
			end := strings.IndexByte(rest[pos:], ']')
			if end < 0 {
				return tokens
			}
			pos += end + 1
		}

		open := strings.IndexByte(rest[pos:], '{')
		if open < 0 {
			return tokens
		}
		open += pos
		closing := strings.IndexByte(rest[open+1:], '}')
		if closing < 0 {
			return tokens
		}
		closing += open + 1

		if token := textutil.CleanSlashPath(rest[open+1 : closing]); token != "" {
			tokens = append(tokens, token)
		}
		rest = rest[closing+1:]
	}
}
