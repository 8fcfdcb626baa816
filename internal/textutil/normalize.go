package textutil

import (
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NFC returns s in Unicode normalization form C. File names written on macOS
// arrive decomposed while editors save LaTeX sources composed, so both sides
// of a comparison must agree on one form.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// CleanSlashPath trims s and cleans it as a slash-separated path. Empty input
// stays empty instead of becoming ".".
func CleanSlashPath(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return path.Clean(strings.ReplaceAll(s, `\`, "/"))
}

// TrimExt removes the final extension of a slash path; dots in directory
// names are left alone.
func TrimExt(p string) string {
	return strings.TrimSuffix(p, path.Ext(p))
}
