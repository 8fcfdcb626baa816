package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"docprep/internal/cleanup"
)

const (
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

// writeJSON encodes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeSummary prints the closing lines of a cleanup run, coloured when w is
// a terminal.
func writeSummary(w io.Writer, res cleanup.Result) error {
	summary := res.Summary()
	if shouldColorize(w) {
		colour := ansiGreen
		if res.DryRun {
			colour = ansiYellow
		}
		summary = colour + strings.TrimSuffix(summary, "\n") + ansiReset + "\n"
	}
	_, err := io.WriteString(w, summary)
	return err
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
