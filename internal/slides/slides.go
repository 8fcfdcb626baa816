// Package slides lays out pictures on beamer frames in a fixed grid.
package slides

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"

	"docprep/internal/config"
	"docprep/internal/logging"
)

const header = "%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%%\n" +
	"\\begin{frame}\n\n" +
	"\\noindent\\makebox[\\textwidth][c]{\n" +
	"\\begin{minipage}{1.2\\textwidth}\n" +
	"  \\centering\n"

const footer = "\\end{minipage}}\n\n" +
	"\\end{frame}"

// Options controls the grid.
type Options struct {
	Columns      int
	Rows         int
	ImageOptions string
	// Suffixes are matched case-insensitively.
	Suffixes []string
	// BaseDir resolves relative image paths when checking them on disk.
	// The paths placed on the frames are left as given.
	BaseDir string
}

// OptionsFromConfig reads the [slides] section, taking suffixes from [cleanup].
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return Options{
		Columns:      cfg.Slides.Columns,
		Rows:         cfg.Slides.Rows,
		ImageOptions: cfg.Slides.ImageOptions,
		Suffixes:     append([]string(nil), cfg.Cleanup.Suffixes...),
	}
}

func (o Options) validate() error {
	if o.Columns < 1 {
		return fmt.Errorf("columns must be positive, got %d", o.Columns)
	}
	if o.Rows < 1 {
		return fmt.Errorf("rows must be positive, got %d", o.Rows)
	}
	return nil
}

// Sanitize keeps the regular files whose names carry a picture suffix.
// Other regular files are dropped with a warning; directories and missing
// paths are dropped silently.
func Sanitize(fsys billy.Filesystem, images []string, opts Options, logger *slog.Logger) []string {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "slides")

	kept := make([]string, 0, len(images))
	for _, image := range images {
		probe := image
		if opts.BaseDir != "" && !filepath.IsAbs(probe) {
			probe = filepath.Join(opts.BaseDir, probe)
		}
		info, err := fsys.Stat(probe)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if !hasSuffixFold(image, opts.Suffixes) {
			logger.Warn("non-image file removed from the list",
				logging.String("path", image),
				logging.String(logging.FieldEventType, "slides_file_skipped"),
			)
			continue
		}
		kept = append(kept, image)
	}
	return kept
}

func hasSuffixFold(name string, suffixes []string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range suffixes {
		if strings.HasSuffix(lower, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}

// Build returns one frame per Columns*Rows images.
func Build(images []string, opts Options) ([]string, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	perSlide := opts.Columns * opts.Rows
	frames := make([]string, 0, (len(images)+perSlide-1)/perSlide)
	for start := 0; start < len(images); start += perSlide {
		end := min(start+perSlide, len(images))
		frames = append(frames, frame(images[start:end], opts))
	}
	return frames, nil
}

func frame(images []string, opts Options) string {
	var b strings.Builder
	b.WriteString(header)
	for i, image := range images {
		fmt.Fprintf(&b, "  \\includegraphics[%s]{%s}", opts.ImageOptions, image)
		// A full row ends with a line break, the first row included, so a
		// one-column grid breaks after every image.
		if (i+1)%opts.Columns == 0 {
			b.WriteString(`\\`)
		}
		b.WriteByte('\n')
	}
	b.WriteString(footer)
	return b.String()
}

// Write prints frames to w, each followed by a newline.
func Write(w io.Writer, frames []string) error {
	for _, f := range frames {
		if _, err := io.WriteString(w, f+"\n"); err != nil {
			return err
		}
	}
	return nil
}
