package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docprep/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Writer receives log output. Defaults to stderr when nil.
	Writer io.Writer
	// OutputPaths are additional files that receive a copy of every line.
	OutputPaths []string
}

// New constructs a slog logger using the provided options. The returned
// close function releases any files opened for OutputPaths and is safe to
// call when there are none.
func New(opts Options) (*slog.Logger, func() error, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	base := opts.Writer
	if base == nil {
		base = os.Stderr
	}
	writer, files, err := openWriters(base, opts.OutputPaths)
	if err != nil {
		return nil, nil, err
	}
	closeFiles := func() error {
		var errs []error
		for _, f := range files {
			errs = append(errs, f.Close())
		}
		files = nil
		return errors.Join(errs...)
	}

	addSource := level <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level:       levelVar,
			AddSource:   addSource,
			ReplaceAttr: jsonAttr,
		})
	case "console":
		handler = newConsoleHandler(writer, levelVar, addSource)
	default:
		_ = closeFiles()
		return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	return slog.New(handler), closeFiles, nil
}

// NewFromConfig creates a logger using application config defaults. A
// non-empty levelOverride (from the --log-level flag) wins over the config.
func NewFromConfig(cfg *config.Config, w io.Writer, levelOverride string) (*slog.Logger, func() error, error) {
	if cfg == nil {
		return New(Options{Level: levelOverride, Format: "console", Writer: w})
	}

	level := cfg.Logging.Level
	if strings.TrimSpace(levelOverride) != "" {
		level = levelOverride
	}
	var outputs []string
	if cfg.Logging.File != "" {
		outputs = append(outputs, cfg.Logging.File)
	}
	return New(Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		Writer:      w,
		OutputPaths: outputs,
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openWriters(base io.Writer, paths []string) (io.Writer, []*os.File, error) {
	seen := map[string]struct{}{}
	var files []*os.File
	fail := func(err error) (io.Writer, []*os.File, error) {
		for _, f := range files {
			_ = f.Close()
		}
		return nil, nil, err
	}
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}

		if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
			return fail(fmt.Errorf("ensure log directory: %w", err))
		}
		file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
		if err != nil {
			return fail(fmt.Errorf("open log file %s: %w", trimmed, err))
		}
		files = append(files, file)
	}
	if len(files) == 0 {
		return base, nil, nil
	}
	writers := []io.Writer{base}
	for _, f := range files {
		writers = append(writers, f)
	}
	return io.MultiWriter(writers...), files, nil
}

// jsonAttr shortens the built-in keys: ts in UTC RFC 3339, lower-case level,
// and source as file:line.
func jsonAttr(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return attr
	}
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() == slog.KindTime {
			return slog.String("ts", attr.Value.Time().UTC().Format(time.RFC3339))
		}
		attr.Key = "ts"
	case slog.LevelKey:
		return slog.String(slog.LevelKey, strings.ToLower(attr.Value.String()))
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			return slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
		}
	}
	return attr
}
