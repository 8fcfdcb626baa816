package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Cleanup contains configuration for unused asset detection and relocation.
type Cleanup struct {
	// QuarantineDirName is the sibling directory of the scan root that receives
	// unused assets when no explicit quarantine path is given.
	QuarantineDirName string `toml:"quarantine_dir_name"`
	// Suffixes are matched case-sensitively against file names.
	Suffixes []string `toml:"suffixes"`
	// Marker is the command name whose brace argument names an asset.
	Marker string `toml:"marker"`
	// Ignore holds gitignore-style patterns for assets that are never relocated.
	Ignore []string `toml:"ignore"`
	// IgnoreFile is read from the scan root when present.
	IgnoreFile       string `toml:"ignore_file"`
	NormalizeUnicode bool   `toml:"normalize_unicode"`
}

// Slides contains defaults for the slide grid generator.
type Slides struct {
	Columns      int    `toml:"columns"`
	Rows         int    `toml:"rows"`
	ImageOptions string `toml:"image_options"`
}

// Replace contains defaults for placeholder line substitution.
type Replace struct {
	Keyword string `toml:"keyword"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File optionally receives a copy of every log line.
	File string `toml:"file"`
}

// Config encapsulates all configuration values for docprep.
type Config struct {
	Cleanup Cleanup `toml:"cleanup"`
	Slides  Slides  `toml:"slides"`
	Replace Replace `toml:"replace"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/docprep/config.toml")
}

// Load reads the config at path, or the first of the default locations that
// exists when path is empty. It reports the path it settled on and whether a
// file was found there; a missing file leaves the defaults in place.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := locate(path)
	if err != nil {
		return nil, "", false, err
	}
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// locate resolves an explicit path, or searches the user config dir and then
// docprep.toml in the working directory.
func locate(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		found, err := isFile(expanded)
		return expanded, found, err
	}

	fallback, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	local, err := filepath.Abs("docprep.toml")
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{fallback, local} {
		if found, _ := isFile(candidate); found {
			return candidate, true, nil
		}
	}
	return fallback, false, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat config: %w", err)
	}
	return !info.IsDir(), nil
}

// expandPath resolves a leading ~ or ~/ to the home directory and returns an
// absolute, cleaned path. Empty input stays empty.
func expandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		p = filepath.Join(home, p[1:])
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", p, err)
	}
	return abs, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes the commented sample config to path, creating parent
// directories as needed.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
