package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"docprep/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a default config with any provided options applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithIgnore sets the cleanup ignore patterns.
func WithIgnore(patterns ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Cleanup.Ignore = patterns
	}
}

// WithQuarantineDirName overrides the quarantine directory name.
func WithQuarantineDirName(name string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Cleanup.QuarantineDirName = name
	}
}

// WriteConfig encodes cfg as TOML into a fresh temp directory and returns
// the file path.
func WriteConfig(t testing.TB, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
