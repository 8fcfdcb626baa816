package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCleanup(); err != nil {
		return err
	}
	if err := c.validateSlides(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCleanup() error {
	name := c.Cleanup.QuarantineDirName
	if name == "." || name == ".." || strings.ContainsRune(name, filepath.Separator) {
		return fmt.Errorf("cleanup.quarantine_dir_name must be a plain directory name, got %q", name)
	}
	if strings.ContainsAny(c.Cleanup.Marker, "{}") {
		return errors.New("cleanup.marker must not contain braces")
	}
	if strings.ContainsRune(c.Cleanup.IgnoreFile, filepath.Separator) {
		return fmt.Errorf("cleanup.ignore_file must be a file name relative to the scan root, got %q", c.Cleanup.IgnoreFile)
	}
	return nil
}

func (c *Config) validateSlides() error {
	if c.Slides.Columns < 1 {
		return errors.New("slides.columns must be at least 1")
	}
	if c.Slides.Rows < 1 {
		return errors.New("slides.rows must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
