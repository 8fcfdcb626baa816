package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeCleanup()
	c.normalizeSlides()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeCleanup() {
	c.Cleanup.QuarantineDirName = strings.TrimSpace(c.Cleanup.QuarantineDirName)
	if c.Cleanup.QuarantineDirName == "" {
		c.Cleanup.QuarantineDirName = defaultQuarantineDirName
	}
	c.Cleanup.Marker = strings.TrimSpace(c.Cleanup.Marker)
	if c.Cleanup.Marker == "" {
		c.Cleanup.Marker = defaultGraphicsMarker
	}
	c.Cleanup.IgnoreFile = strings.TrimSpace(c.Cleanup.IgnoreFile)

	// Suffixes stay case-sensitive; only whitespace and a missing dot are fixed.
	seen := make(map[string]struct{}, len(c.Cleanup.Suffixes))
	suffixes := make([]string, 0, len(c.Cleanup.Suffixes))
	for _, suffix := range c.Cleanup.Suffixes {
		suffix = strings.TrimSpace(suffix)
		if suffix == "" {
			continue
		}
		if !strings.HasPrefix(suffix, ".") {
			suffix = "." + suffix
		}
		if _, ok := seen[suffix]; ok {
			continue
		}
		seen[suffix] = struct{}{}
		suffixes = append(suffixes, suffix)
	}
	if len(suffixes) == 0 {
		suffixes = DefaultSuffixes()
	}
	c.Cleanup.Suffixes = suffixes

	patterns := c.Cleanup.Ignore[:0]
	for _, pattern := range c.Cleanup.Ignore {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			patterns = append(patterns, pattern)
		}
	}
	c.Cleanup.Ignore = patterns
}

func (c *Config) normalizeSlides() {
	c.Slides.ImageOptions = strings.TrimSpace(c.Slides.ImageOptions)
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.File != "" {
		expanded, err := expandPath(c.Logging.File)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	return nil
}
