// Package config loads, normalizes, and validates docprep configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// cleanup, slides, and replace commands need so they are discovered in one
// pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized suffix lists, canonical log formats, and clear validation errors.
package config
