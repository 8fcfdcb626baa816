// Package logging assembles structured slog loggers and formatting helpers used
// across docprep commands.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so every line emitted during one
// invocation carries the same run identifier. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape as the rest of the tool. Loggers write to stderr by
// default; stdout is reserved for command reports.
package logging
