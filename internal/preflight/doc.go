// Package preflight validates the inputs of a cleanup run before anything on
// disk changes.
//
// Each check returns a Result. FirstFailure turns the first failed Result
// into an error carrying the matching fault kind, so the CLI can pick the
// exit status.
package preflight
