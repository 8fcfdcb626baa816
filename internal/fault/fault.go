// Package fault defines the failure kinds shared by the cleanup pipeline and
// the exit statuses the CLI maps them to.
package fault

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInputNotFound marks a reference document that is missing or unreadable.
	ErrInputNotFound = errors.New("input not found")
	// ErrDirectoryNotFound marks a scan root that is missing or not a directory.
	ErrDirectoryNotFound = errors.New("directory not found")
	// ErrMoveFailed marks a relocation that could not be completed.
	ErrMoveFailed = errors.New("move failed")
	// ErrDeletionFailed marks an empty directory that could not be removed.
	ErrDeletionFailed = errors.New("deletion failed")
	// ErrDestinationCollision marks two assets, or an asset and an existing
	// file, competing for the same quarantine path.
	ErrDestinationCollision = errors.New("destination collision")
)

// Exit statuses for the failure kinds detected before any mutation.
const (
	ExitFailure           = 1
	ExitInputNotFound     = 2
	ExitDirectoryNotFound = 3
)

// PathError reports a failure kind together with the offending path.
type PathError struct {
	Kind error
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	parts := make([]string, 0, 4)
	if e.Kind != nil {
		parts = append(parts, e.Kind.Error())
	}
	if op := strings.TrimSpace(e.Op); op != "" {
		parts = append(parts, op)
	}
	parts = append(parts, fmt.Sprintf("%q", e.Path))
	msg := strings.Join(parts, ": ")
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *PathError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Wrap tags err with kind, naming the operation and path. A nil err still
// yields an error so callers can report conditions without an underlying cause.
func Wrap(kind error, op, path string, err error) error {
	return &PathError{Kind: kind, Op: op, Path: path, Err: err}
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInputNotFound):
		return ExitInputNotFound
	case errors.Is(err, ErrDirectoryNotFound):
		return ExitDirectoryNotFound
	default:
		return ExitFailure
	}
}
