package preflight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"docprep/internal/fault"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Path   string
	Passed bool
	Detail string
	// Kind is the fault kind reported when the check fails.
	Kind error
}

// Inputs names everything a cleanup run touches.
type Inputs struct {
	ScanRoot       string
	Documents      []string
	QuarantineRoot string
	// DryRun skips the quarantine writability check.
	DryRun bool
}

// RunAll checks documents first, then the scan root, then the quarantine
// root, in the order their failures are reported.
func RunAll(in Inputs) []Result {
	results := make([]Result, 0, len(in.Documents)+2)
	for _, doc := range in.Documents {
		results = append(results, CheckDocument(doc))
	}
	results = append(results, CheckScanRoot(in.ScanRoot))
	if !in.DryRun {
		results = append(results, CheckQuarantine(in.QuarantineRoot))
	}
	return results
}

// FirstFailure returns an error for the first failed result, or nil.
func FirstFailure(results []Result) error {
	for _, r := range results {
		if r.Passed {
			continue
		}
		return fault.Wrap(r.Kind, "", r.Path, errors.New(r.Detail))
	}
	return nil
}

// CheckDocument verifies that path is a readable regular file.
func CheckDocument(path string) Result {
	r := Result{Name: "Document", Path: path, Kind: fault.ErrInputNotFound}
	info, err := os.Stat(path)
	if err != nil {
		r.Detail = statDetail(err)
		return r
	}
	if !info.Mode().IsRegular() {
		r.Detail = "not a regular file"
		return r
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		r.Detail = fmt.Sprintf("not readable: %v", err)
		return r
	}
	r.Passed = true
	r.Detail = "readable"
	return r
}

// CheckScanRoot verifies that path is a directory that can be listed.
func CheckScanRoot(path string) Result {
	r := Result{Name: "Scan directory", Path: path, Kind: fault.ErrDirectoryNotFound}
	info, err := os.Stat(path)
	if err != nil {
		r.Detail = statDetail(err)
		return r
	}
	if !info.IsDir() {
		r.Detail = "is not a directory"
		return r
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		r.Detail = fmt.Sprintf("insufficient permissions: %v", err)
		return r
	}
	r.Passed = true
	r.Detail = "read ok"
	return r
}

// CheckQuarantine verifies that path, or the nearest ancestor that exists,
// is a directory the run can create entries in.
func CheckQuarantine(path string) Result {
	r := Result{Name: "Quarantine directory", Path: path, Kind: fault.ErrMoveFailed}
	probe := filepath.Clean(path)
	for {
		info, err := os.Stat(probe)
		if err == nil {
			if !info.IsDir() {
				r.Detail = fmt.Sprintf("%s is not a directory", probe)
				return r
			}
			break
		}
		if !errors.Is(err, os.ErrNotExist) {
			r.Detail = statDetail(err)
			return r
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			r.Detail = "no existing ancestor"
			return r
		}
		probe = parent
	}
	if err := unix.Access(probe, unix.W_OK|unix.X_OK); err != nil {
		r.Detail = fmt.Sprintf("%s not writable: %v", probe, err)
		return r
	}
	r.Passed = true
	r.Detail = "write ok"
	return r
}

func statDetail(err error) string {
	if errors.Is(err, os.ErrNotExist) {
		return "does not exist"
	}
	return fmt.Sprintf("stat: %v", err)
}
