// Package main hosts the docprep CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration and logging once per
// invocation and hands the actual work to the internal packages: cleanup for
// unused picture relocation, slides for beamer grids, placeholder for line
// substitution. Reports go to stdout; logs go to stderr.
package main
