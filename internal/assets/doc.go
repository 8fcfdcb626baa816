// Package assets finds the picture files under a scan root, the references a
// set of LaTeX documents make to them, and which files no document uses.
//
// Scanning and extraction read through a billy.Filesystem so tests can run
// against an in-memory tree. Resolution is a pure function of their results.
package assets
