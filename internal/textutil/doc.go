// Package textutil provides string helpers shared by reference extraction and
// asset scanning.
package textutil
