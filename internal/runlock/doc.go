// Package runlock keeps two docprep runs from mutating the same scan root at
// once. The lock is advisory and only guards against other docprep processes.
package runlock
