// Package fs defines the narrow filesystem capabilities the snapshotter
// consumes: stat, directory listing and file reads. Production code uses
// Disk(); tests substitute the in-memory implementation in fs/fakefs.
package fs

import (
	"os"
	"time"

	"github.com/pkg/errors"
)

// FileInfo is the subset of stat output the snapshotter needs.
type FileInfo interface {
	Name() string
	IsDir() bool
	ModTime() time.Time
	Size() int64
}

// DirEntry is one entry of a directory listing.
type DirEntry struct {
	Name  string
	IsDir bool
}

// FS exposes the filesystem operations used during snapshotting. Not-found
// conditions must be reported with errors satisfying IsNotExist; any other
// error is treated as an I/O failure and surfaced to the caller.
type FS interface {
	Lstat(path string) (FileInfo, error)

	// ReadDir lists path's entries. Order is not significant; the
	// snapshotter sorts by name before capture.
	ReadDir(path string) ([]DirEntry, error)

	ReadFile(path string) ([]byte, error)
}

// IsNotExist reports whether err indicates a missing path, unwrapping any
// annotation layers first.
func IsNotExist(err error) bool {
	return os.IsNotExist(errors.Cause(err))
}
