package snapshot

import (
	"time"
)

// Digest is a content hash rendered as a hex string. Digests are computed by
// an external hasher and are assumed deterministic for unchanged file bytes.
type Digest string

func (d Digest) String() string {
	return string(d)
}

// FSSnapshot is the immutable captured state of one filesystem location at a
// point in time. It is a closed set of three variants: MissingSnapshot,
// FileSnapshot and DirSnapshot. Snapshots are never mutated after
// construction; sharing them across goroutines is safe.
type FSSnapshot interface {
	// Path returns the canonical absolute path this snapshot was taken at.
	Path() string

	fsSnapshot()
}

// MissingSnapshot records that a location did not exist.
type MissingSnapshot struct {
	path string
}

func NewMissingSnapshot(path string) *MissingSnapshot {
	return &MissingSnapshot{path: path}
}

func (s *MissingSnapshot) Path() string { return s.path }

func (s *MissingSnapshot) fsSnapshot() {}

// FileSnapshot is the captured state of a regular file: its content digest
// and last-modified time as observed at capture.
type FileSnapshot struct {
	path     string
	name     string
	digest   Digest
	modified time.Time
}

func NewFileSnapshot(path, name string, digest Digest, modified time.Time) *FileSnapshot {
	return &FileSnapshot{path: path, name: name, digest: digest, modified: modified}
}

func (s *FileSnapshot) Path() string { return s.path }

func (s *FileSnapshot) Name() string { return s.name }

func (s *FileSnapshot) Digest() Digest { return s.digest }

func (s *FileSnapshot) LastModified() time.Time { return s.modified }

func (s *FileSnapshot) fsSnapshot() {}

// DirSnapshot is the captured state of a directory. Children are ordered by
// name so traversal is stable and reproducible across runs. A DirSnapshot's
// subtree is always complete: it reflects every entry on disk under its root
// at the moment of capture. Filtered views are derived, never stored.
type DirSnapshot struct {
	path     string
	name     string
	children []FSSnapshot
}

func NewDirSnapshot(path, name string, children []FSSnapshot) *DirSnapshot {
	return &DirSnapshot{path: path, name: name, children: children}
}

func (s *DirSnapshot) Path() string { return s.path }

func (s *DirSnapshot) Name() string { return s.name }

// Children returns the ordered child snapshots. Callers must not mutate the
// returned slice.
func (s *DirSnapshot) Children() []FSSnapshot { return s.children }

func (s *DirSnapshot) fsSnapshot() {}

// UpToDate reports whether b is content-and-metadata up to date with a.
// Missing snapshots are mutually up to date regardless of path. Files compare
// by digest and last-modified time. Directories compare structurally: same
// child names in the same order, each child pairwise up to date.
func UpToDate(a, b FSSnapshot) bool {
	switch a := a.(type) {
	case *MissingSnapshot:
		_, ok := b.(*MissingSnapshot)
		return ok
	case *FileSnapshot:
		bf, ok := b.(*FileSnapshot)
		if !ok {
			return false
		}
		return a.digest == bf.digest && a.modified.Equal(bf.modified)
	case *DirSnapshot:
		bd, ok := b.(*DirSnapshot)
		if !ok {
			return false
		}
		if len(a.children) != len(bd.children) {
			return false
		}
		for i, child := range a.children {
			if childName(child) != childName(bd.children[i]) {
				return false
			}
			if !UpToDate(child, bd.children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func childName(s FSSnapshot) string {
	switch s := s.(type) {
	case *FileSnapshot:
		return s.Name()
	case *DirSnapshot:
		return s.Name()
	}
	return ""
}
