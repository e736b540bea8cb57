package snapshotter

import (
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/buildstate/buildstate/snapshot"
)

// TreeDescriptor describes a directory-tree request: a root path and an
// optional filter over paths relative to that root.
type TreeDescriptor struct {
	Root   string
	Filter snapshot.PathFilter
}

// TreeSnapshot is the result of a directory-tree or composite request.
// Exactly one of Dir and Entries is populated:
//   - Dir is set when the root is an actual directory (the cached complete
//     snapshot for an unfiltered request, a transient derived view for a
//     filtered one).
//   - Entries holds rootless results: a single file snapshot when the root is
//     a regular file, the per-element snapshots of a composite, or nothing at
//     all when the root does not exist.
type TreeSnapshot struct {
	Root    string
	Dir     *snapshot.DirSnapshot
	Entries []snapshot.FSSnapshot
}

// Empty reports whether the tree contributed no entries.
func (t *TreeSnapshot) Empty() bool {
	return t.Dir == nil && len(t.Entries) == 0
}

// SnapshotTree captures the tree described by d.
//
// Without a filter this is identical to Snapshot(d.Root): same caching, same
// identity guarantees. With a filter, the complete unfiltered snapshot is
// reused from the mirror (or captured and cached now; filtering never
// prevents the complete state from being cached), then a transient filtered
// view is derived from it without touching disk. Filtered views are never
// inserted into the mirror, so successive filtered requests each re-derive.
func (s *Snapshotter) SnapshotTree(d TreeDescriptor) (*TreeSnapshot, error) {
	root := filepath.Clean(d.Root)

	var complete snapshot.FSSnapshot
	if d.Filter != nil {
		if dir, ok := s.mirror.GetTree(root); ok {
			complete = dir
		}
	}
	if complete == nil {
		snap, err := s.Snapshot(root)
		if err != nil {
			return nil, err
		}
		complete = snap
	}

	switch snap := complete.(type) {
	case *snapshot.MissingSnapshot:
		// A tree over a non-existent root models "zero matched entries";
		// there is no root path to report.
		return &TreeSnapshot{}, nil
	case *snapshot.FileSnapshot:
		if d.Filter != nil && !d.Filter.Matches(snap.Name()) {
			return &TreeSnapshot{}, nil
		}
		return &TreeSnapshot{Entries: []snapshot.FSSnapshot{snap}}, nil
	case *snapshot.DirSnapshot:
		if d.Filter == nil {
			return &TreeSnapshot{Root: root, Dir: snap}, nil
		}
		log.Debugf("deriving filtered view of %s", root)
		return &TreeSnapshot{Root: root, Dir: filterTree(snap, d.Filter)}, nil
	}
	return &TreeSnapshot{}, nil
}

// CompositeTree is a union tree assembled from individual paths rather than
// anchored at one directory.
type CompositeTree struct {
	Paths []string
}

// SnapshotComposite snapshots each element of c, sharing the per-path cache,
// and assembles an uncached result (composites have no stable cache key).
// It returns nil when the composite contributes zero entries, letting callers
// distinguish "nothing to report" from an empty directory.
func (s *Snapshotter) SnapshotComposite(c CompositeTree) (*TreeSnapshot, error) {
	var entries []snapshot.FSSnapshot
	for _, path := range c.Paths {
		snap, err := s.Snapshot(path)
		if err != nil {
			return nil, err
		}
		if _, missing := snap.(*snapshot.MissingSnapshot); missing {
			continue
		}
		entries = append(entries, snap)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &TreeSnapshot{Entries: entries}, nil
}

// filterTree derives the transient filtered view of a complete directory
// snapshot: a node is retained iff its relative path matches the filter, and
// a directory is additionally retained when at least one descendant was
// retained. Retained files share the underlying snapshot nodes; directories
// are rebuilt so the view never aliases the cached complete tree.
func filterTree(dir *snapshot.DirSnapshot, filter snapshot.PathFilter) *snapshot.DirSnapshot {
	b := &filterBuilder{filter: filter}
	snapshot.WalkWithPaths(dir, b)
	return b.result
}

type filterFrame struct {
	src      *snapshot.DirSnapshot
	matched  bool
	children []snapshot.FSSnapshot
}

type filterBuilder struct {
	filter snapshot.PathFilter
	stack  []*filterFrame
	result *snapshot.DirSnapshot
}

func (b *filterBuilder) PreVisitDir(dir *snapshot.DirSnapshot, relPath string) snapshot.VisitResult {
	matched := relPath == "" || b.filter.Matches(relPath)
	b.stack = append(b.stack, &filterFrame{src: dir, matched: matched})
	return snapshot.Continue
}

func (b *filterBuilder) VisitFile(file *snapshot.FileSnapshot, relPath string) {
	if b.filter.Matches(relPath) {
		top := b.stack[len(b.stack)-1]
		top.children = append(top.children, file)
	}
}

func (b *filterBuilder) PostVisitDir(dir *snapshot.DirSnapshot, relPath string) {
	frame := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if relPath == "" {
		b.result = snapshot.NewDirSnapshot(frame.src.Path(), frame.src.Name(), frame.children)
		return
	}
	if !frame.matched && len(frame.children) == 0 {
		return
	}
	rebuilt := snapshot.NewDirSnapshot(frame.src.Path(), frame.src.Name(), frame.children)
	parent := b.stack[len(b.stack)-1]
	parent.children = append(parent.children, rebuilt)
}
