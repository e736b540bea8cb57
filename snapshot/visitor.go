package snapshot

import (
	"strings"
)

// VisitResult tells Walk whether to descend into a directory's children.
type VisitResult int

const (
	Continue VisitResult = iota
	SkipChildren
)

// TreeVisitor receives the nodes of a snapshot tree in pre-order.
// PreVisitDir fires before a directory's children; returning SkipChildren
// prunes the subtree. PostVisitDir fires for every directory that was
// pre-visited, whether or not its children were walked. A file root invokes
// only VisitFile; a missing root invokes nothing.
type TreeVisitor interface {
	PreVisitDir(dir *DirSnapshot) VisitResult
	VisitFile(file *FileSnapshot)
	PostVisitDir(dir *DirSnapshot)
}

// Walk traverses snap in pre-order, visiting children in their stored
// (name-sorted) order.
func Walk(snap FSSnapshot, v TreeVisitor) {
	switch snap := snap.(type) {
	case *FileSnapshot:
		v.VisitFile(snap)
	case *DirSnapshot:
		if v.PreVisitDir(snap) == Continue {
			for _, child := range snap.Children() {
				Walk(child, v)
			}
		}
		v.PostVisitDir(snap)
	}
}

// PathVisitor is a TreeVisitor variant that also receives each node's path
// relative to the traversal root, segments joined with "/". The root itself
// is reported with an empty relative path.
type PathVisitor interface {
	PreVisitDir(dir *DirSnapshot, relPath string) VisitResult
	VisitFile(file *FileSnapshot, relPath string)
	PostVisitDir(dir *DirSnapshot, relPath string)
}

// WalkWithPaths traverses snap like Walk, maintaining the stack of path
// segments from the root and handing the joined relative path to v.
func WalkWithPaths(snap FSSnapshot, v PathVisitor) {
	Walk(snap, &pathTracker{visitor: v})
}

// pathTracker decorates a PathVisitor with relative-path bookkeeping.
type pathTracker struct {
	visitor  PathVisitor
	segments []string
	entered  bool
}

func (t *pathTracker) relPath(name string) string {
	if len(t.segments) == 0 {
		return name
	}
	return strings.Join(t.segments, "/") + "/" + name
}

func (t *pathTracker) PreVisitDir(dir *DirSnapshot) VisitResult {
	if !t.entered {
		// The traversal root contributes no segment.
		t.entered = true
		return t.visitor.PreVisitDir(dir, "")
	}
	result := t.visitor.PreVisitDir(dir, t.relPath(dir.Name()))
	t.segments = append(t.segments, dir.Name())
	return result
}

func (t *pathTracker) VisitFile(file *FileSnapshot) {
	if !t.entered {
		// File used as the traversal root.
		t.entered = true
		t.visitor.VisitFile(file, "")
		return
	}
	t.visitor.VisitFile(file, t.relPath(file.Name()))
}

func (t *pathTracker) PostVisitDir(dir *DirSnapshot) {
	if len(t.segments) == 0 {
		t.visitor.PostVisitDir(dir, "")
		return
	}
	t.segments = t.segments[:len(t.segments)-1]
	t.visitor.PostVisitDir(dir, t.relPath(dir.Name()))
}
