package snapshot_test

import (
	"reflect"
	"testing"

	"github.com/buildstate/buildstate/snapshot"
)

// testTree builds:
//
//	/root
//	  a.txt
//	  d1/
//	    d2/
//	      c.txt
//	    b.txt
func testTree() *snapshot.DirSnapshot {
	c := snapshot.NewFileSnapshot("/root/d1/d2/c.txt", "c.txt", "cc", t0)
	d2 := snapshot.NewDirSnapshot("/root/d1/d2", "d2", []snapshot.FSSnapshot{c})
	b := snapshot.NewFileSnapshot("/root/d1/b.txt", "b.txt", "bb", t0)
	d1 := snapshot.NewDirSnapshot("/root/d1", "d1", []snapshot.FSSnapshot{b, d2})
	a := snapshot.NewFileSnapshot("/root/a.txt", "a.txt", "aa", t0)
	return snapshot.NewDirSnapshot("/root", "root", []snapshot.FSSnapshot{a, d1})
}

type recordingVisitor struct {
	events []string
	skip   map[string]bool
}

func (v *recordingVisitor) PreVisitDir(dir *snapshot.DirSnapshot) snapshot.VisitResult {
	v.events = append(v.events, "pre:"+dir.Name())
	if v.skip[dir.Name()] {
		return snapshot.SkipChildren
	}
	return snapshot.Continue
}

func (v *recordingVisitor) VisitFile(file *snapshot.FileSnapshot) {
	v.events = append(v.events, "file:"+file.Name())
}

func (v *recordingVisitor) PostVisitDir(dir *snapshot.DirSnapshot) {
	v.events = append(v.events, "post:"+dir.Name())
}

func TestWalkOrder(t *testing.T) {
	v := &recordingVisitor{}
	snapshot.Walk(testTree(), v)
	expected := []string{
		"pre:root",
		"file:a.txt",
		"pre:d1",
		"file:b.txt",
		"pre:d2",
		"file:c.txt",
		"post:d2",
		"post:d1",
		"post:root",
	}
	if !reflect.DeepEqual(v.events, expected) {
		t.Errorf("got %v, expected %v", v.events, expected)
	}
}

func TestWalkSkipChildren(t *testing.T) {
	v := &recordingVisitor{skip: map[string]bool{"d1": true}}
	snapshot.Walk(testTree(), v)
	expected := []string{
		"pre:root",
		"file:a.txt",
		"pre:d1",
		"post:d1",
		"post:root",
	}
	if !reflect.DeepEqual(v.events, expected) {
		t.Errorf("got %v, expected %v", v.events, expected)
	}
}

func TestWalkFileRoot(t *testing.T) {
	v := &recordingVisitor{}
	snapshot.Walk(snapshot.NewFileSnapshot("/f", "f", "ff", t0), v)
	if !reflect.DeepEqual(v.events, []string{"file:f"}) {
		t.Errorf("file root should invoke only VisitFile, got %v", v.events)
	}
}

func TestWalkMissingRoot(t *testing.T) {
	v := &recordingVisitor{}
	snapshot.Walk(snapshot.NewMissingSnapshot("/gone"), v)
	if len(v.events) != 0 {
		t.Errorf("missing root should invoke nothing, got %v", v.events)
	}
}

type pathRecorder struct {
	paths []string
}

func (v *pathRecorder) PreVisitDir(dir *snapshot.DirSnapshot, relPath string) snapshot.VisitResult {
	v.paths = append(v.paths, "dir("+relPath+")@"+dir.Path())
	return snapshot.Continue
}

func (v *pathRecorder) VisitFile(file *snapshot.FileSnapshot, relPath string) {
	v.paths = append(v.paths, "file("+relPath+")@"+file.Path())
}

func (v *pathRecorder) PostVisitDir(dir *snapshot.DirSnapshot, relPath string) {}

func TestWalkWithPaths(t *testing.T) {
	v := &pathRecorder{}
	snapshot.WalkWithPaths(testTree(), v)
	expected := []string{
		"dir()@/root",
		"file(a.txt)@/root/a.txt",
		"dir(d1)@/root/d1",
		"file(d1/b.txt)@/root/d1/b.txt",
		"dir(d1/d2)@/root/d1/d2",
		"file(d1/d2/c.txt)@/root/d1/d2/c.txt",
	}
	if !reflect.DeepEqual(v.paths, expected) {
		t.Errorf("got %v, expected %v", v.paths, expected)
	}
}

func TestWalkWithPathsFileRoot(t *testing.T) {
	v := &pathRecorder{}
	snapshot.WalkWithPaths(snapshot.NewFileSnapshot("/f", "f", "ff", t0), v)
	if !reflect.DeepEqual(v.paths, []string{"file()@/f"}) {
		t.Errorf("got %v", v.paths)
	}
}
