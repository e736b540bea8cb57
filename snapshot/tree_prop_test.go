//go:build property_test
// +build property_test

package snapshot_test

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/buildstate/buildstate/snapshot"
)

// genTree generates random snapshot trees rooted at /r, derived
// deterministically from a seed.
func genTree() gopter.Gen {
	return gen.Int64Range(0, 1<<62).Map(func(seed int64) *snapshot.DirSnapshot {
		r := rand.New(rand.NewSource(seed))
		return buildRandomDir(r, "/r", "r", 3)
	})
}

func buildRandomDir(r *rand.Rand, path, name string, depth int) *snapshot.DirSnapshot {
	n := r.Intn(4)
	var children []snapshot.FSSnapshot
	for i := 0; i < n; i++ {
		childName := fmt.Sprintf("c%d", i)
		childPath := path + "/" + childName
		if depth > 0 && r.Intn(3) == 0 {
			children = append(children, buildRandomDir(r, childPath, childName, depth-1))
		} else {
			digest := snapshot.Digest(fmt.Sprintf("%016x", r.Int63()))
			mtime := time.Unix(r.Int63n(1<<31), 0)
			children = append(children, snapshot.NewFileSnapshot(childPath, childName, digest, mtime))
		}
	}
	return snapshot.NewDirSnapshot(path, name, children)
}

// nestingChecker verifies pre-order discipline: every node is visited while
// its parent directory is open, and post fires exactly once per pre.
type nestingChecker struct {
	open []*snapshot.DirSnapshot
	ok   bool
}

func (c *nestingChecker) PreVisitDir(dir *snapshot.DirSnapshot) snapshot.VisitResult {
	if len(c.open) > 0 && !strings.HasPrefix(dir.Path(), c.open[len(c.open)-1].Path()+"/") {
		c.ok = false
	}
	c.open = append(c.open, dir)
	return snapshot.Continue
}

func (c *nestingChecker) VisitFile(file *snapshot.FileSnapshot) {
	if len(c.open) == 0 || !strings.HasPrefix(file.Path(), c.open[len(c.open)-1].Path()+"/") {
		c.ok = false
	}
}

func (c *nestingChecker) PostVisitDir(dir *snapshot.DirSnapshot) {
	if len(c.open) == 0 || c.open[len(c.open)-1] != dir {
		c.ok = false
	}
	c.open = c.open[:len(c.open)-1]
}

// pathChecker verifies that every reported relative path resolves to the
// node's absolute path when joined onto the root.
type pathChecker struct {
	root string
	ok   bool
}

func (c *pathChecker) abs(relPath string) string {
	if relPath == "" {
		return c.root
	}
	return c.root + "/" + relPath
}

func (c *pathChecker) PreVisitDir(dir *snapshot.DirSnapshot, relPath string) snapshot.VisitResult {
	if c.abs(relPath) != dir.Path() {
		c.ok = false
	}
	return snapshot.Continue
}

func (c *pathChecker) VisitFile(file *snapshot.FileSnapshot, relPath string) {
	if c.abs(relPath) != file.Path() {
		c.ok = false
	}
}

func (c *pathChecker) PostVisitDir(dir *snapshot.DirSnapshot, relPath string) {
	if c.abs(relPath) != dir.Path() {
		c.ok = false
	}
}

func Test_WalkProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 1000
	properties := gopter.NewProperties(parameters)

	properties.Property("Walk visits parents before children", prop.ForAll(
		func(tree *snapshot.DirSnapshot) bool {
			c := &nestingChecker{ok: true}
			snapshot.Walk(tree, c)
			return c.ok && len(c.open) == 0
		},
		genTree(),
	))

	properties.Property("WalkWithPaths relative paths resolve to absolute paths", prop.ForAll(
		func(tree *snapshot.DirSnapshot) bool {
			c := &pathChecker{root: tree.Path(), ok: true}
			snapshot.WalkWithPaths(tree, c)
			return c.ok
		},
		genTree(),
	))

	properties.Property("UpToDate is reflexive", prop.ForAll(
		func(tree *snapshot.DirSnapshot) bool {
			return snapshot.UpToDate(tree, tree)
		},
		genTree(),
	))

	properties.TestingRun(t)
}
