package snapshot

// PathFilter decides whether a path relative to a tree root is included in a
// filtered tree request. The concrete matcher (glob, ANT-style patterns) is
// supplied by the caller.
type PathFilter interface {
	Matches(relPath string) bool
}

// PathFilterFunc adapts a function to the PathFilter interface.
type PathFilterFunc func(relPath string) bool

func (f PathFilterFunc) Matches(relPath string) bool { return f(relPath) }
