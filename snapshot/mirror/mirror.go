// Package mirror holds the process-wide cache of absolute path to last-known
// snapshot. Entries are created on first access and live for the duration of
// the process; invalidation is an external concern and never happens inside
// this package. Repeated lookups return the identical snapshot object, not a
// freshly recomputed equal one, so callers can rely on cache hits to skip
// re-hashing entirely.
package mirror

import (
	"sync"

	"github.com/buildstate/buildstate/common/stats"
	"github.com/buildstate/buildstate/snapshot"
)

// Mirror maps canonical absolute paths to their last-known snapshots.
// It is safe for concurrent use by multiple workers.
type Mirror struct {
	mu    sync.Mutex
	snaps map[string]snapshot.FSSnapshot
	stat  stats.StatsReceiver
}

func New(stat stats.StatsReceiver) *Mirror {
	return &Mirror{
		snaps: make(map[string]snapshot.FSSnapshot),
		stat:  stat.Scope("mirror"),
	}
}

// Get returns the cached snapshot for path, if any. A hit always returns the
// same object that was first cached for the path.
func (m *Mirror) Get(path string) (snapshot.FSSnapshot, bool) {
	m.mu.Lock()
	snap, ok := m.snaps[path]
	m.mu.Unlock()
	if ok {
		m.stat.Counter("hits").Inc(1)
	} else {
		m.stat.Counter("misses").Inc(1)
	}
	return snap, ok
}

// PutIfAbsent caches snap for path unless an entry already exists, and
// returns the now-cached value. Exactly one insertion per key is observable:
// under a race the loser discards its snapshot and adopts the winner's.
func (m *Mirror) PutIfAbsent(path string, snap snapshot.FSSnapshot) snapshot.FSSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.snaps[path]; ok {
		return existing
	}
	m.snaps[path] = snap
	m.stat.Counter("entries").Inc(1)
	return snap
}

// GetTree returns the cached complete directory snapshot for root, if the
// cached entry for root is a directory. Tree lookups read through the same
// canonical entry as Get: a directory cached by a plain snapshot request
// serves tree requests too.
func (m *Mirror) GetTree(root string) (*snapshot.DirSnapshot, bool) {
	snap, ok := m.Get(root)
	if !ok {
		return nil, false
	}
	dir, ok := snap.(*snapshot.DirSnapshot)
	return dir, ok
}

// PutTreeIfAbsent caches dir as the complete snapshot for root unless an
// entry already exists, returning the now-cached directory.
func (m *Mirror) PutTreeIfAbsent(root string, dir *snapshot.DirSnapshot) *snapshot.DirSnapshot {
	cached := m.PutIfAbsent(root, dir)
	if d, ok := cached.(*snapshot.DirSnapshot); ok {
		return d
	}
	// An entry cannot change kind within a build: if the canonical entry for
	// root is not a directory the caller raced a non-directory capture and
	// should have observed it via Get first.
	return dir
}

// Len returns the number of cached entries.
func (m *Mirror) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snaps)
}
