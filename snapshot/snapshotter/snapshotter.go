// Package snapshotter captures immutable snapshots of filesystem state,
// reading and populating the process-wide mirror so each path is hashed at
// most once per build.
package snapshotter

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/buildstate/buildstate/common/stats"
	"github.com/buildstate/buildstate/fs"
	"github.com/buildstate/buildstate/fs/hash"
	"github.com/buildstate/buildstate/snapshot"
	"github.com/buildstate/buildstate/snapshot/mirror"
)

// Snapshotter captures filesystem state. All operations consult the mirror
// first and cache complete (never filtered) results. Independent subtrees may
// be snapshotted in parallel; the mirror guarantees a single canonical
// snapshot per path under races.
type Snapshotter struct {
	fsys   fs.FS
	hasher hash.Hasher
	mirror *mirror.Mirror
	stat   stats.StatsReceiver
}

func New(fsys fs.FS, hasher hash.Hasher, m *mirror.Mirror, stat stats.StatsReceiver) *Snapshotter {
	return &Snapshotter{
		fsys:   fsys,
		hasher: hasher,
		mirror: m,
		stat:   stat.Scope("snapshotter"),
	}
}

// Snapshot returns the snapshot for path, capturing it on a mirror miss.
// Repeated calls with no intervening external invalidation return the
// identical snapshot object. Directories are captured completely and
// bottom-up: every directory visited during the walk gets its own mirror
// entry, so later requests for any subdirectory hit the cache.
func (s *Snapshotter) Snapshot(path string) (snapshot.FSSnapshot, error) {
	path = filepath.Clean(path)
	if snap, ok := s.mirror.Get(path); ok {
		return snap, nil
	}
	defer func(start time.Time) {
		s.stat.Latency("captureLatency_ms").Time(time.Since(start))
	}(time.Now())
	return s.capture(path)
}

func (s *Snapshotter) capture(path string) (snapshot.FSSnapshot, error) {
	fi, err := s.fsys.Lstat(path)
	if err != nil {
		if fs.IsNotExist(err) {
			log.Debugf("snapshot %s: missing", path)
			return s.mirror.PutIfAbsent(path, snapshot.NewMissingSnapshot(path)), nil
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if fi.IsDir() {
		return s.captureDir(path, fi.Name())
	}
	return s.captureFile(path, fi)
}

func (s *Snapshotter) captureFile(path string, fi fs.FileInfo) (snapshot.FSSnapshot, error) {
	digest, err := s.hashFile(path)
	if err != nil {
		if fs.IsNotExist(err) {
			// Vanished between stat and hash, and the recheck agreed.
			return s.mirror.PutIfAbsent(path, snapshot.NewMissingSnapshot(path)), nil
		}
		return nil, err
	}
	s.stat.Counter("filesHashed").Inc(1)
	file := snapshot.NewFileSnapshot(path, fi.Name(), digest, fi.ModTime())
	return s.mirror.PutIfAbsent(path, file), nil
}

// hashFile digests path's content. A not-found error is retried exactly once
// for the case where the file disappears between the existence check and the
// read; any other I/O error propagates immediately.
func (s *Snapshotter) hashFile(path string) (snapshot.Digest, error) {
	var digest snapshot.Digest
	op := func() error {
		d, err := s.hasher.Hash(path)
		if err != nil {
			if fs.IsNotExist(err) {
				return err
			}
			return backoff.Permanent(errors.Wrapf(err, "hash %s", path))
		}
		digest = d
		return nil
	}
	if err := backoff.Retry(op, backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 1)); err != nil {
		return "", err
	}
	return digest, nil
}

func (s *Snapshotter) captureDir(path, name string) (snapshot.FSSnapshot, error) {
	entries, err := s.fsys.ReadDir(path)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", path)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	children := make([]snapshot.FSSnapshot, 0, len(entries))
	for _, entry := range entries {
		child, err := s.Snapshot(filepath.Join(path, entry.Name))
		if err != nil {
			return nil, err
		}
		if _, missing := child.(*snapshot.MissingSnapshot); missing {
			// Entry vanished mid-walk; the directory's captured state simply
			// doesn't include it.
			continue
		}
		children = append(children, child)
	}
	s.stat.Counter("dirsWalked").Inc(1)
	log.Debugf("snapshot %s: captured directory with %d children", path, len(children))
	dir := snapshot.NewDirSnapshot(path, name, children)
	return s.mirror.PutIfAbsent(path, dir), nil
}
