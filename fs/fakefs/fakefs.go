// Package fakefs provides an in-memory fs.FS for tests. Files carry explicit
// content and modification times; call counts let tests assert that cached
// snapshots are served without touching the filesystem again.
package fakefs

import (
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/buildstate/buildstate/fs"
)

// FakeFS is an in-memory filesystem rooted at "/". It is safe for concurrent
// use.
type FakeFS struct {
	mu    sync.Mutex
	files map[string]*entry

	// Operation counts, readable by tests.
	LstatCalls    int
	ReadDirCalls  int
	ReadFileCalls int
}

type entry struct {
	name    string
	dir     bool
	content []byte
	modTime time.Time
}

func New() *FakeFS {
	return &FakeFS{files: map[string]*entry{
		"/": {name: "/", dir: true},
	}}
}

// AddFile creates the file at path with the given content and modTime,
// creating parent directories as needed.
func (f *FakeFS) AddFile(path string, content string, modTime time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addParents(path)
	f.files[path] = &entry{name: base(path), content: []byte(content), modTime: modTime}
}

// AddDir creates the directory at path and any missing parents.
func (f *FakeFS) AddDir(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addParents(path)
	f.files[path] = &entry{name: base(path), dir: true}
}

// Remove deletes path and everything under it.
func (f *FakeFS) Remove(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, path)
	prefix := path + "/"
	for p := range f.files {
		if strings.HasPrefix(p, prefix) {
			delete(f.files, p)
		}
	}
}

func (f *FakeFS) addParents(path string) {
	for p := parent(path); p != "/" && p != "."; p = parent(p) {
		if _, ok := f.files[p]; !ok {
			f.files[p] = &entry{name: base(p), dir: true}
		}
	}
}

func (f *FakeFS) Lstat(path string) (fs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LstatCalls++
	e, ok := f.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return fileInfo{e}, nil
}

func (f *FakeFS) ReadDir(path string) ([]fs.DirEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReadDirCalls++
	e, ok := f.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	if !e.dir {
		return nil, os.ErrInvalid
	}
	prefix := path + "/"
	if path == "/" {
		prefix = "/"
	}
	var entries []fs.DirEntry
	for p, child := range f.files {
		if p == path || !strings.HasPrefix(p, prefix) {
			continue
		}
		if strings.Contains(p[len(prefix):], "/") {
			continue
		}
		entries = append(entries, fs.DirEntry{Name: child.name, IsDir: child.dir})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (f *FakeFS) ReadFile(path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReadFileCalls++
	e, ok := f.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	if e.dir {
		return nil, os.ErrInvalid
	}
	return e.content, nil
}

type fileInfo struct {
	e *entry
}

func (fi fileInfo) Name() string       { return fi.e.name }
func (fi fileInfo) IsDir() bool        { return fi.e.dir }
func (fi fileInfo) ModTime() time.Time { return fi.e.modTime }
func (fi fileInfo) Size() int64        { return int64(len(fi.e.content)) }

func base(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

func parent(path string) string {
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return "/"
	}
	return path[:i]
}
