package fs

import (
	"io/ioutil"
	"os"
)

// Disk returns an FS backed by the local filesystem.
func Disk() FS {
	return diskFS{}
}

type diskFS struct{}

func (diskFS) Lstat(path string) (FileInfo, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	return fi, nil
}

func (diskFS) ReadDir(path string) ([]DirEntry, error) {
	infos, err := ioutil.ReadDir(path)
	if err != nil {
		return nil, err
	}
	entries := make([]DirEntry, 0, len(infos))
	for _, fi := range infos {
		entries = append(entries, DirEntry{Name: fi.Name(), IsDir: fi.IsDir()})
	}
	return entries, nil
}

func (diskFS) ReadFile(path string) ([]byte, error) {
	return ioutil.ReadFile(path)
}
