// Package hash computes content digests for the snapshotter. The digest
// algorithm is a collaborator concern; the default implementation hashes file
// bytes with xxh3-128.
package hash

import (
	"fmt"

	"github.com/zeebo/xxh3"

	"github.com/buildstate/buildstate/fs"
	"github.com/buildstate/buildstate/snapshot"
)

// Hasher produces a content digest for the file at an absolute path.
// Implementations must return errors satisfying fs.IsNotExist when the file
// is gone, so the snapshotter can distinguish vanished files from I/O
// failures.
type Hasher interface {
	Hash(path string) (snapshot.Digest, error)
}

// NewXXH3Hasher returns a Hasher reading file bytes through fsys and digesting
// them with xxh3-128.
func NewXXH3Hasher(fsys fs.FS) Hasher {
	return &xxh3Hasher{fsys: fsys}
}

type xxh3Hasher struct {
	fsys fs.FS
}

func (h *xxh3Hasher) Hash(path string) (snapshot.Digest, error) {
	data, err := h.fsys.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := xxh3.Hash128(data).Bytes()
	return snapshot.Digest(fmt.Sprintf("%x", sum)), nil
}
