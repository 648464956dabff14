package storage

import (
	"errors"
	"io/fs"
	"path"
	"strings"
)

// ErrAssetNotFound is returned when an asset does not exist.
var ErrAssetNotFound = errors.New("asset not found")

// AssetStore serves read-only web assets such as the root page.
type AssetStore interface {
	// Open opens the named asset. Names use forward slashes and are relative
	// to the store root; a leading slash is ignored.
	Open(name string) (fs.File, error)
}

// fsStore serves assets from an fs.FS.
type fsStore struct {
	fsys fs.FS
}

// NewFSStore creates an AssetStore backed by fsys.
func NewFSStore(fsys fs.FS) AssetStore {
	return &fsStore{fsys: fsys}
}

func (s *fsStore) Open(name string) (fs.File, error) {
	clean := path.Clean(strings.TrimPrefix(name, "/"))
	if !fs.ValidPath(clean) || clean == "." {
		return nil, &fs.PathError{Op: "open", Path: name, Err: ErrAssetNotFound}
	}

	f, err := s.fsys.Open(clean)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: ErrAssetNotFound}
	}
	return f, err
}
