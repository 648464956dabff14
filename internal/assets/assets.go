// Package assets embeds the built-in device web page, used when no
// storage.web_dir is configured.
package assets

import (
	"embed"
	"io/fs"
	"strings"

	"github.com/jmylchreest/auratheme/internal/storage"
)

// StaticFS holds the built-in web page.
//
//go:embed all:static
var StaticFS embed.FS

// GetStaticFS returns a sub-filesystem rooted at "static/".
func GetStaticFS() (fs.FS, error) {
	return fs.Sub(StaticFS, "static")
}

// EmbeddedStore returns the built-in assets as an AssetStore.
func EmbeddedStore() storage.AssetStore {
	sub, err := GetStaticFS()
	if err != nil {
		// static/ is part of the binary; Sub only fails on an invalid name.
		panic(err)
	}
	return storage.NewFSStore(sub)
}

// ListAssets returns the paths of all embedded assets, relative to static/.
func ListAssets() ([]string, error) {
	var assets []string

	err := fs.WalkDir(StaticFS, "static", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() != ".gitkeep" {
			assets = append(assets, strings.TrimPrefix(path, "static/"))
		}
		return nil
	})

	return assets, err
}
