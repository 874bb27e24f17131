package restserver

import (
	"embed"
	"io/fs"
	"os"
)

// Embed the viewer assets
//
//go:embed all:assets
var assetsFS embed.FS

// GetAssets returns the assets filesystem, either from disk or embedded
func GetAssets() fs.FS {
	// If EUKLEIDES_ASSETS_DIR points to a directory, serve the viewer from
	// disk so HTML/JS/CSS edits show up without a rebuild.
	if dir := os.Getenv("EUKLEIDES_ASSETS_DIR"); dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir)
		}
	}

	// Return a sub-filesystem starting from the "assets" directory
	assets, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic("failed to create assets sub-filesystem: " + err.Error())
	}
	return assets
}
