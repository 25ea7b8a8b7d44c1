package debugbar

import (
	"embed"
	"io/fs"
)

//go:embed assets
var embeddedAssets embed.FS

// AssetsFS exposes the browser bundle (core bar plus every built-in
// collector's files) so applications can serve it without a build step.
//
// Typical mount:
//
//	mux.Handle("/_debugbar/assets/",
//	  http.StripPrefix("/_debugbar/assets/",
//	    http.FileServerFS(debugbar.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
