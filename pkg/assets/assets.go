// Package assets describes the static files a collector ships for the debug
// panel and verifies they exist before the panel is served.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Descriptor locates a collector's front-end files. BasePath is relative to
// the asset filesystem root, BaseURL is where the panel loads them from. CSS
// is optional; JS is required.
type Descriptor struct {
	BasePath string `json:"base_path"`
	BaseURL  string `json:"base_url"`
	CSS      string `json:"css"`
	JS       string `json:"js"`
}

// Files returns the asset paths relative to the filesystem root.
func (d Descriptor) Files() []string {
	var files []string
	if css := strings.TrimSpace(d.CSS); css != "" {
		files = append(files, path.Join(d.BasePath, css))
	}
	if js := strings.TrimSpace(d.JS); js != "" {
		files = append(files, path.Join(d.BasePath, js))
	}
	return files
}

// URLs returns the public URLs of the descriptor's files, CSS first.
func (d Descriptor) URLs() []string {
	var urls []string
	base := strings.TrimRight(d.BaseURL, "/")
	if css := strings.TrimSpace(d.CSS); css != "" {
		urls = append(urls, base+"/"+strings.TrimLeft(css, "/"))
	}
	if js := strings.TrimSpace(d.JS); js != "" {
		urls = append(urls, base+"/"+strings.TrimLeft(js, "/"))
	}
	return urls
}

// Verify checks that every file referenced by d exists in fsys.
func Verify(fsys fs.FS, d Descriptor) error {
	if fsys == nil {
		return errors.New("assets: filesystem is required")
	}
	if strings.TrimSpace(d.JS) == "" {
		return fmt.Errorf("assets: descriptor for %q has no js entry", d.BasePath)
	}
	for _, file := range d.Files() {
		info, err := fs.Stat(fsys, file)
		if err != nil {
			return fmt.Errorf("assets: stat %s: %w", file, err)
		}
		if info.IsDir() {
			return fmt.Errorf("assets: %s is a directory", file)
		}
	}
	return nil
}
