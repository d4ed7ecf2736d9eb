package pathspace

import (
	"path"
	"path/filepath"
	"strings"
)

// Location describes where a document sits relative to the content layout.
type Location struct {
	// ContentRoot is the nearest ancestor directory named after the content
	// subdirectory.
	ContentRoot string
	// SiteDir is the directory containing ContentRoot.
	SiteDir string
	// Site is the base name of SiteDir.
	Site string
	// Within is the slash-separated path of the document below ContentRoot.
	Within string
}

// Locate finds the content root of fsPath. It reports false for paths that
// are not below any content directory.
func (ps *PathSpace) Locate(fsPath string) (Location, bool) {
	return LocateIn(fsPath, ps.contentDir)
}

// LocateIn is Locate for an explicit content directory name.
func LocateIn(fsPath, contentDir string) (Location, bool) {
	fsPath = filepath.Clean(fsPath)
	for dir := filepath.Dir(fsPath); ; dir = filepath.Dir(dir) {
		if filepath.Base(dir) == contentDir {
			rel, err := filepath.Rel(dir, fsPath)
			if err != nil {
				return Location{}, false
			}
			site := filepath.Dir(dir)
			return Location{
				ContentRoot: dir,
				SiteDir:     site,
				Site:        filepath.Base(site),
				Within:      filepath.ToSlash(rel),
			}, true
		}
		if parent := filepath.Dir(dir); parent == dir {
			return Location{}, false
		}
	}
}

// CollapseSegments resolves "." and ".." segments of a slash path. Leading
// "..", which would climb above the trail root, are discarded.
func CollapseSegments(p string) string {
	var parts []string
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, seg)
		}
	}
	return path.Join(parts...)
}
