package audit

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/navaudit/internal/logfields"
	"git.home.luguber.info/inful/navaudit/internal/util/sets"
)

// corpus is every file found below the content roots. Stylesheets are
// also collected from the shared assets directory.
type corpus struct {
	docs        []string
	images      []string
	stylesheets []string
}

// contentRoots lists the root site's content directory, then each subsite's,
// then the content directory of every spliced include, without duplicates.
func (r *run) collectContentRoots(splices []string) []string {
	var roots []string
	add := func(dir string) {
		if r.prober.IsDir(dir) && !slices.Contains(roots, dir) {
			roots = append(roots, dir)
		}
	}
	add(filepath.Join(r.root, r.cfg.ContentDir))
	subsites, err := r.prober.Subsites()
	if err != nil {
		r.recordError(r.root, err)
	}
	for _, name := range subsites {
		add(filepath.Join(r.root, name, r.cfg.ContentDir))
	}
	for _, splice := range splices {
		add(filepath.Join(r.root, filepath.FromSlash(splice), r.cfg.ContentDir))
	}
	return roots
}

func (r *run) scan() corpus {
	var c corpus
	seen := sets.New[string]()

	for _, base := range r.contentRoots {
		r.walk(base, seen, func(p, ext string) {
			switch {
			case strings.EqualFold(ext, r.cfg.Extension):
				c.docs = append(c.docs, p)
			case slices.Contains(r.cfg.ImageExtensions, ext):
				c.images = append(c.images, p)
			case slices.Contains(r.cfg.StylesheetExtensions, ext):
				c.stylesheets = append(c.stylesheets, p)
			}
		})
	}

	if r.cfg.AssetsDir != "" {
		assets := filepath.Join(r.root, r.cfg.AssetsDir)
		if r.prober.IsDir(assets) {
			r.walk(assets, seen, func(p, ext string) {
				if slices.Contains(r.cfg.StylesheetExtensions, ext) {
					c.stylesheets = append(c.stylesheets, p)
				}
			})
		}
	}

	slices.Sort(c.docs)
	slices.Sort(c.images)
	slices.Sort(c.stylesheets)
	return c
}

// walk visits every regular file below base once, skipping hidden and
// excluded entries. Unreadable directories are recorded and skipped.
func (r *run) walk(base string, seen sets.Set[string], visit func(path, ext string)) {
	_ = filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			r.recordError(p, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if p != base && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if r.excluded(p) {
			if d.IsDir() {
				slog.Debug("Skipping excluded directory", logfields.Path(r.display(p)))
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || seen.Has(p) {
			return nil
		}
		seen.Add(p)
		visit(p, strings.ToLower(filepath.Ext(p)))
		return nil
	})
}

// excluded reports whether the root-relative path of p contains any of the
// exclusion substrings, ignoring case.
func (r *run) excluded(p string) bool {
	if len(r.cfg.Exclude) == 0 {
		return false
	}
	rel := strings.ToLower(r.relRoot(p))
	for _, sub := range r.cfg.Exclude {
		if strings.Contains(rel, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

func (r *run) relRoot(p string) string {
	rel, err := filepath.Rel(r.root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

// display renders p relative to the root site's content directory when it
// lies inside it, otherwise relative to the monorepo root.
func (r *run) display(p string) string {
	if rel, err := filepath.Rel(r.docsRoot, p); err == nil && filepath.IsLocal(rel) {
		return filepath.ToSlash(rel)
	}
	return r.relRoot(p)
}
