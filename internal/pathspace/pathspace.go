// Package pathspace maps documents declared in a merged navigation tree to
// the URL trails the rendered site serves them under, and back.
package pathspace

import (
	"path"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/navaudit/internal/mkdocs"
	"git.home.luguber.info/inful/navaudit/internal/probe"
	"git.home.luguber.info/inful/navaudit/internal/util/sets"
)

const indexStem = "index"

// Declaration is one nav leaf as declared, in walk order.
type Declaration struct {
	// FSPath is the absolute filesystem path the leaf refers to.
	FSPath string
	// Target is the leaf's path as written.
	Target string
	// Trail is the URL trail computed for this declaration.
	Trail string
}

// Duplicate is a filesystem path declared by more than one nav leaf.
type Duplicate struct {
	FSPath string
	Trails []string
}

// PathSpace is the bidirectional filesystem/URL mapping of one run. It is
// immutable after Build and safe for concurrent reads.
type PathSpace struct {
	root       string
	contentDir string
	prober     *probe.Prober

	toURL map[string]string
	toFS  map[string]string

	declarations []Declaration
	members      []string
	memberSet    sets.Set[string]
	duplicates   []Duplicate
}

// Build walks the merged tree depth-first and records the first mapping seen
// for each filesystem path and each trail.
func Build(cfg *mkdocs.Config, p *probe.Prober) *PathSpace {
	ps := &PathSpace{
		root:       filepath.Clean(cfg.Root),
		contentDir: cfg.ContentDir,
		prober:     p,
		toURL:      make(map[string]string),
		toFS:       make(map[string]string),
		memberSet:  sets.New[string](),
	}
	ps.walk(cfg.Nav, "")
	ps.finish()
	return ps
}

func (ps *PathSpace) walk(entries []mkdocs.Entry, prefix string) {
	for _, e := range entries {
		switch v := e.(type) {
		case mkdocs.Section:
			next := path.Join(prefix, Slug(v.Title))
			if v.Splice != "" {
				next = path.Join(prefix, v.Splice)
			}
			ps.walk(v.Children, next)
		case mkdocs.Leaf:
			if mkdocs.IsExternal(v.TargetPath()) {
				continue
			}
			ps.insert(v, prefix)
		}
	}
}

func (ps *PathSpace) insert(leaf mkdocs.Leaf, prefix string) {
	fsPath := mkdocs.FSPath(leaf, ps.contentDir)
	target := path.Clean(filepath.ToSlash(leaf.TargetPath()))
	trail := leafTrail(target, prefix)

	// An index page collapses into its parent; when the parent trail already
	// names another document the page keeps its explicit index segment.
	if owner, taken := ps.toFS[trail]; taken && owner != fsPath && isIndex(target) {
		trail = path.Join(trail, indexStem)
	}

	ps.declarations = append(ps.declarations, Declaration{FSPath: fsPath, Target: leaf.TargetPath(), Trail: trail})

	if !ps.memberSet.Has(fsPath) {
		ps.memberSet.Add(fsPath)
		ps.members = append(ps.members, fsPath)
	}
	// Every declared path keeps the trail of its first declaration; a trail
	// claimed by two paths resolves to the first one.
	if _, mapped := ps.toURL[fsPath]; !mapped {
		ps.toURL[fsPath] = trail
	}
	if _, taken := ps.toFS[trail]; !taken {
		ps.toFS[trail] = fsPath
	}
}

// leafTrail computes the trail of a nav target under prefix. Top-level
// targets keep their directory structure; targets below a section or splice
// contribute only their file stem.
func leafTrail(target, prefix string) string {
	stem := strings.TrimSuffix(path.Base(target), path.Ext(target))
	var trail string
	if prefix == "" {
		trail = strings.TrimSuffix(target, path.Ext(target))
	} else {
		trail = path.Join(prefix, stem)
	}
	trail = CollapseSegments(trail)
	if stem == indexStem {
		trail = parentTrail(trail)
	}
	return trail
}

func isIndex(target string) bool {
	return strings.TrimSuffix(path.Base(target), path.Ext(target)) == indexStem
}

func parentTrail(trail string) string {
	dir := path.Dir(trail)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

func (ps *PathSpace) finish() {
	byPath := make(map[string][]string)
	var order []string
	for _, d := range ps.declarations {
		if _, seen := byPath[d.FSPath]; !seen {
			order = append(order, d.FSPath)
		}
		byPath[d.FSPath] = append(byPath[d.FSPath], d.Trail)
	}
	for _, p := range order {
		if trails := byPath[p]; len(trails) > 1 {
			ps.duplicates = append(ps.duplicates, Duplicate{FSPath: p, Trails: trails})
		}
	}
	slices.SortFunc(ps.duplicates, func(a, b Duplicate) int { return strings.Compare(a.FSPath, b.FSPath) })
}

// Root returns the monorepo root.
func (ps *PathSpace) Root() string { return ps.root }

// ContentDir returns the content subdirectory name.
func (ps *PathSpace) ContentDir() string { return ps.contentDir }

// Prober returns the run's probe cache.
func (ps *PathSpace) Prober() *probe.Prober { return ps.prober }

// ToURL returns the trail of a nav member's first declaration.
func (ps *PathSpace) ToURL(fsPath string) (string, bool) {
	trail, ok := ps.toURL[filepath.Clean(fsPath)]
	return trail, ok
}

// ToFS returns the filesystem path served under trail. When hint names a
// subsite and trail is not already inside it, the hinted trail is tried first.
func (ps *PathSpace) ToFS(trail, hint string) (string, bool) {
	trail = strings.Trim(trail, "/")
	if hint != "" && trail != hint && !strings.HasPrefix(trail, hint+"/") {
		if fs, ok := ps.toFS[path.Join(hint, trail)]; ok {
			return fs, true
		}
	}
	fs, ok := ps.toFS[trail]
	return fs, ok
}

// Lookup finds the document for a rendered URL, accepting a trailing slash
// and an explicit or implied index segment.
func (ps *PathSpace) Lookup(rendered string) (string, bool) {
	if fs, ok := ps.toFS[rendered]; ok {
		return fs, true
	}
	trimmed := strings.TrimRight(rendered, "/")
	if fs, ok := ps.toFS[trimmed]; ok {
		return fs, true
	}
	if trimmed == indexStem {
		if fs, ok := ps.toFS[""]; ok {
			return fs, true
		}
	}
	if parent, ok := strings.CutSuffix(trimmed, "/"+indexStem); ok {
		if fs, ok := ps.toFS[parent]; ok {
			return fs, true
		}
	}
	fs, ok := ps.toFS[path.Join(trimmed, indexStem)]
	return fs, ok
}

// IsMember reports whether fsPath is declared in nav.
func (ps *PathSpace) IsMember(fsPath string) bool {
	return ps.memberSet.Has(filepath.Clean(fsPath))
}

// Members returns every distinct nav member in declared order.
func (ps *PathSpace) Members() []string { return slices.Clone(ps.members) }

// Declarations returns every nav leaf in declared order, including repeats.
func (ps *PathSpace) Declarations() []Declaration { return slices.Clone(ps.declarations) }

// Duplicates returns the filesystem paths declared more than once, sorted.
func (ps *PathSpace) Duplicates() []Duplicate { return slices.Clone(ps.duplicates) }

// Trails returns the number of distinct trails.
func (ps *PathSpace) Trails() int { return len(ps.toFS) }
