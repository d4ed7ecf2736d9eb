// Package resolve resolves link and image references against the rendered
// URL space of a site and the filesystem behind it.
//
// Link resolution tries these phases in order and stops at the first hit:
//
//  1. nav pair: join the link to the source's nav trail and look the result
//     up in the nav map.
//  2. URL space: join the link to the source's URL under two bases, the page
//     itself treated as a directory and then its parent, and map the result
//     back to disk. A result naming another subsite gets that subsite's
//     content directory inserted after its name.
//  3. subsite: for nav members, retry the nav-relative URL under the
//     source's content root and then every other content root.
//  4. content root: join the link to the source's content root.
//  5. parent directory: join the link to the source's directory.
//
// Every disk candidate also accepts the directory-index form
// <name>/index<ext>.
package resolve

import (
	"path"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/navaudit/internal/markdown"
	"git.home.luguber.info/inful/navaudit/internal/pathspace"
	"git.home.luguber.info/inful/navaudit/internal/probe"
)

// Resolver holds the read-only inputs of resolution and no mutable state of
// its own; the prober memoizes disk answers for the run.
type Resolver struct {
	ps           *pathspace.PathSpace
	prober       *probe.Prober
	root         string
	contentDir   string
	ext          string
	contentRoots []string
}

// New creates a Resolver. contentRoots lists every content root of the
// monorepo in search order; ext is the content file extension.
func New(ps *pathspace.PathSpace, contentRoots []string, ext string) *Resolver {
	if ext == "" {
		ext = markdown.DefaultExtension
	}
	return &Resolver{
		ps:           ps,
		prober:       ps.Prober(),
		root:         ps.Root(),
		contentDir:   ps.ContentDir(),
		ext:          ext,
		contentRoots: slices.Clone(contentRoots),
	}
}

// source is a document links are resolved relative to.
type source struct {
	path      string
	parent    string
	loc       pathspace.Location
	located   bool
	trail     string
	navMember bool
	// forceAbsolute treats every link as root-relative.
	forceAbsolute bool
}

func (r *Resolver) sourceFor(fsPath string) source {
	fsPath = filepath.Clean(fsPath)
	s := source{path: fsPath, parent: filepath.Dir(fsPath)}
	s.loc, s.located = r.ps.Locate(fsPath)
	s.trail, s.navMember = r.ps.ToURL(fsPath)
	return s
}

// Resolve resolves a normalised link found in the document at sourcePath.
func (r *Resolver) Resolve(sourcePath string, link markdown.NormalisedLink) Result {
	if link.External {
		return Result{Phase: PhaseExternal}
	}
	return r.resolve(r.sourceFor(sourcePath), link.Path, true)
}

// ResolveTableTarget resolves an external-reference table target, a path
// relative to the monorepo root without extension. The nav-pair phase is
// skipped since table keys are not nav members.
func (r *Resolver) ResolveTableTarget(target string) Result {
	link := strings.Trim(target, "/")
	if link == "" {
		return Broken
	}
	if path.Ext(link) != r.ext {
		link += r.ext
	}
	contentRoot := filepath.Join(r.root, r.contentDir)
	virtual := source{
		path:          filepath.Join(r.root, "index"+r.ext),
		parent:        r.root,
		loc:           pathspace.Location{ContentRoot: contentRoot, SiteDir: r.root},
		located:       true,
		forceAbsolute: true,
	}
	return r.resolve(virtual, "/"+link, false)
}

func (r *Resolver) resolve(src source, link string, navPair bool) Result {
	if navPair {
		if res, ok := r.navPair(src, link); ok {
			return res
		}
	}
	if res, ok := r.urlSpace(src, link); ok {
		return res
	}
	if res, ok := r.subsiteFallback(src, link); ok {
		return res
	}
	if res, ok := r.contentRootFallback(src, link); ok {
		return res
	}
	if res, ok := r.parentFallback(src, link); ok {
		return res
	}
	return Broken
}

func isAbsolute(link string) bool { return strings.HasPrefix(link, "/") }

func (r *Resolver) stripExt(link string) string {
	return strings.TrimSuffix(link, path.Ext(link))
}

// navRendered is the URL a link names relative to the source's nav trail.
func (r *Resolver) navRendered(src source, link string) (string, bool) {
	if !src.navMember {
		return "", false
	}
	target := r.stripExt(link)
	if isAbsolute(link) {
		return pathspace.CollapseSegments(target), true
	}
	base := path.Dir(src.trail)
	if base == "." {
		base = ""
	}
	if isIndexFile(src.path, r.ext) {
		base = src.trail
	}
	return pathspace.CollapseSegments(path.Join(base, target)), true
}

func isIndexFile(fsPath, ext string) bool {
	return filepath.Base(fsPath) == "index"+ext
}

func (r *Resolver) navPair(src source, link string) (Result, bool) {
	rendered, ok := r.navRendered(src, link)
	if !ok {
		return Result{}, false
	}
	target, ok := r.ps.Lookup(rendered)
	if !ok {
		return Result{}, false
	}
	return Result{Path: target, Phase: PhaseNavPair}, true
}

func (r *Resolver) urlSpace(src source, link string) (Result, bool) {
	if !src.located {
		return Result{}, false
	}
	site := src.loc.Site
	target := r.stripExt(link)

	if src.forceAbsolute || isAbsolute(link) {
		u := pathspace.CollapseSegments(strings.TrimLeft(target, "/"))
		if u == "" {
			return Result{}, false
		}
		if hit, ok := r.existing(r.urlToFS(u, site, src.loc.ContentRoot)); ok {
			return Result{Path: hit, Phase: PhaseURLSpace}, true
		}
		return Result{}, false
	}

	srcURL := path.Join(site, r.stripExt(src.loc.Within))
	bases := []struct {
		base  string
		model Model
	}{
		{srcURL, ModelPageAsDirectory},
		{parentURL(srcURL), ModelParentDirectory},
	}

	var tried []string
	for _, b := range bases {
		u := pathspace.CollapseSegments(path.Join(b.base, target))
		if u == "" {
			continue
		}
		candidate := r.urlToFS(u, site, src.loc.ContentRoot)
		if slices.Contains(tried, candidate) {
			continue
		}
		tried = append(tried, candidate)
		if hit, ok := r.existing(candidate); ok {
			return Result{Path: hit, Phase: PhaseURLSpace, Model: b.model}, true
		}
	}
	return Result{}, false
}

func parentURL(u string) string {
	dir := path.Dir(u)
	if dir == "." {
		return ""
	}
	return dir
}

// urlToFS maps a site URL back to a candidate file. A first segment naming
// another subsite is mapped into that subsite's content root; everything
// else is relative to the source's content root.
func (r *Resolver) urlToFS(u, site, contentRoot string) string {
	first, rest, _ := strings.Cut(u, "/")
	if first != site && r.prober.IsSubsiteName(first) {
		return filepath.Join(r.root, first, r.contentDir, filepath.FromSlash(rest)) + r.ext
	}
	within := u
	if site != "" {
		if u == site {
			within = "index"
		} else {
			within = strings.TrimPrefix(u, site+"/")
		}
	}
	return filepath.Join(contentRoot, filepath.FromSlash(within)) + r.ext
}

func (r *Resolver) subsiteFallback(src source, link string) (Result, bool) {
	rendered, ok := r.navRendered(src, link)
	if !ok || rendered == "" {
		return Result{}, false
	}
	roots := make([]string, 0, len(r.contentRoots)+1)
	if src.located {
		roots = append(roots, src.loc.ContentRoot)
	}
	for _, root := range r.contentRoots {
		if !slices.Contains(roots, root) {
			roots = append(roots, root)
		}
	}
	for _, root := range roots {
		candidate := filepath.Join(root, filepath.FromSlash(rendered)) + r.ext
		if hit, ok := r.existing(candidate); ok {
			return Result{Path: hit, Phase: PhaseSubsite}, true
		}
	}
	return Result{}, false
}

func (r *Resolver) contentRootFallback(src source, link string) (Result, bool) {
	if !src.located {
		return Result{}, false
	}
	rel := strings.TrimLeft(link, "/")
	if hit, ok := r.existing(filepath.Join(src.loc.ContentRoot, filepath.FromSlash(rel))); ok {
		return Result{Path: hit, Phase: PhaseContentRoot}, true
	}
	return Result{}, false
}

func (r *Resolver) parentFallback(src source, link string) (Result, bool) {
	rel := strings.TrimLeft(link, "/")
	if hit, ok := r.existing(filepath.Join(src.parent, filepath.FromSlash(rel))); ok {
		return Result{Path: hit, Phase: PhaseParentDir}, true
	}
	return Result{}, false
}

// existing checks candidate and then its directory-index form.
func (r *Resolver) existing(candidate string) (string, bool) {
	candidate = filepath.Clean(candidate)
	if r.prober.IsFile(candidate) {
		return candidate, true
	}
	index := filepath.Join(strings.TrimSuffix(candidate, filepath.Ext(candidate)), "index"+r.ext)
	if r.prober.IsFile(index) {
		return index, true
	}
	return "", false
}
