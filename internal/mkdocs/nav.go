// Package mkdocs models the navigation declaration of an MkDocs monorepo.
//
// Parsing produces a tree that may still contain Include leaves; Merge splices
// every include into a single tree that contains only Page, PlainPath and
// Section entries.
package mkdocs

import (
	"path"
	"path/filepath"
	"strings"
)

// DefaultContentDir is the content subdirectory MkDocs reads pages from.
const DefaultContentDir = "docs"

// Entry is one node of a navigation tree. The implementations in this
// package are the complete set.
type Entry interface {
	isEntry()
}

// Leaf is an entry that names a document.
type Leaf interface {
	Entry
	// TargetPath is the document path as written, relative to the content directory.
	TargetPath() string
	// DeclDir is the absolute directory of the declaration file that declared the leaf.
	DeclDir() string
}

// Page is a `{title: path}` entry.
type Page struct {
	Title  string
	Target string
	Dir    string
}

// PlainPath is a bare `path` entry; its title is implied by the file name.
type PlainPath struct {
	Target string
	Dir    string
}

// Section is a `{title: [children...]}` entry. Splice is set on sections that
// replaced an Include during merging and holds the included declaration's
// directory relative to the monorepo root, slash separated.
type Section struct {
	Title    string
	Children []Entry
	Splice   string
}

// Include is a `{title: "!include path"}` entry. It only exists before Merge.
type Include struct {
	Title string
	Path  string
	Dir   string
}

func (Page) isEntry()      {}
func (PlainPath) isEntry() {}
func (Section) isEntry()   {}
func (Include) isEntry()   {}

func (p Page) TargetPath() string      { return p.Target }
func (p Page) DeclDir() string         { return p.Dir }
func (p PlainPath) TargetPath() string { return p.Target }
func (p PlainPath) DeclDir() string    { return p.Dir }

// Config is a parsed navigation declaration.
type Config struct {
	// Path is the absolute path of the declaration file.
	Path string
	// Root is the directory containing the root declaration (the monorepo root).
	Root string
	// ContentDir is the content subdirectory name, normally "docs".
	ContentDir string
	Nav        []Entry
}

// FSPath returns the filesystem path a leaf refers to.
func FSPath(l Leaf, contentDir string) string {
	return filepath.Clean(filepath.Join(l.DeclDir(), contentDir, filepath.FromSlash(l.TargetPath())))
}

// IsExternal reports whether a nav target points off-site (MkDocs accepts
// absolute URLs as nav entries).
func IsExternal(target string) bool {
	t := strings.ToLower(strings.TrimSpace(target))
	return strings.HasPrefix(t, "http://") || strings.HasPrefix(t, "https://") || strings.HasPrefix(t, "//")
}

// Walk visits every entry depth-first in declared order. prefix holds the
// ancestor sections of the visited entry, outermost first.
func Walk(entries []Entry, fn func(e Entry, ancestors []*Section)) {
	walk(entries, nil, fn)
}

func walk(entries []Entry, ancestors []*Section, fn func(Entry, []*Section)) {
	for _, e := range entries {
		fn(e, ancestors)
		if s, ok := e.(Section); ok {
			next := make([]*Section, len(ancestors), len(ancestors)+1)
			copy(next, ancestors)
			walk(s.Children, append(next, &s), fn)
		}
	}
}

// Leaves returns every document leaf of the tree in declared order, skipping
// off-site targets.
func Leaves(entries []Entry) []Leaf {
	var out []Leaf
	Walk(entries, func(e Entry, _ []*Section) {
		if l, ok := e.(Leaf); ok && !IsExternal(l.TargetPath()) {
			out = append(out, l)
		}
	})
	return out
}

// Splices returns the monorepo-relative directories of every spliced
// sub-declaration, in declared order without duplicates.
func Splices(entries []Entry) []string {
	var out []string
	seen := map[string]bool{}
	Walk(entries, func(e Entry, _ []*Section) {
		if s, ok := e.(Section); ok && s.Splice != "" && !seen[s.Splice] {
			seen[s.Splice] = true
			out = append(out, s.Splice)
		}
	})
	return out
}

// relSlash returns target relative to base, slash separated, or "" when
// target is base.
func relSlash(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil || rel == "." {
		return ""
	}
	return path.Clean(filepath.ToSlash(rel))
}
