// Package probe memoizes filesystem existence checks for a single audit run.
//
// A Prober is owned by one run and handed to every component that needs to
// ask the disk a question, so concurrent audits in one process never share
// answers.
package probe

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"git.home.luguber.info/inful/navaudit/internal/logfields"
)

// DefaultCacheSize bounds the number of memoized path lookups.
const DefaultCacheSize = 65536

// Kind classifies what a path names on disk.
type Kind uint8

const (
	Missing Kind = iota
	File
	Dir
)

// Prober answers file, directory and subsite questions relative to a
// monorepo root. It is safe for concurrent use.
type Prober struct {
	root       string
	contentDir string
	kinds      *lru.Cache[string, Kind]
}

// New creates a Prober for root. size <= 0 selects DefaultCacheSize.
func New(root, contentDir string, size int) (*Prober, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, Kind](size)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Prober{root: filepath.Clean(abs), contentDir: contentDir, kinds: cache}, nil
}

// Root returns the absolute monorepo root.
func (p *Prober) Root() string { return p.root }

// ContentDir returns the content subdirectory name.
func (p *Prober) ContentDir() string { return p.contentDir }

// Kind reports what path names. Errors other than non-existence are logged
// and treated as Missing.
func (p *Prober) Kind(path string) Kind {
	path = filepath.Clean(path)
	if k, ok := p.kinds.Get(path); ok {
		return k
	}
	k := Missing
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		k = Dir
	case err == nil:
		k = File
	case !errors.Is(err, fs.ErrNotExist):
		slog.Debug("Path probe failed", logfields.Path(path), logfields.Error(err))
	}
	p.kinds.Add(path, k)
	return k
}

// IsFile reports whether path is an existing regular file (or non-directory).
func (p *Prober) IsFile(path string) bool { return p.Kind(path) == File }

// IsDir reports whether path is an existing directory.
func (p *Prober) IsDir(path string) bool { return p.Kind(path) == Dir }

// IsSubsite reports whether dir is a first-level directory of the root that
// itself contains the content subdirectory.
func (p *Prober) IsSubsite(dir string) bool {
	dir = filepath.Clean(dir)
	if filepath.Dir(dir) != p.root {
		return false
	}
	return p.IsDir(filepath.Join(dir, p.contentDir))
}

// IsSubsiteName is IsSubsite for a first-level directory name.
func (p *Prober) IsSubsiteName(name string) bool {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return false
	}
	return p.IsSubsite(filepath.Join(p.root, name))
}

// Subsites lists the names of every subsite under the root in sorted order.
func (p *Prober) Subsites() ([]string, error) {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if p.IsSubsiteName(e.Name()) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// Len returns the number of memoized entries.
func (p *Prober) Len() int { return p.kinds.Len() }
