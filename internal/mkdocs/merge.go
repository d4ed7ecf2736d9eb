package mkdocs

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/navaudit/internal/foundation/errors"
	"git.home.luguber.info/inful/navaudit/internal/logfields"
	"git.home.luguber.info/inful/navaudit/internal/util/sets"
)

// Merge returns a copy of cfg whose nav contains no Include entries. Each
// include is parsed in its own directory and replaced by a Section carrying
// the include's title and splice directory. Include cycles and dangling
// include targets are reported as fatal config errors.
func Merge(cfg *Config) (*Config, error) {
	rootCanon, err := canonical(cfg.Path)
	if err != nil {
		return nil, danglingInclude(cfg.Path, err)
	}

	m := &merger{root: cfg.Root, active: sets.New(rootCanon)}
	nav, err := m.entries(cfg.Nav)
	if err != nil {
		return nil, err
	}

	merged := *cfg
	merged.Nav = nav
	return &merged, nil
}

// Load parses the root declaration and merges every include.
func Load(path, contentDir string) (*Config, error) {
	cfg, err := ParseRoot(path, contentDir)
	if err != nil {
		return nil, err
	}
	return Merge(cfg)
}

type merger struct {
	root string
	// active holds the canonical paths on the current include chain.
	active sets.Set[string]
}

func (m *merger) entries(in []Entry) ([]Entry, error) {
	out := make([]Entry, 0, len(in))
	for _, e := range in {
		switch v := e.(type) {
		case Include:
			section, err := m.include(v)
			if err != nil {
				return nil, err
			}
			out = append(out, section)
		case Section:
			children, err := m.entries(v.Children)
			if err != nil {
				return nil, err
			}
			v.Children = children
			out = append(out, v)
		default:
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *merger) include(inc Include) (Section, error) {
	target := filepath.Clean(filepath.Join(inc.Dir, filepath.FromSlash(inc.Path)))
	canon, err := canonical(target)
	if err != nil {
		return Section{}, danglingInclude(target, err)
	}
	if m.active.Has(canon) {
		return Section{}, ferrors.WrapError(ErrIncludeCycle, ferrors.CategoryConfig, "include cycle detected").
			Fatal().
			WithContext("path", target).
			WithContext("included_from", inc.Dir).
			Build()
	}

	m.active.Add(canon)
	defer m.active.Delete(canon)

	slog.Debug("Splicing navigation include", logfields.Path(target), slog.String("title", inc.Title))

	nav, err := parseFile(target)
	if err != nil {
		return Section{}, err
	}
	children, err := m.entries(nav)
	if err != nil {
		return Section{}, err
	}

	return Section{
		Title:    inc.Title,
		Children: children,
		Splice:   relSlash(m.root, filepath.Dir(target)),
	}, nil
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", abs)
	}
	return filepath.EvalSymlinks(abs)
}

func danglingInclude(path string, cause error) error {
	return ferrors.WrapError(fmt.Errorf("%w: %w", ErrDanglingInclude, cause), ferrors.CategoryConfig, "include target does not exist").
		Fatal().
		WithContext("path", path).
		Build()
}
