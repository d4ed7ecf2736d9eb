package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/navaudit/internal/markdown"
	"git.home.luguber.info/inful/navaudit/internal/mkdocs"
	"git.home.luguber.info/inful/navaudit/internal/pathspace"
	"git.home.luguber.info/inful/navaudit/internal/probe"
)

type fixture struct {
	root string
	r    *Resolver
}

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, p := range rel {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte("# x\n"), 0o600))
	}
}

func newFixture(t *testing.T, nav string, files ...string) fixture {
	t.Helper()
	root := t.TempDir()
	touch(t, root, files...)
	require.NoError(t, os.WriteFile(filepath.Join(root, "mkdocs.yml"), []byte(nav), 0o600))

	cfg, err := mkdocs.Load(filepath.Join(root, "mkdocs.yml"), "docs")
	require.NoError(t, err)
	p, err := probe.New(cfg.Root, "docs", 0)
	require.NoError(t, err)

	roots := []string{filepath.Join(cfg.Root, "docs")}
	names, err := p.Subsites()
	require.NoError(t, err)
	for _, n := range names {
		roots = append(roots, filepath.Join(cfg.Root, n, "docs"))
	}
	return fixture{root: cfg.Root, r: New(pathspace.Build(cfg, p), roots, ".md")}
}

func (f fixture) path(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(rel))
}

func (f fixture) resolve(t *testing.T, src, raw string) Result {
	t.Helper()
	link, ok := markdown.Normalise(raw, ".md")
	require.True(t, ok, raw)
	return f.r.Resolve(f.path(src), link)
}

const emptyNav = "nav: []\n"

func TestResolve_ModelAWinsOverModelB(t *testing.T) {
	f := newFixture(t, emptyNav,
		"guide/docs/config/aplan-output.md",
		"guide/docs/config/aplan-editor.md",
		"guide/docs/aplan-editor.md",
	)

	res := f.resolve(t, "guide/docs/config/aplan-output.md", "../aplan-editor.md")
	require.Equal(t, PhaseURLSpace, res.Phase)
	require.Equal(t, ModelPageAsDirectory, res.Model)
	require.Equal(t, f.path("guide/docs/config/aplan-editor.md"), res.Path)
}

func TestResolve_ModelBWhenModelAMissing(t *testing.T) {
	f := newFixture(t, emptyNav,
		"guide/docs/config/aplan-output.md",
		"guide/docs/aplan-editor.md",
	)

	res := f.resolve(t, "guide/docs/config/aplan-output.md", "../aplan-editor.md")
	require.Equal(t, PhaseURLSpace, res.Phase)
	require.Equal(t, ModelParentDirectory, res.Model)
	require.Equal(t, f.path("guide/docs/aplan-editor.md"), res.Path)
}

func TestResolve_CrossSubsite(t *testing.T) {
	f := newFixture(t, emptyNav,
		"release-notes/docs/new-enhanced.md",
		"programming-reference-guide/docs/introduction/arrays/array-notation.md",
	)

	res := f.resolve(t, "release-notes/docs/new-enhanced.md",
		"../../programming-reference-guide/introduction/arrays/array-notation.md")
	require.True(t, res.Resolved())
	require.Equal(t, f.path("programming-reference-guide/docs/introduction/arrays/array-notation.md"), res.Path)
}

func TestResolve_DirectoryIndexFallback(t *testing.T) {
	f := newFixture(t, emptyNav,
		"docs/index.md",
		"docs/primitive-functions/ravel/index.md",
	)

	res := f.resolve(t, "docs/index.md", "primitive-functions/ravel.md")
	require.True(t, res.Resolved())
	require.Equal(t, f.path("docs/primitive-functions/ravel/index.md"), res.Path)
}

func TestResolve_NavPair(t *testing.T) {
	nav := `nav:
  - Getting Started:
      - setup.md
      - deep/tuning.md
`
	f := newFixture(t, nav, "docs/setup.md", "docs/deep/tuning.md")

	res := f.resolve(t, "docs/setup.md", "tuning.md")
	require.Equal(t, PhaseNavPair, res.Phase)
	require.Equal(t, f.path("docs/deep/tuning.md"), res.Path)
}

func TestResolve_NavPairFromSharedTrail(t *testing.T) {
	nav := `nav:
  - S:
      - a/setup.md
      - b/setup.md
      - x/other.md
`
	f := newFixture(t, nav, "docs/a/setup.md", "docs/b/setup.md", "docs/x/other.md")

	for _, src := range []string{"docs/a/setup.md", "docs/b/setup.md"} {
		res := f.resolve(t, src, "other.md")
		require.Equal(t, PhaseNavPair, res.Phase, src)
		require.Equal(t, f.path("docs/x/other.md"), res.Path, src)
	}
}

func TestResolve_NavPairFromIndexPage(t *testing.T) {
	nav := `nav:
  - Guide:
      - guide/index.md
      - guide/setup.md
`
	f := newFixture(t, nav, "docs/guide/index.md", "docs/guide/setup.md")

	res := f.resolve(t, "docs/guide/index.md", "setup.md")
	require.Equal(t, PhaseNavPair, res.Phase)
	require.Equal(t, f.path("docs/guide/setup.md"), res.Path)
}

func TestResolve_SubsiteFallback(t *testing.T) {
	f := newFixture(t, "nav:\n  - a.md\n", "docs/a.md", "lib/docs/shared/x.md")

	res := f.resolve(t, "docs/a.md", "shared/x.md")
	require.Equal(t, PhaseSubsite, res.Phase)
	require.Equal(t, f.path("lib/docs/shared/x.md"), res.Path)
}

func TestResolve_ContentRootFallback(t *testing.T) {
	f := newFixture(t, emptyNav, "docs/sub/page.md", "docs/other/x.md")

	res := f.resolve(t, "docs/sub/page.md", "other/x.md")
	require.Equal(t, PhaseContentRoot, res.Phase)
	require.Equal(t, f.path("docs/other/x.md"), res.Path)
}

func TestResolve_ParentFallback(t *testing.T) {
	f := newFixture(t, emptyNav, "README.md", "notes.md")

	res := f.resolve(t, "README.md", "notes.md")
	require.Equal(t, PhaseParentDir, res.Phase)
	require.Equal(t, f.path("notes.md"), res.Path)
}

func TestResolve_BrokenAndExternal(t *testing.T) {
	f := newFixture(t, emptyNav, "docs/a.md")

	res := f.resolve(t, "docs/a.md", "b.md")
	require.False(t, res.Resolved())
	require.Equal(t, "broken", res.Phase.String())

	res = f.resolve(t, "docs/a.md", "https://example.com")
	require.True(t, res.Resolved())
	require.Equal(t, PhaseExternal, res.Phase)
}

func TestResolveTableTarget(t *testing.T) {
	f := newFixture(t, emptyNav, "language-reference-guide/docs/symbols/comma.md", "docs/local/page.md")

	res := f.r.ResolveTableTarget("language-reference-guide/symbols/comma")
	require.Equal(t, PhaseURLSpace, res.Phase)
	require.Equal(t, f.path("language-reference-guide/docs/symbols/comma.md"), res.Path)

	res = f.r.ResolveTableTarget("local/page")
	require.True(t, res.Resolved())
	require.Equal(t, f.path("docs/local/page.md"), res.Path)

	require.False(t, f.r.ResolveTableTarget("language-reference-guide/symbols/missing").Resolved())
	require.False(t, f.r.ResolveTableTarget("").Resolved())
}

func TestResolveImage(t *testing.T) {
	f := newFixture(t, emptyNav, "docs/guide/page.md", "docs/img/a.png", "lib/docs/x.md")

	res := f.r.ResolveImage(f.path("docs/guide/page.md"), "../img/a.png")
	require.Equal(t, PhaseParentDir, res.Phase)
	require.Equal(t, f.path("docs/img/a.png"), res.Path)

	res = f.r.ResolveImage(f.path("docs/guide/page.md"), "/img/a.png")
	require.Equal(t, PhaseContentRoot, res.Phase)
	require.Equal(t, f.path("docs/img/a.png"), res.Path)

	res = f.r.ResolveImage(f.path("lib/docs/x.md"), "img/a.png")
	require.True(t, res.Resolved())
	require.Equal(t, f.path("docs/img/a.png"), res.Path)

	require.False(t, f.r.ResolveImage(f.path("docs/guide/page.md"), "nope.png").Resolved())
}
