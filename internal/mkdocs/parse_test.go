package mkdocs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/navaudit/internal/foundation/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestParseNav_Shapes(t *testing.T) {
	yml := `site_name: Test
nav:
  - index.md
  - Guide: guide.md
  - Reference:
      - ref/a.md
      - B: ref/b.md
  - Sub: '!include ./sub/mkdocs.yml'
  - Tagged: !include ./tagged/mkdocs.yml
  - Home: https://example.com/
`
	entries, err := ParseNav([]byte(yml), "/repo", "/repo/mkdocs.yml")
	require.NoError(t, err)
	require.Len(t, entries, 6)

	require.Equal(t, PlainPath{Target: "index.md", Dir: "/repo"}, entries[0])
	require.Equal(t, Page{Title: "Guide", Target: "guide.md", Dir: "/repo"}, entries[1])

	section, ok := entries[2].(Section)
	require.True(t, ok)
	require.Equal(t, "Reference", section.Title)
	require.Equal(t, []Entry{
		PlainPath{Target: "ref/a.md", Dir: "/repo"},
		Page{Title: "B", Target: "ref/b.md", Dir: "/repo"},
	}, section.Children)

	require.Equal(t, Include{Title: "Sub", Path: "./sub/mkdocs.yml", Dir: "/repo"}, entries[3])
	require.Equal(t, Include{Title: "Tagged", Path: "./tagged/mkdocs.yml", Dir: "/repo"}, entries[4])
	require.Equal(t, Page{Title: "Home", Target: "https://example.com/", Dir: "/repo"}, entries[5])
}

func TestParseNav_MissingNav(t *testing.T) {
	_, err := ParseNav([]byte("site_name: x\n"), "/repo", "mkdocs.yml")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMissingNav)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestParseNav_RejectsUnknownShapes(t *testing.T) {
	cases := map[string]string{
		"two keys":      "nav:\n  - A: a.md\n    B: b.md\n",
		"nested map":    "nav:\n  - A:\n      x: y\n",
		"null target":   "nav:\n  - A:\n",
		"sequence item": "nav:\n  - - a.md\n",
		"nav scalar":    "nav: a.md\n",
	}
	for name, yml := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseNav([]byte(yml), "/repo", "mkdocs.yml")
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrUnknownEntry), "got %v", err)
			ce, ok := ferrors.AsClassified(err)
			require.True(t, ok)
			require.True(t, ce.IsFatal())
		})
	}
}

func TestParseRoot_Unreadable(t *testing.T) {
	_, err := ParseRoot(filepath.Join(t.TempDir(), "missing.yml"), "")
	require.ErrorIs(t, err, ErrUnreadable)
}

func TestParseRoot_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mkdocs.yml")
	writeFile(t, path, "nav: [unclosed\n")

	_, err := ParseRoot(path, "")
	require.ErrorIs(t, err, ErrUnreadable)
}

func TestParseRoot_DefaultsContentDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mkdocs.yml")
	writeFile(t, path, "nav:\n  - index.md\n")

	cfg, err := ParseRoot(path, "")
	require.NoError(t, err)
	require.Equal(t, DefaultContentDir, cfg.ContentDir)
	require.Equal(t, dir, cfg.Root)
	require.Len(t, cfg.Nav, 1)
}

func TestLeavesSkipExternal(t *testing.T) {
	entries := []Entry{
		Page{Title: "Home", Target: "https://example.com"},
		Section{Title: "S", Children: []Entry{PlainPath{Target: "a.md"}}},
	}
	leaves := Leaves(entries)
	require.Len(t, leaves, 1)
	require.Equal(t, "a.md", leaves[0].TargetPath())
}
