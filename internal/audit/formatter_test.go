package audit

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/navaudit/internal/git"
)

func sampleReport() *Report {
	return &Report{
		RunID:      "run-1",
		NavPath:    "/repo/mkdocs.yml",
		Git:        &git.Info{Branch: "main", Commit: "0123456789abcdef", ShortCommit: "01234567"},
		Categories: []Category{CategoryNavMissing, CategoryBrokenLinks},
		Counts:     map[Category]int{CategoryNavMissing: 1, CategoryBrokenLinks: 1},
		Total:      2,
		Documents:  3,
		NavMissing: []string{"guide.md"},
		BrokenLinks: []BrokenLink{
			{Source: "a.md", Target: "b.md", Line: 4, FromExternalTable: true},
		},
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter("text").Format(&buf, sampleReport()))

	out := buf.String()
	require.Contains(t, out, "Revision: main@01234567")
	require.Contains(t, out, "nav_missing (1)\n  guide.md\n")
	require.Contains(t, out, "  a.md:4 -> b.md [reference table]\n")
	require.Contains(t, out, "total")
	require.Contains(t, out, "2 findings.")
}

func TestTextFormatter_Clean(t *testing.T) {
	report := &Report{NavPath: "mkdocs.yml", Categories: DefaultCategories, Counts: map[Category]int{}}

	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter().Format(&buf, report))
	require.Contains(t, buf.String(), "consistent")
	require.NotContains(t, buf.String(), "(0)")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter("json").Format(&buf, sampleReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "run-1", decoded["run_id"])
	require.InDelta(t, 2, decoded["total"], 0)
	require.Equal(t, map[string]any{"nav_missing": float64(1), "broken_links": float64(1)}, decoded["counts"])
	require.Equal(t, []any{"guide.md"}, decoded["nav_missing"])
	require.NotContains(t, decoded, "ghost")

	links, ok := decoded["broken_links"].([]any)
	require.True(t, ok)
	require.Equal(t, true, links[0].(map[string]any)["from_external_table"])
}
