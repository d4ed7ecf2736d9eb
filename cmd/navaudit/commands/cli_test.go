package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/navaudit/internal/audit"
	ferrors "git.home.luguber.info/inful/navaudit/internal/foundation/errors"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"}, kong.BindTo(context.Background(), (*context.Context)(nil)))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	return cli, kctx
}

func TestParse_AuditIsDefault(t *testing.T) {
	cli, kctx := parse(t, "--ghost", "--nav-duplicates", "--exclude", "Drafts,old", "-m", "site/mkdocs.yml")
	require.Equal(t, "audit", kctx.Command())
	require.Equal(t, []audit.Category{audit.CategoryGhost, audit.CategoryNavDuplicates}, cli.Audit.categories())
	require.Equal(t, "Drafts,old", cli.Audit.Exclude)
	require.True(t, filepath.IsAbs(cli.Audit.MkdocsYAML))
}

func TestParse_WatchSharesAuditFlags(t *testing.T) {
	cli, kctx := parse(t, "watch", "--summary", "--format", "json", "--debounce", "2s")
	require.Equal(t, "watch", kctx.Command())
	require.True(t, cli.Watch.Summary)
	require.Equal(t, "json", cli.Watch.Format)
	require.Equal(t, "2s", cli.Watch.Debounce.String())
}

func TestExitCode(t *testing.T) {
	var buf bytes.Buffer
	require.Equal(t, 0, ExitCode(&buf, nil, false))
	require.Equal(t, 1, ExitCode(&buf, fmt.Errorf("run: %w", ErrFindings), false))
	require.Empty(t, buf.String())

	code := ExitCode(&buf, ferrors.ConfigError("include cycle").WithContext("path", "mkdocs.yml").Build(), false)
	require.Equal(t, 7, code)
	require.Contains(t, buf.String(), "include cycle (mkdocs.yml)")
}

func TestAuditCmd_Run(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}
	write("mkdocs.yml", "nav:\n  - Home: index.md\n")
	write("docs/index.md", "# Home\n")
	metricsFile := filepath.Join(root, "navaudit.prom")

	cli, _ := parse(t, "audit", "-q", "-m", filepath.Join(root, "mkdocs.yml"), "--metrics-file", metricsFile)
	require.NoError(t, cli.Audit.Run(context.Background(), &Global{}, cli))

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "navaudit_findings")

	write("docs/orphan.md", "# Orphan\n")
	require.ErrorIs(t, cli.Audit.Run(context.Background(), &Global{}, cli), ErrFindings)
}

func TestAuditCmd_ConfigCategories(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}
	write("mkdocs.yml", "nav:\n  - Home: index.md\n")
	write("docs/index.md", "# Home\n")
	write("docs/orphan.md", "# Orphan\n")
	write(".navaudit.yaml", "categories: [nav-missing]\n")
	cfgPath := filepath.Join(root, ".navaudit.yaml")
	navPath := filepath.Join(root, "mkdocs.yml")

	cli, _ := parse(t, "-c", cfgPath, "audit", "-q", "-m", navPath)
	require.NoError(t, cli.Audit.Run(context.Background(), &Global{}, cli))

	// Category flags take precedence over the file.
	cli, _ = parse(t, "-c", cfgPath, "audit", "-q", "--ghost", "-m", navPath)
	require.ErrorIs(t, cli.Audit.Run(context.Background(), &Global{}, cli), ErrFindings)

	write(".navaudit.yaml", "categories: [ghosts]\n")
	cli, _ = parse(t, "-c", cfgPath, "audit", "-q", "-m", navPath)
	err := cli.Audit.Run(context.Background(), &Global{}, cli)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	require.Equal(t, 2, ExitCode(io.Discard, err, false))
}
