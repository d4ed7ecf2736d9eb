package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/navaudit/internal/foundation/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvContentDir, EnvExclude, EnvConcurrency, EnvExtension} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadOptional_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), DefaultFile))
	require.NoError(t, err)
	require.Equal(t, "docs", cfg.ContentDir)
	require.Equal(t, ".md", cfg.Extension)
	require.Equal(t, "-print.md", cfg.PrintSuffix)
	require.Contains(t, cfg.ImageExtensions, ".svg")
}

func TestLoad_MissingFileFails(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestLoad_FileAndNormalization(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "navaudit.yaml")
	content := `content_dir: source
extension: md
image_extensions: [PNG, ".Svg"]
exclude: ["  Drafts ", "", "Archive"]
concurrency: 4
logging:
  level: DEBUG
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "source", cfg.ContentDir)
	require.Equal(t, ".md", cfg.Extension)
	require.Equal(t, []string{".png", ".svg"}, cfg.ImageExtensions)
	require.Equal(t, []string{"drafts", "archive"}, cfg.Exclude)
	require.Equal(t, 4, cfg.Concurrency)
	require.Equal(t, "debug", cfg.Logging.Level)
	// Unset keys keep their defaults.
	require.Equal(t, "documentation-assets", cfg.AssetsDir)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvContentDir, "content")
	t.Setenv(EnvExclude, "Foo, bar")
	t.Setenv(EnvConcurrency, "3")

	path := filepath.Join(t.TempDir(), "navaudit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("content_dir: source\nconcurrency: 8\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "content", cfg.ContentDir)
	require.Equal(t, []string{"foo", "bar"}, cfg.Exclude)
	require.Equal(t, 3, cfg.Concurrency)
}

func TestLoad_InvalidConcurrencyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConcurrency, "many")

	_, err := LoadOptional("")
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"nested content dir": func(c *Config) { c.ContentDir = "a/b" },
		"negative workers":   func(c *Config) { c.Concurrency = -1 },
		"no images":          func(c *Config) { c.ImageExtensions = nil },
		"bad level":          func(c *Config) { c.Logging.Level = "loud" },
		"bad format":         func(c *Config) { c.Logging.Format = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			ce, ok := ferrors.AsClassified(err)
			require.True(t, ok)
			require.True(t, ce.IsFatal())
		})
	}
	require.NoError(t, Default().Validate())
}

func TestParseExclude(t *testing.T) {
	require.Nil(t, ParseExclude(" "))
	require.Equal(t, []string{"a", "b c"}, ParseExclude("A, ,B C"))
}
