// Package config loads audit settings from an optional YAML file, .env files
// and NAVAUDIT_* environment variables. Command-line flags are applied on top
// by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/navaudit/internal/foundation/errors"
)

// DefaultFile is the configuration file looked up when none is named.
const DefaultFile = ".navaudit.yaml"

// Config holds audit settings.
type Config struct {
	// ContentDir is the content subdirectory of every site (MkDocs docs_dir).
	ContentDir string `yaml:"content_dir"`
	// Extension is the content file extension links are normalised to.
	Extension string `yaml:"extension"`
	// ImageExtensions lists the file extensions treated as images.
	ImageExtensions []string `yaml:"image_extensions"`
	// StylesheetExtensions lists the extensions scanned for url(...) image references.
	StylesheetExtensions []string `yaml:"stylesheet_extensions"`
	// AssetsDir is a root-level directory of shared stylesheets.
	AssetsDir string `yaml:"assets_dir"`
	// PrintSuffix marks print-variant documents, which are never ghosts.
	PrintSuffix string `yaml:"print_suffix"`
	// Exclude holds case-insensitive path substrings to skip.
	Exclude []string `yaml:"exclude"`
	// Concurrency bounds parallel document processing; 0 selects GOMAXPROCS.
	Concurrency int `yaml:"concurrency"`
	// ProbeCacheSize bounds the memoized filesystem probes.
	ProbeCacheSize int `yaml:"probe_cache_size"`
	// Categories names the audit categories to compute when no category flag
	// is given; empty selects the default set.
	Categories []string `yaml:"categories"`
	Logging    Logging  `yaml:"logging"`
}

// Logging configures the process logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		ContentDir:           "docs",
		Extension:            ".md",
		ImageExtensions:      []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico", ".bmp"},
		StylesheetExtensions: []string{".css", ".scss"},
		AssetsDir:            "documentation-assets",
		PrintSuffix:          "-print.md",
		ProbeCacheSize:       65536,
		Logging:              Logging{Level: "info", Format: "text"},
	}
}

// Load reads the configuration file at path, applies environment overrides
// and validates the result. A missing file is an error.
func Load(path string) (*Config, error) {
	cfg, err := load(path, false)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOptional is Load that falls back to defaults when path does not exist.
func LoadOptional(path string) (*Config, error) {
	return load(path, true)
}

func load(path string, optional bool) (*Config, error) {
	loadEnvFiles()

	cfg := Default()
	if path != "" {
		// #nosec G304 -- path is supplied by the operator
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "malformed configuration file").
					Fatal().WithContext("path", path).Build()
			}
		case optional && errors.Is(err, fs.ErrNotExist):
		default:
			return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "cannot read configuration file").
				Fatal().WithContext("path", path).Build()
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize canonicalizes case and leading dots.
func (c *Config) normalize() {
	c.Extension = dotted(c.Extension)
	for i, ext := range c.ImageExtensions {
		c.ImageExtensions[i] = strings.ToLower(dotted(ext))
	}
	for i, ext := range c.StylesheetExtensions {
		c.StylesheetExtensions[i] = strings.ToLower(dotted(ext))
	}
	c.Exclude = normalizeExclude(c.Exclude)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

func dotted(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

// ParseExclude splits a comma-separated exclusion list.
func ParseExclude(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	return normalizeExclude(strings.Split(list, ","))
}

func normalizeExclude(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// String summarizes the effective settings for debug logs.
func (c *Config) String() string {
	return fmt.Sprintf("content_dir=%s extension=%s exclude=%v concurrency=%d", c.ContentDir, c.Extension, c.Exclude, c.Concurrency)
}
