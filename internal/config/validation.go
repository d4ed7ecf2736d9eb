package config

import (
	"slices"
	"strings"

	ferrors "git.home.luguber.info/inful/navaudit/internal/foundation/errors"
)

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
)

// Validate checks the settings for values the audit cannot run with.
func (c *Config) Validate() error {
	if c.ContentDir == "" || strings.ContainsAny(c.ContentDir, `/\`) {
		return invalid("content_dir must be a single directory name", "content_dir", c.ContentDir)
	}
	if len(c.Extension) < 2 {
		return invalid("extension must not be empty", "extension", c.Extension)
	}
	if c.Concurrency < 0 {
		return invalid("concurrency must not be negative", "concurrency", c.Concurrency)
	}
	if c.ProbeCacheSize < 0 {
		return invalid("probe_cache_size must not be negative", "probe_cache_size", c.ProbeCacheSize)
	}
	if len(c.ImageExtensions) == 0 {
		return invalid("image_extensions must not be empty", "image_extensions", c.ImageExtensions)
	}
	if c.Logging.Level != "" && !slices.Contains(validLevels, c.Logging.Level) {
		return invalid("unknown log level", "logging.level", c.Logging.Level)
	}
	if c.Logging.Format != "" && !slices.Contains(validFormats, c.Logging.Format) {
		return invalid("unknown log format", "logging.format", c.Logging.Format)
	}
	return nil
}

func invalid(msg, field string, value any) error {
	return ferrors.ValidationError(msg).WithContext("field", field).WithContext("value", value).Build()
}
