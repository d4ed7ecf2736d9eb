package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	ferrors "git.home.luguber.info/inful/navaudit/internal/foundation/errors"
)

// Environment variables that override file settings.
const (
	EnvContentDir  = "NAVAUDIT_CONTENT_DIR"
	EnvExclude     = "NAVAUDIT_EXCLUDE"
	EnvConcurrency = "NAVAUDIT_CONCURRENCY"
	EnvExtension   = "NAVAUDIT_EXTENSION"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env/.env.local from the working directory. Variables
// already set in the process environment are not overwritten.
func loadEnvFiles() {
	for _, name := range envFiles {
		err := godotenv.Load(name)
		switch {
		case err == nil:
			slog.Debug("Loaded environment file", slog.String("file", name))
		case errors.Is(err, fs.ErrNotExist):
		default:
			slog.Warn("Ignoring unreadable environment file", slog.String("file", name), slog.String("error", err.Error()))
		}
	}
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvContentDir); ok && v != "" {
		cfg.ContentDir = v
	}
	if v, ok := os.LookupEnv(EnvExtension); ok && v != "" {
		cfg.Extension = v
	}
	if v, ok := os.LookupEnv(EnvExclude); ok {
		cfg.Exclude = ParseExclude(v)
	}
	if v, ok := os.LookupEnv(EnvConcurrency); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid concurrency").
				Fatal().WithContext("env", EnvConcurrency).WithContext("value", v).Build()
		}
		cfg.Concurrency = n
	}
	return nil
}
