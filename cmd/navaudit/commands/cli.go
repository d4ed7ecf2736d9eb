package commands

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/navaudit/internal/config"
	ferrors "git.home.luguber.info/inful/navaudit/internal/foundation/errors"
)

// ErrFindings is returned by commands whose audit completed with findings.
var ErrFindings = errors.New("audit reported findings")

// Global is passed to every command's Run method.
type Global struct{}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: .navaudit.yaml when present)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Audit AuditCmd `cmd:"" default:"withargs" help:"Audit navigation, links and images (default)"`
	Watch WatchCmd `cmd:"" help:"Re-run the audit whenever the tree changes"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	setupLogger(c.Verbose, nil)
	return nil
}

// loadConfig reads the configuration file. The default file is optional; a
// file named with --config must exist.
func (c *CLI) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.Config != "" {
		cfg, err = config.Load(c.Config)
	} else {
		cfg, err = config.LoadOptional(config.DefaultFile)
	}
	if err != nil {
		return nil, err
	}
	setupLogger(c.Verbose, &cfg.Logging)
	slog.Debug("Configuration loaded", slog.String("settings", cfg.String()))
	return cfg, nil
}

func setupLogger(verbose bool, logging *config.Logging) {
	level := slog.LevelInfo
	format := "text"
	if logging != nil {
		switch logging.Level {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
		if logging.Format != "" {
			format = logging.Format
		}
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// ExitCode maps a command result to the process exit status: 0 for a clean
// audit, 1 for findings, and the CLIErrorAdapter code for everything else.
func ExitCode(w io.Writer, err error, verbose bool) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrFindings):
		return 1
	default:
		return ferrors.NewCLIErrorAdapter(verbose, slog.Default()).Report(w, err)
	}
}
