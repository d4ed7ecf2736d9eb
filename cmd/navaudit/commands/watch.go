package commands

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"git.home.luguber.info/inful/navaudit/internal/config"
	"git.home.luguber.info/inful/navaudit/internal/logfields"
	"git.home.luguber.info/inful/navaudit/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	AuditFlags `embed:""`
	Debounce   time.Duration `help:"Quiet period before re-running" default:"500ms"`
}

// Run audits once and then again after every change below the monorepo
// root until interrupted. Findings never end the loop.
func (wc *WatchCmd) Run(ctx context.Context, _ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	opts, err := wc.options(cfg)
	if err != nil {
		return err
	}

	rerun := func(ctx context.Context) {
		err := wc.runOnce(ctx, opts)
		switch {
		case err == nil:
			slog.Info("Audit clean")
		case errors.Is(err, ErrFindings):
			slog.Info("Audit reported findings")
		case ctx.Err() == nil:
			slog.Error("Audit failed", logfields.Error(err))
		}
	}

	w, err := watch.New(filepath.Dir(wc.MkdocsYAML),
		watch.WithDebounce(wc.Debounce),
		watch.WithFilter(watchedFile(cfg)),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := w.Close(); err != nil {
			slog.Warn("Failed to close watcher", logfields.Error(err))
		}
	}()

	rerun(ctx)
	return w.Run(ctx, rerun)
}

// watchedFile keeps the files an audit reads: content, navigation
// declarations, reference tables, images and stylesheets.
func watchedFile(cfg *config.Config) func(string) bool {
	return func(p string) bool {
		ext := strings.ToLower(filepath.Ext(p))
		switch {
		case strings.EqualFold(ext, cfg.Extension), ext == ".yml", ext == ".yaml", ext == ".h":
			return true
		default:
			return slices.Contains(cfg.ImageExtensions, ext) || slices.Contains(cfg.StylesheetExtensions, ext)
		}
	}
}
