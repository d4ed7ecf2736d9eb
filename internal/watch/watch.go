// Package watch re-runs work when files below a directory tree change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/navaudit/internal/logfields"
)

// DefaultDebounce collapses bursts of events (editor saves, git checkouts)
// into one trigger.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a directory tree. fsnotify watches are not recursive, so
// every directory is added individually and new directories are added as
// they appear. Hidden directories are not watched.
type Watcher struct {
	root     string
	debounce time.Duration
	filter   func(path string) bool
	fsw      *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a trigger.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithFilter limits triggers to paths for which keep returns true.
func WithFilter(keep func(path string) bool) Option {
	return func(w *Watcher) { w.filter = keep }
}

// New creates a Watcher for root.
func New(root string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch root: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{root: abs, debounce: DefaultDebounce, fsw: fsw}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.addTree(abs); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close releases the underlying watches.
func (w *Watcher) Close() error { return w.fsw.Close() }

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("Cannot watch path", logfields.Path(p), logfields.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", p, err)
		}
		return nil
	})
}

// Run calls onChange after every debounced burst of relevant changes until
// ctx is cancelled. onChange runs on the Run goroutine, so events arriving
// while it executes are coalesced into the next trigger.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context)) error {
	slog.Info("Watching for changes", logfields.Path(w.root))

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("Change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange(ctx)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	rel, err := filepath.Rel(w.root, event.Name)
	if err == nil {
		for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
			if strings.HasPrefix(seg, ".") && seg != "." && seg != ".." {
				return false
			}
		}
	}
	if event.Op.Has(fsnotify.Create) {
		if info, statErr := os.Lstat(event.Name); statErr == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				slog.Warn("Cannot watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
			return true
		}
	}
	return w.filter == nil || w.filter(event.Name)
}
