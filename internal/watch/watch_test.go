package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, root string, opts ...Option) <-chan struct{} {
	t.Helper()
	w, err := New(root, append([]Option{WithDebounce(20 * time.Millisecond)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	triggered := make(chan struct{}, 16)
	go func() {
		_ = w.Run(ctx, func(context.Context) { triggered <- struct{}{} })
	}()
	return triggered
}

func TestWatcher_TriggersOnChange(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o750))
	triggered := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "page.md"), []byte("# Page\n"), 0o600))

	select {
	case <-triggered:
	case <-time.After(5 * time.Second):
		t.Fatal("no trigger after write")
	}
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	triggered := startWatcher(t, root)

	sub := filepath.Join(root, "site", "docs")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	select {
	case <-triggered:
	case <-time.After(5 * time.Second):
		t.Fatal("no trigger after mkdir")
	}

	// Give the watcher a moment to add the new directory before writing.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(sub, "new.md"), []byte("x"), 0o600)
		select {
		case <-triggered:
			return true
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_FilterAndHiddenPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o750))
	triggered := startWatcher(t, root, WithFilter(func(p string) bool { return strings.HasSuffix(p, ".md") }))

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden.md"), []byte("x"), 0o600))
	select {
	case <-triggered:
		t.Fatal("unexpected trigger for filtered paths")
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(filepath.Join(root, "page.md"), []byte("x"), 0o600))
	select {
	case <-triggered:
	case <-time.After(5 * time.Second):
		t.Fatal("no trigger for markdown change")
	}
}
