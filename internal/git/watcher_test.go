package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jakejx/gitu/internal/logger"
)

func newTestWatcher(t *testing.T) (string, *Watcher) {
	t.Helper()

	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatalf("creating .git: %v", err)
	}

	log, err := logger.New("")
	if err != nil {
		t.Fatalf("creating logger: %v", err)
	}

	w, err := NewWatcher(root, log)
	if err != nil {
		t.Fatalf("creating watcher: %v", err)
	}
	t.Cleanup(func() { w.Close() })

	return root, w
}

func waitForEvent(t *testing.T, w *Watcher) (string, bool) {
	t.Helper()
	select {
	case ev, ok := <-w.Events():
		if !ok {
			t.Fatalf("event channel closed unexpectedly")
		}
		return ev.Name, true
	case <-time.After(2 * time.Second):
		return "", false
	}
}

func TestWatcher_WorktreeChange(t *testing.T) {
	root, w := newTestWatcher(t)

	if err := os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	if _, ok := waitForEvent(t, w); !ok {
		t.Fatalf("a worktree write should produce an event")
	}
}

func TestWatcher_GitDirChange(t *testing.T) {
	root, w := newTestWatcher(t)

	// An index update is how staging becomes visible.
	if err := os.WriteFile(filepath.Join(root, ".git", "index"), []byte("x"), 0o644); err != nil {
		t.Fatalf("writing index: %v", err)
	}

	if _, ok := waitForEvent(t, w); !ok {
		t.Fatalf("a .git index update should produce an event")
	}
}

func TestWatcher_LockFilesFiltered(t *testing.T) {
	root, w := newTestWatcher(t)

	if err := os.WriteFile(filepath.Join(root, ".git", "index.lock"), []byte("x"), 0o644); err != nil {
		t.Fatalf("writing lock file: %v", err)
	}

	select {
	case ev := <-w.Events():
		t.Errorf("lock file churn should be filtered, got event for %q", ev.Name)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_CloseStopsEvents(t *testing.T) {
	_, w := newTestWatcher(t)

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	select {
	case _, ok := <-w.Events():
		if ok {
			// A buffered event may still drain; the channel must close after.
			if _, ok := <-w.Events(); ok {
				t.Errorf("event channel should close after Close")
			}
		}
	case <-time.After(2 * time.Second):
		t.Errorf("event channel should close after Close")
	}
}
