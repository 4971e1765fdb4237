package git

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/jakejx/gitu/internal/ignore"
	"github.com/jakejx/gitu/internal/logger"
)

// Watcher reports repository activity so the active screen can refresh
// without a manual keypress. It watches the worktree (minus ignored paths)
// and the .git directory itself, where index and ref updates land.
type Watcher struct {
	watcher  *fsnotify.Watcher
	filtered chan fsnotify.Event
	done     chan struct{}
	log      *logger.Logger
	ignore   *ignore.Matcher
}

// NewWatcher starts watching the repository rooted at repoRoot.
func NewWatcher(repoRoot string, log *logger.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	// .git is watched non-recursively: index, HEAD and ORIG_HEAD live at
	// its top level, and the object store below it is far too noisy.
	if err := fsw.Add(filepath.Join(repoRoot, ".git")); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching .git: %w", err)
	}

	matcher := ignore.NewMatcher(repoRoot)

	watched := 0
	_ = filepath.WalkDir(repoRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		if matcher.Ignored(path, true) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err == nil {
			watched++
		}
		return nil
	})

	log.Info("watcher started", "root", repoRoot, "watched_dirs", watched)

	w := &Watcher{
		watcher:  fsw,
		filtered: make(chan fsnotify.Event, 1),
		done:     make(chan struct{}),
		log:      log,
		ignore:   matcher,
	}

	go w.filterEvents()

	return w, nil
}

// Events returns the channel of filtered repository events.
func (w *Watcher) Events() <-chan fsnotify.Event {
	return w.filtered
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("closing fsnotify watcher: %w", err)
	}

	return nil
}

func (w *Watcher) filterEvents() {
	defer close(w.filtered)

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			w.trackNewDirectory(event)

			if !w.shouldForward(event) {
				continue
			}

			w.log.Debug("repository change", "path", event.Name, "op", event.Op.String())

			// Non-blocking send: one pending event is enough to trigger a
			// refresh, the rest of a burst carries no extra information.
			select {
			case w.filtered <- event:
			default:
			}
		case err := <-w.watcher.Errors:
			if err != nil {
				w.log.Warn("watcher error", "err", err)
			}
		}
	}
}

// trackNewDirectory adds newly created, non-ignored directories so changes
// inside them are picked up too.
func (w *Watcher) trackNewDirectory(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return
	}

	if w.ignore.Ignored(event.Name, true) {
		return
	}

	if err := w.watcher.Add(event.Name); err != nil {
		w.log.Debug("failed to watch new directory", "path", event.Name, "err", err)
	}
}

// shouldForward reports whether an event is worth a refresh. Lock files
// churn constantly while git runs and never represent a settled state.
func (w *Watcher) shouldForward(event fsnotify.Event) bool {
	if strings.HasSuffix(event.Name, ".lock") {
		return false
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	// Events under .git are pre-filtered by only watching its top level.
	if strings.Contains(event.Name, string(filepath.Separator)+".git"+string(filepath.Separator)) {
		return true
	}

	return !w.ignore.Ignored(event.Name, false)
}
