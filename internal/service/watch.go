package service

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hugo-lorenzo-mato/testforge/internal/logging"
)

// Watcher runs updates continuously as source files change. Rapid saves to
// the same file are debounced so each editor write burst triggers one run.
type Watcher struct {
	updater  *Updater
	logger   *logging.Logger
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time
}

// NewWatcher creates a watcher around an updater.
func NewWatcher(updater *Updater, debounce time.Duration, logger *logging.Logger) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{
		updater:  updater,
		logger:   logger,
		debounce: debounce,
		pending:  make(map[string]time.Time),
	}
}

// Run watches dir (recursively) until the context is cancelled.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := addRecursive(watcher, dir); err != nil {
		return err
	}
	w.logger.Info("watching for changes", "dir", dir, "debounce", w.debounce)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(watcher, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-ticker.C:
			w.flushSettled(ctx)
		}
	}
}

func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) {
	// New directories must be added to the watch set.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = addRecursive(watcher, event.Name)
			return
		}
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if !w.isSource(event.Name) {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// flushSettled runs updates for files whose last event is older than the
// debounce window.
func (w *Watcher) flushSettled(ctx context.Context) {
	now := time.Now()

	w.mu.Lock()
	var settled []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		if _, err := w.updater.UpdateFile(ctx, path); err != nil {
			w.logger.Error("watch update failed", "file", path, "error", err)
		}
	}
}

func (w *Watcher) isSource(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return w.updater.matchesGlobs(path)
}

func addRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != dir && (strings.HasPrefix(name, ".") || name == "node_modules" || name == "dist") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
