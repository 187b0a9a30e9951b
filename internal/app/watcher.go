package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/andyballingall/json-schema-validator/internal/fs"
)

const debounceDuration = 100 * time.Millisecond

// Watcher monitors schema and data files and reports the path of the last
// relevant change once activity settles.
type Watcher struct {
	dirs   []string
	files  map[string]bool
	logger *slog.Logger
	Ready  chan struct{}

	newWatcher func() (*fsnotify.Watcher, error)
}

// NewWatcher creates a Watcher over paths. Directories are watched
// recursively for data files, individual files through their parent
// directory.
func NewWatcher(paths []string, logger *slog.Logger) *Watcher {
	w := &Watcher{
		files:      make(map[string]bool),
		logger:     logger.With("component", "watcher"),
		Ready:      make(chan struct{}),
		newWatcher: fsnotify.NewWatcher,
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			w.dirs = append(w.dirs, abs)
			continue
		}
		w.files[abs] = true
	}
	return w
}

// Watch starts monitoring. It calls callback whenever a relevant change is
// detected and blocks until the context is cancelled.
func (w *Watcher) Watch(ctx context.Context, callback func(path string)) error {
	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, d := range w.dirs {
		if err := w.addRecursive(watcher, d); err != nil {
			return err
		}
	}
	parents := make(map[string]bool)
	for f := range w.files {
		parents[filepath.Dir(f)] = true
	}
	for p := range parents {
		if err := watcher.Add(p); err != nil {
			return err
		}
	}

	w.logger.Info("Watching for changes", "dirs", len(w.dirs), "files", len(w.files))
	if w.Ready != nil {
		close(w.Ready)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-watcher.Errors:
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if path, relevant := w.handleEvent(watcher, event); relevant {
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounceDuration, func() {
					callback(path)
				})
			}
		}
	}
}

// handleEvent processes a single fsnotify event. New directories below a
// watched root are added to the watcher.
func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return "", false
	}

	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if w.underRoot(event.Name) {
				if err := w.addRecursive(watcher, event.Name); err != nil {
					w.logger.Error("Failed to watch new directory", "path", event.Name, "error", err)
				}
			}
			return "", false
		}
	}

	return event.Name, w.relevant(event.Name)
}

func (w *Watcher) relevant(path string) bool {
	if w.files[path] {
		return true
	}
	return strings.HasSuffix(path, fs.DataSuffix) && w.underRoot(path)
}

func (w *Watcher) underRoot(path string) bool {
	for _, d := range w.dirs {
		if rel, err := filepath.Rel(d, path); err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}

// addRecursive adds the given path and all its subdirectories to the watcher.
func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") && path != root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}
