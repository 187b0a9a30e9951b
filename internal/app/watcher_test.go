package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, paths []string) (*Watcher, chan string) {
	t.Helper()
	w := NewWatcher(paths, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	changes := make(chan string, 10)
	go func() {
		_ = w.Watch(ctx, func(path string) {
			changes <- path
		})
	}()

	select {
	case <-w.Ready:
	case <-time.After(time.Second):
		t.Fatal("watcher did not become ready in time")
	}
	return w, changes
}

func awaitChange(t *testing.T, changes chan string) string {
	t.Helper()
	select {
	case p := <-changes:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watch event")
	}
	return ""
}

func TestNewWatcher(t *testing.T) {
	t.Parallel()
	dir := writeFiles(t, t.TempDir(), map[string]string{
		"a.schema.json": `{}`,
		"data/b.json":   `{}`,
	})

	w := NewWatcher([]string{filepath.Join(dir, "a.schema.json"), filepath.Join(dir, "data")},
		slog.New(slog.DiscardHandler))
	assert.Equal(t, []string{filepath.Join(dir, "data")}, w.dirs)
	assert.True(t, w.files[filepath.Join(dir, "a.schema.json")])

	assert.True(t, w.relevant(filepath.Join(dir, "a.schema.json")))
	assert.True(t, w.relevant(filepath.Join(dir, "data", "nested", "c.json")))
	assert.False(t, w.relevant(filepath.Join(dir, "data", "notes.txt")))
	assert.False(t, w.relevant(filepath.Join(dir, "other.json")))
}

func TestWatcher(t *testing.T) {
	t.Parallel()

	t.Run("watched file change", func(t *testing.T) {
		t.Parallel()
		dir := writeFiles(t, t.TempDir(), map[string]string{
			"a.schema.json": `{}`,
			"unrelated.txt": "x",
		})
		schemaPath := filepath.Join(dir, "a.schema.json")
		_, changes := startWatcher(t, []string{schemaPath})

		require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("y"), 0o600))
		require.NoError(t, os.WriteFile(schemaPath, []byte(`{"type": "object"}`), 0o600))
		assert.Equal(t, schemaPath, awaitChange(t, changes))
	})

	t.Run("data file in new subdirectory", func(t *testing.T) {
		t.Parallel()
		dir := writeFiles(t, t.TempDir(), map[string]string{"data/a.json": `{}`})
		dataDir := filepath.Join(dir, "data")
		_, changes := startWatcher(t, []string{dataDir})

		nested := filepath.Join(dataDir, "nested")
		require.NoError(t, os.MkdirAll(nested, 0o755))
		// Let the watcher pick up the new directory
		time.Sleep(200 * time.Millisecond)

		target := filepath.Join(nested, "b.json")
		require.NoError(t, os.WriteFile(target, []byte(`{}`), 0o600))
		assert.Equal(t, target, awaitChange(t, changes))
	})

	t.Run("context cancellation", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		w := NewWatcher([]string{dir}, slog.New(slog.DiscardHandler))
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- w.Watch(ctx, func(string) {})
		}()
		<-w.Ready
		cancel()

		select {
		case err := <-done:
			require.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("watcher did not stop after cancellation")
		}
	})

	t.Run("watcher creation error", func(t *testing.T) {
		t.Parallel()
		w := NewWatcher([]string{t.TempDir()}, slog.New(slog.DiscardHandler))
		boom := errors.New("boom")
		w.newWatcher = func() (*fsnotify.Watcher, error) { return nil, boom }

		err := w.Watch(context.Background(), func(string) {})
		require.ErrorIs(t, err, boom)
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		w := NewWatcher(nil, slog.New(slog.DiscardHandler))
		w.dirs = []string{filepath.Join(t.TempDir(), "gone")}

		err := w.Watch(context.Background(), func(string) {})
		require.Error(t, err)
	})
}
