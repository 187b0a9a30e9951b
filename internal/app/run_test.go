package app

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/json-schema-validator/internal/config"
	"github.com/andyballingall/json-schema-validator/internal/fs"
)

func TestRun(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, t.TempDir(), map[string]string{
		"person.schema.json": personSchema,
		"alice.json":         `{"name": "alice"}`,
		"bob.json":           `{"age": 4}`,
		"bad.yml":            "defaultVersion: [",
	})
	schemaPath := filepath.Join(dir, "person.schema.json")

	t.Run("run help", func(t *testing.T) {
		t.Parallel()
		err := Run(context.Background(), []string{"jsv", "--help"}, io.Discard, io.Discard, fs.MapEnvProvider{})
		require.NoError(t, err)
	})

	t.Run("run invalid command", func(t *testing.T) {
		t.Parallel()
		var stderr bytes.Buffer
		err := Run(context.Background(), []string{"jsv", "invalid-command"}, io.Discard, &stderr, fs.MapEnvProvider{})
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "Error: ")
	})

	t.Run("run valid data", func(t *testing.T) {
		t.Parallel()
		var stdout bytes.Buffer
		err := Run(context.Background(),
			[]string{"jsv", "--nocolour", "validate", "-s", schemaPath, filepath.Join(dir, "alice.json")},
			&stdout, io.Discard, fs.MapEnvProvider{})
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Summary: 1 valid, 0 invalid")
	})

	t.Run("run invalid data", func(t *testing.T) {
		t.Parallel()
		var stderr bytes.Buffer
		err := Run(context.Background(),
			[]string{"jsv", "validate", "-s", schemaPath, filepath.Join(dir, "bob.json")},
			io.Discard, &stderr, fs.MapEnvProvider{})
		require.ErrorAs(t, err, new(*InvalidDataError))
		assert.Contains(t, stderr.String(), "1 of 1 data inputs failed validation")
	})

	t.Run("run config error", func(t *testing.T) {
		t.Parallel()
		env := fs.MapEnvProvider{config.EnvVar: filepath.Join(dir, "bad.yml")}
		err := Run(context.Background(), []string{"jsv", "dialects"}, io.Discard, io.Discard, env)
		require.ErrorAs(t, err, new(*config.InvalidYAMLError))
	})

	t.Run("run missing explicit config", func(t *testing.T) {
		t.Parallel()
		err := Run(context.Background(),
			[]string{"jsv", "--config", filepath.Join(dir, "missing.yml"), "dialects"},
			io.Discard, io.Discard, fs.MapEnvProvider{})
		require.ErrorAs(t, err, new(*config.MissingConfigError))
	})

	t.Run("run log file error falls back to console", func(t *testing.T) {
		t.Parallel()
		// A directory cannot be opened as a log file.
		env := fs.MapEnvProvider{LogEnvVar: dir}
		var stdout, stderr bytes.Buffer
		err := Run(context.Background(), []string{"jsv", "dialects"}, &stdout, &stderr, env)
		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "logging to file disabled")
		assert.Contains(t, stdout.String(), "draft4")
	})

	t.Run("run with debug flag", func(t *testing.T) {
		t.Parallel()
		var stderr bytes.Buffer
		err := Run(context.Background(),
			[]string{"jsv", "--debug", "--config", filepath.Join(dir, "missing.yml"), "dialects"},
			io.Discard, &stderr, fs.MapEnvProvider{})
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "missing.yml")
	})

	t.Run("run with nil env", func(t *testing.T) {
		t.Parallel()
		var stdout, stderr bytes.Buffer
		err := Run(context.Background(), []string{"jsv", "--help"}, &stdout, &stderr, nil)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "jsv validates JSON documents")
	})

	t.Run("run interrupted by user", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())

		var stderr syncBuffer
		done := make(chan error, 1)
		go func() {
			done <- Run(ctx,
				[]string{"jsv", "validate", "-s", schemaPath, filepath.Join(dir, "alice.json"), "--watch"},
				io.Discard, &stderr, fs.MapEnvProvider{})
		}()

		// Give the watcher time to start
		time.Sleep(500 * time.Millisecond)
		cancel()
		err := <-done

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "Interrupted by user", "Stderr was: %q", stderr.String())
	})
}
