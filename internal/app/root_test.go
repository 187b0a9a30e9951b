package app

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/json-schema-validator/internal/fs"
)

func TestRootCmd(t *testing.T) {
	t.Parallel()

	setup := func() (*slog.LevelVar, *cobra.Command) {
		lazy := &LazyManager{inner: &MockManager{}}
		logLevel := &slog.LevelVar{}
		var stdout, stderr bytes.Buffer
		rootCmd := NewRootCmd(lazy, logLevel, &stdout, &stderr, fs.MapEnvProvider{})
		return logLevel, rootCmd
	}

	t.Run("execute help", func(t *testing.T) {
		t.Parallel()
		_, rootCmd := setup()
		rootCmd.SetArgs([]string{"--help"})
		require.NoError(t, rootCmd.Execute())
	})

	t.Run("test version flag", func(t *testing.T) {
		t.Parallel()
		_, rootCmd := setup()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"--version"})
		require.NoError(t, rootCmd.Execute())
		assert.Contains(t, out.String(), Version)
	})

	t.Run("test debug flag", func(t *testing.T) {
		t.Parallel()
		logLevel, rootCmd := setup()
		rootCmd.SetArgs([]string{"--debug"})
		require.NoError(t, rootCmd.Execute())
		assert.Equal(t, slog.LevelDebug, logLevel.Level())
	})

	t.Run("test root command execution", func(t *testing.T) {
		t.Parallel()
		_, rootCmd := setup()
		rootCmd.SetArgs([]string{})
		require.NoError(t, rootCmd.Execute())
	})

	t.Run("test completion subcommand skips initialisation", func(t *testing.T) {
		t.Parallel()
		lazy := &LazyManager{} // Empty lazy manager, no inner manager
		var stdout, stderr bytes.Buffer
		rootCmd := NewRootCmd(lazy, &slog.LevelVar{}, &stdout, &stderr, fs.MapEnvProvider{})

		rootCmd.SetArgs([]string{"completion", "zsh"})
		require.NoError(t, rootCmd.Execute())
		assert.False(t, lazy.HasInner(), "Manager should not have been initialised")
	})

	t.Run("initialises the manager", func(t *testing.T) {
		t.Parallel()
		lazy := &LazyManager{}
		var stdout, stderr bytes.Buffer
		rootCmd := NewRootCmd(lazy, &slog.LevelVar{}, &stdout, &stderr, fs.MapEnvProvider{})

		rootCmd.SetArgs([]string{"dialects"})
		require.NoError(t, rootCmd.Execute())
		assert.True(t, lazy.HasInner())
		assert.Contains(t, stdout.String(), "draft4")
	})

	t.Run("test alternate flag spellings", func(t *testing.T) {
		t.Parallel()
		// Test that alternate spellings don't cause "unknown flag" errors
		variants := []string{"--nocolor", "--noColor", "--noColour"}
		for _, variant := range variants {
			t.Run(variant, func(t *testing.T) {
				t.Parallel()
				_, rootCmd := setup()
				rootCmd.SetArgs([]string{"help", variant})
				require.NoError(t, rootCmd.Execute(), "Flag %s should be recognised", variant)
			})
		}
	})

	t.Run("test help command", func(t *testing.T) {
		t.Parallel()
		_, rootCmd := setup()
		rootCmd.SetArgs([]string{"help"})
		require.NoError(t, rootCmd.Execute())
	})
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing default file gives defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := loadConfig("", fs.MapEnvProvider{"JSV_CONFIG": ""})
		require.NoError(t, err)
		assert.True(t, cfg.RemoteEnabled())
	})

	t.Run("accepts dialect URIs", func(t *testing.T) {
		t.Parallel()
		dir := writeFiles(t, t.TempDir(), map[string]string{
			"jsv.yml": "defaultVersion: \"http://json-schema.org/draft-03/schema#\"\n",
		})
		cfg, err := loadConfig(dir+"/jsv.yml", fs.MapEnvProvider{})
		require.NoError(t, err)
		assert.Equal(t, "http://json-schema.org/draft-03/schema#", cfg.DefaultVersion)
	})

	t.Run("rejects unknown versions", func(t *testing.T) {
		t.Parallel()
		dir := writeFiles(t, t.TempDir(), map[string]string{"jsv.yml": "defaultVersion: draft5\n"})
		_, err := loadConfig("", fs.MapEnvProvider{"JSV_CONFIG": dir + "/jsv.yml"})
		require.Error(t, err)
	})
}
