package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/json-schema-validator/internal/fs"
)

var supported = Supported{
	Versions: []string{"draft3", "draft4", "draft6"},
	Backends: []string{"json", "jsonv2"},
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("missing implicit file gives defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := Load(filepath.Join(t.TempDir(), FileName), false, supported)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.True(t, cfg.RemoteEnabled())
		assert.Zero(t, cfg.Timeout())
	})

	t.Run("missing explicit file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "custom.yml")
		_, err := Load(path, true, supported)
		var target *MissingConfigError
		require.ErrorAs(t, err, &target)
		assert.EqualError(t, err, "configuration file not found: "+path)
	})

	t.Run("default content is valid", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), FileName)
		require.NoError(t, os.WriteFile(path, []byte(DefaultConfigContent), 0o600))

		cfg, err := Load(path, false, supported)
		require.NoError(t, err)
		assert.Equal(t, "draft4", cfg.DefaultVersion)
		assert.Equal(t, "json", cfg.JSONBackend)
		assert.True(t, cfg.RemoteEnabled())
		assert.Equal(t, 30*time.Second, cfg.Timeout())
		assert.Equal(t, path, cfg.Path)
	})

	configTests := []struct {
		name    string
		content string
		errStr  string
	}{
		{
			name:    "invalid yaml",
			content: "invalid: yaml: :",
			errStr:  "is not a valid yaml document",
		},
		{
			name:    "wrong type",
			content: "strict: \"very\"",
			errStr:  "is not a valid yaml document",
		},
		{
			name:    "unknown version",
			content: "defaultVersion: draft7",
			errStr:  "configuration property defaultVersion has invalid value 'draft7'. Supported versions are: draft3, draft4, draft6",
		},
		{
			name:    "unknown backend",
			content: "jsonBackend: yajl",
			errStr:  "configuration property jsonBackend has invalid value 'yajl'. Supported backends are: json, jsonv2",
		},
		{
			name:    "unparseable timeout",
			content: "remote: {timeout: soon}",
			errStr:  "configuration property remote.timeout has invalid value 'soon'",
		},
		{
			name:    "negative timeout",
			content: "remote: {timeout: -1s}",
			errStr:  "configuration property remote.timeout has invalid value '-1s': must be positive",
		},
		{
			name:    "is a directory",
			content: "DIR",
			errStr:  "is a directory",
		},
	}

	for _, tt := range configTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), FileName)
			if tt.content == "DIR" {
				require.NoError(t, os.Mkdir(path, 0o755))
			} else {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			}
			_, err := Load(path, false, supported)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.errStr)
		})
	}
}

func TestRemoteDisabled(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("remote:\n  enabled: false\n"), 0o600))

	cfg, err := Load(path, false, supported)
	require.NoError(t, err)
	assert.False(t, cfg.RemoteEnabled())
}

func TestPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		flag         string
		env          fs.MapEnvProvider
		want         string
		wantExplicit bool
	}{
		{name: "flag wins", flag: "a.yml", env: fs.MapEnvProvider{EnvVar: "b.yml"}, want: "a.yml", wantExplicit: true},
		{name: "env next", env: fs.MapEnvProvider{EnvVar: "b.yml"}, want: "b.yml", wantExplicit: true},
		{name: "working directory file", env: fs.MapEnvProvider{}, want: FileName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, explicit := Path(tt.flag, tt.env)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantExplicit, explicit)
		})
	}
}
