package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/json-schema-validator/internal/fs"
)

func TestOSEnvProvider(t *testing.T) {
	t.Parallel()

	t.Run("Get returns environment variable", func(t *testing.T) {
		t.Parallel()
		provider := fs.NewEnvProvider()

		// PATH should always be set
		assert.NotEmpty(t, provider.Get("PATH"))
	})

	t.Run("Get returns empty for unset variable", func(t *testing.T) {
		t.Parallel()
		provider := fs.NewEnvProvider()
		assert.Empty(t, provider.Get("UNLIKELY_TO_BE_SET_12345"))
	})
}

func TestMapEnvProvider(t *testing.T) {
	t.Parallel()
	env := fs.MapEnvProvider{"JSV_CONFIG": "/etc/jsv.yml"}
	assert.Equal(t, "/etc/jsv.yml", env.Get("JSV_CONFIG"))
	assert.Empty(t, env.Get("MISSING"))
	assert.Empty(t, fs.MapEnvProvider(nil).Get("ANY"))
}

func TestCanonicalPath(t *testing.T) {
	t.Parallel()

	t.Run("resolves symlinks", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		target := filepath.Join(dir, "target")
		require.NoError(t, os.Mkdir(target, 0o755))
		link := filepath.Join(dir, "link")
		require.NoError(t, os.Symlink(target, link))

		canonical, err := fs.CanonicalPath(link)
		require.NoError(t, err)
		expected, _ := filepath.EvalSymlinks(target)
		assert.Equal(t, expected, canonical)
	})

	t.Run("returns error for non-existent path", func(t *testing.T) {
		t.Parallel()
		_, err := fs.CanonicalPath(filepath.Join(t.TempDir(), "non-existent"))
		require.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Abs returns absolute path", func(t *testing.T) {
		t.Parallel()
		abs, err := fs.Abs("relative/path")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(abs))
	})
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("{}"), 0o600))
	}
}

func TestExpandInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir,
		"a.json", "b.json", "notes.txt",
		"nested/c.json", "nested/deeper/d.json",
		".hidden/e.json",
	)
	j := func(parts ...string) string { return filepath.Join(append([]string{dir}, parts...)...) }

	tests := []struct {
		name string
		args []string
		want []string
		err  bool
	}{
		{
			name: "plain files are kept",
			args: []string{j("b.json"), j("a.json")},
			want: []string{j("a.json"), j("b.json")},
		},
		{
			name: "missing files are left for the reader",
			args: []string{j("missing.json")},
			want: []string{j("missing.json")},
		},
		{
			name: "directories expand to json files",
			args: []string{j("nested")},
			want: []string{j("nested", "c.json"), j("nested", "deeper", "d.json")},
		},
		{
			name: "hidden directories are skipped",
			args: []string{dir},
			want: []string{j("a.json"), j("b.json"), j("nested", "c.json"), j("nested", "deeper", "d.json")},
		},
		{
			name: "globs expand and duplicates collapse",
			args: []string{j("*.json"), j("a.json")},
			want: []string{j("a.json"), j("b.json")},
		},
		{
			name: "glob without matches",
			args: []string{j("*.yaml")},
			err:  true,
		},
		{
			name: "bad pattern",
			args: []string{j("[")},
			err:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := fs.ExpandInputs(tt.args)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := fs.ExpandInputs([]string{j("*.yaml")})
	var nm *fs.NoMatchError
	require.ErrorAs(t, err, &nm)
	assert.Equal(t, "no data files match '"+j("*.yaml")+"'", nm.Error())
}
