package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/json-schema-validator/internal/backend"
	"github.com/andyballingall/json-schema-validator/internal/uri"
)

func TestBuilderLoadsReferencedDocumentsOnce(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	cache := NewCache(env.URIs, nil)
	loader := newMemLoader(map[string]string{
		"http://example.com/child.json": `{"definitions": {"x": {"type": "string"}}}`,
	})
	reader := &Reader{Env: env, Loader: loader, Parser: backend.Std{}}

	doc := `{"properties": {
		"a": {"$ref": "child.json#/definitions/x"},
		"b": {"$ref": "http://example.com/child.json"}
	}}`
	root, err := buildRoot(t, env, cache, reader, parseJSON(t, doc), "http://example.com/root.json")
	require.NoError(t, err)
	_, err = buildRoot(t, env, cache, reader, parseJSON(t, doc), "http://example.com/root.json")
	require.NoError(t, err)

	assert.Equal(t, 1, loader.loads["http://example.com/child.json"])
	assert.True(t, cache.Loaded(mustURI(t, "http://example.com/child.json#")))

	errs, err := NewEngine(env, cache, Options{RecordErrors: true}).Validate(root, parseJSON(t, `{"a": 1}`))
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "The property '#/a' of type integer did not match the following type: string", errs[0].Message)
	assert.Equal(t, "http://example.com/child.json", errs[0].SchemaURI())
}

func TestBuilderRegistersIdentifiedSubschemas(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	cache := NewCache(env.URIs, nil)

	doc := `{"definitions": {"b": {"id": "http://example.com/b.json", "type": "integer"}},
		"properties": {"x": {"$ref": "http://example.com/b.json"}}}`
	root, err := buildRoot(t, env, cache, nil, parseJSON(t, doc), "http://example.com/root.json")
	require.NoError(t, err)

	b := cache.Get(mustURI(t, "http://example.com/b.json"))
	require.NotNil(t, b)
	assert.Equal(t, "http://example.com/b.json", b.URI.String())

	errs, err := NewEngine(env, cache, Options{}).Validate(root, parseJSON(t, `{"x": "no"}`))
	require.NoError(t, err)
	assert.Len(t, errs, 1)
}

func TestBuilderResolvesDialectMetaschemas(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	cache := NewCache(env.URIs, nil)

	_, err := buildRoot(t, env, cache, nil, parseJSON(t, `{"$ref": "`+testMetaURI+`"}`), "http://example.com/root.json")
	require.NoError(t, err)
	assert.True(t, cache.Loaded(mustURI(t, testMetaURI)))
}

func TestBuilderRewritesEnums(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	cache := NewCache(env.URIs, nil)

	root, err := buildRoot(t, env, cache, nil, parseJSON(t, `{"enum": [1, 1.0, "a"]}`), "http://example.com/root.json")
	require.NoError(t, err)
	set, ok := root.Doc.(map[string]any)["enum"].(*EnumSet)
	require.True(t, ok)
	assert.Equal(t, 2, set.Len())
}

func TestBuilderPropagatesLoadFailures(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	cache := NewCache(env.URIs, nil)
	reader := &Reader{Env: env, Loader: newMemLoader(nil), Parser: backend.Std{}}

	_, err := buildRoot(t, env, cache, reader, parseJSON(t, `{"$ref": "missing.json"}`), "http://example.com/root.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no document at http://example.com/missing.json")
}

func TestReaderPolicies(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	reader := &Reader{
		Env:        env,
		Loader:     newMemLoader(map[string]string{"http://example.com/a.json": `{}`}),
		Parser:     backend.Std{},
		AcceptURI:  func(u *uri.URI) bool { return u.Host != "example.com" },
		AcceptFile: func(string) bool { return false },
	}

	_, err := reader.ReadDocument(t.Context(), mustURI(t, "http://example.com/a.json"))
	var refused *ReadRefusedError
	require.ErrorAs(t, err, &refused)
	assert.Equal(t, "uri", refused.Kind)

	_, err = reader.ReadDocument(t.Context(), uri.FileURI("/work/a.json"))
	require.ErrorAs(t, err, &refused)
	assert.Equal(t, "file", refused.Kind)
	assert.Equal(t, "read of file '/work/a.json' refused", refused.Error())
}

func TestNewNodeSelectsDialect(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	base := mustURI(t, "http://example.com/root.json")

	n, err := env.NewNode(parseJSON(t, `{"$schema": "`+testMetaURI+`"}`), base, nil)
	require.NoError(t, err)
	assert.Equal(t, "test", n.Dialect.Name())

	n, err = env.NewNode(parseJSON(t, `{}`), base, nil)
	require.NoError(t, err)
	assert.Equal(t, "default", n.Dialect.Name())

	_, err = env.NewNode(parseJSON(t, `{"$schema": "http://example.com/unknown#"}`), base, nil)
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
	assert.Equal(t, "schema not found: http://example.com/unknown#", err.Error())
}

func TestNewNodeIdentifier(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	base := mustURI(t, "http://example.com/dir/root.json")

	n, err := env.NewNode(parseJSON(t, `{"id": "other.json#frag"}`), base, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/dir/other.json", n.URI.String())
	require.NotNil(t, n.Anchor())
	assert.Equal(t, "http://example.com/dir/other.json#frag", n.Anchor().String())
	assert.True(t, n.DeclaresID())

	wrapped := n.ArrayOf()
	assert.Equal(t, "array", wrapped.Doc.(map[string]any)["type"])
	assert.Same(t, n.URI, wrapped.URI)
}
