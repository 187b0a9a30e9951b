package backend

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendsParse(t *testing.T) {
	t.Parallel()

	for _, b := range []Backend{Std{}, Text{}} {
		t.Run(b.Name(), func(t *testing.T) {
			t.Parallel()

			v, err := b.Parse([]byte(`{"a":[1,2.5,"x",true,false,null],"b":{"c":-3e2}}`))
			require.NoError(t, err)
			assert.Equal(t, map[string]any{
				"a": []any{json.Number("1"), json.Number("2.5"), "x", true, false, nil},
				"b": map[string]any{"c": json.Number("-3e2")},
			}, v)

			v, err = b.Parse([]byte(` 42 `))
			require.NoError(t, err)
			assert.Equal(t, json.Number("42"), v)

			v, err = b.Parse([]byte(`[]`))
			require.NoError(t, err)
			assert.Equal(t, []any{}, v)

			_, err = b.Parse([]byte(`kapow`))
			require.Error(t, err)

			_, err = b.Parse([]byte(`{"a":1} {}`))
			require.Error(t, err)

			_, err = b.Parse([]byte(`{"a":`))
			require.Error(t, err)
		})
	}
}

func TestTextRejectsDuplicateNames(t *testing.T) {
	t.Parallel()
	_, err := Text{}.Parse([]byte(`{"a":1,"a":2}`))
	require.Error(t, err)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("defaults to std backend", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		assert.Equal(t, StdName, r.Active())
		assert.Equal(t, []string{StdName, TextName}, r.Names())
	})

	t.Run("use switches backend", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		require.NoError(t, r.Use(TextName))
		assert.Equal(t, TextName, r.Active())

		v, err := r.Parse([]byte(`{"x":1}`))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"x": json.Number("1")}, v)
	})

	t.Run("use rejects unknown names", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		err := r.Use("yajl")
		var target *NonexistentBackendError
		require.ErrorAs(t, err, &target)
		assert.EqualError(t, err, "the JSON backend 'yajl' could not be found. Available backends: json, jsonv2")
		assert.Equal(t, StdName, r.Active())
	})

	t.Run("parse errors are wrapped", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		_, err := r.Parse([]byte(`{`))
		var target *ParseError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, StdName, target.Backend)
		assert.Contains(t, err.Error(), "json parse error (json backend)")
	})

	t.Run("active backend without parser", func(t *testing.T) {
		t.Parallel()
		r := &Registry{backends: map[string]Backend{}, active: "gone"}
		_, err := r.Parse([]byte(`{}`))
		var target *UnknownBackendError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "gone", target.Name)
	})
}

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	a, err := Canonicalize([]byte(`{ "b": 1, "a": [true, null] }`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":[true,null],"b":1}`, string(a))
	assert.Equal(t, `{"a":[true,null],"b":1}`, string(a))

	b, err := Serialize(map[string]any{"a": []any{true, nil}, "b": json.Number("1")})
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	_, err = Canonicalize([]byte(`{`))
	require.Error(t, err)

	_, err = Serialize(map[string]any{"f": func() {}})
	require.Error(t, err)
	assert.False(t, errors.Is(err, errTrailingData))
}
