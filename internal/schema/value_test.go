package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value any
		want  string
	}{
		{nil, "null"},
		{true, "boolean"},
		{"s", "string"},
		{json.Number("1"), "integer"},
		{json.Number("1.0"), "integer"},
		{json.Number("1.5"), "number"},
		{3, "integer"},
		{2.5, "number"},
		{[]any{}, "array"},
		{NewEnumSet(nil), "array"},
		{map[string]any{}, "object"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TypeOf(tt.value), "%#v", tt.value)
	}
}

func TestMatchesType(t *testing.T) {
	t.Parallel()

	assert.True(t, MatchesType(json.Number("4.0"), "integer"))
	assert.True(t, MatchesType(json.Number("4"), "number"))
	assert.False(t, MatchesType(json.Number("4.1"), "integer"))
	assert.True(t, MatchesType(nil, "null"))
	assert.False(t, MatchesType(nil, "object"))
	assert.True(t, MatchesType(nil, "any"))
	assert.True(t, MatchesType("x", "unheard-of"))
}

func TestEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, Equal(json.Number("1"), json.Number("1.00")))
	assert.True(t, Equal(json.Number("1"), 1))
	assert.True(t, Equal(
		map[string]any{"a": []any{json.Number("1"), "x"}, "b": nil},
		map[string]any{"b": nil, "a": []any{1.0, "x"}},
	))
	assert.False(t, Equal("1", json.Number("1")))
	assert.False(t, Equal([]any{1, 2}, []any{2, 1}))
	assert.False(t, Equal(map[string]any{"a": nil}, map[string]any{}))
}

func TestInspectAndPlain(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"a"`, Inspect("a"))
	assert.Equal(t, "a", Plain("a"))
	assert.Equal(t, "12", Inspect(json.Number("12")))
	assert.Equal(t, `{"a":[1,null]}`, Plain(map[string]any{"a": []any{json.Number("1"), nil}}))
}

func TestCopyDataIsDeep(t *testing.T) {
	t.Parallel()

	orig := map[string]any{"a": []any{map[string]any{"b": 1}}, "e": NewEnumSet([]any{"x"})}
	cp := CopyData(orig).(map[string]any)
	cp["a"].([]any)[0].(map[string]any)["b"] = 2

	assert.Equal(t, 1, orig["a"].([]any)[0].(map[string]any)["b"])
	assert.Equal(t, []any{"x"}, cp["e"])
}

func TestStringify(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"non-string keys", map[int]any{1: "a"}, map[string]any{"1": "a"}},
		{"string map", map[string]string{"a": "b"}, map[string]any{"a": "b"}},
		{"typed slice", []string{"a", "b"}, []any{"a", "b"}},
		{"struct", payload{Name: "n", Count: 2}, map[string]any{"name": "n", "count": json.Number("2")}},
		{"pointer", &payload{Name: "p"}, map[string]any{"name": "p", "count": json.Number("0")}},
		{"nil slice", []string(nil), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Stringify(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeMissing(t *testing.T) {
	t.Parallel()

	dst := map[string]any{"a": 1, "n": nil, "o": map[string]any{"x": 1}, "l": []any{map[string]any{}}}
	src := map[string]any{
		"a": 2,
		"b": 3,
		"n": "filled",
		"o": map[string]any{"x": 2, "y": 3},
		"l": []any{map[string]any{"z": 1}, "extra"},
	}
	MergeMissing(src, dst)

	assert.Equal(t, map[string]any{
		"a": 1,
		"b": 3,
		"n": "filled",
		"o": map[string]any{"x": 1, "y": 3},
		"l": []any{map[string]any{"z": 1}},
	}, dst)
}

func TestEnumSet(t *testing.T) {
	t.Parallel()

	s := NewEnumSet([]any{json.Number("1"), "a", json.Number("1.0"), map[string]any{"k": true}})
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains(1))
	assert.True(t, s.Contains(map[string]any{"k": true}))
	assert.False(t, s.Contains("b"))

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `[1, "a", {"k": true}]`, string(data))
}
