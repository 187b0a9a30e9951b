package schema

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andyballingall/json-schema-validator/internal/backend"
	"github.com/andyballingall/json-schema-validator/internal/uri"
)

const testMetaURI = "http://example.com/test-dialect/schema#"

// typeOnly is a minimal "type" keyword for exercising the engine without the
// built-in dialects.
func typeOnly(sc *Scope, n *Node, data any, path Path) error {
	v, _ := n.Get("type")
	name, _ := v.(string)
	if !MatchesType(data, name) {
		sc.Fail(n, path, "type", fmt.Sprintf("The property '%s' of type %s did not match the following type: %s",
			path, TypeOf(data), name))
	}
	return nil
}

func propertiesOnly(sc *Scope, n *Node, data any, path Path) error {
	obj, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	v, _ := n.Get("properties")
	props, _ := v.(map[string]any)
	for name, prop := range props {
		value, ok := obj[name]
		if !ok {
			continue
		}
		if err := sc.ValidateChild(n, prop, value, path.Append(name)); err != nil {
			return err
		}
	}
	return nil
}

func refOnly(sc *Scope, n *Node, data any, path Path) error {
	v, _ := n.Get("$ref")
	target, _ := v.(string)
	resolved, u, err := sc.Resolve(n, target)
	if err != nil {
		return err
	}
	if resolved == nil {
		sc.Fail(n, path, "$ref", fmt.Sprintf("The referenced schema '%s' cannot be found", u))
		return nil
	}
	return sc.Validate(resolved, data, path)
}

func newTestDialect(t *testing.T, name string, uris ...string) *Dialect {
	t.Helper()
	d, err := NewDialect(DialectConfig{
		Name: name,
		URIs: uris,
		Keywords: []Keyword{
			{Name: "type", Validate: typeOnly},
			{Name: "properties", Validate: propertiesOnly},
			{Name: "$ref", Validate: refOnly},
		},
		Formats:    map[string]FormatFunc{"builtin": func(any) error { return nil }},
		Metaschema: []byte(`{"id": "` + testMetaURI + `", "type": "object"}`),
	})
	require.NoError(t, err)
	return d
}

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	reg := NewDialectRegistry()
	d := newTestDialect(t, "test", testMetaURI)
	reg.Register(d)
	reg.SetDefault(d.Derive("default"))
	return &Env{
		Dialects: reg,
		URIs:     uri.NewNormalizer(func() (string, error) { return "/work", nil }),
	}
}

func parseJSON(t *testing.T, text string) any {
	t.Helper()
	v, err := backend.Std{}.Parse([]byte(text))
	require.NoError(t, err)
	return v
}

func mustURI(t *testing.T, text string) *uri.URI {
	t.Helper()
	u, err := uri.Parse(text)
	require.NoError(t, err)
	return u
}

// memLoader serves documents from memory and counts fetches.
type memLoader struct {
	docs  map[string]string
	loads map[string]int
}

func newMemLoader(docs map[string]string) *memLoader {
	return &memLoader{docs: docs, loads: make(map[string]int)}
}

func (m *memLoader) Load(_ context.Context, u *uri.URI) ([]byte, error) {
	key := u.WithoutFragment().String()
	m.loads[key]++
	text, ok := m.docs[key]
	if !ok {
		return nil, fmt.Errorf("no document at %s", key)
	}
	return []byte(text), nil
}

// buildRoot registers and builds doc as the root schema at base.
func buildRoot(t *testing.T, env *Env, cache *Cache, reader *Reader, doc any, base string) (*Node, error) {
	t.Helper()
	var root *Node
	err := cache.Update(func(tx *Txn) error {
		n, err := env.NewNode(doc, mustURI(t, base), nil)
		if err != nil {
			return err
		}
		root = n
		tx.Add(n)
		return NewBuilder(context.Background(), env, tx, reader, nil).Build(n)
	})
	return root, err
}
