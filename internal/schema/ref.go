package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andyballingall/json-schema-validator/internal/uri"
)

// Resolve finds the schema ref points at, relative to n. It returns a nil node
// and the resolved URI when the referenced document is not cached, and an
// error when the document exists but the pointer does not.
func (sc *Scope) Resolve(n *Node, ref string) (*Node, *uri.URI, error) {
	env := sc.eng.env
	target, err := env.URIs.NormalizeRef(ref, n.URI)
	if err != nil {
		return nil, nil, err
	}

	if target.Fragment != "" && target.Fragment[0] != '/' {
		if anchored := sc.eng.cache.Get(target); anchored != nil {
			return anchored, target, nil
		}
	}

	doc := sc.eng.cache.Get(target.WithEmptyFragment())
	if doc == nil {
		return nil, target, nil
	}

	value, err := walkPointer(doc.Doc, target.Fragment)
	if err != nil {
		return nil, target, &SchemaError{
			Message: fmt.Sprintf("the fragment '%s' does not exist on schema %s", target.Fragment, doc.URI),
			Wrapped: err,
		}
	}
	if value == nil {
		return nil, target, nil
	}

	resolved, err := env.NewNode(value, target.WithoutFragment(), doc.Dialect)
	if err != nil {
		return nil, target, err
	}
	return resolved, target, nil
}

// walkPointer follows a decoded JSON pointer through a document. Segments are
// unescaped ("~1" is "/", "~0" is "~").
func walkPointer(doc any, pointer string) (any, error) {
	cur := doc
	for _, raw := range strings.Split(pointer, "/") {
		if raw == "" {
			continue
		}
		seg := unescapeSegment(raw)
		next, ok := member(cur, seg)
		if !ok {
			return nil, fmt.Errorf("no member '%s' in %s", seg, TypeOf(cur))
		}
		cur = next
	}
	return cur, nil
}

func unescapeSegment(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}

// member looks up an object member or array element.
func member(v any, seg string) (any, bool) {
	if m, ok := v.(map[string]any); ok {
		next, ok := m[seg]
		return next, ok
	}
	arr, ok := AsArray(v)
	if !ok {
		return nil, false
	}
	i, err := strconv.Atoi(seg)
	if err != nil || i < 0 || i >= len(arr) {
		return nil, false
	}
	return arr[i], true
}

// SelectFragment descends into root by a "#/a/b" path using plain member and
// index lookups, returning the selected schema as a node sharing root's URI.
func SelectFragment(env *Env, root *Node, fragment string) (*Node, error) {
	segments := strings.Split(strings.TrimRight(fragment, "/"), "/")
	if segments[0] != "#" {
		return nil, &SchemaFragmentError{Fragment: fragment}
	}

	cur := root.Doc
	last := "#"
	for _, raw := range segments[1:] {
		last = unescapeSegment(raw)
		next, ok := member(cur, last)
		if !ok {
			return nil, &SchemaFragmentError{Fragment: fragment, Segment: last}
		}
		cur = next
	}

	_, isBool := cur.(bool)
	if _, isObject := cur.(map[string]any); !isObject && !(isBool && root.Dialect.BooleanSchemas()) {
		return nil, &SchemaFragmentError{Fragment: fragment, Segment: last}
	}
	return env.NewNode(cur, root.URI, root.Dialect)
}
