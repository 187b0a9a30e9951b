package schema

import (
	"github.com/andyballingall/json-schema-validator/internal/uri"
)

// Node is a schema document together with the URI it was resolved against and
// the dialect that interprets it. Nodes are not modified once built.
type Node struct {
	Doc     any
	URI     *uri.URI
	Dialect *Dialect

	// anchor is the declared identifier when it carries a plain-name fragment.
	anchor *uri.URI
}

// Env bundles the registries consulted when nodes are created and resolved.
type Env struct {
	Dialects *DialectRegistry
	URIs     *uri.Normalizer
}

// NewNode wraps doc. A declared $schema selects the dialect, otherwise parent
// applies (or the default dialect when parent is nil). A declared identifier
// resolved against base becomes the node URI. The node URI never carries a
// fragment.
func (e *Env) NewNode(doc any, base *uri.URI, parent *Dialect) (*Node, error) {
	d := parent
	u := base
	var anchor *uri.URI

	if m, ok := doc.(map[string]any); ok {
		if s, ok := m["$schema"].(string); ok && s != "" {
			found, err := e.Dialects.ForSchemaKeyword(s)
			if err != nil {
				return nil, err
			}
			d = found
		}
		if d == nil {
			d = e.Dialects.Default()
		}
		if id, ok := m[d.IDKeyword()].(string); ok && id != "" {
			resolved, err := e.URIs.NormalizeRef(id, base)
			if err != nil {
				return nil, err
			}
			if resolved.Fragment != "" && resolved.Fragment[0] != '/' {
				anchor = resolved
			}
			u = resolved
		}
	}
	if d == nil {
		d = e.Dialects.Default()
	}

	return &Node{
		Doc:     doc,
		URI:     u.WithoutFragment(),
		Dialect: d,
		anchor:  anchor,
	}, nil
}

// Object returns the node's document as an object.
func (n *Node) Object() (map[string]any, bool) {
	m, ok := n.Doc.(map[string]any)
	return m, ok
}

// Get returns the value of a keyword.
func (n *Node) Get(keyword string) (any, bool) {
	m, ok := n.Doc.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m[keyword]
	return v, ok
}

// Has reports whether the document declares keyword.
func (n *Node) Has(keyword string) bool {
	_, ok := n.Get(keyword)
	return ok
}

// DeclaresID reports whether the document names its own URI.
func (n *Node) DeclaresID() bool {
	id, ok := n.Get(n.Dialect.IDKeyword())
	s, isString := id.(string)
	return ok && isString && s != ""
}

// Anchor returns the URI including a plain-name fragment declared by the
// document's identifier, or nil.
func (n *Node) Anchor() *uri.URI {
	return n.anchor
}

// ArrayOf wraps n as the schema of an array whose every item must match n. The
// wrapper shares n's URI so references inside n keep resolving.
func (n *Node) ArrayOf() *Node {
	return &Node{
		Doc:     map[string]any{"type": "array", "items": n.Doc},
		URI:     n.URI,
		Dialect: n.Dialect,
	}
}
