package schema

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/andyballingall/json-schema-validator/internal/backend"
	"github.com/andyballingall/json-schema-validator/internal/uri"
)

// Keywords whose values are schemas, grouped by shape.
var (
	schemaMapKeywords    = []string{"properties", "patternProperties", "definitions"}
	singleSchemaKeywords = []string{"additionalProperties", "additionalItems", "not", "contains", "propertyNames"}
	schemaListKeywords   = []string{"allOf", "anyOf", "oneOf"}
	unionKeywords        = []string{"type", "disallow"}
)

// Builder discovers every schema reachable from a root node, registering
// identified and externally loaded documents in the cache. It must run inside
// Cache.Update.
type Builder struct {
	ctx    context.Context
	env    *Env
	tx     *Txn
	reader *Reader
	logger *slog.Logger
}

// NewBuilder creates a Builder writing through tx.
func NewBuilder(ctx context.Context, env *Env, tx *Txn, reader *Reader, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{ctx: ctx, env: env, tx: tx, reader: reader, logger: logger}
}

// Build walks n and everything it references.
func (b *Builder) Build(n *Node) error {
	m, ok := n.Object()
	if !ok {
		return nil
	}

	if ref, ok := m["$ref"].(string); ok {
		if err := b.loadRef(n, ref); err != nil {
			return err
		}
	}

	switch ext := m["extends"].(type) {
	case string:
		if err := b.loadRef(n, ext); err != nil {
			return err
		}
	case []any:
		for _, e := range ext {
			if err := b.inline(n, e); err != nil {
				return err
			}
		}
	case map[string]any:
		if err := b.inline(n, ext); err != nil {
			return err
		}
	}

	for _, kw := range unionKeywords {
		members, ok := m[kw].([]any)
		if !ok {
			continue
		}
		for _, member := range members {
			if err := b.inline(n, member); err != nil {
				return err
			}
		}
	}

	for _, kw := range schemaMapKeywords {
		if err := b.inlineValues(n, m[kw]); err != nil {
			return err
		}
	}
	if err := b.inlineValues(n, m["dependencies"]); err != nil {
		return err
	}

	for _, kw := range singleSchemaKeywords {
		if err := b.inline(n, m[kw]); err != nil {
			return err
		}
	}

	for _, kw := range schemaListKeywords {
		list, ok := m[kw].([]any)
		if !ok {
			continue
		}
		for _, e := range list {
			if err := b.inline(n, e); err != nil {
				return err
			}
		}
	}

	switch items := m["items"].(type) {
	case map[string]any:
		if err := b.inline(n, items); err != nil {
			return err
		}
	case []any:
		for _, e := range items {
			if err := b.inline(n, e); err != nil {
				return err
			}
		}
	}

	if values, ok := m["enum"].([]any); ok {
		m["enum"] = NewEnumSet(values)
	}
	return nil
}

// inlineValues builds every object-valued member of a name-to-schema map.
func (b *Builder) inlineValues(n *Node, v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if err := b.inline(n, m[k]); err != nil {
			return err
		}
	}
	return nil
}

// inline builds a nested schema object, registering it when it declares its
// own identifier.
func (b *Builder) inline(parent *Node, v any) error {
	if _, ok := v.(map[string]any); !ok {
		return nil
	}
	child, err := b.env.NewNode(v, parent.URI, parent.Dialect)
	if err != nil {
		return err
	}
	if child.DeclaresID() {
		b.tx.Add(child)
	}
	return b.Build(child)
}

// loadRef makes sure the document ref points into is cached and built.
func (b *Builder) loadRef(n *Node, ref string) error {
	target, err := b.env.URIs.AbsolutizeRef(ref, n.URI)
	if err != nil {
		return err
	}
	if b.tx.Loaded(target) {
		return nil
	}

	var node *Node
	if d := b.env.Dialects.ForURI(target); d != nil {
		node, err = MetaschemaNode(b.env, d)
	} else {
		b.logger.Debug("loading referenced schema", "uri", target.String())
		node, err = b.reader.Read(b.ctx, target, n.Dialect)
	}
	if err != nil {
		return err
	}

	b.tx.AddAs(b.tx.Key(target), node)
	b.tx.Add(node)
	return b.Build(node)
}

// MetaschemaNode parses d's metaschema into a fresh node identified by the
// dialect's canonical URI.
func MetaschemaNode(env *Env, d *Dialect) (*Node, error) {
	doc, err := backend.Std{}.Parse(d.Metaschema())
	if err != nil {
		return nil, &SchemaError{Message: "invalid metaschema for " + d.Name(), Wrapped: err}
	}
	u := d.URI()
	if u == nil {
		u = uri.FileURI(d.Name())
	}
	return env.NewNode(doc, u, d)
}
