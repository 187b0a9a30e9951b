package jsonschema

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/andyballingall/json-schema-validator/internal/backend"
	"github.com/andyballingall/json-schema-validator/internal/schema"
)

// run is the pipeline shared by every entry point.
func (v *Validator) run(schemaArg, data any, o *callOptions) (errs Errors, err error) {
	d, err := v.dialect(o.version)
	if err != nil {
		return nil, err
	}

	var root *schema.Node
	err = v.cache.Update(func(tx *schema.Txn) error {
		n, err := v.initSchema(o.ctx, tx, schemaArg, d)
		if err != nil {
			return err
		}
		root = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	working, err := v.initData(o.ctx, data, o)
	if err != nil {
		return nil, err
	}

	defer func() {
		if !o.keepCache && (o.clearCache || !v.cacheSchemas.Load()) {
			v.cache.Clear()
		}
		if o.insertDefaults {
			schema.MergeMissing(working, data)
		}
	}()

	if o.validateSchema {
		if err := v.checkAgainstMetaschema(o.ctx, root); err != nil {
			return nil, err
		}
	}

	if o.fragment != "" {
		if root, err = schema.SelectFragment(v.env, root, o.fragment); err != nil {
			return nil, err
		}
	}
	if o.list {
		root = root.ArrayOf()
	}

	eng := schema.NewEngine(v.env, v.cache, schema.Options{
		RecordErrors:   o.recordErrors,
		Strict:         o.strict,
		InsertDefaults: o.insertDefaults,
		MaxDepth:       v.maxDepth,
	})
	found, err := eng.Validate(root, working)
	if err != nil {
		return nil, err
	}
	return Errors(found), nil
}

// checkAgainstMetaschema validates the root document against the metaschema of
// the dialect interpreting it.
func (v *Validator) checkAgainstMetaschema(ctx context.Context, root *schema.Node) error {
	o := &callOptions{ctx: ctx, keepCache: true}
	errs, err := v.run(root.Dialect, schema.CopyData(root.Doc), o)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// initSchema turns the caller's schema argument into a built root node. It runs
// inside a cache update.
func (v *Validator) initSchema(ctx context.Context, tx *schema.Txn, arg any, d *Dialect) (*schema.Node, error) {
	switch s := arg.(type) {
	case *Dialect:
		if u := s.URI(); u != nil {
			if n := tx.Get(u); n != nil {
				return n, nil
			}
		}
		n, err := schema.MetaschemaNode(v.env, s)
		if err != nil {
			return nil, err
		}
		return v.buildAndAdd(ctx, tx, n, "")
	case string:
		return v.schemaFromText(ctx, tx, s, d)
	case []byte:
		return v.schemaFromText(ctx, tx, string(s), d)
	}

	if !isSchemaValue(arg) {
		return nil, &SchemaParseError{Type: fmt.Sprintf("%T", arg)}
	}
	doc, err := schema.Stringify(arg)
	if err != nil {
		return nil, &SchemaParseError{Type: fmt.Sprintf("%T", arg)}
	}
	canonical, err := backend.Serialize(doc)
	if err != nil {
		return nil, err
	}
	return v.schemaFromDoc(ctx, tx, doc, syntheticID(canonical), d)
}

// schemaFromText parses text as an inline schema, or reads it as a URI when it
// is not JSON.
func (v *Validator) schemaFromText(ctx context.Context, tx *schema.Txn, text string, d *Dialect) (*schema.Node, error) {
	doc, parseErr := v.backends.Parse([]byte(text))
	if parseErr == nil {
		id := []byte(text)
		if canonical, err := backend.Canonicalize(id); err == nil {
			id = canonical
		}
		return v.schemaFromDoc(ctx, tx, doc, syntheticID(id), d)
	}

	u, err := v.env.URIs.Normalize(text, "")
	if err != nil {
		return nil, err
	}
	key := tx.Key(u)
	if n := tx.Get(u); n != nil {
		return n, nil
	}

	v.logger.Debug("loading schema", "uri", u.String())
	n, err := v.reader.Read(ctx, u, d)
	if err != nil {
		return nil, err
	}
	return v.buildAndAdd(ctx, tx, n, key)
}

// schemaFromDoc wraps an in-memory document identified by a synthetic id that
// resolves below the working directory.
func (v *Validator) schemaFromDoc(ctx context.Context, tx *schema.Txn, doc any, id string, d *Dialect) (*schema.Node, error) {
	base, err := v.env.URIs.Normalize(id, "")
	if err != nil {
		return nil, err
	}
	if n := tx.Get(base); n != nil {
		return n, nil
	}
	n, err := v.env.NewNode(doc, base, d)
	if err != nil {
		return nil, err
	}
	return v.buildAndAdd(ctx, tx, n, tx.Key(base))
}

// buildAndAdd registers n under key as well as its own URI and builds it. A
// failed build fails the enclosing Update, which rolls back every document it
// registered so the next call retries them.
func (v *Validator) buildAndAdd(ctx context.Context, tx *schema.Txn, n *schema.Node, key string) (*schema.Node, error) {
	if key != "" {
		tx.AddAs(key, n)
	}
	tx.Add(n)
	if err := schema.NewBuilder(ctx, v.env, tx, v.reader, v.logger).Build(n); err != nil {
		return nil, err
	}
	return n, nil
}

// syntheticID derives a stable name for an in-memory schema from its text.
func syntheticID(text []byte) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, text).String()
}

// isSchemaValue reports whether arg is an object-like value or a boolean.
func isSchemaValue(arg any) bool {
	rv := reflect.ValueOf(arg)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Struct, reflect.Bool:
		return true
	}
	return false
}

// initData produces the working copy of data that validation reads and, with
// default insertion, writes.
func (v *Validator) initData(ctx context.Context, data any, o *callOptions) (any, error) {
	text, isText := asText(data)

	switch {
	case o.json:
		if !isText {
			return nil, &DataNotStringError{Mode: "json", Type: fmt.Sprintf("%T", data)}
		}
		return v.backends.Parse([]byte(text))
	case o.uri:
		if !isText {
			return nil, &DataNotStringError{Mode: "uri", Type: fmt.Sprintf("%T", data)}
		}
		return v.readData(ctx, text)
	case o.parseData && isText:
		if doc, err := v.backends.Parse([]byte(text)); err == nil {
			return doc, nil
		}
		doc, err := v.readData(ctx, text)
		if err == nil {
			return doc, nil
		}
		var pe *JSONParseError
		if errors.As(err, &pe) {
			return nil, err
		}
		v.logger.Debug("data is neither JSON nor a readable URI; using it as a string", "error", err)
		return text, nil
	case isText:
		return text, nil
	}
	return schema.Stringify(data)
}

func (v *Validator) readData(ctx context.Context, text string) (any, error) {
	u, err := v.env.URIs.Normalize(text, "")
	if err != nil {
		return nil, err
	}
	return v.reader.ReadDocument(ctx, u)
}

func asText(data any) (string, bool) {
	switch s := data.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	}
	return "", false
}
