package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultMaxDepth bounds schema recursion during a walk.
const DefaultMaxDepth = 2048

// Options tune a walk.
type Options struct {
	// RecordErrors collects every failure; otherwise the walk stops at the first.
	RecordErrors bool
	// Strict requires every declared property and rejects undeclared ones.
	Strict bool
	// InsertDefaults fills absent properties from their schema defaults.
	InsertDefaults bool
	MaxDepth       int
}

// Path addresses a value inside the data document.
type Path []string

// Append returns a new path extended by seg.
func (p Path) Append(seg string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// Index returns a new path extended by an array index.
func (p Path) Index(i int) Path {
	return p.Append(strconv.Itoa(i))
}

// String renders the path as a fragment, e.g. "#/a/0".
func (p Path) String() string {
	return "#/" + strings.Join(p, "/")
}

// Engine walks data against built schema nodes.
type Engine struct {
	env   *Env
	cache *Cache
	opts  Options
}

// NewEngine creates an Engine resolving references through cache.
func NewEngine(env *Env, cache *Cache, opts Options) *Engine {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Engine{env: env, cache: cache, opts: opts}
}

// Validate walks data against root. The returned error is a schema-level
// failure; data mismatches are returned as ValidationErrors.
func (e *Engine) Validate(root *Node, data any) ([]*ValidationError, error) {
	sc := &Scope{eng: e}
	if err := sc.Validate(root, data, nil); err != nil {
		return nil, err
	}
	return sc.errs, nil
}

// Scope is an error sink for one walk or for one isolated alternative within
// it. Keyword validators recurse through it.
type Scope struct {
	eng    *Engine
	errs   []*ValidationError
	halted bool
	depth  int
}

// Options returns the walk options.
func (sc *Scope) Options() Options {
	return sc.eng.opts
}

// Env returns the registries of the walk.
func (sc *Scope) Env() *Env {
	return sc.eng.env
}

// Validate applies every keyword of n that its dialect knows to data.
func (sc *Scope) Validate(n *Node, data any, path Path) error {
	if sc.halted {
		return nil
	}
	sc.depth++
	defer func() { sc.depth-- }()
	if sc.depth > sc.eng.opts.MaxDepth {
		return &SchemaError{Message: fmt.Sprintf(
			"maximum schema depth %d exceeded at '%s' in schema %s; the schema probably references itself without consuming data",
			sc.eng.opts.MaxDepth, path, n.URI,
		)}
	}

	switch doc := n.Doc.(type) {
	case bool:
		if !doc && n.Dialect.BooleanSchemas() {
			sc.Fail(n, path, "false", fmt.Sprintf("The property '%s' did not match the false schema", path))
		}
	case map[string]any:
		for _, kw := range n.Dialect.Keywords() {
			if sc.halted {
				return nil
			}
			if _, ok := doc[kw.Name]; !ok {
				continue
			}
			if err := kw.Validate(sc, n, data, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateChild wraps doc as a schema nested in parent and validates data
// against it.
func (sc *Scope) ValidateChild(parent *Node, doc any, data any, path Path) error {
	child, err := sc.Child(parent, doc)
	if err != nil {
		return err
	}
	return sc.Validate(child, data, path)
}

// Child wraps doc as a schema nested in parent.
func (sc *Scope) Child(parent *Node, doc any) (*Node, error) {
	return sc.eng.env.NewNode(doc, parent.URI, parent.Dialect)
}

// Isolate returns a fresh error scope at the same depth.
func (sc *Scope) Isolate() *Scope {
	return &Scope{eng: sc.eng, depth: sc.depth}
}

// Fail records a validation failure of keyword attr and returns it so callers
// can attach sub-errors.
func (sc *Scope) Fail(n *Node, path Path, attr, message string) *ValidationError {
	err := &ValidationError{
		Fragments:       append([]string(nil), path...),
		Message:         message,
		Schema:          n,
		FailedAttribute: attr,
	}
	sc.Report(err)
	return err
}

// Report records err, halting the scope when errors are not being recorded.
func (sc *Scope) Report(err *ValidationError) {
	sc.errs = append(sc.errs, err)
	if !sc.eng.opts.RecordErrors {
		sc.halted = true
	}
}

// Errors returns the failures recorded in this scope.
func (sc *Scope) Errors() []*ValidationError {
	return sc.errs
}

// Valid reports whether no failure was recorded.
func (sc *Scope) Valid() bool {
	return len(sc.errs) == 0
}

// Halted reports whether the scope stopped at a failure.
func (sc *Scope) Halted() bool {
	return sc.halted
}
