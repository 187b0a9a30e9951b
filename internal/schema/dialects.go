package schema

import (
	"fmt"
	"sync"

	"github.com/andyballingall/json-schema-validator/internal/uri"
)

// DialectRegistry is the table of known dialects plus the default dialect used
// when neither the caller nor the schema selects one.
type DialectRegistry struct {
	mu       sync.RWMutex
	dialects []*Dialect
	byName   map[string]*Dialect
	byURI    map[string]*Dialect
	def      *Dialect
}

// NewDialectRegistry creates an empty registry.
func NewDialectRegistry() *DialectRegistry {
	return &DialectRegistry{
		byName: make(map[string]*Dialect),
		byURI:  make(map[string]*Dialect),
	}
}

// Register adds d under its name and every metaschema URI.
func (r *DialectRegistry) Register(d *Dialect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dialects = append(r.dialects, d)
	for _, n := range d.names {
		r.byName[n] = d
	}
	for _, u := range d.uris {
		r.byURI[uriKey(u)] = d
	}
}

// SetDefault installs the dialect used when no other is selected. It is kept
// apart from the registered dialects so that format changes made to a named
// dialect do not leak into it and vice versa.
func (r *DialectRegistry) SetDefault(d *Dialect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.def = d
}

// Default returns the default dialect.
func (r *DialectRegistry) Default() *Dialect {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.def
}

// All returns the registered dialects in registration order.
func (r *DialectRegistry) All() []*Dialect {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Dialect(nil), r.dialects...)
}

// ForName resolves a dialect name or metaschema URI. The empty name, like the
// default dialect's own name, selects the default dialect.
func (r *DialectRegistry) ForName(name string) (*Dialect, error) {
	if def := r.Default(); def != nil && name == def.Name() {
		return def, nil
	}
	if name == "" {
		if d := r.Default(); d != nil {
			return d, nil
		}
		return nil, &SchemaError{Message: "no default JSON schema version is configured"}
	}

	r.mu.RLock()
	d, ok := r.byName[name]
	r.mu.RUnlock()
	if ok {
		return d, nil
	}
	if u, err := uri.Parse(name); err == nil && u.IsAbs() {
		if d := r.ForURI(u); d != nil {
			return d, nil
		}
	}
	return nil, &SchemaError{Message: fmt.Sprintf("the requested JSON schema version '%s' is not supported", name)}
}

// ForURI returns the dialect whose metaschema lives at u, or nil.
func (r *DialectRegistry) ForURI(u *uri.URI) *Dialect {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byURI[uriKey(u)]
}

// ForSchemaKeyword resolves the value of a $schema keyword.
func (r *DialectRegistry) ForSchemaKeyword(text string) (*Dialect, error) {
	u, err := uri.Parse(text)
	if err == nil {
		if d := r.ForURI(u); d != nil {
			return d, nil
		}
	}
	return nil, &SchemaError{Message: fmt.Sprintf("schema not found: %s", text)}
}

// targets resolves dialect names for the format operations. No names means
// every registered dialect plus the default dialect. The empty name selects
// the default dialect.
func (r *DialectRegistry) targets(names []string) ([]*Dialect, error) {
	if len(names) == 0 {
		all := r.All()
		if d := r.Default(); d != nil {
			all = append(all, d)
		}
		return all, nil
	}
	out := make([]*Dialect, 0, len(names))
	for _, n := range names {
		d, err := r.ForName(n)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// RegisterFormat installs fn as the checker for format name in the named
// dialects.
func (r *DialectRegistry) RegisterFormat(name string, fn FormatFunc, dialects ...string) error {
	ds, err := r.targets(dialects)
	if err != nil {
		return err
	}
	for _, d := range ds {
		d.registerFormat(name, fn)
	}
	return nil
}

// DeregisterFormat removes a custom checker, restoring the built-in one where
// the dialect has it.
func (r *DialectRegistry) DeregisterFormat(name string, dialects ...string) error {
	ds, err := r.targets(dialects)
	if err != nil {
		return err
	}
	for _, d := range ds {
		d.deregisterFormat(name)
	}
	return nil
}

// RestoreDefaultFormats resets the format tables of the named dialects.
func (r *DialectRegistry) RestoreDefaultFormats(dialects ...string) error {
	ds, err := r.targets(dialects)
	if err != nil {
		return err
	}
	for _, d := range ds {
		d.restoreFormats()
	}
	return nil
}
