package schema

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/andyballingall/json-schema-validator/internal/uri"
)

// KeywordFunc validates data against one keyword of node. Data mismatches are
// reported through sc; a returned error means the schema itself is unusable
// and aborts the whole validation.
type KeywordFunc func(sc *Scope, node *Node, data any, path Path) error

// Keyword pairs a keyword name with its validator.
type Keyword struct {
	Name     string
	Validate KeywordFunc
}

// FormatFunc checks a value against a named format. The returned error's text
// completes the sentence "The property '#/x' ...".
type FormatFunc func(value any) error

// DialectConfig describes a dialect to NewDialect.
type DialectConfig struct {
	Name string
	// URIs lists the metaschema URIs of the dialect; the first is canonical.
	URIs           []string
	IDKeyword      string
	BooleanSchemas bool
	Keywords       []Keyword
	Formats        map[string]FormatFunc
	Metaschema     []byte
}

// Dialect is one JSON Schema draft: its keyword validators, format checkers and
// metaschema. Everything except the format table is fixed at construction.
type Dialect struct {
	name           string
	names          []string
	uris           []*uri.URI
	idKeyword      string
	booleanSchemas bool
	keywords       []Keyword
	index          map[string]KeywordFunc
	metaschema     []byte

	mu       sync.RWMutex
	formats  map[string]FormatFunc
	defaults map[string]FormatFunc
}

// NewDialect builds a Dialect from cfg.
func NewDialect(cfg DialectConfig) (*Dialect, error) {
	d := &Dialect{
		name:           cfg.Name,
		names:          append([]string{cfg.Name}, cfg.URIs...),
		idKeyword:      cfg.IDKeyword,
		booleanSchemas: cfg.BooleanSchemas,
		keywords:       slices.Clone(cfg.Keywords),
		index:          make(map[string]KeywordFunc, len(cfg.Keywords)),
		metaschema:     cfg.Metaschema,
		formats:        maps.Clone(cfg.Formats),
		defaults:       maps.Clone(cfg.Formats),
	}
	if d.idKeyword == "" {
		d.idKeyword = "id"
	}
	if d.formats == nil {
		d.formats = make(map[string]FormatFunc)
		d.defaults = make(map[string]FormatFunc)
	}
	for _, kw := range cfg.Keywords {
		d.index[kw.Name] = kw.Validate
	}
	for _, s := range cfg.URIs {
		u, err := uri.Parse(s)
		if err != nil {
			return nil, err
		}
		d.uris = append(d.uris, u)
	}
	return d, nil
}

// Derive returns a copy of d under a new name with its own format table reset
// to d's defaults and no metaschema URIs of its own.
func (d *Dialect) Derive(name string) *Dialect {
	c := &Dialect{
		name:           name,
		names:          []string{name},
		uris:           d.uris,
		idKeyword:      d.idKeyword,
		booleanSchemas: d.booleanSchemas,
		keywords:       d.keywords,
		index:          d.index,
		metaschema:     d.metaschema,
		formats:        maps.Clone(d.defaults),
		defaults:       maps.Clone(d.defaults),
	}
	return c
}

func (d *Dialect) Name() string {
	return d.name
}

// Names returns the dialect name followed by its metaschema URIs.
func (d *Dialect) Names() []string {
	return d.names
}

// URI returns the canonical metaschema URI, or nil for dialects without one.
func (d *Dialect) URI() *uri.URI {
	if len(d.uris) == 0 {
		return nil
	}
	return d.uris[0].Clone()
}

// IDKeyword is the keyword a schema uses to declare its own URI.
func (d *Dialect) IDKeyword() string {
	return d.idKeyword
}

// BooleanSchemas reports whether true and false are valid schemas.
func (d *Dialect) BooleanSchemas() bool {
	return d.booleanSchemas
}

// Keywords returns the keyword validators in evaluation order.
func (d *Dialect) Keywords() []Keyword {
	return d.keywords
}

// Keyword looks up a keyword validator by name.
func (d *Dialect) Keyword(name string) (KeywordFunc, bool) {
	fn, ok := d.index[name]
	return fn, ok
}

// Metaschema returns the raw metaschema document.
func (d *Dialect) Metaschema() []byte {
	return d.metaschema
}

// Format returns the checker currently registered for name.
func (d *Dialect) Format(name string) (FormatFunc, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn, ok := d.formats[name]
	return fn, ok
}

// Formats lists the registered format names in sorted order.
func (d *Dialect) Formats() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Sorted(maps.Keys(d.formats))
}

func (d *Dialect) registerFormat(name string, fn FormatFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.formats[name] = fn
}

// deregisterFormat removes a custom checker, falling back to the default one.
func (d *Dialect) deregisterFormat(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if fn, ok := d.defaults[name]; ok {
		d.formats[name] = fn
		return
	}
	delete(d.formats, name)
}

func (d *Dialect) restoreFormats() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.formats = maps.Clone(d.defaults)
}

func (d *Dialect) String() string {
	return d.name
}

// uriKey identifies a metaschema URI independent of fragment and query.
func uriKey(u *uri.URI) string {
	return fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, u.Path)
}
