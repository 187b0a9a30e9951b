package jsonschema

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/andyballingall/json-schema-validator/internal/backend"
	"github.com/andyballingall/json-schema-validator/internal/drafts"
	"github.com/andyballingall/json-schema-validator/internal/loader"
	"github.com/andyballingall/json-schema-validator/internal/schema"
	"github.com/andyballingall/json-schema-validator/internal/uri"
)

type (
	// URI is a parsed URI that remembers an explicit empty fragment.
	URI = uri.URI
	// Dialect is one JSON Schema draft.
	Dialect = schema.Dialect
	// FormatFunc checks a value against a named format. The error text
	// completes the sentence "The property '#/x' ...".
	FormatFunc = schema.FormatFunc
)

// Validator owns a dialect registry, a schema cache and a document loader.
// It is safe for concurrent use.
type Validator struct {
	env      *schema.Env
	cache    *schema.Cache
	backends *backend.Registry
	reader   *schema.Reader
	logger   *slog.Logger

	defaultVersion string
	maxDepth       int
	cacheSchemas   atomic.Bool
}

// New creates a Validator with the built-in dialects.
func New(opts ...Option) (*Validator, error) {
	c := &config{timeout: loader.DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}

	dialects, err := drafts.NewRegistry()
	if err != nil {
		return nil, err
	}
	if _, err := dialects.ForName(c.defaultVersion); err != nil {
		return nil, err
	}

	backends := backend.NewRegistry()
	if c.backend != "" {
		if err := backends.Use(c.backend); err != nil {
			return nil, err
		}
	}

	if c.loader == nil {
		c.loader = loader.New(loader.WithTimeout(c.timeout), loader.WithLogger(c.logger))
	}

	env := &schema.Env{Dialects: dialects, URIs: uri.NewNormalizer(c.getwd)}
	v := &Validator{
		env:      env,
		cache:    schema.NewCache(env.URIs, c.logger),
		backends: backends,
		reader: &schema.Reader{
			Env:        env,
			Loader:     c.loader,
			Parser:     backends,
			AcceptURI:  c.acceptURI,
			AcceptFile: c.acceptFile,
		},
		logger:         c.logger,
		defaultVersion: c.defaultVersion,
		maxDepth:       c.maxDepth,
	}
	v.cacheSchemas.Store(true)
	return v, nil
}

// Validate reports whether data matches schemaArg. Mismatches and schema
// errors yield false with a nil error; any other failure is returned.
func (v *Validator) Validate(schemaArg, data any, opts ...ValidateOption) (bool, error) {
	err := v.Check(schemaArg, data, opts...)
	if err == nil {
		return true, nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) || IsSchemaError(err) {
		return false, nil
	}
	return false, err
}

// Check returns nil when data matches schemaArg, the first *ValidationError
// when it does not, and any other failure as is.
func (v *Validator) Check(schemaArg, data any, opts ...ValidateOption) error {
	errs, err := v.run(schemaArg, data, newCallOptions(opts))
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// FullyValidate returns every mismatch between data and schemaArg.
func (v *Validator) FullyValidate(schemaArg, data any, opts ...ValidateOption) (Errors, error) {
	o := newCallOptions(opts)
	o.recordErrors = true
	return v.run(schemaArg, data, o)
}

// FullyValidateSchema checks schemaArg against the metaschema of the selected
// dialect.
func (v *Validator) FullyValidateSchema(schemaArg any, opts ...ValidateOption) (Errors, error) {
	o := newCallOptions(opts)
	d, err := v.dialect(o.version)
	if err != nil {
		return nil, err
	}
	o.recordErrors = true
	return v.run(d, schemaArg, o)
}

// ValidateSchema reports whether schemaArg is valid against the metaschema of
// the selected dialect.
func (v *Validator) ValidateSchema(schemaArg any, opts ...ValidateOption) (bool, error) {
	d, err := v.dialect(newCallOptions(opts).version)
	if err != nil {
		return false, nil
	}
	return v.Validate(d, schemaArg, opts...)
}

// Dialect resolves a dialect name or metaschema URI. The empty name selects
// the validator's default.
func (v *Validator) Dialect(name string) (*Dialect, error) {
	return v.dialect(name)
}

// Dialects lists the built-in dialects, oldest first.
func (v *Validator) Dialects() []*Dialect {
	return v.env.Dialects.All()
}

func (v *Validator) dialect(name string) (*Dialect, error) {
	if name == "" {
		name = v.defaultVersion
	}
	return v.env.Dialects.ForName(name)
}

// RegisterFormatValidator installs fn for format name in the named dialects,
// or in every dialect and the default one when none is named. The empty name
// selects the default dialect.
func (v *Validator) RegisterFormatValidator(name string, fn FormatFunc, versions ...string) error {
	return v.env.Dialects.RegisterFormat(name, fn, versions...)
}

// DeregisterFormatValidator removes a custom checker, restoring the built-in
// one where the dialect has it.
func (v *Validator) DeregisterFormatValidator(name string, versions ...string) error {
	return v.env.Dialects.DeregisterFormat(name, versions...)
}

// RestoreDefaultFormats resets the format tables of the named dialects.
func (v *Validator) RestoreDefaultFormats(versions ...string) error {
	return v.env.Dialects.RestoreDefaultFormats(versions...)
}

// ClearCache forgets every cached schema and memoized URI.
func (v *Validator) ClearCache() {
	v.cache.Clear()
}

// SetCacheSchemas controls whether schemas outlive the call that loaded them.
//
// Deprecated: use WithClearCache per call.
func (v *Validator) SetCacheSchemas(enabled bool) {
	v.logger.Warn("SetCacheSchemas is deprecated; pass WithClearCache to the calls that should not cache schemas")
	v.cacheSchemas.Store(enabled)
}

// SetJSONBackend selects the JSON backend by name.
func (v *Validator) SetJSONBackend(name string) error {
	return v.backends.Use(name)
}

// JSONBackend names the active JSON backend.
func (v *Validator) JSONBackend() string {
	return v.backends.Active()
}

// JSONBackends lists the available JSON backends.
func (v *Validator) JSONBackends() []string {
	return v.backends.Names()
}

// Parse decodes JSON text with the active backend.
func (v *Validator) Parse(data []byte) (any, error) {
	return v.backends.Parse(data)
}
