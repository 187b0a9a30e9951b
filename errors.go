package jsonschema

import (
	"github.com/andyballingall/json-schema-validator/internal/backend"
	"github.com/andyballingall/json-schema-validator/internal/loader"
	"github.com/andyballingall/json-schema-validator/internal/schema"
	"github.com/andyballingall/json-schema-validator/internal/uri"
)

type (
	// ValidationError is a single mismatch between data and schema.
	ValidationError = schema.ValidationError
	// SchemaError reports an unusable schema: unknown dialect, missing
	// reference pointer, invalid regular expression.
	SchemaError = schema.SchemaError
	// SchemaFragmentError reports a fragment option that does not resolve.
	SchemaFragmentError = schema.SchemaFragmentError
	// SchemaParseError reports a schema argument of an unsupported Go type.
	SchemaParseError = schema.SchemaParseError
	// ReadRefusedError reports a read blocked by an accept policy.
	ReadRefusedError = schema.ReadRefusedError
	// DataNotStringError reports non-string data with WithJSON or WithURI.
	DataNotStringError = schema.DataNotStringError
	URIError           = uri.Error
	JSONParseError     = backend.ParseError
	JSONLoadError      = loader.Error
	// NonexistentBackendError reports an unknown name given to SetJSONBackend.
	NonexistentBackendError = backend.NonexistentBackendError
	UnknownBackendError     = backend.UnknownBackendError
)

// IsSchemaError reports whether err belongs to the SchemaError family.
func IsSchemaError(err error) bool {
	return schema.IsSchemaError(err)
}

// Errors is the result of a recording validation.
type Errors []*ValidationError

// Strings renders every error with its sub-errors, as the command line shows
// them.
func (e Errors) Strings() []string {
	out := make([]string, len(e))
	for i, err := range e {
		out[i] = err.String()
	}
	return out
}

// Objects renders every error as a JSON-ready map with schema, fragment,
// message and failed_attribute members.
func (e Errors) Objects() []map[string]any {
	out := make([]map[string]any, len(e))
	for i, err := range e {
		out[i] = err.Object()
	}
	return out
}

// Render returns Objects when asObjects is set, Strings otherwise.
func (e Errors) Render(asObjects bool) any {
	if asObjects {
		return e.Objects()
	}
	return e.Strings()
}
