package schema

import (
	"errors"
	"fmt"
)

// schemaFailure marks errors that describe a broken or unresolvable schema
// rather than an I/O or parse problem.
type schemaFailure interface {
	error
	schemaFailure()
}

// IsSchemaError reports whether err is, or wraps, a schema-level failure.
func IsSchemaError(err error) bool {
	var f schemaFailure
	return errors.As(err, &f)
}

// SchemaError reports a schema that cannot be used, e.g. an unknown dialect or
// a reference pointer that does not exist.
type SchemaError struct {
	Wrapped error
	Message string
}

func (e *SchemaError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Wrapped)
	}
	return e.Message
}

func (e *SchemaError) Unwrap() error {
	return e.Wrapped
}

func (e *SchemaError) schemaFailure() {}

// SchemaFragmentError reports a fragment selector that does not resolve inside
// the schema.
type SchemaFragmentError struct {
	Fragment string
	Segment  string
}

func (e *SchemaFragmentError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("invalid fragment syntax '%s': fragments must start with '#'", e.Fragment)
	}
	return fmt.Sprintf("invalid fragment resolution for '%s': segment '%s' does not exist", e.Fragment, e.Segment)
}

func (e *SchemaFragmentError) schemaFailure() {}

type SchemaParseError struct {
	Type string
}

func (e *SchemaParseError) Error() string {
	return fmt.Sprintf("invalid schema: must be JSON text, a URI or an object, got %s", e.Type)
}

type ReadRefusedError struct {
	URI  string
	Kind string
}

func (e *ReadRefusedError) Error() string {
	return fmt.Sprintf("read of %s '%s' refused", e.Kind, e.URI)
}

type DataNotStringError struct {
	Mode string
	Type string
}

func (e *DataNotStringError) Error() string {
	return fmt.Sprintf("data must be a string when the %s option is set, got %s", e.Mode, e.Type)
}
