// Package crosscheck re-validates data with an independent JSON Schema
// implementation so that its verdict can be compared with ours.
package crosscheck

import (
	"context"
	"fmt"
)

// Source identifies the schema to compile. When Doc is set it is registered
// under URL before compiling, otherwise URL is loaded.
type Source struct {
	URL string
	Doc any
}

// Verdict is the outcome of one cross-check.
type Verdict struct {
	Valid bool
	// Detail is the other implementation's explanation of a failure.
	Detail string
}

// Checker validates data against a schema with a second implementation.
type Checker interface {
	// Check compiles src under the named dialect and validates data against it.
	Check(ctx context.Context, dialect string, src Source, data any) (*Verdict, error)

	// Dialects lists the dialect names Check accepts.
	Dialects() []string
}

// UnsupportedDialectError is returned for dialects the checker cannot run.
type UnsupportedDialectError struct {
	Dialect string
}

func (e *UnsupportedDialectError) Error() string {
	return fmt.Sprintf("dialect '%s' cannot be cross-checked", e.Dialect)
}

// CompileError is returned when the other implementation rejects the schema.
type CompileError struct {
	URL     string
	Wrapped error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("cross-check could not compile %s: %v", e.URL, e.Wrapped)
}

func (e *CompileError) Unwrap() error {
	return e.Wrapped
}
