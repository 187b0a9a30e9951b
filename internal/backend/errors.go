package backend

import (
	"fmt"
	"strings"
)

// ParseError reports JSON text that the active backend could not parse.
type ParseError struct {
	Wrapped error
	Backend string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("json parse error (%s backend): %v", e.Backend, e.Wrapped)
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}

type NonexistentBackendError struct {
	Name      string
	Available []string
}

func (e *NonexistentBackendError) Error() string {
	return fmt.Sprintf(
		"the JSON backend '%s' could not be found. Available backends: %s",
		e.Name,
		strings.Join(e.Available, ", "),
	)
}

type UnknownBackendError struct {
	Name string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("no JSON parser is registered for the active backend '%s'", e.Name)
}
