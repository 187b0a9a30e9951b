package uri

import "fmt"

// Error reports a URI that could not be parsed or resolved.
type Error struct {
	Wrapped error
	URI     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid URI '%s': %v", e.URI, e.Wrapped)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}
