package loader

import "fmt"

// Error reports a URI whose content could not be fetched.
type Error struct {
	Wrapped error
	URI     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to load '%s': %v", e.URI, e.Wrapped)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

type StatusError struct {
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %s", e.Status)
}
