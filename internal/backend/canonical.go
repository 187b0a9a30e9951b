package backend

import (
	"encoding/json"
	"fmt"

	"github.com/go-json-experiment/json/jsontext"
)

// Canonicalize rewrites JSON text into its RFC 8785 canonical form so that
// documents differing only in whitespace or member order compare equal.
func Canonicalize(data []byte) ([]byte, error) {
	v := jsontext.Value(append([]byte(nil), data...))
	if err := v.Canonicalize(); err != nil {
		return nil, fmt.Errorf("canonicalize json: %w", err)
	}
	return []byte(v), nil
}

// Serialize encodes a value tree and returns its canonical form.
func Serialize(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serialize json: %w", err)
	}
	return Canonicalize(data)
}
