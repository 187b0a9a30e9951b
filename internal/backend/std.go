package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Std decodes with encoding/json.
type Std struct{}

func (Std) Name() string { return StdName }

func (Std) Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return v, nil
}
