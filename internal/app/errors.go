package app

import (
	"fmt"

	"github.com/andyballingall/json-schema-validator/internal/report"
)

// InvalidDataError is returned when at least one data input failed.
type InvalidDataError struct {
	Stats report.Stats
}

func (e *InvalidDataError) Error() string {
	msg := fmt.Sprintf("%d of %d data inputs failed validation",
		e.Stats.Invalid+e.Stats.Errored, e.Stats.Valid+e.Stats.Invalid+e.Stats.Errored)
	if e.Stats.Disagreed > 0 {
		msg += fmt.Sprintf(" (%d cross-check disagreements)", e.Stats.Disagreed)
	}
	return msg
}

// InvalidSchemaError is returned by check-schema when the schema does not
// match its metaschema.
type InvalidSchemaError struct {
	Schema string
	Count  int
}

func (e *InvalidSchemaError) Error() string {
	return fmt.Sprintf("schema %s has %d metaschema violations", e.Schema, e.Count)
}

// DataModeError reports a flag that needs data read from local files.
type DataModeError struct {
	Flag string
	Mode string
}

func (e *DataModeError) Error() string {
	return fmt.Sprintf("--%s needs --data-mode %s, not %s", e.Flag, DataModeFile, e.Mode)
}

// QueryError reports a --query that selected nothing in a data file.
type QueryError struct {
	Query string
	Input string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query '%s' matched nothing in %s", e.Query, e.Input)
}
