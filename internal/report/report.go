// Package report renders the outcome of a validation run.
package report

import (
	"fmt"
	"io"
	"time"

	jsonschema "github.com/andyballingall/json-schema-validator"
	"github.com/andyballingall/json-schema-validator/internal/crosscheck"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Result is the outcome of validating one data input.
type Result struct {
	Input  string
	Errors jsonschema.Errors
	// Err is set when the input could not be validated at all.
	Err error
	// Completed holds the data after default insertion, when requested.
	Completed any
	// CrossCheck is set when the input was also run through a second
	// implementation.
	CrossCheck *crosscheck.Verdict
}

// Valid reports whether the input was validated without failures.
func (r *Result) Valid() bool {
	return r.Err == nil && len(r.Errors) == 0
}

// Disagrees reports whether the cross-check reached a different verdict.
func (r *Result) Disagrees() bool {
	return r.Err == nil && r.CrossCheck != nil && r.CrossCheck.Valid != r.Valid()
}

// Report collects the results of one run against a schema.
type Report struct {
	Schema    string
	StartTime time.Time
	EndTime   time.Time
	Results   []*Result
}

// Stats counts results by outcome.
type Stats struct {
	Valid     int `json:"valid"`
	Invalid   int `json:"invalid"`
	Errored   int `json:"errored"`
	Disagreed int `json:"disagreed,omitempty"`
}

// Stats summarises the report.
func (r *Report) Stats() Stats {
	var s Stats
	for _, res := range r.Results {
		switch {
		case res.Err != nil:
			s.Errored++
		case res.Valid():
			s.Valid++
		default:
			s.Invalid++
		}
		if res.Disagrees() {
			s.Disagreed++
		}
	}
	return s
}

// Failed reports whether any result was invalid, errored or disputed.
func (r *Report) Failed() bool {
	s := r.Stats()
	return s.Invalid+s.Errored+s.Disagreed > 0
}

// Reporter writes a report to w.
type Reporter interface {
	Write(w io.Writer, r *Report) error
}

// New returns the reporter for format.
func New(format string, verbose, colour bool) (Reporter, error) {
	switch format {
	case FormatText, "":
		return &TextReporter{Verbose: verbose, UseColour: colour}, nil
	case FormatJSON:
		return &JSONReporter{}, nil
	}
	return nil, fmt.Errorf("unknown output format '%s': expected %s or %s", format, FormatText, FormatJSON)
}
