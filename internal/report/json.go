package report

import (
	"encoding/json"
	"io"
	"time"
)

// JSONReporter writes the report as a JSON document.
type JSONReporter struct{}

type jsonCrossCheck struct {
	Valid  bool   `json:"valid"`
	Agrees bool   `json:"agrees"`
	Detail string `json:"detail,omitempty"`
}

type jsonResult struct {
	Input      string           `json:"input"`
	Valid      bool             `json:"valid"`
	Errors     []map[string]any `json:"errors,omitempty"`
	Error      string           `json:"error,omitempty"`
	Completed  any              `json:"completed,omitempty"`
	CrossCheck *jsonCrossCheck  `json:"crossCheck,omitempty"`
}

type jsonOutput struct {
	Schema    string       `json:"schema"`
	StartTime string       `json:"startTime"`
	EndTime   string       `json:"endTime"`
	Duration  string       `json:"duration"`
	Stats     Stats        `json:"stats"`
	Results   []jsonResult `json:"results"`
}

func (jr *JSONReporter) Write(w io.Writer, r *Report) error {
	out := jsonOutput{
		Schema:    r.Schema,
		StartTime: r.StartTime.Format(time.RFC3339),
		EndTime:   r.EndTime.Format(time.RFC3339),
		Duration:  r.EndTime.Sub(r.StartTime).String(),
		Stats:     r.Stats(),
		Results:   make([]jsonResult, 0, len(r.Results)),
	}

	for _, res := range r.Results {
		item := jsonResult{
			Input:     res.Input,
			Valid:     res.Valid(),
			Completed: res.Completed,
		}
		if res.Err != nil {
			item.Error = res.Err.Error()
		}
		if len(res.Errors) > 0 {
			item.Errors = res.Errors.Objects()
		}
		if res.CrossCheck != nil {
			item.CrossCheck = &jsonCrossCheck{
				Valid:  res.CrossCheck.Valid,
				Agrees: !res.Disagrees(),
				Detail: res.CrossCheck.Detail,
			}
		}
		out.Results = append(out.Results, item)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
