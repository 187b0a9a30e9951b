package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// TextReporter writes a human readable report.
type TextReporter struct {
	Verbose   bool
	UseColour bool
}

const (
	colReset     = "\033[0m"
	colRed       = "\033[31m"
	colGreen     = "\033[32m"
	colYellow    = "\033[33m"
	colGrey      = "\033[90m"
	colWhite     = "\033[37m"
	colBoldRed   = "\033[1;31m"
	colBoldGreen = "\033[1;32m"
	colBoldWhite = "\033[1;37m"
)

// cs returns a string which will render with the given colour
// if colourisation is enabled.
func (tr *TextReporter) cs(c, s string) string {
	if !tr.UseColour {
		return s
	}
	return c + s + colReset
}

func (tr *TextReporter) Write(w io.Writer, r *Report) error {
	divider := strings.Repeat("-", 40)

	fmt.Fprintf(w, "%s\n", divider)
	fmt.Fprint(w, tr.cs(colBoldWhite, "JSV VALIDATION REPORT\n\n"))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Schema:  "), tr.cs(colWhite, r.Schema))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Started: "), tr.cs(colWhite, r.StartTime.Format("15:04:05")))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Duration:"), tr.cs(colWhite, r.EndTime.Sub(r.StartTime).String()))
	fmt.Fprintf(w, "%s\n", divider)

	for _, res := range r.Results {
		if err := tr.writeResult(w, res); err != nil {
			return err
		}
	}

	stats := r.Stats()
	fmt.Fprintf(w, "%s\n", divider)
	summary := fmt.Sprintf("%d valid, %d invalid", stats.Valid, stats.Invalid)
	if stats.Errored > 0 {
		summary += fmt.Sprintf(", %d errored", stats.Errored)
	}
	if stats.Disagreed > 0 {
		summary += fmt.Sprintf(", %d cross-check disagreements", stats.Disagreed)
	}
	statsColour := colBoldGreen
	if r.Failed() {
		statsColour = colBoldRed
	}
	fmt.Fprintf(w, "%s%s\n", tr.cs(colBoldWhite, "Summary: "), tr.cs(statsColour, summary))
	fmt.Fprintf(w, "%s\n", divider)
	return nil
}

func (tr *TextReporter) writeResult(w io.Writer, res *Result) error {
	switch {
	case res.Err != nil:
		fmt.Fprintf(w, "%s %s\n", tr.cs(colRed, "[ERROR]"), tr.cs(colRed, res.Input))
		fmt.Fprintf(w, "  %s %s\n", tr.cs(colRed, "✗"), indentLines(res.Err.Error(), "    "))
		return nil
	case res.Valid():
		fmt.Fprintf(w, "%s %s\n", tr.cs(colGreen, "[PASS]"), tr.cs(colWhite, res.Input))
	default:
		fmt.Fprintf(w, "%s %s\n", tr.cs(colRed, "[FAIL]"), tr.cs(colRed, res.Input))
		for _, s := range res.Errors.Strings() {
			fmt.Fprintf(w, "  %s %s\n", tr.cs(colRed, "✗"), indentLines(s, "    "))
		}
	}

	if res.CrossCheck != nil && (tr.Verbose || res.Disagrees()) {
		if res.Disagrees() {
			fmt.Fprintf(w, "  %s %s\n", tr.cs(colYellow, "!"), tr.cs(colYellow, "cross-check disagrees"))
			if res.CrossCheck.Detail != "" {
				fmt.Fprintf(w, "    %s\n", indentLines(res.CrossCheck.Detail, "    "))
			}
		} else {
			fmt.Fprintf(w, "  %s %s\n", tr.cs(colGreen, "✓"), tr.cs(colGrey, "cross-check agrees"))
		}
	}

	if res.Completed != nil {
		data, err := json.MarshalIndent(res.Completed, "    ", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s\n    %s\n", tr.cs(colGrey, "with defaults:"), data)
	}
	return nil
}

func indentLines(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}
