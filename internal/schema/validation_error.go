package schema

import (
	"fmt"
	"regexp"
	"strings"
)

const indent = "    "

// SubErrors groups the failures of one alternative of a composite keyword,
// e.g. "anyOf #1".
type SubErrors struct {
	Label  string
	Errors []*ValidationError
}

// ValidationError is a single mismatch between data and schema.
type ValidationError struct {
	Schema          *Node
	Message         string
	FailedAttribute string
	Fragments       []string
	SubErrors       []SubErrors
}

func (e *ValidationError) Error() string {
	return e.MessageWithSchema()
}

// Fragment renders the data path of the failure, e.g. "#/a/0".
func (e *ValidationError) Fragment() string {
	return Path(e.Fragments).String()
}

// SchemaURI returns the URI of the schema that rejected the data.
func (e *ValidationError) SchemaURI() string {
	if e.Schema == nil || e.Schema.URI == nil {
		return ""
	}
	return e.Schema.URI.String()
}

// MessageWithSchema appends the rejecting schema's URI to the message.
func (e *ValidationError) MessageWithSchema() string {
	return fmt.Sprintf("%s in schema %s", e.Message, e.SchemaURI())
}

// String renders the error and, indented below it, the errors of each
// alternative that caused it.
func (e *ValidationError) String() string {
	return e.render(0)
}

func (e *ValidationError) render(level int) string {
	if len(e.SubErrors) == 0 {
		if level == 0 {
			return e.MessageWithSchema()
		}
		return e.Message
	}

	lines := []string{e.Message + ". The schema specific errors were:\n"}
	for _, group := range e.SubErrors {
		lines = append(lines, "- "+group.Label+":")
		for _, sub := range group.Errors {
			lines = append(lines, indent+"- "+sub.render(level+1))
		}
	}
	prefix := strings.Repeat(indent, level)
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

var nonWord = regexp.MustCompile(`\W+`)

// Object renders the error as a JSON-ready map with schema, fragment, message
// and failed_attribute members, plus errors when alternatives failed.
func (e *ValidationError) Object() map[string]any {
	obj := map[string]any{
		"schema":           e.SchemaURI(),
		"fragment":         e.Fragment(),
		"message":          e.MessageWithSchema(),
		"failed_attribute": e.FailedAttribute,
	}
	if len(e.SubErrors) > 0 {
		groups := make(map[string]any, len(e.SubErrors))
		for _, g := range e.SubErrors {
			objs := make([]map[string]any, 0, len(g.Errors))
			for _, sub := range g.Errors {
				objs = append(objs, sub.Object())
			}
			groups[nonWord.ReplaceAllString(strings.ToLower(g.Label), "_")] = objs
		}
		obj["errors"] = groups
	}
	return obj
}
