package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorRendering(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	node, err := env.NewNode(map[string]any{}, mustURI(t, "http://example.com/root.json"), nil)
	assert.NoError(t, err)

	inner := &ValidationError{
		Schema:          node,
		Message:         "The property '#/' of type integer did not match the following type: string",
		FailedAttribute: "type",
	}
	outer := &ValidationError{
		Schema:          node,
		Message:         "The property '#/' of type integer did not match one or more of the required schemas",
		FailedAttribute: "anyOf",
		SubErrors:       []SubErrors{{Label: "anyOf #0", Errors: []*ValidationError{inner}}},
	}

	assert.Equal(t,
		"The property '#/' of type integer did not match the following type: string in schema http://example.com/root.json",
		inner.String())
	assert.Equal(t, inner.String(), inner.Error())

	want := "The property '#/' of type integer did not match one or more of the required schemas. The schema specific errors were:\n" +
		"\n" +
		"- anyOf #0:\n" +
		"    - The property '#/' of type integer did not match the following type: string"
	assert.Equal(t, want, outer.String())
}

func TestValidationErrorObject(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	node, err := env.NewNode(map[string]any{}, mustURI(t, "http://example.com/root.json"), nil)
	assert.NoError(t, err)

	inner := &ValidationError{Schema: node, Message: "inner", FailedAttribute: "type", Fragments: []string{"a"}}
	outer := &ValidationError{
		Schema:          node,
		Message:         "outer",
		FailedAttribute: "oneOf",
		Fragments:       []string{"a"},
		SubErrors:       []SubErrors{{Label: "oneOf #1", Errors: []*ValidationError{inner}}},
	}

	obj := outer.Object()
	assert.Equal(t, "http://example.com/root.json", obj["schema"])
	assert.Equal(t, "#/a", obj["fragment"])
	assert.Equal(t, "outer in schema http://example.com/root.json", obj["message"])
	assert.Equal(t, "oneOf", obj["failed_attribute"])

	groups, ok := obj["errors"].(map[string]any)
	assert.True(t, ok)
	subs, ok := groups["oneof_1"].([]map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "type", subs[0]["failed_attribute"])
}
