package drafts

import (
	"fmt"

	"github.com/andyballingall/json-schema-validator/internal/schema"
)

func schemaList(n *schema.Node, keyword string) []any {
	v, _ := n.Get(keyword)
	list, _ := v.([]any)
	return list
}

func allOf(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	var groups []schema.SubErrors
	for i, alt := range schemaList(n, "allOf") {
		sub, err := tryChild(sc, n, alt, data, path)
		if err != nil {
			return err
		}
		if !sub.Valid() {
			groups = append(groups, schema.SubErrors{Label: fmt.Sprintf("allOf #%d", i), Errors: sub.Errors()})
		}
	}
	if len(groups) == 0 {
		return nil
	}
	e := sc.Fail(n, path, "allOf", fmt.Sprintf(
		"The property '%s' of type %s did not match all of the required schemas", path, schema.TypeOf(data),
	))
	e.SubErrors = groups
	return nil
}

func anyOf(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	var groups []schema.SubErrors
	for i, alt := range schemaList(n, "anyOf") {
		candidate := scratch(sc, data)
		sub, err := tryChild(sc, n, alt, candidate, path)
		if err != nil {
			return err
		}
		if sub.Valid() {
			keep(sc, candidate, data)
			return nil
		}
		groups = append(groups, schema.SubErrors{Label: fmt.Sprintf("anyOf #%d", i), Errors: sub.Errors()})
	}
	e := sc.Fail(n, path, "anyOf", fmt.Sprintf(
		"The property '%s' of type %s did not match one or more of the required schemas", path, schema.TypeOf(data),
	))
	e.SubErrors = groups
	return nil
}

func oneOf(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	alts := schemaList(n, "oneOf")
	var groups []schema.SubErrors
	var accepted any
	matches := 0
	for i, alt := range alts {
		candidate := scratch(sc, data)
		sub, err := tryChild(sc, n, alt, candidate, path)
		if err != nil {
			return err
		}
		if sub.Valid() {
			matches++
			accepted = candidate
			continue
		}
		groups = append(groups, schema.SubErrors{Label: fmt.Sprintf("oneOf #%d", i), Errors: sub.Errors()})
	}

	var msg string
	switch {
	case matches == 1:
		keep(sc, accepted, data)
		return nil
	case matches == 0:
		msg = "did not match any of the required schemas"
	default:
		msg = "matched more than one of the required schemas"
	}
	e := sc.Fail(n, path, "oneOf", fmt.Sprintf("The property '%s' of type %s %s", path, schema.TypeOf(data), msg))
	e.SubErrors = groups
	return nil
}

func not(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	v, _ := n.Get("not")
	sub, err := tryChild(sc, n, v, scratch(sc, data), path)
	if err != nil {
		return err
	}
	if sub.Valid() {
		sc.Fail(n, path, "not", fmt.Sprintf(
			"The property '%s' of type %s matched the disallowed schema", path, schema.TypeOf(data),
		))
	}
	return nil
}

func ref(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	v, _ := n.Get("$ref")
	target, ok := v.(string)
	if !ok {
		return nil
	}
	return follow(sc, n, data, path, "$ref", target, "The referenced schema '%s' cannot be found")
}

// follow resolves target and validates data against it, failing attr with
// missingFormat when the referenced document is not available.
func follow(sc *schema.Scope, n *schema.Node, data any, path schema.Path, attr, target, missingFormat string) error {
	resolved, u, err := sc.Resolve(n, target)
	if err != nil {
		return err
	}
	if resolved == nil {
		sc.Fail(n, path, attr, fmt.Sprintf(missingFormat, u))
		return nil
	}
	return sc.Validate(resolved, data, path)
}

// extends applies parent schemas given inline, as a list, or by reference
// (drafts 1-3).
func extends(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	v, _ := n.Get("extends")
	parents, ok := v.([]any)
	if !ok {
		parents = []any{v}
	}
	for _, p := range parents {
		var err error
		switch parent := p.(type) {
		case string:
			err = follow(sc, n, data, path, "extends", parent, "The extended schema '%s' cannot be found")
		case map[string]any:
			if r, ok := parent["$ref"].(string); ok {
				err = follow(sc, n, data, path, "extends", r, "The extended schema '%s' cannot be found")
			} else {
				err = sc.ValidateChild(n, parent, data, path)
			}
		default:
			sc.Fail(n, path, "extends", fmt.Sprintf("The property '%s' was not a valid schema", path))
		}
		if err != nil {
			return err
		}
		if sc.Halted() {
			return nil
		}
	}
	return nil
}
