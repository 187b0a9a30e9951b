package drafts

import (
	"fmt"
	"strings"

	"github.com/andyballingall/json-schema-validator/internal/schema"
)

// typeV4 checks "type" given as a name or a list of names.
func typeV4(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	v, _ := n.Get("type")

	var names []string
	union := false
	switch t := v.(type) {
	case string:
		names = []string{t}
	case []any:
		union = true
		for _, e := range t {
			// Schemas are not type names here.
			if s, ok := e.(string); ok {
				names = append(names, s)
			}
		}
	default:
		return nil
	}

	for _, name := range names {
		if schema.MatchesType(data, name) {
			return nil
		}
	}

	which := "the following type"
	if union {
		which = "one or more of the following types"
	}
	sc.Fail(n, path, "type", fmt.Sprintf(
		"The property '%s' of type %s did not match %s: %s",
		path, schema.TypeOf(data), which, strings.Join(names, ", "),
	))
	return nil
}

// unionType checks the draft 1-3 "type" and "disallow" keywords, whose lists
// may mix type names and schemas.
func unionType(keyword string, disallow bool) schema.KeywordFunc {
	return func(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
		v, _ := n.Get(keyword)
		members, union := v.([]any)
		if !union {
			members = []any{v}
		}

		valid := false
		var groups []schema.SubErrors
		for i, m := range members {
			switch t := m.(type) {
			case string:
				valid = schema.MatchesType(data, t)
			case map[string]any:
				if !union {
					continue
				}
				sub, err := tryChild(sc, n, t, data, path)
				if err != nil {
					return err
				}
				valid = sub.Valid()
				if !valid {
					groups = append(groups, schema.SubErrors{Label: fmt.Sprintf("type #%d", i), Errors: sub.Errors()})
				}
			}
			if valid {
				break
			}
		}

		listed := listTypes(members)
		switch {
		case disallow && valid:
			sc.Fail(n, path, keyword, fmt.Sprintf(
				"The property '%s' matched one or more of the following types: %s", path, listed,
			))
		case !disallow && !valid && union:
			e := sc.Fail(n, path, keyword, fmt.Sprintf(
				"The property '%s' of type %s did not match one or more of the following types: %s",
				path, schema.TypeOf(data), listed,
			))
			e.SubErrors = groups
		case !disallow && !valid:
			sc.Fail(n, path, keyword, fmt.Sprintf(
				"The property '%s' of type %s did not match the following type: %s",
				path, schema.TypeOf(data), listed,
			))
		}
		return nil
	}
}

func listTypes(members []any) string {
	names := make([]string, 0, len(members))
	for _, m := range members {
		switch t := m.(type) {
		case string:
			names = append(names, t)
		case map[string]any:
			if title, ok := t["title"].(string); ok {
				names = append(names, title)
			} else {
				names = append(names, "schema")
			}
		}
	}
	return strings.Join(names, ", ")
}
