package drafts

import (
	"fmt"

	"github.com/andyballingall/json-schema-validator/internal/schema"
)

// withinCount reports whether count satisfies the numeric limit stored under
// keyword. Missing or non-numeric limits always pass.
func withinCount(n *schema.Node, keyword string, count int, isMax bool) (bool, any) {
	v, _ := n.Get(keyword)
	limit, ok := schema.Number(v)
	if !ok {
		return true, v
	}
	c := schema.Int(count).Cmp(limit)
	if isMax {
		return c <= 0, v
	}
	return c >= 0, v
}

func minItems(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	arr, ok := data.([]any)
	if !ok {
		return nil
	}
	if ok, limit := withinCount(n, "minItems", len(arr), false); !ok {
		sc.Fail(n, path, "minItems", fmt.Sprintf(
			"The property '%s' did not contain a minimum number of items %s", path, numberText(limit),
		))
	}
	return nil
}

func maxItems(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	arr, ok := data.([]any)
	if !ok {
		return nil
	}
	if ok, limit := withinCount(n, "maxItems", len(arr), true); !ok {
		sc.Fail(n, path, "maxItems", fmt.Sprintf(
			"The property '%s' had more items than the allowed %s", path, numberText(limit),
		))
	}
	return nil
}

func uniqueItems(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	arr, ok := data.([]any)
	if !ok {
		return nil
	}
	if v, _ := n.Get("uniqueItems"); v != true {
		return nil
	}
	seen := make(map[string]struct{}, len(arr))
	for _, e := range arr {
		k := schema.ValueKey(e)
		if _, dup := seen[k]; dup {
			sc.Fail(n, path, "uniqueItems", fmt.Sprintf("The property '%s' contained duplicated array values", path))
			return nil
		}
		seen[k] = struct{}{}
	}
	return nil
}

// items validates every element against a single schema, or each element
// against the schema at the same position of a tuple.
func items(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	arr, ok := data.([]any)
	if !ok {
		return nil
	}
	v, _ := n.Get("items")

	if tuple, ok := v.([]any); ok {
		for i := range min(len(tuple), len(arr)) {
			if err := sc.ValidateChild(n, tuple[i], arr[i], path.Index(i)); err != nil {
				return err
			}
			if sc.Halted() {
				return nil
			}
		}
		return nil
	}

	child, err := sc.Child(n, v)
	if err != nil {
		return err
	}
	for i, e := range arr {
		if err := sc.Validate(child, e, path.Index(i)); err != nil {
			return err
		}
		if sc.Halted() {
			return nil
		}
	}
	return nil
}

// additionalItems governs the elements beyond a tuple "items" list.
func additionalItems(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	arr, ok := data.([]any)
	if !ok {
		return nil
	}
	iv, _ := n.Get("items")
	tuple, ok := iv.([]any)
	if !ok || len(arr) <= len(tuple) {
		return nil
	}

	v, _ := n.Get("additionalItems")
	switch ai := v.(type) {
	case bool:
		if !ai {
			sc.Fail(n, path, "additionalItems", fmt.Sprintf(
				"The property '%s' contains additional items outside of the schema when none are allowed", path,
			))
		}
	case map[string]any:
		child, err := sc.Child(n, ai)
		if err != nil {
			return err
		}
		for i := len(tuple); i < len(arr); i++ {
			if err := sc.Validate(child, arr[i], path.Index(i)); err != nil {
				return err
			}
			if sc.Halted() {
				return nil
			}
		}
	}
	return nil
}

// contains requires at least one element to match (draft 6).
func contains(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	arr, ok := data.([]any)
	if !ok {
		return nil
	}
	v, _ := n.Get("contains")
	for i, e := range arr {
		sub, err := tryChild(sc, n, v, scratch(sc, e), path.Index(i))
		if err != nil {
			return err
		}
		if sub.Valid() {
			return nil
		}
	}
	sc.Fail(n, path, "contains", fmt.Sprintf(
		"The property '%s' did not contain any item matching the contained schema", path,
	))
	return nil
}
