package drafts

import (
	"fmt"
	"strings"

	"github.com/andyballingall/json-schema-validator/internal/schema"
)

func enum(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	v, _ := n.Get("enum")

	var set *schema.EnumSet
	switch e := v.(type) {
	case *schema.EnumSet:
		set = e
	case []any:
		set = schema.NewEnumSet(e)
	default:
		return nil
	}
	if set.Contains(data) {
		return nil
	}

	allowed := make([]string, set.Len())
	for i, e := range set.Values() {
		allowed[i] = schema.Plain(e)
	}
	sc.Fail(n, path, "enum", fmt.Sprintf(
		"The property '%s' value %s did not match one of the following values: %s",
		path, schema.Inspect(data), strings.Join(allowed, ", "),
	))
	return nil
}

func constant(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	v, _ := n.Get("const")
	if schema.Equal(v, data) {
		return nil
	}
	sc.Fail(n, path, "const", fmt.Sprintf(
		"The property '%s' value %s did not match constant '%s'", path, schema.Inspect(data), schema.Plain(v),
	))
	return nil
}
