package drafts

import (
	"fmt"
	"unicode/utf8"

	"github.com/andyballingall/json-schema-validator/internal/schema"
)

// stringLength implements minLength and maxLength, counting code points.
func stringLength(keyword string, isMax bool) schema.KeywordFunc {
	return func(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
		s, ok := data.(string)
		if !ok {
			return nil
		}
		v, _ := n.Get(keyword)
		limit, ok := schema.Number(v)
		if !ok {
			return nil
		}
		length := schema.Int(utf8.RuneCountInString(s))
		c := length.Cmp(limit)
		if (isMax && c <= 0) || (!isMax && c >= 0) {
			return nil
		}
		bound := "minimum"
		if isMax {
			bound = "maximum"
		}
		sc.Fail(n, path, keyword, fmt.Sprintf(
			"The property '%s' was not of a %s string length of %s", path, bound, numberText(v),
		))
		return nil
	}
}

func pattern(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	s, ok := data.(string)
	if !ok {
		return nil
	}
	p, ok := n.Get("pattern")
	expr, isString := p.(string)
	if !ok || !isString {
		return nil
	}
	re, err := compile(expr)
	if err != nil {
		return err
	}
	if re.MatchString(s) {
		return nil
	}
	sc.Fail(n, path, "pattern", fmt.Sprintf(
		"The property '%s' value %s did not match the regex '%s'", path, schema.Inspect(s), expr,
	))
	return nil
}
