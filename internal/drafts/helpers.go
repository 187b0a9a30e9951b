package drafts

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/andyballingall/json-schema-validator/internal/schema"
)

var patternCache sync.Map

// compile returns the compiled form of a schema regular expression.
func compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := patternCache.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &schema.SchemaError{Message: fmt.Sprintf("invalid regular expression '%s'", pattern), Wrapped: err}
	}
	patternCache.Store(pattern, re)
	return re, nil
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

// inspectList renders names the way error messages quote lists: ["a", "b"].
func inspectList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// scratch returns the value a tentative sub-validation should see. When
// defaults are being inserted it is a copy, so that a rejected alternative
// leaves no trace in the data.
func scratch(sc *schema.Scope, data any) any {
	if sc.Options().InsertDefaults {
		return schema.CopyData(data)
	}
	return data
}

// keep merges defaults inserted into an accepted scratch copy back into data.
func keep(sc *schema.Scope, accepted, data any) {
	if sc.Options().InsertDefaults {
		schema.MergeMissing(accepted, data)
	}
}

// tryChild validates data against doc nested in n in an isolated scope.
func tryChild(sc *schema.Scope, n *schema.Node, doc, data any, path schema.Path) (*schema.Scope, error) {
	sub := sc.Isolate()
	err := sub.ValidateChild(n, doc, data, path)
	return sub, err
}

// numberText renders a schema number for messages.
func numberText(v any) string {
	return schema.Plain(v)
}
