package drafts

import (
	"fmt"
	"strings"

	"github.com/andyballingall/json-schema-validator/internal/schema"
)

// requiredMode decides whether a declared property must be present.
type requiredMode int

const (
	// requiredStrict: properties are required only in strict mode (draft 4+).
	requiredStrict requiredMode = iota
	// requiredFlag: a boolean "required" on the property schema wins, then
	// strict mode (draft 3).
	requiredFlag
	// requiredUnlessOptional: properties are required unless flagged
	// "optional" (drafts 1 and 2).
	requiredUnlessOptional
)

func (m requiredMode) required(sc *schema.Scope, prop any) bool {
	ps, _ := prop.(map[string]any)
	switch m {
	case requiredFlag:
		if r, ok := ps["required"].(bool); ok {
			return r
		}
	case requiredUnlessOptional:
		return ps["optional"] != true
	}
	return sc.Options().Strict
}

// properties validates declared members, inserting defaults and enforcing
// presence according to mode.
func properties(mode requiredMode) schema.KeywordFunc {
	return func(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
		obj, ok := data.(map[string]any)
		if !ok {
			return nil
		}
		v, _ := n.Get("properties")
		props, ok := v.(map[string]any)
		if !ok {
			return nil
		}

		for _, name := range sortedKeys(props) {
			prop := props[name]
			if _, present := obj[name]; !present && sc.Options().InsertDefaults {
				insertDefault(obj, name, prop)
			}
			value, present := obj[name]
			if !present {
				if mode.required(sc, prop) {
					sc.Fail(n, path, "properties", fmt.Sprintf(
						"The property '%s' did not contain a required property of '%s'", path, name,
					))
					if sc.Halted() {
						return nil
					}
				}
				continue
			}
			if err := sc.ValidateChild(n, prop, value, path.Append(name)); err != nil {
				return err
			}
			if sc.Halted() {
				return nil
			}
		}

		if sc.Options().Strict && !n.Has("additionalProperties") {
			undefined, err := undeclared(n, obj)
			if err != nil {
				return err
			}
			if len(undefined) > 0 {
				sc.Fail(n, path, "properties", fmt.Sprintf(
					"The property '%s' contained undefined properties: '%s'", path, strings.Join(undefined, ", "),
				))
			}
		}
		return nil
	}
}

// insertDefault copies the declared default of prop into obj[name] unless the
// property is read-only.
func insertDefault(obj map[string]any, name string, prop any) {
	ps, ok := prop.(map[string]any)
	if !ok {
		return
	}
	def, ok := ps["default"]
	if !ok || ps["readonly"] == true || ps["readOnly"] == true {
		return
	}
	obj[name] = schema.CopyData(def)
}

// undeclared lists the keys of obj neither named in "properties" nor matched by
// a "patternProperties" pattern, sorted.
func undeclared(n *schema.Node, obj map[string]any) ([]string, error) {
	props, _ := n.Get("properties")
	declared, _ := props.(map[string]any)
	pp, _ := n.Get("patternProperties")
	patterns, _ := pp.(map[string]any)

	var out []string
	for _, k := range sortedKeys(obj) {
		if _, ok := declared[k]; ok {
			continue
		}
		matched, err := matchesAny(patterns, k)
		if err != nil {
			return nil, err
		}
		if !matched {
			out = append(out, k)
		}
	}
	return out, nil
}

func matchesAny(patterns map[string]any, key string) (bool, error) {
	for _, p := range sortedKeys(patterns) {
		re, err := compile(p)
		if err != nil {
			return false, err
		}
		if re.MatchString(key) {
			return true, nil
		}
	}
	return false, nil
}

// required checks the draft 4 list form.
func required(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	obj, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	v, _ := n.Get("required")
	names, ok := v.([]any)
	if !ok {
		return nil
	}
	for _, e := range names {
		name, ok := e.(string)
		if !ok {
			continue
		}
		if _, present := obj[name]; present {
			continue
		}
		sc.Fail(n, path, "required", fmt.Sprintf(
			"The property '%s' did not contain a required property of '%s'", path, name,
		))
		if sc.Halted() {
			return nil
		}
	}
	return nil
}

func patternProperties(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	obj, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	v, _ := n.Get("patternProperties")
	patterns, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	keys := sortedKeys(obj)
	for _, p := range sortedKeys(patterns) {
		re, err := compile(p)
		if err != nil {
			return err
		}
		for _, k := range keys {
			if !re.MatchString(k) {
				continue
			}
			if err := sc.ValidateChild(n, patterns[p], obj[k], path.Append(k)); err != nil {
				return err
			}
			if sc.Halted() {
				return nil
			}
		}
	}
	return nil
}

// additionalProperties validates or forbids the members not covered by
// "properties" and "patternProperties".
func additionalProperties(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	obj, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	extra, err := undeclared(n, obj)
	if err != nil {
		return err
	}
	if len(extra) == 0 {
		return nil
	}

	v, _ := n.Get("additionalProperties")
	switch ap := v.(type) {
	case bool:
		if ap {
			return nil
		}
	case map[string]any:
		child, err := sc.Child(n, ap)
		if err != nil {
			return err
		}
		for _, k := range extra {
			if err := sc.Validate(child, obj[k], path.Append(k)); err != nil {
				return err
			}
			if sc.Halted() {
				return nil
			}
		}
		return nil
	default:
		return nil
	}
	sc.Fail(n, path, "additionalProperties", fmt.Sprintf(
		"The property '%s' contains additional properties %s outside of the schema when none are allowed",
		path, inspectList(extra),
	))
	return nil
}

// dependencies handles property dependencies (a name or list of names) and
// schema dependencies.
func dependencies(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	obj, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	v, _ := n.Get("dependencies")
	deps, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	for _, name := range sortedKeys(deps) {
		if _, present := obj[name]; !present {
			continue
		}
		switch dep := deps[name].(type) {
		case string:
			dependsOn(sc, n, obj, path, name, []any{dep})
		case []any:
			dependsOn(sc, n, obj, path, name, dep)
		case map[string]any, bool:
			if _, isBool := dep.(bool); isBool && !n.Dialect.BooleanSchemas() {
				continue
			}
			if err := sc.ValidateChild(n, dep, obj, path); err != nil {
				return err
			}
		}
		if sc.Halted() {
			return nil
		}
	}
	return nil
}

func dependsOn(sc *schema.Scope, n *schema.Node, obj map[string]any, path schema.Path, name string, needed []any) {
	for _, e := range needed {
		dep, ok := e.(string)
		if !ok {
			continue
		}
		if _, present := obj[dep]; present {
			continue
		}
		sc.Fail(n, path, "dependencies", fmt.Sprintf(
			"The property '%s' has a property '%s' that depends on a missing property '%s'", path, name, dep,
		))
		if sc.Halted() {
			return
		}
	}
}

func minProperties(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	obj, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	if ok, limit := withinCount(n, "minProperties", len(obj), false); !ok {
		sc.Fail(n, path, "minProperties", fmt.Sprintf(
			"The property '%s' did not contain a minimum number of properties %s", path, numberText(limit),
		))
	}
	return nil
}

func maxProperties(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	obj, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	if ok, limit := withinCount(n, "maxProperties", len(obj), true); !ok {
		sc.Fail(n, path, "maxProperties", fmt.Sprintf(
			"The property '%s' had more properties than the allowed %s", path, numberText(limit),
		))
	}
	return nil
}

// propertyNames validates every member name as a string (draft 6).
func propertyNames(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	obj, ok := data.(map[string]any)
	if !ok || len(obj) == 0 {
		return nil
	}
	v, _ := n.Get("propertyNames")
	if v == false {
		sc.Fail(n, path, "propertyNames", fmt.Sprintf(
			"The property '%s' contains additional properties %s outside of the schema when none are allowed",
			path, inspectList(sortedKeys(obj)),
		))
		return nil
	}
	if _, ok := v.(map[string]any); !ok {
		return nil
	}
	child, err := sc.Child(n, v)
	if err != nil {
		return err
	}
	for _, k := range sortedKeys(obj) {
		if err := sc.Validate(child, k, path.Append(k)); err != nil {
			return err
		}
		if sc.Halted() {
			return nil
		}
	}
	return nil
}
