// Package drafts defines the built-in JSON Schema dialects: draft-01, draft-02,
// draft-03, draft-04 and draft-06.
package drafts

import (
	"embed"

	"github.com/andyballingall/json-schema-validator/internal/schema"
)

//go:embed metaschemas/*.json
var metaschemas embed.FS

// Dialect names.
const (
	Draft1 = "draft1"
	Draft2 = "draft2"
	Draft3 = "draft3"
	Draft4 = "draft4"
	Draft6 = "draft6"
	// DefaultName names the dialect applied when nothing selects one.
	DefaultName = "default"
)

func metaschema(file string) []byte {
	data, err := metaschemas.ReadFile("metaschemas/" + file)
	if err != nil {
		panic(err)
	}
	return data
}

func draft1Keywords() []schema.Keyword {
	return []schema.Keyword{
		{Name: "type", Validate: unionType("type", false)},
		{Name: "disallow", Validate: unionType("disallow", true)},
		{Name: "format", Validate: format},
		{Name: "maximum", Validate: limitCanEqual("maximum", "maximumCanEqual", true)},
		{Name: "minimum", Validate: limitCanEqual("minimum", "minimumCanEqual", false)},
		{Name: "minItems", Validate: minItems},
		{Name: "maxItems", Validate: maxItems},
		{Name: "minLength", Validate: stringLength("minLength", false)},
		{Name: "maxLength", Validate: stringLength("maxLength", true)},
		{Name: "maxDecimal", Validate: maxDecimal},
		{Name: "enum", Validate: enum},
		{Name: "properties", Validate: properties(requiredUnlessOptional)},
		{Name: "pattern", Validate: pattern},
		{Name: "additionalProperties", Validate: additionalProperties},
		{Name: "items", Validate: items},
		{Name: "extends", Validate: extends},
	}
}

func draft2Keywords() []schema.Keyword {
	return []schema.Keyword{
		{Name: "type", Validate: unionType("type", false)},
		{Name: "disallow", Validate: unionType("disallow", true)},
		{Name: "format", Validate: format},
		{Name: "maximum", Validate: limitCanEqual("maximum", "maximumCanEqual", true)},
		{Name: "minimum", Validate: limitCanEqual("minimum", "minimumCanEqual", false)},
		{Name: "minItems", Validate: minItems},
		{Name: "maxItems", Validate: maxItems},
		{Name: "uniqueItems", Validate: uniqueItems},
		{Name: "minLength", Validate: stringLength("minLength", false)},
		{Name: "maxLength", Validate: stringLength("maxLength", true)},
		{Name: "divisibleBy", Validate: divisible("divisibleBy", "divisible by")},
		{Name: "enum", Validate: enum},
		{Name: "properties", Validate: properties(requiredUnlessOptional)},
		{Name: "pattern", Validate: pattern},
		{Name: "additionalProperties", Validate: additionalProperties},
		{Name: "items", Validate: items},
		{Name: "extends", Validate: extends},
	}
}

func draft3Keywords() []schema.Keyword {
	return []schema.Keyword{
		{Name: "type", Validate: unionType("type", false)},
		{Name: "disallow", Validate: unionType("disallow", true)},
		{Name: "format", Validate: format},
		{Name: "maximum", Validate: limitBoolExclusive("maximum", "exclusiveMaximum", true)},
		{Name: "minimum", Validate: limitBoolExclusive("minimum", "exclusiveMinimum", false)},
		{Name: "minItems", Validate: minItems},
		{Name: "maxItems", Validate: maxItems},
		{Name: "uniqueItems", Validate: uniqueItems},
		{Name: "minLength", Validate: stringLength("minLength", false)},
		{Name: "maxLength", Validate: stringLength("maxLength", true)},
		{Name: "divisibleBy", Validate: divisible("divisibleBy", "divisible by")},
		{Name: "enum", Validate: enum},
		{Name: "properties", Validate: properties(requiredFlag)},
		{Name: "pattern", Validate: pattern},
		{Name: "patternProperties", Validate: patternProperties},
		{Name: "additionalProperties", Validate: additionalProperties},
		{Name: "items", Validate: items},
		{Name: "additionalItems", Validate: additionalItems},
		{Name: "dependencies", Validate: dependencies},
		{Name: "extends", Validate: extends},
		{Name: "$ref", Validate: ref},
	}
}

func draft4Keywords() []schema.Keyword {
	return []schema.Keyword{
		{Name: "type", Validate: typeV4},
		{Name: "allOf", Validate: allOf},
		{Name: "anyOf", Validate: anyOf},
		{Name: "oneOf", Validate: oneOf},
		{Name: "not", Validate: not},
		{Name: "format", Validate: format},
		{Name: "maximum", Validate: limitBoolExclusive("maximum", "exclusiveMaximum", true)},
		{Name: "minimum", Validate: limitBoolExclusive("minimum", "exclusiveMinimum", false)},
		{Name: "minItems", Validate: minItems},
		{Name: "maxItems", Validate: maxItems},
		{Name: "uniqueItems", Validate: uniqueItems},
		{Name: "minLength", Validate: stringLength("minLength", false)},
		{Name: "maxLength", Validate: stringLength("maxLength", true)},
		{Name: "minProperties", Validate: minProperties},
		{Name: "maxProperties", Validate: maxProperties},
		{Name: "multipleOf", Validate: divisible("multipleOf", "a multiple of")},
		{Name: "enum", Validate: enum},
		{Name: "properties", Validate: properties(requiredStrict)},
		{Name: "required", Validate: required},
		{Name: "pattern", Validate: pattern},
		{Name: "patternProperties", Validate: patternProperties},
		{Name: "additionalProperties", Validate: additionalProperties},
		{Name: "items", Validate: items},
		{Name: "additionalItems", Validate: additionalItems},
		{Name: "dependencies", Validate: dependencies},
		{Name: "$ref", Validate: ref},
	}
}

func draft6Keywords() []schema.Keyword {
	return []schema.Keyword{
		{Name: "type", Validate: typeV4},
		{Name: "allOf", Validate: allOf},
		{Name: "anyOf", Validate: anyOf},
		{Name: "oneOf", Validate: oneOf},
		{Name: "not", Validate: not},
		{Name: "format", Validate: format},
		{Name: "maximum", Validate: limitInclusive("maximum", true)},
		{Name: "minimum", Validate: limitInclusive("minimum", false)},
		{Name: "exclusiveMaximum", Validate: limitExclusive("exclusiveMaximum", true)},
		{Name: "exclusiveMinimum", Validate: limitExclusive("exclusiveMinimum", false)},
		{Name: "minItems", Validate: minItems},
		{Name: "maxItems", Validate: maxItems},
		{Name: "uniqueItems", Validate: uniqueItems},
		{Name: "contains", Validate: contains},
		{Name: "minLength", Validate: stringLength("minLength", false)},
		{Name: "maxLength", Validate: stringLength("maxLength", true)},
		{Name: "minProperties", Validate: minProperties},
		{Name: "maxProperties", Validate: maxProperties},
		{Name: "multipleOf", Validate: divisible("multipleOf", "a multiple of")},
		{Name: "enum", Validate: enum},
		{Name: "const", Validate: constant},
		{Name: "properties", Validate: properties(requiredStrict)},
		{Name: "required", Validate: required},
		{Name: "propertyNames", Validate: propertyNames},
		{Name: "pattern", Validate: pattern},
		{Name: "patternProperties", Validate: patternProperties},
		{Name: "additionalProperties", Validate: additionalProperties},
		{Name: "items", Validate: items},
		{Name: "additionalItems", Validate: additionalItems},
		{Name: "dependencies", Validate: dependencies},
		{Name: "$ref", Validate: ref},
	}
}

// Configs returns the definitions of the built-in dialects, oldest first.
func Configs() []schema.DialectConfig {
	return []schema.DialectConfig{
		{
			Name:       Draft1,
			URIs:       []string{"http://json-schema.org/draft-01/schema#"},
			Keywords:   draft1Keywords(),
			Metaschema: metaschema("draft-01.json"),
		},
		{
			Name:       Draft2,
			URIs:       []string{"http://json-schema.org/draft-02/schema#"},
			Keywords:   draft2Keywords(),
			Metaschema: metaschema("draft-02.json"),
		},
		{
			Name:       Draft3,
			URIs:       []string{"http://json-schema.org/draft-03/schema#"},
			Keywords:   draft3Keywords(),
			Formats:    draft3Formats(),
			Metaschema: metaschema("draft-03.json"),
		},
		{
			Name:       Draft4,
			URIs:       []string{"http://json-schema.org/draft-04/schema#"},
			Keywords:   draft4Keywords(),
			Formats:    draft4Formats(),
			Metaschema: metaschema("draft-04.json"),
		},
		{
			Name: Draft6,
			URIs: []string{
				"http://json-schema.org/draft-06/schema#",
				"http://json-schema.org/draft/schema#",
			},
			IDKeyword:      "$id",
			BooleanSchemas: true,
			Keywords:       draft6Keywords(),
			Formats:        draft4Formats(),
			Metaschema:     metaschema("draft-06.json"),
		},
	}
}

// NewRegistry builds a registry holding every built-in dialect. The default
// dialect follows draft-04 with a format table of its own.
func NewRegistry() (*schema.DialectRegistry, error) {
	r := schema.NewDialectRegistry()
	for _, cfg := range Configs() {
		d, err := schema.NewDialect(cfg)
		if err != nil {
			return nil, err
		}
		r.Register(d)
		if cfg.Name == Draft4 {
			r.SetDefault(d.Derive(DefaultName))
		}
	}
	return r, nil
}
