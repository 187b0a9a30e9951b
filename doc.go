// Package jsonschema validates JSON documents against JSON Schema draft-01,
// draft-02, draft-03, draft-04 and draft-06 schemas.
//
// Schemas may be given as JSON text, as a URI or path to fetch, or as Go maps
// and structs. Referenced schemas are fetched once and cached by normalized
// URI until the cache is cleared. Validation either stops at the first
// mismatch (Validate, Check) or records every mismatch with its data path
// (FullyValidate).
package jsonschema
