package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Number returns v as an exact rational when it is a JSON number.
func Number(v any) (*big.Rat, bool) {
	switch n := v.(type) {
	case json.Number:
		r, ok := new(big.Rat).SetString(string(n))
		return r, ok
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, false
		}
		return new(big.Rat).SetFloat64(n), true
	case float32:
		return Number(float64(n))
	case int:
		return new(big.Rat).SetInt64(int64(n)), true
	case int8:
		return new(big.Rat).SetInt64(int64(n)), true
	case int16:
		return new(big.Rat).SetInt64(int64(n)), true
	case int32:
		return new(big.Rat).SetInt64(int64(n)), true
	case int64:
		return new(big.Rat).SetInt64(n), true
	case uint:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint8:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint16:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint32:
		return new(big.Rat).SetUint64(uint64(n)), true
	case uint64:
		return new(big.Rat).SetUint64(n), true
	}
	return nil, false
}

// Int returns i as a rational.
func Int(i int) *big.Rat {
	return new(big.Rat).SetInt64(int64(i))
}

// IsInteger reports whether v is a number with no fractional part.
func IsInteger(v any) bool {
	r, ok := Number(v)
	return ok && r.IsInt()
}

// AsArray returns the elements of a JSON array, including enum sets.
func AsArray(v any) ([]any, bool) {
	switch a := v.(type) {
	case []any:
		return a, true
	case *EnumSet:
		return a.Values(), true
	}
	return nil, false
}

// AsObject returns v as a JSON object.
func AsObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// TypeOf names the JSON type of v as used in error messages.
func TypeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any, *EnumSet:
		return "array"
	case map[string]any:
		return "object"
	}
	if r, ok := Number(v); ok {
		if r.IsInt() {
			return "integer"
		}
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

// MatchesType reports whether v is an instance of the named JSON type.
// Unknown type names match everything.
func MatchesType(v any, typeName string) bool {
	switch typeName {
	case "any":
		return true
	case "null":
		return v == nil
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "string":
		_, ok := v.(string)
		return ok
	case "array":
		_, ok := AsArray(v)
		return ok
	case "object":
		_, ok := AsObject(v)
		return ok
	case "number":
		_, ok := Number(v)
		return ok
	case "integer":
		return IsInteger(v)
	}
	return true
}

// ValueKey returns a canonical string for v such that two JSON values are equal
// exactly when their keys are equal. Numbers compare by value, objects ignore
// member order.
func ValueKey(v any) string {
	var b strings.Builder
	writeKey(&b, v)
	return b.String()
}

func writeKey(b *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(x))
	case string:
		b.WriteString(strconv.Quote(x))
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(k))
			b.WriteByte(':')
			writeKey(b, x[k])
		}
		b.WriteByte('}')
	default:
		if arr, ok := AsArray(v); ok {
			b.WriteByte('[')
			for i, e := range arr {
				if i > 0 {
					b.WriteByte(',')
				}
				writeKey(b, e)
			}
			b.WriteByte(']')
			return
		}
		if r, ok := Number(v); ok {
			b.WriteString("n:")
			b.WriteString(r.RatString())
			return
		}
		fmt.Fprintf(b, "%T:%v", v, v)
	}
}

// Equal reports whether two JSON values are equal.
func Equal(a, b any) bool {
	return ValueKey(a) == ValueKey(b)
}

// Inspect renders v for error messages: strings quoted, everything else as JSON.
func Inspect(v any) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return Plain(v)
}

// Plain renders v for error messages: strings bare, everything else as JSON.
func Plain(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// CopyData deep-copies a JSON value tree, turning enum sets back into arrays.
func CopyData(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = CopyData(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = CopyData(e)
		}
		return out
	case *EnumSet:
		return CopyData(x.Values())
	}
	return v
}

// Stringify converts an arbitrary Go value into a JSON value tree with string
// keys. Maps with non-string keys have their keys formatted; structs and other
// values are round-tripped through encoding/json.
func Stringify(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string, json.Number, float64, float32,
		int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return v, nil
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			s, err := Stringify(e)
			if err != nil {
				return nil, err
			}
			out[k] = s
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			s, err := Stringify(e)
			if err != nil {
				return nil, err
			}
			out[i] = s
		}
		return out, nil
	case *EnumSet:
		return Stringify(x.Values())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			s, err := Stringify(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(iter.Key().Interface())] = s
		}
		return out, nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make([]any, rv.Len())
		for i := range rv.Len() {
			s, err := Stringify(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = s
		}
		return out, nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return Stringify(rv.Elem().Interface())
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// MergeMissing copies values from src into dst wherever dst lacks the key or
// holds nil, recursing into nested objects and arrays. Values already present
// in dst are never overwritten.
func MergeMissing(src, dst any) {
	switch d := dst.(type) {
	case map[string]any:
		s, ok := src.(map[string]any)
		if !ok {
			return
		}
		for k, sv := range s {
			if dv := d[k]; dv != nil {
				MergeMissing(sv, dv)
				continue
			}
			d[k] = sv
		}
	case []any:
		s, ok := src.([]any)
		if !ok {
			return
		}
		for i := range min(len(s), len(d)) {
			MergeMissing(s[i], d[i])
		}
	}
}

// EnumSet is an order-preserving set of JSON values with constant-time
// membership tests.
type EnumSet struct {
	values []any
	keys   map[string]struct{}
}

// NewEnumSet builds a set from values, dropping duplicates.
func NewEnumSet(values []any) *EnumSet {
	s := &EnumSet{keys: make(map[string]struct{}, len(values))}
	for _, v := range values {
		k := ValueKey(v)
		if _, dup := s.keys[k]; dup {
			continue
		}
		s.keys[k] = struct{}{}
		s.values = append(s.values, v)
	}
	return s
}

// Contains reports whether v equals a member of the set.
func (s *EnumSet) Contains(v any) bool {
	_, ok := s.keys[ValueKey(v)]
	return ok
}

// Values returns the members in their original order.
func (s *EnumSet) Values() []any {
	return s.values
}

func (s *EnumSet) Len() int {
	return len(s.values)
}

func (s *EnumSet) MarshalJSON() ([]byte, error) {
	if s.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.values)
}
