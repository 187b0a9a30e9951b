package drafts

import (
	"fmt"
	"math/big"

	"github.com/andyballingall/json-schema-validator/internal/schema"
)

// checkLimit fails when data lies beyond limit. Non-numeric data and limits are
// ignored.
func checkLimit(sc *schema.Scope, n *schema.Node, data any, path schema.Path, attr string, limit any, isMax, exclusive bool) {
	d, ok := schema.Number(data)
	if !ok {
		return
	}
	l, ok := schema.Number(limit)
	if !ok {
		return
	}

	c := d.Cmp(l)
	if isMax {
		c = -c
	}
	if c > 0 || (c == 0 && !exclusive) {
		return
	}

	bound, how := "minimum", "inclusively"
	if isMax {
		bound = "maximum"
	}
	if exclusive {
		how = "exclusively"
	}
	sc.Fail(n, path, attr, fmt.Sprintf(
		"The property '%s' did not have a %s value of %s, %s", path, bound, numberText(limit), how,
	))
}

// limitBoolExclusive implements minimum/maximum paired with a boolean
// exclusiveMinimum/exclusiveMaximum (drafts 3 and 4).
func limitBoolExclusive(keyword, exclusiveKeyword string, isMax bool) schema.KeywordFunc {
	return func(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
		limit, _ := n.Get(keyword)
		exclusive, _ := n.Get(exclusiveKeyword)
		checkLimit(sc, n, data, path, keyword, limit, isMax, exclusive == true)
		return nil
	}
}

// limitCanEqual implements minimum/maximum paired with minimumCanEqual /
// maximumCanEqual (drafts 1 and 2), which default to true.
func limitCanEqual(keyword, canEqualKeyword string, isMax bool) schema.KeywordFunc {
	return func(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
		limit, _ := n.Get(keyword)
		canEqual, _ := n.Get(canEqualKeyword)
		checkLimit(sc, n, data, path, keyword, limit, isMax, canEqual == false)
		return nil
	}
}

// limitInclusive implements the draft 6 minimum/maximum.
func limitInclusive(keyword string, isMax bool) schema.KeywordFunc {
	return func(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
		limit, _ := n.Get(keyword)
		checkLimit(sc, n, data, path, keyword, limit, isMax, false)
		return nil
	}
}

// limitExclusive implements the draft 6 numeric exclusiveMinimum/exclusiveMaximum.
func limitExclusive(keyword string, isMax bool) schema.KeywordFunc {
	return func(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
		limit, _ := n.Get(keyword)
		checkLimit(sc, n, data, path, keyword, limit, isMax, true)
		return nil
	}
}

// divisible implements multipleOf and divisibleBy. A zero divisor is ignored.
func divisible(keyword, phrase string) schema.KeywordFunc {
	return func(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
		d, ok := schema.Number(data)
		if !ok {
			return nil
		}
		v, _ := n.Get(keyword)
		div, ok := schema.Number(v)
		if !ok || div.Sign() == 0 {
			return nil
		}
		if new(big.Rat).Quo(d, div).IsInt() {
			return nil
		}
		sc.Fail(n, path, keyword, fmt.Sprintf("The property '%s' was not %s %s", path, phrase, numberText(v)))
		return nil
	}
}

// maxDecimal limits the number of decimal places (draft 1).
func maxDecimal(sc *schema.Scope, n *schema.Node, data any, path schema.Path) error {
	d, ok := schema.Number(data)
	if !ok {
		return nil
	}
	v, _ := n.Get("maxDecimal")
	limit, ok := schema.Number(v)
	if !ok || !limit.IsInt() {
		return nil
	}
	if int64(decimalPlaces(d)) <= limit.Num().Int64() {
		return nil
	}
	sc.Fail(n, path, "maxDecimal", fmt.Sprintf(
		"The property '%s' had more decimal places than the allowed %s", path, numberText(v),
	))
	return nil
}

// decimalPlaces counts the digits after the decimal point of the shortest
// decimal representation of r.
func decimalPlaces(r *big.Rat) int {
	ten := big.NewRat(10, 1)
	cur := new(big.Rat).Set(r)
	places := 0
	for !cur.IsInt() && places < 400 {
		cur.Mul(cur, ten)
		places++
	}
	return places
}
