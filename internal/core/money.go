// Package core provides the domain types and arithmetic for the
// bookkeeping engine.
//
// This file contains amount parsing and rounding helpers. Amounts are
// plain float64 euros: the engine keeps full floating precision
// internally and rounds only when a figure is presented or exported.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a user-entered amount to euros.
//
// The tool's input policy is silent tolerance: anything that does not
// parse as a number coerces to 0 rather than raising. Both dot (12.34)
// and comma (12,34) decimal separators are accepted.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34
//	ParseAmount("12,34") -> 12.34
//	ParseAmount("")      -> 0
//	ParseAmount("abc")   -> 0
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Round2 rounds to 2 decimal places, half away from zero. Presentation
// and export only; never applied to intermediate arithmetic.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatEuros renders an amount as a Euro string, e.g. "€12.34".
func FormatEuros(v float64) string {
	if v < 0 {
		return "-€" + strconv.FormatFloat(Round2(-v), 'f', 2, 64)
	}
	return "€" + strconv.FormatFloat(Round2(v), 'f', 2, 64)
}
