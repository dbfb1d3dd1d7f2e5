package importer

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags a normalized cell value.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindText
)

// Value is a typed cell: null, a number, or trimmed text.
type Value struct {
	Kind Kind
	Num  float64
	Text string
}

// missing values are matched case-sensitively.
var missing = map[string]struct{}{
	"N/A":  {},
	"null": {},
}

// Normalize interprets one raw cell. Text becomes a number only if formatting the
// parsed number reproduces the trimmed input exactly, so "12abc" or "007" stay text.
func Normalize(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Value{Kind: KindNull}
	}
	if _, ok := missing[s]; ok {
		return Value{Kind: KindNull}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		if formatNumber(f) == s {
			return Value{Kind: KindNumber, Num: f}
		}
	}

	return Value{Kind: KindText, Text: s}
}

// formatNumber renders the shortest decimal form without an exponent.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// String returns the text form of a non-null value.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return formatNumber(v.Num)
	case KindText:
		return v.Text
	default:
		return ""
	}
}
