// Package typeconv converts raw text fields into typed values: per-value type
// detection, per-column dominant-type inference, and coercion of every value
// toward its column's type.
//
// Detection is purely syntactic and never consults surrounding columns. The
// numeric scanner is allocation-free for the common case and accepts both '.'
// and ',' as the decimal separator, normalizing the latter before parsing.
package typeconv

import (
	"strconv"
	"strings"

	"csv2json/internal/records"
)

// Boolean vocabularies, matched case-insensitively.
var (
	truthy = map[string]struct{}{"true": {}, "yes": {}, "y": {}, "1": {}}
	falsy  = map[string]struct{}{"false": {}, "no": {}, "n": {}, "0": {}}
)

// Detect classifies one raw text value, in order: Null for empty or
// whitespace-only input, Bool via the truthy/falsy vocabularies, Int or Float
// for values matching a signed decimal pattern with '.' (then ',') as the
// separator, and otherwise the original string unchanged.
func Detect(raw string) records.Value {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	lower := strings.ToLower(raw)
	if _, ok := truthy[lower]; ok {
		return true
	}
	if _, ok := falsy[lower]; ok {
		return false
	}

	if isNumeric(raw, '.') {
		return parseNumeric(raw)
	}
	if isNumeric(raw, ',') {
		return parseNumeric(strings.Replace(raw, ",", ".", 1))
	}

	return raw
}

// isNumeric reports whether s matches -?digits(sep digits)? exactly.
func isNumeric(s string, sep byte) bool {
	if len(s) == 0 {
		return false
	}
	i := 0
	if s[0] == '-' {
		i++
	}
	digits := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		digits++
	}
	if digits == 0 {
		return false
	}
	if i == len(s) {
		return true
	}
	if s[i] != sep {
		return false
	}
	i++
	frac := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		frac++
	}
	return frac > 0 && i == len(s)
}

// parseNumeric parses a string already validated by isNumeric (with '.' as
// separator). No '.' means Int; a '.' means Float.
func parseNumeric(s string) records.Value {
	if strings.IndexByte(s, '.') < 0 {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		// Out of int64 range; fall through to float.
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// detectValue runs Detect on string values and passes everything else through,
// which makes repeated conversion passes idempotent.
func detectValue(v records.Value) records.Value {
	if s, ok := v.(string); ok {
		return Detect(s)
	}
	return v
}
