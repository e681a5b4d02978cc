// Package ident normalizes arbitrary header text into lowercase ASCII
// identifiers, for consumers that want stable machine-friendly column names
// (JSON post-processing, database columns).
package ident

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes, removes nonspacing marks, and recomposes.
var stripAccents = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize converts header text into a lowercase ASCII identifier:
//
//  1. lowercase
//  2. strip accents (NFD -> remove Mn -> NFC)
//  3. keep [a-z0-9_]; convert space/dash/dot to underscore; drop others
//  4. fall back to "col" if nothing survives
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	ascii, _, _ := transform.String(stripAccents, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteByte('_')
				prevUnderscore = true
			}
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "col"
	}
	return name
}

// Suffix disambiguates a normalized name that collided with an earlier one by
// appending a numeric suffix.
func Suffix(name string, n int) string {
	return name + "_" + strconv.Itoa(n+1)
}
