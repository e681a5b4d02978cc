package transform

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"csv2json/internal/records"
)

// titleCaser is language-agnostic title casing, shared across calls.
var titleCaser = cases.Title(language.Und)

// Apply runs the spec's transforms over one value, strictly in declaration
// order; each operation's output feeds the next. Null passes through
// untouched, and string operations are no-ops on non-string values - they
// never raise.
func (s Spec) Apply(v records.Value) records.Value {
	if v == nil {
		return nil
	}
	str, ok := v.(string)
	if !ok {
		return v
	}
	for _, op := range s.Ops {
		str = applyOp(op, str)
	}
	return str
}

// applyOp executes a single operation on a string.
func applyOp(op Op, s string) string {
	switch op.Kind {
	case OpUpper:
		return strings.ToUpper(s)
	case OpLower:
		return strings.ToLower(s)
	case OpTrim:
		return strings.TrimSpace(s)
	case OpCapitalize:
		return capitalize(s)
	case OpTitle:
		return titleCaser.String(s)
	case OpReplace:
		return strings.ReplaceAll(s, op.Old, op.New)
	}
	// OpUnknown: retained but inert.
	return s
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
