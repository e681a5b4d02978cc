// Package transform implements the per-column transform directive DSL.
//
// A directive string declares a target type and an ordered list of string
// transforms per column:
//
//	name:string/trim/upper,price:float,city:text/replace:NY=New York
//
// Top-level entries are comma-separated; each entry is name:rest with rest
// slash-separated. The first segment of rest is the type name (resolved
// through a synonym table), the remaining segments are operations. Transforms
// always execute in declaration order, and type coercion for a column with a
// spec happens after its transforms, never before.
package transform

import (
	"strings"

	"csv2json/internal/records"
)

// OpKind enumerates the closed set of transform operations.
type OpKind uint8

const (
	OpUpper OpKind = iota
	OpLower
	OpTrim
	OpCapitalize
	OpTitle
	OpReplace
	// OpUnknown is retained for forward compatibility: an unrecognized
	// operation name parses successfully and applies as a no-op.
	OpUnknown
)

// opNames resolves parameterless operation names.
var opNames = map[string]OpKind{
	"upper":      OpUpper,
	"uppercase":  OpUpper,
	"lower":      OpLower,
	"lowercase":  OpLower,
	"trim":       OpTrim,
	"capitalize": OpCapitalize,
	"title":      OpTitle,
}

// typeSynonyms resolves directive type names to a Kind. Unrecognized names
// default to String.
var typeSynonyms = map[string]records.Kind{
	"str":     records.KindString,
	"text":    records.KindString,
	"string":  records.KindString,
	"num":     records.KindFloat,
	"float":   records.KindFloat,
	"int":     records.KindInt,
	"integer": records.KindInt,
	"bool":    records.KindBool,
	"boolean": records.KindBool,
}

// Op is a single transform operation. Old/New are only meaningful for
// OpReplace; Name preserves the original token for OpUnknown.
type Op struct {
	Kind OpKind
	Name string
	Old  string
	New  string
}

// Spec is one column's declared type plus its ordered transform list.
type Spec struct {
	Type records.Kind
	Ops  []Op
}

// replacePrefix introduces a parameterized substitution segment.
const replacePrefix = "replace:"

// ParseDirectives parses a full directive string into a column -> Spec map.
// Entries without a colon are ignored; empty segments are dropped.
func ParseDirectives(s string) map[string]Spec {
	out := map[string]Spec{}
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, rest, ok := strings.Cut(entry, ":")
		if !ok || name == "" {
			continue
		}
		out[name] = parseSpec(rest)
	}
	return out
}

// parseSpec parses the slash-separated remainder of one entry: type name
// first, then operations.
func parseSpec(rest string) Spec {
	segs := strings.Split(rest, "/")
	spec := Spec{Type: kindForName(segs[0])}
	for _, seg := range segs[1:] {
		if op, ok := parseOp(seg); ok {
			spec.Ops = append(spec.Ops, op)
		}
	}
	return spec
}

// parseOp parses one operation segment. Segments of the form replace:OLD=NEW
// split old/new on the first '='; a replace segment without '=' is dropped.
// Any other non-empty segment is a parameterless operation, lower-cased;
// unknown names are retained as no-ops.
func parseOp(seg string) (Op, bool) {
	if seg == "" {
		return Op{}, false
	}
	if arg, ok := strings.CutPrefix(seg, replacePrefix); ok {
		old, new, ok := strings.Cut(arg, "=")
		if !ok {
			return Op{}, false
		}
		return Op{Kind: OpReplace, Old: old, New: new}, true
	}
	name := strings.ToLower(seg)
	if kind, ok := opNames[name]; ok {
		return Op{Kind: kind, Name: name}, true
	}
	return Op{Kind: OpUnknown, Name: name}, true
}

// kindForName resolves a directive type name through the synonym table.
func kindForName(name string) records.Kind {
	if k, ok := typeSynonyms[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k
	}
	return records.KindString
}
