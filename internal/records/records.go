// Package records defines the value model shared by the parsing and
// conversion pipeline.
//
// A Value is restricted by convention to one of nil, bool, int64, float64, or
// string; Kind is the matching closed enumeration of type tags. Int and Float
// are mutually exclusive representations of numeric data: a value is int64
// only when it has no fractional part after decimal-separator normalization.
package records

import "fmt"

// Value is a single field of a record: nil, bool, int64, float64, or string.
type Value = any

// Kind enumerates the closed set of value type tags. The declaration order
// (Int, Float, Bool, String) is also the stable visit order used when counting
// tags during column type inference, which makes inference tie-breaks
// deterministic.
type Kind uint8

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindString
	KindNull
)

// kindNames is indexed by Kind.
var kindNames = [...]string{"int", "float", "bool", "string", "null"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// KindOf classifies an already-typed Value. Values outside the supported set
// are reported as String so they flow through coercion unchanged.
func KindOf(v Value) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int64:
		return KindInt
	case float64:
		return KindFloat
	default:
		return KindString
	}
}

// Record is a keyed-mode record: column name -> Value. Key sets may differ
// between records of the same document (e.g. after remove-empty).
type Record map[string]Value

// Row is a positional-mode record.
type Row []Value

// ColumnTypes maps column name -> dominant Kind. It is built once per
// conversion pass (by inference, directives, or hints) and read-only after.
type ColumnTypes map[string]Kind

// Document is the result of parsing one input: either keyed records with a
// shared column order, or positional rows. Exactly one of Records/Rows is
// populated.
type Document struct {
	// Columns is the header order used for keyed records. It drives ordered
	// JSON emission and the default key list for column type inference.
	Columns []string

	Records []Record
	Rows    []Row
}

// Positional reports whether the document holds positional rows.
func (d *Document) Positional() bool { return d.Records == nil }

// Clone returns a deep copy of the document. Conversion stages operate on
// copies so that each stage produces a new collection instead of mutating the
// previous one.
func (d *Document) Clone() Document {
	out := Document{Columns: append([]string(nil), d.Columns...)}
	if d.Records != nil {
		out.Records = make([]Record, len(d.Records))
		for i, r := range d.Records {
			cp := make(Record, len(r))
			for k, v := range r {
				cp[k] = v
			}
			out.Records[i] = cp
		}
	}
	if d.Rows != nil {
		out.Rows = make([]Row, len(d.Rows))
		for i, r := range d.Rows {
			out.Rows[i] = append(Row(nil), r...)
		}
	}
	return out
}
