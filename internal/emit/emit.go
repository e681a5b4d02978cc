// Package emit serializes a converted document to JSON.
//
// Keyed records marshal as order-preserving JSON objects (column order, the
// way the input declared them) unless key sorting is requested. JSON
// distinguishes the full typed value model natively: Int and Float render as
// numbers with full precision, Bool and Null as literals, String as strings.
package emit

import (
	"bytes"
	"encoding/json"
	"log"
	"sort"
	"strings"

	"csv2json/internal/records"
)

// Options configures serialization.
type Options struct {
	// Indent is the number of spaces per indentation level.
	Indent int

	// SortKeys sorts object keys alphabetically instead of preserving column
	// order (and first-seen order for the id-keyed form).
	SortKeys bool

	// IDField, when set, re-keys the output into an object mapping each
	// record's IDField value to the record. Records lacking the field are
	// dropped from the map; when no record has it, the sequence is emitted
	// unchanged with a warning.
	IDField string
}

// Marshal serializes the document. Negative indent widths are treated as 0.
func Marshal(doc records.Document, opt Options) ([]byte, error) {
	width := opt.Indent
	if width < 0 {
		width = 0
	}
	indent := strings.Repeat(" ", width)

	if doc.Positional() {
		return json.MarshalIndent(doc.Rows, "", indent)
	}

	objs := make([]object, len(doc.Records))
	for i, rec := range doc.Records {
		objs[i] = recordObject(doc.Columns, rec, opt.SortKeys)
	}

	if opt.IDField != "" {
		if keyed, ok := rekeyByID(doc, objs, opt); ok {
			return json.MarshalIndent(keyed, "", indent)
		}
		log.Printf("warning: no record contains id field %q; emitting sequence", opt.IDField)
	}

	return json.MarshalIndent(objs, "", indent)
}

// rekeyByID builds the id-keyed object form. Returns ok=false when no record
// carries the id field.
func rekeyByID(doc records.Document, objs []object, opt Options) (object, bool) {
	out := object{}
	for i, rec := range doc.Records {
		id, ok := rec[opt.IDField]
		if !ok {
			continue
		}
		out.pairs = append(out.pairs, pair{key: idKey(id), val: objs[i]})
	}
	if len(out.pairs) == 0 {
		return object{}, false
	}
	if opt.SortKeys {
		out.sort()
	}
	return out, true
}

// idKey renders an id value as a JSON object key. Non-string ids (numbers,
// booleans) use their detection-time textual form.
func idKey(v records.Value) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.Trim(string(b), `"`)
}

// recordObject assembles one record as an ordered object: column order first,
// then any keys outside the column list (sorted for determinism).
func recordObject(columns []string, rec records.Record, sortKeys bool) object {
	obj := object{pairs: make([]pair, 0, len(rec))}
	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		seen[col] = struct{}{}
		if v, ok := rec[col]; ok {
			obj.pairs = append(obj.pairs, pair{key: col, val: v})
		}
	}
	var extra []string
	for k := range rec {
		if _, ok := seen[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		obj.pairs = append(obj.pairs, pair{key: k, val: rec[k]})
	}
	if sortKeys {
		obj.sort()
	}
	return obj
}

// pair is a single key/value entry of an ordered JSON object.
type pair struct {
	key string
	val any
}

// object marshals as a JSON object whose keys appear in pair order.
type object struct {
	pairs []pair
}

func (o object) sort() {
	sort.Slice(o.pairs, func(i, j int) bool { return o.pairs[i].key < o.pairs[j].key })
}

// MarshalJSON emits the pairs in order. Keys and values are individually
// json-encoded, so diacritics and control characters stay safe.
func (o object) MarshalJSON() ([]byte, error) {
	if len(o.pairs) == 0 {
		return []byte(`{}`), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range o.pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(p.key)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(p.val)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
