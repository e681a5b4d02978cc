// Package dedup removes duplicate records from a converted document.
//
// A record's identity is the xxh3 hash of its field values joined in column
// order (nil encodes as a NUL byte, fields separate on unit separator 0x1f).
// The policy is keep-first: the earliest occurrence survives and later
// duplicates are dropped, preserving input order.
package dedup

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	"csv2json/internal/records"
)

// Document returns a new document with duplicate records removed. The input
// is not mutated.
func Document(doc records.Document) records.Document {
	out := records.Document{Columns: doc.Columns}
	seen := map[uint64]struct{}{}

	if doc.Positional() {
		out.Rows = make([]records.Row, 0, len(doc.Rows))
		for _, row := range doc.Rows {
			h := hashValues(row)
			if _, dup := seen[h]; dup {
				continue
			}
			seen[h] = struct{}{}
			out.Rows = append(out.Rows, row)
		}
		return out
	}

	out.Records = make([]records.Record, 0, len(doc.Records))
	for _, rec := range doc.Records {
		vals := make([]records.Value, len(doc.Columns))
		for i, col := range doc.Columns {
			vals[i] = rec[col]
		}
		h := hashValues(vals)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out.Records = append(out.Records, rec)
	}
	return out
}

// hashValues builds the identity hash for one record's values.
func hashValues(vals []records.Value) uint64 {
	var b strings.Builder
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		switch t := v.(type) {
		case nil:
			b.WriteByte(0x00)
		case string:
			b.WriteString(t)
		default:
			fmt.Fprint(&b, t)
		}
	}
	return xxh3.HashString(b.String())
}
