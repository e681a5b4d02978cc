package typeconv

import (
	"log"
	"strconv"
	"strings"

	"csv2json/internal/records"
	"csv2json/internal/transform"
)

// Pass runs the full type-conversion stage over a parsed document and returns
// a new document; the input is never mutated. Stages, in order:
//
//  1. Detect a provisional type for every raw value. Columns covered by an
//     explicit transform spec keep their raw strings so the spec's transforms
//     see the original text.
//  2. Build the column type map: spec-declared types first, then explicit
//     hints, then inferred types for the remaining columns. The map is
//     immutable for the rest of the pass.
//  3. Per value: apply the column's transforms in declaration order, then
//     coerce toward the column type. Coercion failure keeps the value in its
//     detected form and is reported as a warning, never an error.
//
// Positional documents only get per-scalar detection; there are no columns to
// infer or coerce against.
//
// Running Pass twice over an already-typed document is a no-op.
func Pass(doc records.Document, specs map[string]transform.Spec, hints records.ColumnTypes, verbose bool) records.Document {
	out := doc.Clone()

	if out.Positional() {
		for _, row := range out.Rows {
			for i, v := range row {
				row[i] = detectValue(v)
			}
		}
		return out
	}

	// Stage 1: provisional detection, skipping spec-covered columns.
	for _, r := range out.Records {
		for k, v := range r {
			if _, covered := specs[k]; covered {
				continue
			}
			r[k] = detectValue(v)
		}
	}

	// Stage 2: declared types win over inferred ones.
	types := InferColumnTypes(out.Records, out.Columns)
	for k, hint := range hints {
		types[k] = hint
	}
	for k, spec := range specs {
		types[k] = spec.Type
	}

	// Stage 3: transforms first, then coercion.
	for _, r := range out.Records {
		for k, v := range r {
			if spec, ok := specs[k]; ok {
				v = spec.Apply(v)
				if verbose {
					log.Printf("transform %q: %v -> %v", k, r[k], v)
				}
				// Transformed values are still raw text; give them a
				// provisional type before coercing. String-declared columns
				// keep their text verbatim.
				if spec.Type != records.KindString {
					v = detectValue(v)
				}
			}
			want, ok := types[k]
			if !ok {
				r[k] = v
				continue
			}
			coerced, ok := Coerce(v, want)
			if !ok {
				if verbose {
					log.Printf("warning: column %q: cannot coerce %v to %s; keeping detected value", k, v, want)
				}
				coerced = v
			}
			r[k] = coerced
		}
	}
	return out
}

// Coerce converts a provisionally-typed value toward the column Kind. Null
// passes through untouched. The bool return is false when the value cannot
// represent the target type; callers keep the detected value in that case.
func Coerce(v records.Value, want records.Kind) (records.Value, bool) {
	if v == nil {
		return nil, true
	}
	switch want {
	case records.KindInt:
		return coerceInt(v)
	case records.KindFloat:
		return coerceFloat(v)
	case records.KindBool:
		return coerceBool(v)
	case records.KindString, records.KindNull:
		// String columns keep whatever was detected; stringifying typed
		// values would break idempotence.
		return v, true
	}
	return v, true
}

// coerceInt converts toward Int. A float with a fractional part stays a float
// rather than losing precision; that counts as success.
func coerceInt(v records.Value) (records.Value, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case float64:
		if t == float64(int64(t)) {
			return int64(t), true
		}
		return t, true
	case string:
		if n := Detect(t); records.KindOf(n) == records.KindInt {
			return n, true
		}
	}
	return v, false
}

func coerceFloat(v records.Value) (records.Value, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int64:
		return float64(t), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f, true
		}
	}
	return v, false
}

func coerceBool(v records.Value) (records.Value, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		lower := strings.ToLower(t)
		if _, ok := truthy[lower]; ok {
			return true, true
		}
		if _, ok := falsy[lower]; ok {
			return false, true
		}
	}
	return v, false
}
