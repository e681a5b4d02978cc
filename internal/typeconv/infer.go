package typeconv

import "csv2json/internal/records"

// countKinds is the fixed visit order for dominant-type selection. A tag
// earlier in this list wins ties against a later one.
var countKinds = [...]records.Kind{
	records.KindInt,
	records.KindFloat,
	records.KindBool,
	records.KindString,
}

// InferColumnTypes aggregates per-column value tags across recs into one
// dominant Kind per column. Null values are excluded from the counts.
//
// Special rule: when every non-null value in a column is numeric and at least
// one is Float, the column is promoted to Float even if Int outnumbers it, so
// genuinely fractional values are never truncated. Columns with only Null
// values (or no entries) default to String.
//
// keys selects the columns to analyze; nil means all keys of the first record.
func InferColumnTypes(recs []records.Record, keys []string) records.ColumnTypes {
	out := records.ColumnTypes{}
	if len(recs) == 0 {
		return out
	}
	if keys == nil {
		keys = make([]string, 0, len(recs[0]))
		for k := range recs[0] {
			keys = append(keys, k)
		}
	}

	for _, key := range keys {
		var counts [4]int // indexed by Kind; KindNull excluded
		for _, r := range recs {
			v, ok := r[key]
			if !ok {
				continue
			}
			k := records.KindOf(v)
			if k == records.KindNull {
				continue
			}
			counts[k]++
		}

		total := counts[records.KindInt] + counts[records.KindFloat] +
			counts[records.KindBool] + counts[records.KindString]
		if total == 0 {
			out[key] = records.KindString
			continue
		}

		dominant := records.KindString
		best := -1
		for _, k := range countKinds {
			if counts[k] > best {
				dominant, best = k, counts[k]
			}
		}

		// All-numeric column with at least one float: promote to Float.
		numeric := counts[records.KindInt] + counts[records.KindFloat]
		if (dominant == records.KindInt || dominant == records.KindFloat) &&
			numeric == total && counts[records.KindFloat] > 0 {
			dominant = records.KindFloat
		}

		out[key] = dominant
	}
	return out
}
