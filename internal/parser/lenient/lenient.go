// Package lenient implements the fallback record parser, invoked only after
// the strict parser fails structurally.
//
// It re-tokenizes raw lines by hand with a per-character quote-state scan,
// splitting on the delimiter only outside quotes and trimming quote runes off
// each field. A best-effort continuation heuristic re-attaches multi-line
// wrapped values: a line starting with the delimiter, or with any character
// other than the quote character or the delimiter, is appended (space-joined)
// to the current record. Continuations attach to the first column in header
// order that already has content; this is a deterministic choice, not a
// guarantee of correct reassembly.
package lenient

import (
	"strings"

	"csv2json/internal/parser/strict"
	"csv2json/internal/records"
)

// Options configures a lenient parse.
type Options struct {
	Delimiter     rune
	Quote         rune
	CustomHeaders []string
	MissingHeader bool
	SkipRows      int
	RemoveEmpty   bool
}

// Parse tokenizes data leniently. It never fails: malformed content degrades
// to strings or gets dropped, and the caller always receives a document.
func Parse(data []byte, opt Options) records.Document {
	if opt.Quote == 0 {
		opt.Quote = '"'
	}
	lines := nonBlank(strict.PrepareLines(data, opt.SkipRows))

	// Positional mode: tokenize every line independently.
	if opt.MissingHeader && len(opt.CustomHeaders) == 0 {
		doc := records.Document{Rows: []records.Row{}}
		for _, line := range lines {
			fields := splitQuoted(line, opt.Delimiter, opt.Quote)
			row := make(records.Row, len(fields))
			for i, f := range fields {
				row[i] = f
			}
			doc.Rows = append(doc.Rows, row)
		}
		return doc
	}

	headers := opt.CustomHeaders
	if len(headers) == 0 {
		if len(lines) == 0 {
			return records.Document{Records: []records.Record{}}
		}
		headers = strings.Split(strings.TrimSpace(lines[0]), string(opt.Delimiter))
		lines = lines[1:]
	}

	doc := records.Document{Columns: headers, Records: []records.Record{}}
	var current records.Record
	for _, line := range lines {
		if isContinuation(line, opt.Delimiter, opt.Quote) {
			appendContinuation(current, headers, line)
			continue
		}

		if current != nil {
			doc.Records = append(doc.Records, current)
		}
		current = make(records.Record, len(headers))
		fields := strings.Split(line, string(opt.Delimiter))
		for i, field := range fields {
			if i >= len(headers) {
				break
			}
			val := strings.Trim(field, string(opt.Quote))
			if val == "" {
				current[headers[i]] = nil
			} else {
				current[headers[i]] = val
			}
		}
	}
	if current != nil {
		doc.Records = append(doc.Records, current)
	}

	if opt.RemoveEmpty {
		for _, rec := range doc.Records {
			for k, v := range rec {
				if v == nil {
					delete(rec, k)
				}
			}
		}
	}
	return doc
}

// isContinuation applies the recovery heuristic: lines opening with the
// delimiter, or with anything other than the quote character or the
// delimiter, are treated as spill-over from the previous record. Only lines
// opening with the quote character start a new record.
func isContinuation(line string, delim, quote rune) bool {
	r := []rune(line)[0]
	return r == delim || r != quote
}

// appendContinuation space-joins line onto the first header-order field of
// the current record that already has content. With no current record or no
// contentful field, the line is dropped.
func appendContinuation(current records.Record, headers []string, line string) {
	if current == nil {
		return
	}
	for _, h := range headers {
		if s, ok := current[h].(string); ok && s != "" {
			current[h] = s + " " + line
			return
		}
	}
}

// splitQuoted tokenizes one line with a quote-state scan: the quote rune
// toggles state, the delimiter splits only outside quotes, and each field is
// trimmed of leading/trailing quote runes. A trailing empty field is dropped,
// matching the strictness of the overall best-effort contract.
func splitQuoted(line string, delim, quote rune) []string {
	var fields []string
	var field strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == quote:
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			fields = append(fields, strings.Trim(field.String(), string(quote)))
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	if field.Len() > 0 {
		fields = append(fields, strings.Trim(field.String(), string(quote)))
	}
	return fields
}

// nonBlank drops blank lines, trimming surrounding whitespace.
func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
