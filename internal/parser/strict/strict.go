// Package strict implements the primary record parser: encoding/csv in strict
// quoting mode over a fully buffered document.
//
// The parser resolves headers (custom list, first line, or none), skips
// comment lines and a configured number of leading rows, and produces keyed or
// positional records with null-ish cleanup applied. Any tokenization failure
// aborts the whole parse with a *StructuralError so the caller can fall back
// to the lenient parser; the strict parser itself never soft-skips rows.
package strict

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"csv2json/internal/records"
)

// Options configures a strict parse. The zero value is not useful; callers
// must at least set Delimiter.
type Options struct {
	// Delimiter is the resolved field separator (explicit or auto-detected).
	Delimiter rune

	// CustomHeaders, when non-empty, replaces the file's header row. The
	// first line is then treated as data; combine with SkipRows to drop an
	// in-file header.
	CustomHeaders []string

	// MissingHeader marks input without a header row. Without CustomHeaders
	// this selects positional mode.
	MissingHeader bool

	// SkipRows is the number of leading non-comment rows to discard. Comment
	// lines never count toward this budget.
	SkipRows int

	// RemoveEmpty strips Null-valued fields from keyed records.
	RemoveEmpty bool

	// IgnoreMismatch silences the custom-header/column-count warning.
	IgnoreMismatch bool

	Verbose bool
}

// StructuralError reports that the document could not be tokenized under the
// current delimiter/quoting assumptions. It signals "try the lenient parser",
// not a fatal condition.
type StructuralError struct {
	Line int
	Err  error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural parse error at line %d: %v", e.Line, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

const (
	commentMarker = "#"
	utf8BOM       = "\uFEFF"
)

// Parse tokenizes data into a Document. The returned error, when non-nil, is
// always a *StructuralError.
func Parse(data []byte, opt Options) (records.Document, error) {
	lines := PrepareLines(data, opt.SkipRows)

	// Padded tab layouts (runs of tabs used for visual alignment) get the
	// specialized run-collapsing variant. Plain TSV stays on the quote-aware
	// path below so single-tab empty fields survive.
	if opt.Delimiter == '\t' && tabPaddedLayout(lines) {
		return parseTabLayout(lines, opt), nil
	}

	body := strings.Join(lines, "\n")
	r := csv.NewReader(strings.NewReader(body))
	r.Comma = opt.Delimiter
	r.FieldsPerRecord = -1

	// Positional mode: no usable header at all.
	if opt.MissingHeader && len(opt.CustomHeaders) == 0 {
		return parsePositional(r)
	}

	headers := opt.CustomHeaders
	if len(headers) == 0 {
		h, err := r.Read()
		if err == io.EOF {
			return records.Document{Records: []records.Record{}}, nil
		}
		if err != nil {
			return records.Document{}, &StructuralError{Line: 1, Err: err}
		}
		headers = stripBOM(h)
	}

	doc := records.Document{Columns: usableHeaders(headers)}
	first := true
	for line := 1; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return records.Document{}, &StructuralError{Line: line, Err: err}
		}
		if first {
			first = false
			row = stripBOM(row)
			if len(opt.CustomHeaders) > 0 {
				checkHeaderCount(opt, len(row))
			}
		}
		if opt.Delimiter == '\t' {
			row = joinOverflow(headers, row)
		}
		if rec := buildRecord(headers, row, opt.RemoveEmpty); rec != nil {
			doc.Records = append(doc.Records, rec)
		}
	}
	if doc.Records == nil {
		doc.Records = []records.Record{}
	}
	return doc, nil
}

// PrepareLines splits the document into lines, removes comment lines, and
// discards skip leading rows. It is shared with the lenient parser so the
// fallback resumes from the same post-skip position.
//
// Note: comment filtering is line-based, so a '#' opening a line inside a
// multi-line quoted field is treated as a comment.
func PrepareLines(data []byte, skip int) []string {
	raw := strings.Split(string(data), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(line, commentMarker) {
			continue
		}
		out = append(out, line)
	}
	// Trim trailing blank line left by a final newline.
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	if skip > len(out) {
		skip = len(out)
	}
	return out[skip:]
}

// parsePositional reads all rows as value sequences. Type detection happens
// later in the conversion pass.
func parsePositional(r *csv.Reader) (records.Document, error) {
	doc := records.Document{Rows: []records.Row{}}
	first := true
	for line := 1; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			return doc, nil
		}
		if err != nil {
			return records.Document{}, &StructuralError{Line: line, Err: err}
		}
		if first {
			first = false
			row = stripBOM(row)
		}
		vals := make(records.Row, len(row))
		for i, f := range row {
			vals[i] = f
		}
		doc.Rows = append(doc.Rows, vals)
	}
}

// tabPaddedLayout reports whether the document uses runs of tabs as visual
// padding: at least one run of two or more tabs appears, collapsing runs
// yields a single consistent field count, and a plain single-tab split does
// not. A genuine empty TSV field also produces a tab run, but then the plain
// split is the consistent one and the document stays on the quote-aware path.
func tabPaddedLayout(lines []string) bool {
	sawRun := false
	collapsed := make(map[int]bool)
	plain := make(map[int]bool)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(line, "\t\t") {
			sawRun = true
		}
		collapsed[len(splitTabRun(line))] = true
		plain[len(strings.Split(line, "\t"))] = true
	}
	return sawRun && len(collapsed) == 1 && len(plain) > 1
}

// parseTabLayout handles the padded-tab variant selected by tabPaddedLayout:
// runs of consecutive tabs count as a single separator, and when a row
// carries more fields than there are headers, the overflow is space-joined
// onto the last header's value instead of being discarded.
func parseTabLayout(lines []string, opt Options) records.Document {
	positional := opt.MissingHeader && len(opt.CustomHeaders) == 0

	var headers []string
	rows := lines
	switch {
	case len(opt.CustomHeaders) > 0:
		headers = opt.CustomHeaders
	case !positional:
		if len(lines) == 0 {
			return records.Document{Records: []records.Record{}}
		}
		headers = stripBOM(splitTabRun(lines[0]))
		rows = lines[1:]
	}

	if positional {
		doc := records.Document{Rows: []records.Row{}}
		for _, line := range rows {
			if strings.TrimSpace(line) == "" {
				continue
			}
			fields := splitTabRun(line)
			vals := make(records.Row, len(fields))
			for i, f := range fields {
				vals[i] = f
			}
			doc.Rows = append(doc.Rows, vals)
		}
		return doc
	}

	doc := records.Document{Columns: usableHeaders(headers)}
	first := true
	for _, line := range rows {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitTabRun(line)
		if first {
			first = false
			if len(opt.CustomHeaders) > 0 {
				checkHeaderCount(opt, len(fields))
			}
		}
		fields = joinOverflow(headers, fields)
		if rec := buildRecord(headers, fields, opt.RemoveEmpty); rec != nil {
			doc.Records = append(doc.Records, rec)
		}
	}
	if doc.Records == nil {
		doc.Records = []records.Record{}
	}
	return doc
}

// joinOverflow space-joins fields beyond the header count onto the last
// header's value. Tab input only; trailing free text after the last column
// is common in tab-separated exports.
func joinOverflow(headers, row []string) []string {
	if len(headers) == 0 || len(row) <= len(headers) {
		return row
	}
	joined := strings.Join(row[len(headers)-1:], " ")
	return append(row[:len(headers)-1:len(headers)-1], joined)
}

// splitTabRun splits a line on runs of consecutive tab characters.
func splitTabRun(line string) []string {
	var out []string
	field := strings.Builder{}
	inRun := false
	for _, r := range line {
		if r == '\t' {
			if !inRun {
				out = append(out, field.String())
				field.Reset()
				inRun = true
			}
			continue
		}
		inRun = false
		field.WriteRune(r)
	}
	out = append(out, field.String())
	return out
}

// buildRecord maps one tokenized row onto the headers, applying keyed-mode
// cleanup: null-ish header keys are dropped, the literal strings "None" and
// "null" (and empty/whitespace) normalize to Null, and fully-null records are
// dropped entirely (nil return). Headers beyond the row's length pad with
// Null; fields beyond the headers are discarded.
func buildRecord(headers []string, row []string, removeEmpty bool) records.Record {
	rec := make(records.Record, len(headers))
	allNull := true
	for i, key := range headers {
		if !usableKey(key) {
			continue
		}
		var v records.Value
		if i < len(row) {
			v = normalizeNull(row[i])
		}
		if v != nil {
			allNull = false
		} else if removeEmpty {
			continue
		}
		rec[key] = v
	}
	if allNull {
		return nil
	}
	return rec
}

// usableKey reports whether a header key survives keyed-mode cleanup.
func usableKey(key string) bool {
	return key != "" && !strings.EqualFold(key, "null")
}

// usableHeaders filters the header list down to usable keys, preserving order.
func usableHeaders(headers []string) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		if usableKey(h) {
			out = append(out, h)
		}
	}
	return out
}

// normalizeNull maps the literal strings "None" and "null" plus
// empty/whitespace-only values to Null.
func normalizeNull(s string) records.Value {
	if s == "None" || s == "null" || strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// stripBOM removes a UTF-8 BOM from the first cell if present.
func stripBOM(fields []string) []string {
	if len(fields) > 0 {
		fields[0] = strings.TrimPrefix(fields[0], utf8BOM)
	}
	return fields
}

// checkHeaderCount warns when the declared custom-header count differs from
// the actual column count. Processing continues with the declared headers
// truncated or padded to the actual columns.
func checkHeaderCount(opt Options, actual int) {
	if opt.IgnoreMismatch || len(opt.CustomHeaders) == actual {
		return
	}
	log.Printf("warning: number of custom headers (%d) does not match number of columns (%d)",
		len(opt.CustomHeaders), actual)
}
