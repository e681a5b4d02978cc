// Package convert coordinates the full conversion pass over one buffered
// document: delimiter resolution, strict parse with lenient fallback, type
// detection/inference/coercion with per-column transforms, optional header
// normalization, and optional de-duplication.
//
// All configuration travels through Options; there is no package-level
// mutable state, so a process can run any number of conversions with
// different settings.
package convert

import (
	"log"

	"csv2json/internal/dedup"
	"csv2json/internal/ident"
	"csv2json/internal/parser/lenient"
	"csv2json/internal/parser/strict"
	"csv2json/internal/records"
	"csv2json/internal/sniff"
	"csv2json/internal/transform"
	"csv2json/internal/typeconv"
)

// Options configures one conversion. The zero value converts with delimiter
// auto-detection, standard quoting, and type detection enabled via Run's
// DetectTypes default handling in the CLI.
type Options struct {
	// Delimiter overrides auto-detection when non-zero.
	Delimiter rune

	// Quote is the quote character; 0 means '"'. The strict parser only
	// understands standard double quoting (encoding/csv), so any other quote
	// rune routes the document straight to the lenient tokenizer, which
	// honors arbitrary quote runes.
	Quote rune

	CustomHeaders  []string
	MissingHeader  bool
	SkipRows       int
	RemoveEmpty    bool
	IgnoreMismatch bool

	// DetectTypes enables the type-conversion pass.
	DetectTypes bool

	// Directives is the parsed per-column transform spec map.
	Directives map[string]transform.Spec

	// TypeHints declares column types explicitly, overriding inference but
	// not directive-declared types.
	TypeHints records.ColumnTypes

	// NormalizeHeaders rewrites column names as lowercase ASCII identifiers.
	NormalizeHeaders bool

	// Dedup drops duplicate records, keep-first.
	Dedup bool

	Verbose bool
}

// Run converts one fully buffered document. Structural failures of the strict
// parser are recovered by the lenient parser and surface only as diagnostics;
// Run itself cannot fail on data-level problems.
func Run(data []byte, opt Options) records.Document {
	quote := opt.Quote
	if quote == 0 {
		quote = '"'
	}

	delim := opt.Delimiter
	if delim == 0 {
		sample := data
		if len(sample) > sniff.SampleSize {
			sample = sample[:sniff.SampleSize]
		}
		delim = sniff.Delimiter(sample, quote)
		log.Printf("auto-detected delimiter: %q", delim)
	}

	doc := parse(data, delim, quote, opt)

	if opt.DetectTypes {
		doc = typeconv.Pass(doc, opt.Directives, opt.TypeHints, opt.Verbose)
	}
	if opt.NormalizeHeaders && !doc.Positional() {
		doc = normalizeColumns(doc)
	}
	if opt.Dedup {
		before := len(doc.Records) + len(doc.Rows)
		doc = dedup.Document(doc)
		if opt.Verbose {
			log.Printf("dedup: %d -> %d records", before, len(doc.Records)+len(doc.Rows))
		}
	}
	return doc
}

// parse runs the two-tier parser: strict first, lenient on structural error.
// Non-standard quote characters skip the strict tier entirely.
func parse(data []byte, delim, quote rune, opt Options) records.Document {
	lenientOpt := lenient.Options{
		Delimiter:     delim,
		Quote:         quote,
		CustomHeaders: opt.CustomHeaders,
		MissingHeader: opt.MissingHeader,
		SkipRows:      opt.SkipRows,
		RemoveEmpty:   opt.RemoveEmpty,
	}
	if quote != '"' {
		if opt.Verbose {
			log.Printf("non-standard quote %q: using lenient parser", quote)
		}
		return lenient.Parse(data, lenientOpt)
	}

	doc, err := strict.Parse(data, strict.Options{
		Delimiter:      delim,
		CustomHeaders:  opt.CustomHeaders,
		MissingHeader:  opt.MissingHeader,
		SkipRows:       opt.SkipRows,
		RemoveEmpty:    opt.RemoveEmpty,
		IgnoreMismatch: opt.IgnoreMismatch,
		Verbose:        opt.Verbose,
	})
	if err != nil {
		log.Printf("strict parse failed (%v); retrying with lenient parser", err)
		return lenient.Parse(data, lenientOpt)
	}
	return doc
}

// normalizeColumns re-keys records and the column list through ident.Normalize.
// Collisions keep the first column's name mapping; later duplicates gain a
// numeric suffix.
func normalizeColumns(doc records.Document) records.Document {
	out := records.Document{
		Columns: make([]string, len(doc.Columns)),
		Records: make([]records.Record, len(doc.Records)),
	}
	rename := make(map[string]string, len(doc.Columns))
	used := make(map[string]int, len(doc.Columns))
	for i, col := range doc.Columns {
		name := ident.Normalize(col)
		if n := used[name]; n > 0 {
			name = ident.Suffix(name, n)
		}
		used[ident.Normalize(col)]++
		rename[col] = name
		out.Columns[i] = name
	}
	for i, rec := range doc.Records {
		cp := make(records.Record, len(rec))
		for k, v := range rec {
			name, ok := rename[k]
			if !ok {
				name = ident.Normalize(k)
			}
			cp[name] = v
		}
		out.Records[i] = cp
	}
	return out
}
