// Package config defines the canonical, JSON-serializable conversion profile
// for the csv2json application. A profile captures the same settings the CLI
// flags expose, so recurring conversions can be checked into a file and shared;
// explicit flags always override profile values.
//
// Design goals:
//
//  1. Stability: changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: Go field names mirror the JSON structure of profile files.
//  3. Minimalism: no third-party config libraries; decoding is performed by
//     the standard library.
//
// Example:
//
//	{
//	  "job": "daily_export",
//	  "input":   { "delimiter": ";", "skip_rows": 1 },
//	  "convert": { "columns": "name:str/trim/upper,age:int", "dedup": true },
//	  "output":  { "indent": 2, "id": "pk" },
//	  "storage": { "dsn": "out.db", "table": "export" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Profile is the top-level object decoded from a profile file.
type Profile struct {
	// Job names the run; it labels metrics and log lines.
	Job string `json:"job"`

	Input   Input   `json:"input"`
	Convert Convert `json:"convert"`
	Output  Output  `json:"output"`
	Storage Storage `json:"storage"`
	Metrics Metrics `json:"metrics"`
}

// Input configures how raw bytes are tokenized into records.
type Input struct {
	// Delimiter overrides auto-detection. Accepts a single character or one
	// of the escape forms \t \n \r \f \v; empty means auto-detect.
	Delimiter string `json:"delimiter"`

	// Quote is the quote character; empty means the standard double quote.
	Quote string `json:"quote"`

	// CustomHeaders replaces the file's header row; the first line is then
	// treated as data.
	CustomHeaders []string `json:"custom_headers"`

	// MissingHeader marks input without a header row (positional mode when
	// no custom headers are given).
	MissingHeader bool `json:"missing_header"`

	// SkipRows is the number of leading non-comment rows to discard.
	SkipRows int `json:"skip_rows"`
}

// Convert configures the type-conversion and cleanup stages.
type Convert struct {
	// DisableTypeDetection turns off type detection and coercion. The zero
	// value keeps detection on, matching the CLI default.
	DisableTypeDetection bool `json:"disable_type_detection"`

	// Columns is the per-column directive string, e.g. "name:str/upper,age:int".
	Columns string `json:"columns"`

	RemoveEmpty      bool `json:"remove_empty"`
	IgnoreMismatch   bool `json:"ignore_mismatch"`
	NormalizeHeaders bool `json:"normalize_headers"`
	Dedup            bool `json:"dedup"`
}

// Output configures JSON emission.
type Output struct {
	// Indent is the indent width in spaces; nil means the default (4).
	Indent *int `json:"indent"`

	SortKeys bool `json:"sort_keys"`

	// ID keys the output object by this field instead of emitting a sequence.
	ID string `json:"id"`
}

// Storage configures the optional database sink.
type Storage struct {
	// DSN enables the sink: a SQLite path or a postgres:// connection string.
	DSN string `json:"dsn"`

	// Table is the destination table; empty means "data".
	Table string `json:"table"`

	// BatchSize overrides the loader batch size when positive.
	BatchSize int `json:"batch_size"`
}

// Metrics configures the optional metrics backend.
type Metrics struct {
	// Backend selects the implementation: "pushgateway" or "none"/empty.
	Backend string `json:"backend"`

	PushgatewayURL string `json:"pushgateway_url"`
}

// Load reads and decodes a profile file.
func Load(path string) (Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return Profile{}, fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()

	var p Profile
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}
