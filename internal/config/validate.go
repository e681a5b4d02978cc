// This file adds a lightweight linter/validator for Profile values. It
// performs static checks over a decoded Profile and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"csv2json/internal/sniff"
	"csv2json/internal/transform"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be
	// surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Profile.
//
// Path is a dotted path into the profile (e.g. "input.delimiter",
// "storage.table"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation of a Profile.
//
// It does not mutate the profile. Callers decide whether warnings are fatal.
func Validate(p Profile) []Issue {
	var issues []Issue
	issues = append(issues, validateInput(p.Input)...)
	issues = append(issues, validateConvert(p.Convert)...)
	issues = append(issues, validateOutput(p.Output, p.Input)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateMetrics(p.Metrics)...)
	return issues
}

func validateInput(in Input) []Issue {
	var issues []Issue

	if _, err := sniff.DecodeDelimiter(in.Delimiter); err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "input.delimiter",
			Message:  err.Error(),
		})
	}
	if in.Quote != "" && utf8.RuneCountInString(in.Quote) != 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "input.quote",
			Message:  fmt.Sprintf("quote must be a single character, got %q", in.Quote),
		})
	}
	if in.SkipRows < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "input.skip_rows",
			Message:  "skip_rows must not be negative",
		})
	}
	for i, h := range in.CustomHeaders {
		if strings.TrimSpace(h) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("input.custom_headers[%d]", i),
				Message:  "empty header name; the column will be dropped from keyed records",
			})
		}
	}
	return issues
}

func validateConvert(c Convert) []Issue {
	var issues []Issue

	if c.Columns != "" {
		specs := transform.ParseDirectives(c.Columns)
		if len(specs) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "convert.columns",
				Message:  "no parseable column directives; expected entries of the form name:type/op/...",
			})
		}
		if c.DisableTypeDetection {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "convert.columns",
				Message:  "column directives have no effect while type detection is disabled",
			})
		}
	}
	return issues
}

func validateOutput(o Output, in Input) []Issue {
	var issues []Issue

	if o.Indent != nil && *o.Indent < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.indent",
			Message:  "indent must not be negative",
		})
	}
	if o.ID != "" && in.MissingHeader && len(in.CustomHeaders) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "output.id",
			Message:  "id re-keying has no effect on positional (headerless) output",
		})
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if s.DSN == "" {
		if s.BatchSize != 0 || (s.Table != "" && s.Table != "data") {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "storage",
				Message:  "storage options are ignored without a dsn",
			})
		}
		return issues
	}
	if s.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.batch_size",
			Message:  "batch_size must not be negative",
		})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue

	switch m.Backend {
	case "", "none", "pushgateway":
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown backend %q; metrics will be disabled", m.Backend),
		})
	}
	if m.PushgatewayURL != "" && m.Backend != "pushgateway" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.pushgateway_url",
			Message:  "pushgateway_url is ignored unless backend is \"pushgateway\"",
		})
	}
	return issues
}
