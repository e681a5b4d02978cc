package config

import (
	"strings"
	"testing"
)

func issueAt(issues []Issue, path string) *Issue {
	for i := range issues {
		if strings.HasPrefix(issues[i].Path, path) {
			return &issues[i]
		}
	}
	return nil
}

func TestValidate_CleanProfile(t *testing.T) {
	t.Parallel()

	p := Profile{
		Job: "export",
		Input: Input{
			Delimiter: ";",
			SkipRows:  1,
		},
		Convert: Convert{Columns: "name:str/upper,age:int"},
		Storage: Storage{DSN: "out.db", Table: "export"},
		Metrics: Metrics{Backend: "pushgateway", PushgatewayURL: "http://localhost:9091"},
	}
	if issues := Validate(p); len(issues) != 0 {
		t.Fatalf("got issues: %v", issues)
	}
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    Profile
		path string
	}{
		{"bad delimiter", Profile{Input: Input{Delimiter: "ab"}}, "input.delimiter"},
		{"multi-rune quote", Profile{Input: Input{Quote: "''"}}, "input.quote"},
		{"negative skip rows", Profile{Input: Input{SkipRows: -1}}, "input.skip_rows"},
		{"negative batch size", Profile{Storage: Storage{DSN: "x", BatchSize: -1}}, "storage.batch_size"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			iss := issueAt(Validate(tt.p), tt.path)
			if iss == nil {
				t.Fatalf("no issue at %s: %v", tt.path, Validate(tt.p))
			}
			if iss.Severity != SeverityError {
				t.Fatalf("severity got=%s; want error", iss.Severity)
			}
		})
	}
}

func TestValidate_NegativeIndent(t *testing.T) {
	t.Parallel()

	neg := -1
	p := Profile{Output: Output{Indent: &neg}}
	iss := issueAt(Validate(p), "output.indent")
	if iss == nil || iss.Severity != SeverityError {
		t.Fatalf("got=%v; want error at output.indent", iss)
	}
}

func TestValidate_Warnings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    Profile
		path string
	}{
		{
			"directives with detection disabled",
			Profile{Convert: Convert{Columns: "a:int", DisableTypeDetection: true}},
			"convert.columns",
		},
		{
			"unparseable directives",
			Profile{Convert: Convert{Columns: "no-colon-here"}},
			"convert.columns",
		},
		{
			"id on positional output",
			Profile{Input: Input{MissingHeader: true}, Output: Output{ID: "pk"}},
			"output.id",
		},
		{
			"storage options without dsn",
			Profile{Storage: Storage{Table: "custom"}},
			"storage",
		},
		{
			"unknown metrics backend",
			Profile{Metrics: Metrics{Backend: "statsd"}},
			"metrics.backend",
		},
		{
			"pushgateway url without backend",
			Profile{Metrics: Metrics{PushgatewayURL: "http://x"}},
			"metrics.pushgateway_url",
		},
		{
			"empty custom header",
			Profile{Input: Input{CustomHeaders: []string{"a", " "}}},
			"input.custom_headers[1]",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			iss := issueAt(Validate(tt.p), tt.path)
			if iss == nil {
				t.Fatalf("no issue at %s: %v", tt.path, Validate(tt.p))
			}
			if iss.Severity != SeverityWarning {
				t.Fatalf("severity got=%s; want warning", iss.Severity)
			}
		})
	}
}

func TestIssue_Error(t *testing.T) {
	t.Parallel()

	iss := Issue{Severity: SeverityError, Path: "input.delimiter", Message: "boom"}
	want := "error at input.delimiter: boom"
	if got := iss.Error(); got != want {
		t.Fatalf("got=%q; want %q", got, want)
	}
}
