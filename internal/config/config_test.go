package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeProfile(t, `{
		"job": "daily_export",
		"input":   { "delimiter": ";", "skip_rows": 1, "custom_headers": ["a", "b"] },
		"convert": { "columns": "name:str/upper", "dedup": true },
		"output":  { "indent": 2, "id": "pk" },
		"storage": { "dsn": "out.db", "table": "export", "batch_size": 500 },
		"metrics": { "backend": "pushgateway" }
	}`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Job != "daily_export" {
		t.Fatalf("job got=%q; want daily_export", p.Job)
	}
	if p.Input.Delimiter != ";" || p.Input.SkipRows != 1 {
		t.Fatalf("input got=%+v", p.Input)
	}
	if len(p.Input.CustomHeaders) != 2 {
		t.Fatalf("custom headers got=%v; want 2 entries", p.Input.CustomHeaders)
	}
	if !p.Convert.Dedup || p.Convert.Columns != "name:str/upper" {
		t.Fatalf("convert got=%+v", p.Convert)
	}
	if p.Output.Indent == nil || *p.Output.Indent != 2 {
		t.Fatalf("indent got=%v; want 2", p.Output.Indent)
	}
	if p.Storage.BatchSize != 500 {
		t.Fatalf("batch_size got=%d; want 500", p.Storage.BatchSize)
	}
}

func TestLoad_IndentAbsentIsNil(t *testing.T) {
	t.Parallel()

	p, err := Load(writeProfile(t, `{"output": {"sort_keys": true}}`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Output.Indent != nil {
		t.Fatalf("indent got=%v; want nil", *p.Output.Indent)
	}
	if !p.Output.SortKeys {
		t.Fatalf("sort_keys not decoded")
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("want error for missing file")
	}
	if _, err := Load(writeProfile(t, "{not json")); err == nil {
		t.Fatalf("want error for malformed JSON")
	}
}
