package transform

import (
	"reflect"
	"testing"

	"csv2json/internal/records"
)

func TestParseDirectives(t *testing.T) {
	t.Parallel()

	got := ParseDirectives("name:str/trim/upper,age:int,city:text/replace:NY=New York")

	want := map[string]Spec{
		"name": {
			Type: records.KindString,
			Ops: []Op{
				{Kind: OpTrim, Name: "trim"},
				{Kind: OpUpper, Name: "upper"},
			},
		},
		"age": {Type: records.KindInt},
		"city": {
			Type: records.KindString,
			Ops:  []Op{{Kind: OpReplace, Old: "NY", New: "New York"}},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%#v; want %#v", got, want)
	}
}

func TestParseDirectives_Edges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty string", "", 0},
		{"entry without colon ignored", "name", 0},
		{"empty entries dropped", ",,a:int,", 1},
		{"empty name ignored", ":int", 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ParseDirectives(tt.in); len(got) != tt.want {
				t.Fatalf("got=%d specs (%v); want %d", len(got), got, tt.want)
			}
		})
	}
}

func TestParseDirectives_TypeSynonyms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want records.Kind
	}{
		{"c:str", records.KindString},
		{"c:text", records.KindString},
		{"c:string", records.KindString},
		{"c:num", records.KindFloat},
		{"c:float", records.KindFloat},
		{"c:int", records.KindInt},
		{"c:integer", records.KindInt},
		{"c:bool", records.KindBool},
		{"c:BOOLEAN", records.KindBool},
		{"c:mystery", records.KindString},
	}
	for _, tt := range tests {
		tt := tt
		got := ParseDirectives(tt.in)["c"]
		if got.Type != tt.want {
			t.Fatalf("ParseDirectives(%q) type got=%v; want %v", tt.in, got.Type, tt.want)
		}
	}
}

// A replace segment with an '=' in the replacement keeps everything after the
// first '='; one without '=' is dropped entirely.
func TestParseOp_Replace(t *testing.T) {
	t.Parallel()

	op, ok := parseOp("replace:a=b=c")
	if !ok {
		t.Fatalf("expected op")
	}
	if op.Old != "a" || op.New != "b=c" {
		t.Fatalf("got old=%q new=%q; want a, b=c", op.Old, op.New)
	}

	if _, ok := parseOp("replace:noequals"); ok {
		t.Fatalf("replace without '=' should be dropped")
	}
}

// Unknown operation names parse as inert no-ops rather than failing the
// whole directive.
func TestParseOp_UnknownRetained(t *testing.T) {
	t.Parallel()

	op, ok := parseOp("Sparkle")
	if !ok {
		t.Fatalf("expected op")
	}
	if op.Kind != OpUnknown || op.Name != "sparkle" {
		t.Fatalf("got=%#v; want unknown op named sparkle", op)
	}
}
