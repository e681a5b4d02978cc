package strict

import (
	"errors"
	"reflect"
	"testing"

	"csv2json/internal/records"
)

// ---------------------------------------------------------------------------
// Parse, keyed mode
// ---------------------------------------------------------------------------

func TestParse_Keyed(t *testing.T) {
	t.Parallel()

	data := []byte("name,age\nalice,30\nbob,25\n")
	doc, err := Parse(data, Options{Delimiter: ','})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !reflect.DeepEqual(doc.Columns, []string{"name", "age"}) {
		t.Fatalf("columns got=%v", doc.Columns)
	}
	want := []records.Record{
		{"name": "alice", "age": "30"},
		{"name": "bob", "age": "25"},
	}
	if !reflect.DeepEqual(doc.Records, want) {
		t.Fatalf("got=%#v; want %#v", doc.Records, want)
	}
}

func TestParse_NullNormalization(t *testing.T) {
	t.Parallel()

	data := []byte("a,b,c\nNone,null,  \nx,y,z\n")
	doc, err := Parse(data, Options{Delimiter: ','})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// The first data row is fully null and must be dropped.
	if len(doc.Records) != 1 {
		t.Fatalf("got %d records; want 1 (%#v)", len(doc.Records), doc.Records)
	}
	if doc.Records[0]["a"] != "x" {
		t.Fatalf("got=%#v", doc.Records[0])
	}
}

func TestParse_PartialNullKept(t *testing.T) {
	t.Parallel()

	data := []byte("a,b\nx,None\n")
	doc, err := Parse(data, Options{Delimiter: ','})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := records.Record{"a": "x", "b": nil}
	if !reflect.DeepEqual(doc.Records[0], want) {
		t.Fatalf("got=%#v; want %#v", doc.Records[0], want)
	}
}

func TestParse_RemoveEmpty(t *testing.T) {
	t.Parallel()

	data := []byte("a,b\nx,\n")
	doc, err := Parse(data, Options{Delimiter: ',', RemoveEmpty: true})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := records.Record{"a": "x"}
	if !reflect.DeepEqual(doc.Records[0], want) {
		t.Fatalf("got=%#v; want %#v", doc.Records[0], want)
	}
}

func TestParse_NullishHeadersDropped(t *testing.T) {
	t.Parallel()

	data := []byte("a,,NULL,b\n1,2,3,4\n")
	doc, err := Parse(data, Options{Delimiter: ','})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !reflect.DeepEqual(doc.Columns, []string{"a", "b"}) {
		t.Fatalf("columns got=%v; want [a b]", doc.Columns)
	}
	want := records.Record{"a": "1", "b": "4"}
	if !reflect.DeepEqual(doc.Records[0], want) {
		t.Fatalf("got=%#v; want %#v", doc.Records[0], want)
	}
}

func TestParse_ShortRowPadsWithNull(t *testing.T) {
	t.Parallel()

	data := []byte("a,b,c\n1,2\n")
	doc, err := Parse(data, Options{Delimiter: ','})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := records.Record{"a": "1", "b": "2", "c": nil}
	if !reflect.DeepEqual(doc.Records[0], want) {
		t.Fatalf("got=%#v; want %#v", doc.Records[0], want)
	}
}

func TestParse_CustomHeaders(t *testing.T) {
	t.Parallel()

	// With custom headers the first line is data; SkipRows drops the in-file
	// header row.
	data := []byte("old_a,old_b\n1,2\n")
	doc, err := Parse(data, Options{
		Delimiter:     ',',
		CustomHeaders: []string{"x", "y"},
		SkipRows:      1,
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := records.Record{"x": "1", "y": "2"}
	if !reflect.DeepEqual(doc.Records[0], want) {
		t.Fatalf("got=%#v; want %#v", doc.Records[0], want)
	}
}

func TestParse_QuotedFields(t *testing.T) {
	t.Parallel()

	data := []byte("a,b\n\"x, with comma\",\"line\nbreak\"\n")
	doc, err := Parse(data, Options{Delimiter: ','})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := records.Record{"a": "x, with comma", "b": "line\nbreak"}
	if !reflect.DeepEqual(doc.Records[0], want) {
		t.Fatalf("got=%#v; want %#v", doc.Records[0], want)
	}
}

func TestParse_BOMStripped(t *testing.T) {
	t.Parallel()

	data := []byte("\uFEFFa,b\n1,2\n")
	doc, err := Parse(data, Options{Delimiter: ','})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !reflect.DeepEqual(doc.Columns, []string{"a", "b"}) {
		t.Fatalf("columns got=%q; want [a b]", doc.Columns)
	}
}

// Unbalanced quoting must abort with *StructuralError, never soft-skip.
func TestParse_StructuralError(t *testing.T) {
	t.Parallel()

	data := []byte("a,b\nx,\"unterminated\ny,z\n")
	_, err := Parse(data, Options{Delimiter: ','})
	if err == nil {
		t.Fatalf("expected error")
	}
	var se *StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("error type got=%T; want *StructuralError", err)
	}
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	doc, err := Parse(nil, Options{Delimiter: ','})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Records == nil || len(doc.Records) != 0 {
		t.Fatalf("got=%#v; want empty non-nil records", doc.Records)
	}
}

// ---------------------------------------------------------------------------
// Positional mode
// ---------------------------------------------------------------------------

func TestParse_Positional(t *testing.T) {
	t.Parallel()

	data := []byte("1,2,3\n4,5,6\n")
	doc, err := Parse(data, Options{Delimiter: ',', MissingHeader: true})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !doc.Positional() {
		t.Fatalf("expected positional document")
	}
	want := []records.Row{{"1", "2", "3"}, {"4", "5", "6"}}
	if !reflect.DeepEqual(doc.Rows, want) {
		t.Fatalf("got=%#v; want %#v", doc.Rows, want)
	}
}

// ---------------------------------------------------------------------------
// PrepareLines
// ---------------------------------------------------------------------------

func TestPrepareLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		skip int
		want []string
	}{
		{"comments removed", "# c\na\n# d\nb\n", 0, []string{"a", "b"}},
		{"crlf stripped", "a\r\nb\r\n", 0, []string{"a", "b"}},
		{"trailing blank trimmed", "a\nb\n\n", 0, []string{"a", "b"}},
		{"skip after comment removal", "# c\na\nb\n", 1, []string{"b"}},
		{"skip beyond input", "a\n", 5, []string{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := PrepareLines([]byte(tt.data), tt.skip)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got=%#v; want %#v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Tab layout
// ---------------------------------------------------------------------------

func TestParse_TabRunsCollapse(t *testing.T) {
	t.Parallel()

	data := []byte("a\tb\tc\n1\t\t2\t3\n")
	doc, err := Parse(data, Options{Delimiter: '\t'})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := records.Record{"a": "1", "b": "2", "c": "3"}
	if !reflect.DeepEqual(doc.Records[0], want) {
		t.Fatalf("got=%#v; want %#v", doc.Records[0], want)
	}
}

func TestParse_TabOverflowJoinsLastColumn(t *testing.T) {
	t.Parallel()

	data := []byte("a\tb\n1\tx\ty\tz\n")
	doc, err := Parse(data, Options{Delimiter: '\t'})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := records.Record{"a": "1", "b": "x y z"}
	if !reflect.DeepEqual(doc.Records[0], want) {
		t.Fatalf("got=%#v; want %#v", doc.Records[0], want)
	}
}

func TestParse_TabEmptyFieldPreserved(t *testing.T) {
	t.Parallel()

	// Plain TSV: an empty middle field must stay in its column and not shift
	// the values after it.
	data := []byte("a\tb\tc\n1\t\t3\n")
	doc, err := Parse(data, Options{Delimiter: '\t'})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := records.Record{"a": "1", "b": nil, "c": "3"}
	if !reflect.DeepEqual(doc.Records[0], want) {
		t.Fatalf("got=%#v; want %#v", doc.Records[0], want)
	}
}

func TestParse_TabQuotedFieldKeepsTab(t *testing.T) {
	t.Parallel()

	data := []byte("a\tb\n\"hello\tworld\"\t2\n")
	doc, err := Parse(data, Options{Delimiter: '\t'})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := records.Record{"a": "hello\tworld", "b": "2"}
	if !reflect.DeepEqual(doc.Records[0], want) {
		t.Fatalf("got=%#v; want %#v", doc.Records[0], want)
	}
}

func TestParse_TabStructuralError(t *testing.T) {
	t.Parallel()

	data := []byte("a\tb\n\"unterminated\t2\n")
	_, err := Parse(data, Options{Delimiter: '\t'})
	var serr *StructuralError
	if !errors.As(err, &serr) {
		t.Fatalf("got err=%v; want *StructuralError", err)
	}
}

func TestTabPaddedLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
		want  bool
	}{
		{"padded alignment", []string{"a\tb\tc", "1\t\t2\t3"}, true},
		{"plain tsv with empty field", []string{"a\tb\tc", "1\t\t3"}, false},
		{"no runs", []string{"a\tb", "1\t2"}, false},
		{"empty fields everywhere stay plain", []string{"a\t\tb", "1\t\t2"}, false},
		{"empty document", nil, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tabPaddedLayout(tt.lines); got != tt.want {
				t.Fatalf("got=%v; want %v", got, tt.want)
			}
		})
	}
}

func TestSplitTabRun(t *testing.T) {
	t.Parallel()

	got := splitTabRun("a\t\t\tb\tc")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%#v; want %#v", got, want)
	}
}

func TestJoinOverflow(t *testing.T) {
	t.Parallel()

	got := joinOverflow([]string{"a", "b"}, []string{"1", "x", "y", "z"})
	want := []string{"1", "x y z"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%#v; want %#v", got, want)
	}
	// No overflow: row passes through untouched.
	row := []string{"1", "2"}
	if got := joinOverflow([]string{"a", "b"}, row); !reflect.DeepEqual(got, row) {
		t.Fatalf("got=%#v; want %#v", got, row)
	}
}
