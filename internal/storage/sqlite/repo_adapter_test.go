package sqlite

import (
	"context"
	"strings"
	"testing"

	"csv2json/internal/records"
	"csv2json/internal/storage"
)

// TestFactoryWiring verifies that the init-registered factory reaches
// NewRepository with the translated config, without opening a real database.
func TestFactoryWiring(t *testing.T) {
	orig := newRepository
	t.Cleanup(func() { newRepository = orig })

	var gotCfg Config
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return &Repository{cfg: cfg}, func() {}, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{
		Kind:    "sqlite",
		DSN:     "out.db",
		Table:   "events",
		Columns: []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	defer repo.Close()

	if gotCfg.DSN != "out.db" || gotCfg.Table != "events" {
		t.Fatalf("config got=%+v", gotCfg)
	}
	if len(gotCfg.Columns) != 2 {
		t.Fatalf("columns got=%v", gotCfg.Columns)
	}
}

func TestSQLType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind records.Kind
		want string
	}{
		{records.KindInt, "INTEGER"},
		{records.KindFloat, "REAL"},
		{records.KindBool, "INTEGER"},
		{records.KindString, "TEXT"},
		{records.KindNull, "TEXT"},
	}
	for _, tt := range tests {
		if got := sqlType(tt.kind); got != tt.want {
			t.Fatalf("sqlType(%v) got=%q; want %q", tt.kind, got, tt.want)
		}
	}
}

func TestTableDef(t *testing.T) {
	t.Parallel()

	def := tableDef(storage.Config{
		Table:   "events",
		Columns: []string{"id", "score", "name"},
		Types: records.ColumnTypes{
			"id":    records.KindInt,
			"score": records.KindFloat,
			"name":  records.KindString,
		},
	})

	if def.FQN != "events" || len(def.Columns) != 3 {
		t.Fatalf("got=%+v", def)
	}
	if def.Columns[0].SQLType != "INTEGER" || def.Columns[1].SQLType != "REAL" {
		t.Fatalf("column types got=%+v", def.Columns)
	}
	// Missing type entries default to TEXT.
	def = tableDef(storage.Config{Table: "t", Columns: []string{"x"}})
	if def.Columns[0].SQLType != "TEXT" {
		t.Fatalf("default type got=%q; want TEXT", def.Columns[0].SQLType)
	}
}

func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	if got := quoteIdent(`we"ird`); got != `"we""ird"` {
		t.Fatalf("got=%q", got)
	}
	if got := quoteIdent("plain"); !strings.HasPrefix(got, `"`) {
		t.Fatalf("got=%q; want quoted", got)
	}
}
