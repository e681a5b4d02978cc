// Package ddl defines a small, backend-agnostic model for SQL DDL and a
// helper to render CREATE TABLE statements from it.
//
// The model stays generic: identifiers are held unquoted and quoting happens
// at render time through a caller-supplied function, so each backend can
// apply its own dialect rules without reimplementing the builder.
package ddl

import (
	"fmt"
	"strings"
)

// ColumnDef describes a single column in a table definition.
type ColumnDef struct {
	// Name is the logical column name, unquoted.
	Name string

	// SQLType is the target SQL type (e.g. TEXT, BIGINT, DOUBLE PRECISION).
	SQLType string
}

// TableDef holds the possibly schema-qualified table name in dotted form and
// an ordered list of columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// BuildCreateTable renders a CREATE TABLE IF NOT EXISTS statement for t.
// quote escapes a single identifier segment; dotted FQN segments are quoted
// individually.
func BuildCreateTable(t TableDef, quote func(string) string) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQL type", name)
		}
		cols = append(cols, quote(name)+" "+typ)
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		quoteFQN(fqn, quote),
		strings.Join(cols, ",\n  "),
	), nil
}

func quoteFQN(fqn string, quote func(string) string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, quote(p))
	}
	return strings.Join(out, ".")
}
