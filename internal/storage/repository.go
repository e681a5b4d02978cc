// Package storage contains storage-agnostic contracts and utilities for
// loading converted documents into a database.
//
// Concrete backends (Postgres, SQLite) live in subpackages and register
// themselves with this package's factory at init time; callers import
// storage/all for the side effect and then remain fully backend-agnostic.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"csv2json/internal/records"
)

// Config describes the destination for a load.
type Config struct {
	// Kind selects the backend ("postgres", "sqlite"). Empty means infer
	// from the DSN via KindFromDSN.
	Kind string

	// DSN is the backend connection string.
	DSN string

	// Table is the destination table name, possibly schema-qualified.
	Table string

	// Columns is the ordered list of destination columns.
	Columns []string

	// Types carries the per-column kinds used for DDL generation.
	Types records.ColumnTypes
}

// Repository is the minimal contract a storage backend must provide.
type Repository interface {
	// CopyFrom bulk-inserts rows aligned to the given column order and
	// returns the number of rows inserted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec executes an arbitrary SQL statement (typically DDL).
	Exec(ctx context.Context, sql string) error

	// Close releases the underlying connection resources.
	Close()
}

// Factory constructs a Repository for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a backend kind. It is
// called from backend packages' init() functions.
func Register(kind string, fn Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = fn
}

// New opens a Repository for cfg. When cfg.Kind is empty the kind is inferred
// from the DSN.
func New(ctx context.Context, cfg Config) (Repository, error) {
	kind := cfg.Kind
	if kind == "" {
		kind = KindFromDSN(cfg.DSN)
	}
	regMu.RLock()
	fn, ok := factories[kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown backend kind %q (registered: %s)",
			kind, strings.Join(Kinds(), ", "))
	}
	cfg.Kind = kind
	return fn(ctx, cfg)
}

// Kinds returns the registered backend kinds, sorted. The returned slice is a
// copy; callers may mutate it freely.
func Kinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// KindFromDSN infers the backend kind from a connection string. URL-style
// Postgres DSNs are recognized by scheme; everything else is treated as a
// SQLite path.
func KindFromDSN(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres"
	default:
		return "sqlite"
	}
}
