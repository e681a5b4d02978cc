package storage

import (
	"context"
	"fmt"
	"sync"
)

// DDLBootstrapper is a backend-specific function that derives a CREATE TABLE
// statement from the load config (table name, columns, column kinds) and
// applies it via repo.Exec.
//
// Backends register their implementation for a given storage kind at init
// time, next to their Repository factory.
type DDLBootstrapper func(ctx context.Context, repo Repository, cfg Config) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) a DDLBootstrapper for the given storage
// kind. It is typically called from backend packages' init() functions.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable locates the DDLBootstrapper for cfg.Kind and invokes it.
// Callers do not need to know which backend they are using.
func EnsureTable(ctx context.Context, repo Repository, cfg Config) error {
	kind := cfg.Kind
	if kind == "" {
		kind = KindFromDSN(cfg.DSN)
	}
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage kind %q", kind)
	}
	return fn(ctx, repo, cfg)
}
