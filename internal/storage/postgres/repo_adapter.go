// Wires the Postgres backend into the storage factory. Registration happens
// in init, so callers never import this package directly.
package postgres

import (
	"context"
	"fmt"

	"csv2json/internal/ddl"
	"csv2json/internal/records"
	"csv2json/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// wrappedRepo adapts *postgres.Repository to the storage.Repository
// interface, adding a Close method that calls the cleanup function returned
// by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var _ storage.Repository = (*wrappedRepo)(nil)

// sqlType maps a column kind onto a Postgres type.
func sqlType(k records.Kind) string {
	switch k {
	case records.KindInt:
		return "BIGINT"
	case records.KindFloat:
		return "DOUBLE PRECISION"
	case records.KindBool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

func tableDef(cfg storage.Config) ddl.TableDef {
	cols := make([]ddl.ColumnDef, len(cfg.Columns))
	for i, name := range cfg.Columns {
		// Columns with no inferred kind (positional loads) stay TEXT.
		typ := "TEXT"
		if k, ok := cfg.Types[name]; ok {
			typ = sqlType(k)
		}
		cols[i] = ddl.ColumnDef{Name: name, SQLType: typ}
	}
	return ddl.TableDef{FQN: cfg.Table, Columns: cols}
}

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:     cfg.DSN,
			Table:   cfg.Table,
			Columns: cfg.Columns,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("postgres",
		func(ctx context.Context, repo storage.Repository, cfg storage.Config) error {
			stmt, err := ddl.BuildCreateTable(tableDef(cfg), pgIdent)
			if err != nil {
				return fmt.Errorf("build create table: %w", err)
			}
			return repo.Exec(ctx, stmt)
		})
}
