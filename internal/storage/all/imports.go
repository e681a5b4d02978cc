// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories and DDL bootstrappers with the
// storage package.
//
// Importing this package makes the following storage kinds available at
// runtime:
//
//   - "postgres" (csv2json/internal/storage/postgres)
//   - "sqlite"   (csv2json/internal/storage/sqlite)
//
// Typical usage (in cmd/csv2json/main.go or a similar wiring layer):
//
//	import _ "csv2json/internal/storage/all" // enable all built-in backends
//
// After that the caller stays fully backend-agnostic: it opens a repository
// with storage.New, optionally bootstraps the table with storage.EnsureTable,
// and loads through the storage.Repository interface regardless of whether
// the underlying backend is Postgres or SQLite.
//
// A binary that only needs one backend can import that backend package
// directly instead of this one.
package all

import (
	_ "csv2json/internal/storage/postgres"
	_ "csv2json/internal/storage/sqlite"
)
