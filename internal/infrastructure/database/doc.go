// Package database manages the SQLite connection and schema migrations.
//
// The connection is tuned for SQLite's single-writer model: one pooled
// connection, WAL journalling when configured, and a busy timeout so a
// competing reader waits instead of failing. Migrations are embedded *.sql
// files applied in version order, each in its own transaction, tracked in
// the schema_migrations table. The migrations package registers the embedded
// filesystem via its init, so callers only import it for side effects.
package database
