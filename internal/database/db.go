// Package database defines the storage contract repositories program
// against. The concrete driver lives in the postgres subpackage.
package database

import (
	"context"
	"database/sql"
)

// DB is the pooled connection handle shared by the repositories.
// Exec reports the number of rows affected so guarded updates can
// distinguish a miss from a hit.
type DB interface {
	Ping(ctx context.Context) error
	Close() error

	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row

	Begin(ctx context.Context) (Tx, error)

	// SQLDB exposes a database/sql view of the pool for tooling that
	// needs it, such as the migration runner.
	SQLDB() *sql.DB
}

// Tx mirrors DB within a transaction. Rollback after Commit is a no-op.
type Tx interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Rows interface {
	Close()
	Next() bool
	Scan(dest ...any) error
	Err() error
}

type Row interface {
	Scan(dest ...any) error
}
