package airroutes

import (
	"context"
	"io"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBConnection is what the schema, loader and verification code needs from
// a database. db.PoolAdapter implements it over pgxpool; tests use fakes.
type DBConnection interface {
	// Exec runs sql without returning rows. Without args, sql may hold
	// several statements, which is how the schema script is applied.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// QueryRow never returns nil; errors surface from Scan.
	QueryRow(ctx context.Context, sql string, args ...any) Row

	// Query returns rows the caller must Close.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)

	// CopyFrom streams r as the data of a COPY ... FROM STDIN statement and
	// returns its command tag, whose RowsAffected is the loaded row count.
	CopyFrom(ctx context.Context, r io.Reader, sql string) (pgconn.CommandTag, error)

	// Acquire pins one connection, for CREATE/DROP DATABASE and for the
	// transaction of a reset. Release it when done.
	Acquire(ctx context.Context) (PooledConnection, error)
}

type Row interface {
	Scan(dest ...any) error
}

// Rows is a forward-only cursor.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// PooledConnection is a connection held outside the pool until Release.
type PooledConnection interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Release()
}
