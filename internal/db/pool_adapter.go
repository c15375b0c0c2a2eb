package db

import (
	"context"
	"io"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// PoolAdapter exposes a pgx pool as an airroutes.DBConnection. Safe for
// concurrent use.
type PoolAdapter struct {
	pool *pgxpool.Pool
}

func NewPoolAdapter(pool *pgxpool.Pool) *PoolAdapter {
	return &PoolAdapter{pool: pool}
}

// Pool returns the underlying pool, for gorm.
func (p *PoolAdapter) Pool() *pgxpool.Pool { return p.pool }

func (p *PoolAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

func (p *PoolAdapter) QueryRow(ctx context.Context, sql string, args ...any) airroutes.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

func (p *PoolAdapter) Query(ctx context.Context, sql string, args ...any) (airroutes.Rows, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CopyFrom streams r as the data of the COPY FROM STDIN statement sql. The
// COPY runs on one connection and commits on its own.
func (p *PoolAdapter) CopyFrom(ctx context.Context, r io.Reader, sql string) (pgconn.CommandTag, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	defer conn.Release()
	return conn.Conn().PgConn().CopyFrom(ctx, r, sql)
}

func (p *PoolAdapter) Acquire(ctx context.Context) (airroutes.PooledConnection, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return pooledConn{conn}, nil
}

// pooledConn already has the Exec and Release of PooledConnection.
type pooledConn struct {
	*pgxpool.Conn
}

var (
	_ airroutes.DBConnection     = (*PoolAdapter)(nil)
	_ airroutes.PooledConnection = pooledConn{}
)
