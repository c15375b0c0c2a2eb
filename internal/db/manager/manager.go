package manager

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// Manager is stateless; it runs every statement on the connection it is given.
type Manager struct{}

func New() airroutes.DatabaseManager {
	return Manager{}
}

func (Manager) Exists(ctx context.Context, conn airroutes.DBConnection, dbName string) (bool, error) {
	var exists bool
	err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, dbName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check database existence: %w", err)
	}
	return exists, nil
}

func (Manager) Create(ctx context.Context, conn airroutes.DBConnection, dbName string) error {
	return outsideTransaction(ctx, conn, "CREATE DATABASE", dbName)
}

// Drop refuses template databases.
func (Manager) Drop(ctx context.Context, conn airroutes.DBConnection, dbName string) error {
	if airroutes.IsTemplateDatabase(dbName) {
		return fmt.Errorf("refusing to drop template database %q: %w", dbName, airroutes.ErrInvalidConfig)
	}
	return outsideTransaction(ctx, conn, "DROP DATABASE", dbName)
}

// TerminateConnections ends every session on dbName except the caller's.
func (Manager) TerminateConnections(ctx context.Context, conn airroutes.DBConnection, dbName string) error {
	const q = `SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = $1 AND pid <> pg_backend_pid()`
	if _, err := conn.Exec(ctx, q, dbName); err != nil {
		return fmt.Errorf("failed to terminate connections to database %q: %w", dbName, err)
	}
	return nil
}

// outsideTransaction runs "<verb> <dbName>" on a dedicated connection:
// CREATE and DROP DATABASE refuse to run inside a transaction block.
func outsideTransaction(ctx context.Context, conn airroutes.DBConnection, verb, dbName string) error {
	pc, err := conn.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer pc.Release()

	if _, err := pc.Exec(ctx, verb+" "+pgx.Identifier{dbName}.Sanitize()); err != nil {
		return fmt.Errorf("%s %q failed: %w: %w", verb, dbName, airroutes.ErrExecutionFailed, err)
	}
	return nil
}

var _ airroutes.DatabaseManager = Manager{}
