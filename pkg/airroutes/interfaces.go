package airroutes

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Logger receives progress of provisioning, loading and verification.
// Implementations must be safe for concurrent use.
type Logger interface {
	// Verbose reports per-step detail: resolved files, COPY statements,
	// retries. Shown only with --verbose.
	Verbose(format string, args ...any)

	// Info reports completed steps.
	Info(format string, args ...any)

	// Error reports failures and rejected rows.
	Error(format string, args ...any)
}

// Connector opens a pool to one database. Implementations differ in how
// they authenticate: password, RDS IAM, Cloud SQL IAM or Entra ID.
type Connector interface {
	// Connect returns a pool the caller must close.
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}

// ConnectorFactory builds a Connector for a resolved connection configuration.
type ConnectorFactory func(*ConnectionConfig) (Connector, error)

// DatabaseManager runs the server-level statements of `airroutes init`
// through a connection to the maintenance database.
type DatabaseManager interface {
	Exists(ctx context.Context, conn DBConnection, dbName string) (bool, error)
	Create(ctx context.Context, conn DBConnection, dbName string) error
	Drop(ctx context.Context, conn DBConnection, dbName string) error

	// TerminateConnections ends other sessions on dbName so it can be dropped.
	TerminateConnections(ctx context.Context, conn DBConnection, dbName string) error
}

// ErrorClassifier decides whether a failed connection attempt is worth
// repeating. Constraint violations never are.
type ErrorClassifier interface {
	IsTransient(err error) bool
}

// BackoffStrategy spaces out connection attempts.
type BackoffStrategy interface {
	// NextDelay returns the wait before retry number attempt, counting from 0.
	NextDelay(attempt int) time.Duration

	// MaxAttempts returns the number of retries; 0 disables retrying.
	MaxAttempts() int
}
