package testing

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/airroutes/internal/db"
	"github.com/vvka-141/airroutes/internal/db/manager"
	"github.com/vvka-141/airroutes/internal/testinfra"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// TestConnEnv names a PostgreSQL server to use instead of a container.
const TestConnEnv = "AIRROUTES_TEST_CONN"

// server is started at most once per test binary.
var server struct {
	once sync.Once
	conn string
	err  error
}

// RequireDatabase returns a superuser connection string to the maintenance
// database of the test server: $AIRROUTES_TEST_CONN, else a shared container.
// The test is skipped in -short mode or when neither is available.
func RequireDatabase(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
	if conn := os.Getenv(TestConnEnv); conn != "" {
		return conn
	}

	server.once.Do(func() {
		ctr, err := testinfra.StartPostgres(context.Background())
		if err != nil {
			server.err = err
			return
		}
		server.conn = ctr.ConnString
	})
	if server.err != nil {
		t.Skipf("%s not set and no container runtime: %v", TestConnEnv, server.err)
	}
	return server.conn
}

// UniqueDBName returns a database name that does not collide across tests.
func UniqueDBName() string {
	return "airroutes_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// TestDB is an empty database created for one test and dropped after it.
type TestDB struct {
	Name          string
	Config        *airroutes.ConnectionConfig // targets Name
	MaintenanceDB string
	Conn          *db.PoolAdapter
}

func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	maint, connString := MaintenanceConn(t)
	cfg, err := db.ParseConnectionString(connString)
	if err != nil {
		t.Fatalf("test connection string: %v", err)
	}

	name := UniqueDBName()
	if err := manager.New().Create(context.Background(), maint, name); err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	t.Cleanup(func() { CleanupTestDB(t, connString, name) })

	target := cfg.WithDatabase(name)
	return &TestDB{
		Name:          name,
		Config:        target,
		MaintenanceDB: cfg.Database,
		Conn:          db.NewPoolAdapter(openPool(t, db.BuildConnectionString(target))),
	}
}

// MaintenanceConn connects to the maintenance database of the test server
// and returns the connection with the string it was opened with.
func MaintenanceConn(t *testing.T) (*db.PoolAdapter, string) {
	t.Helper()
	connString := RequireDatabase(t)
	return db.NewPoolAdapter(openPool(t, connString)), connString
}

// CleanupTestDB drops dbName if it still exists, logging instead of failing.
func CleanupTestDB(t *testing.T, connString, dbName string) {
	t.Helper()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Logf("cleanup of %s: %v", dbName, err)
		return
	}
	defer pool.Close()

	conn, mgr := db.NewPoolAdapter(pool), manager.New()
	if exists, err := mgr.Exists(ctx, conn, dbName); err != nil || !exists {
		return
	}
	if err := mgr.TerminateConnections(ctx, conn, dbName); err != nil {
		t.Logf("cleanup of %s: %v", dbName, err)
	}
	if err := mgr.Drop(ctx, conn, dbName); err != nil {
		t.Logf("cleanup of %s: %v", dbName, err)
	}
}

func openPool(t *testing.T, connString string) *pgxpool.Pool {
	t.Helper()
	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// ForceApprover approves every request.
type ForceApprover struct{}

func (*ForceApprover) RequestApproval(context.Context, string, string) (bool, error) {
	return true, nil
}

// DenyApprover denies every request.
type DenyApprover struct{}

func (*DenyApprover) RequestApproval(context.Context, string, string) (bool, error) {
	return false, nil
}
