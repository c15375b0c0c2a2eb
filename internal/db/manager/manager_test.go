package manager_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/airroutes/internal/db/manager"
	testhelpers "github.com/vvka-141/airroutes/internal/testing"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

func TestManager_Create_QuotesName(t *testing.T) {
	testCases := []struct {
		name   string
		dbName string
		want   string
	}{
		{"Plain", "airroutes", `CREATE DATABASE "airroutes"`},
		{"Spaces", "air routes", `CREATE DATABASE "air routes"`},
		{"Quotes", `air"routes`, `CREATE DATABASE "air""routes"`},
		{"Injection with DROP", "test; DROP DATABASE postgres; --", `CREATE DATABASE "test; DROP DATABASE postgres; --"`},
		{"Mixed case", "AirRoutes", `CREATE DATABASE "AirRoutes"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conn := &testhelpers.FakeConnection{}

			if err := manager.New().Create(context.Background(), conn, tc.dbName); err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			execs := conn.Execs()
			if len(execs) != 1 || execs[0] != tc.want {
				t.Errorf("executed %q, want %q", execs, tc.want)
			}
		})
	}
}

func TestManager_Create_ExecFailureIsExecutionFailed(t *testing.T) {
	cause := errors.New(`database "airroutes" already exists`)
	conn := &testhelpers.FakeConnection{
		ExecFunc: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, cause
		},
	}

	err := manager.New().Create(context.Background(), conn, "airroutes")
	if !errors.Is(err, cause) || !errors.Is(err, airroutes.ErrExecutionFailed) {
		t.Errorf("unexpected error chain: %v", err)
	}
}

func TestManager_Drop_RefusesTemplates(t *testing.T) {
	for _, name := range []string{"template0", "Template1"} {
		conn := &testhelpers.FakeConnection{}

		err := manager.New().Drop(context.Background(), conn, name)
		if !errors.Is(err, airroutes.ErrInvalidConfig) {
			t.Errorf("Drop(%s) error = %v, want ErrInvalidConfig", name, err)
		}
		if len(conn.Execs()) != 0 {
			t.Errorf("Drop(%s) executed SQL: %v", name, conn.Execs())
		}
	}
}

func TestManager_Drop_NonExistentDatabase(t *testing.T) {
	conn := &testhelpers.FakeConnection{
		ExecFunc: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, errors.New(`database "nonexistent" does not exist`)
		},
	}

	err := manager.New().Drop(context.Background(), conn, "nonexistent")
	if err == nil {
		t.Fatal("Expected error when dropping non-existent database")
	}
	if !strings.Contains(err.Error(), "nonexistent") {
		t.Errorf("error should name the database: %v", err)
	}
}

func TestManager_TerminateConnections_PassesName(t *testing.T) {
	var gotArgs []any
	conn := &testhelpers.FakeConnection{
		ExecFunc: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
			gotArgs = args
			return pgconn.CommandTag{}, nil
		},
	}

	if err := manager.New().TerminateConnections(context.Background(), conn, "airroutes"); err != nil {
		t.Fatalf("TerminateConnections failed: %v", err)
	}
	if len(gotArgs) != 1 || gotArgs[0] != "airroutes" {
		t.Errorf("args = %v, want [airroutes]", gotArgs)
	}
	if !strings.Contains(conn.Execs()[0], "pg_terminate_backend") {
		t.Errorf("unexpected SQL: %s", conn.Execs()[0])
	}
}

func TestManager_Exists(t *testing.T) {
	for _, want := range []bool{true, false} {
		conn := &testhelpers.FakeConnection{
			QueryRowFunc: func(context.Context, string, ...any) airroutes.Row {
				return &testhelpers.FakeRow{Values: []any{want}}
			},
		}

		got, err := manager.New().Exists(context.Background(), conn, "airroutes")
		if err != nil {
			t.Fatalf("Exists failed: %v", err)
		}
		if got != want {
			t.Errorf("Exists = %v, want %v", got, want)
		}
	}
}

func TestManager_Exists_QueryError(t *testing.T) {
	expectedErr := errors.New("connection lost")
	conn := &testhelpers.FakeConnection{
		QueryRowFunc: func(context.Context, string, ...any) airroutes.Row {
			return &testhelpers.FakeRow{Err: expectedErr}
		},
	}

	_, err := manager.New().Exists(context.Background(), conn, "airroutes")
	if !errors.Is(err, expectedErr) {
		t.Errorf("Expected wrapped error, got: %v", err)
	}
}

func TestManager_AcquireFailure(t *testing.T) {
	expectedErr := errors.New("pool exhausted")
	conn := &testhelpers.FakeConnection{AcquireErr: expectedErr}
	mgr := manager.New()

	if err := mgr.Create(context.Background(), conn, "airroutes"); !errors.Is(err, expectedErr) {
		t.Errorf("Create: expected wrapped error, got: %v", err)
	}
	if err := mgr.Drop(context.Background(), conn, "airroutes"); !errors.Is(err, expectedErr) {
		t.Errorf("Drop: expected wrapped error, got: %v", err)
	}
}

func TestManager_Integration_Lifecycle(t *testing.T) {
	conn, connString := testhelpers.MaintenanceConn(t)
	ctx := context.Background()
	mgr := manager.New()
	name := testhelpers.UniqueDBName()
	t.Cleanup(func() { testhelpers.CleanupTestDB(t, connString, name) })

	if err := mgr.Create(ctx, conn, name); err != nil {
		t.Fatalf("Create: %v", err)
	}
	exists, err := mgr.Exists(ctx, conn, name)
	if err != nil || !exists {
		t.Fatalf("Exists after Create = %v, %v", exists, err)
	}
	if err := mgr.TerminateConnections(ctx, conn, name); err != nil {
		t.Fatalf("TerminateConnections: %v", err)
	}
	if err := mgr.Drop(ctx, conn, name); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	exists, err = mgr.Exists(ctx, conn, name)
	if err != nil || exists {
		t.Fatalf("Exists after Drop = %v, %v", exists, err)
	}
}
