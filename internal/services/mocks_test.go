package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/airroutes/internal/logging"
	"github.com/vvka-141/airroutes/internal/schema"
	testhelpers "github.com/vvka-141/airroutes/internal/testing"
	"github.com/vvka-141/airroutes/internal/verify"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

type mockApprover struct {
	approved bool
	err      error
	actions  []string
}

func (m *mockApprover) RequestApproval(_ context.Context, action, _ string) (bool, error) {
	m.actions = append(m.actions, action)
	return m.approved, m.err
}

// mockDatabaseManager records lifecycle calls as "Op name".
type mockDatabaseManager struct {
	existsResult bool
	existsErr    error
	createErr    error
	dropErr      error
	terminateErr error
	calls        []string
}

func (m *mockDatabaseManager) Exists(_ context.Context, _ airroutes.DBConnection, name string) (bool, error) {
	m.calls = append(m.calls, "Exists "+name)
	return m.existsResult, m.existsErr
}

func (m *mockDatabaseManager) Create(_ context.Context, _ airroutes.DBConnection, name string) error {
	m.calls = append(m.calls, "Create "+name)
	return m.createErr
}

func (m *mockDatabaseManager) Drop(_ context.Context, _ airroutes.DBConnection, name string) error {
	m.calls = append(m.calls, "Drop "+name)
	return m.dropErr
}

func (m *mockDatabaseManager) TerminateConnections(_ context.Context, _ airroutes.DBConnection, name string) error {
	m.calls = append(m.calls, "Terminate "+name)
	return m.terminateErr
}

// fakeTarget is a target database with five row counters and optional
// integrity violations behind a FakeConnection.
type fakeTarget struct {
	*testhelpers.FakeConnection

	mu         sync.Mutex
	schema     bool
	counts     map[string]int64
	violations map[string]int64
}

func newFakeTarget(withSchema bool, counts map[string]int64) *fakeTarget {
	f := &fakeTarget{schema: withSchema, counts: map[string]int64{}, violations: map[string]int64{}}
	for k, v := range counts {
		f.counts[k] = v
	}

	f.FakeConnection = &testhelpers.FakeConnection{
		QueryRowFunc: func(context.Context, string, ...any) airroutes.Row {
			f.mu.Lock()
			defer f.mu.Unlock()
			if !f.schema {
				return &testhelpers.FakeRow{Values: []any{int64(0)}}
			}
			return &testhelpers.FakeRow{Values: []any{int64(len(schema.Names()))}}
		},
		QueryFunc: func(_ context.Context, sql string, _ ...any) (airroutes.Rows, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			rows := &testhelpers.FakeRows{}
			if strings.Contains(sql, "row_count") {
				for _, name := range schema.Names() {
					rows.Data = append(rows.Data, []any{name, f.counts[name]})
				}
				return rows, nil
			}
			for _, c := range verify.Checks() {
				rows.Data = append(rows.Data, []any{f.violations[c.Name]})
			}
			return rows, nil
		},
		CopyFunc: func(_ context.Context, sql, data string) (pgconn.CommandTag, error) {
			table := strings.Fields(sql)[1]
			n := int64(strings.Count(data, "\n"))
			f.mu.Lock()
			f.counts[table] += n
			f.mu.Unlock()
			return pgconn.NewCommandTag(fmt.Sprintf("COPY %d", n)), nil
		},
		ExecFunc: func(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
			if table, ok := strings.CutPrefix(sql, "DELETE FROM "); ok {
				f.mu.Lock()
				defer f.mu.Unlock()
				n := f.counts[table]
				f.counts[table] = 0
				return pgconn.NewCommandTag(fmt.Sprintf("DELETE %d", n)), nil
			}
			if strings.Contains(sql, "CREATE TABLE") {
				f.mu.Lock()
				f.schema = true
				f.mu.Unlock()
			}
			return pgconn.CommandTag{}, nil
		},
	}
	return f
}

func (f *fakeTarget) count(table string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[table]
}

// connectRecorder hands out connections by database name and records each
// requested configuration.
type connectRecorder struct {
	conns   map[string]airroutes.DBConnection
	configs []*airroutes.ConnectionConfig
	closed  int
}

func (r *connectRecorder) connect(_ context.Context, cfg *airroutes.ConnectionConfig, dbName string) (airroutes.DBConnection, func(), error) {
	r.configs = append(r.configs, cfg.WithDatabase(dbName))
	conn, ok := r.conns[dbName]
	if !ok {
		return nil, nil, fmt.Errorf("no database %q: %w", dbName, airroutes.ErrConnectionFailed)
	}
	return conn, func() { r.closed++ }, nil
}

func (r *connectRecorder) databases() []string {
	names := make([]string, len(r.configs))
	for i, c := range r.configs {
		names[i] = c.Database
	}
	return names
}

func newTestService(approver airroutes.Approver, mgr airroutes.DatabaseManager, conns map[string]airroutes.DBConnection) (*DatasetService, *connectRecorder) {
	factory := func(*airroutes.ConnectionConfig) (airroutes.Connector, error) {
		return nil, fmt.Errorf("unused: %w", airroutes.ErrConnectionFailed)
	}
	svc := NewDatasetService(factory, approver, logging.NewNullLogger(), mgr)
	rec := &connectRecorder{conns: conns}
	svc.connect = rec.connect
	return svc, rec
}

func testConnection(dbName string) *airroutes.ConnectionConfig {
	return &airroutes.ConnectionConfig{Host: "localhost", Port: 5432, Database: dbName, AdditionalParams: map[string]string{}}
}
