package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/airroutes/internal/logging"
	testhelpers "github.com/vvka-141/airroutes/internal/testing"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

func provisionConfig(overwrite bool) airroutes.ProvisionConfig {
	return airroutes.ProvisionConfig{Connection: testConnection("airroutes"), Overwrite: overwrite}
}

func TestNewDatasetService_PanicsOnNilDependencies(t *testing.T) {
	factory := func(*airroutes.ConnectionConfig) (airroutes.Connector, error) { return nil, nil }
	assert.Panics(t, func() { NewDatasetService(nil, &mockApprover{}, logging.NewNullLogger(), &mockDatabaseManager{}) })
	assert.Panics(t, func() { NewDatasetService(factory, nil, logging.NewNullLogger(), &mockDatabaseManager{}) })
	assert.Panics(t, func() { NewDatasetService(factory, &mockApprover{}, nil, &mockDatabaseManager{}) })
	assert.Panics(t, func() { NewDatasetService(factory, &mockApprover{}, logging.NewNullLogger(), nil) })
}

func TestProvision_CreatesMissingDatabaseAndSchema(t *testing.T) {
	mgr := &mockDatabaseManager{}
	target := newFakeTarget(false, nil)
	svc, rec := newTestService(&mockApprover{}, mgr, map[string]airroutes.DBConnection{
		"postgres":  &testhelpers.FakeConnection{},
		"airroutes": target,
	})

	result, err := svc.Provision(context.Background(), provisionConfig(false))
	require.NoError(t, err)

	assert.Equal(t, []string{"Exists airroutes", "Create airroutes"}, mgr.calls)
	assert.Equal(t, []string{"postgres", "airroutes"}, rec.databases())
	assert.True(t, result.Created)
	assert.False(t, result.Dropped)
	assert.True(t, result.SchemaApplied)
	assert.Len(t, target.Execs(), 1)
	assert.Equal(t, 2, rec.closed, "both connections closed")
}

func TestProvision_ExistingDatabaseKept(t *testing.T) {
	mgr := &mockDatabaseManager{existsResult: true}
	approver := &mockApprover{approved: true}
	svc, _ := newTestService(approver, mgr, map[string]airroutes.DBConnection{
		"postgres":  &testhelpers.FakeConnection{},
		"airroutes": newFakeTarget(false, nil),
	})

	result, err := svc.Provision(context.Background(), provisionConfig(false))
	require.NoError(t, err)

	assert.Equal(t, []string{"Exists airroutes"}, mgr.calls)
	assert.Empty(t, approver.actions, "no approval without overwrite")
	assert.False(t, result.Created)
	assert.True(t, result.SchemaApplied)
}

func TestProvision_OverwriteApproved(t *testing.T) {
	mgr := &mockDatabaseManager{existsResult: true}
	approver := &mockApprover{approved: true}
	svc, _ := newTestService(approver, mgr, map[string]airroutes.DBConnection{
		"postgres":  &testhelpers.FakeConnection{},
		"airroutes": newFakeTarget(false, nil),
	})

	result, err := svc.Provision(context.Background(), provisionConfig(true))
	require.NoError(t, err)

	assert.Equal(t, []string{airroutes.ActionOverwrite}, approver.actions)
	assert.Equal(t, []string{"Exists airroutes", "Terminate airroutes", "Drop airroutes", "Create airroutes"}, mgr.calls)
	assert.True(t, result.Dropped)
	assert.True(t, result.Created)
}

func TestProvision_OverwriteDenied(t *testing.T) {
	mgr := &mockDatabaseManager{existsResult: true}
	svc, rec := newTestService(&mockApprover{approved: false}, mgr, map[string]airroutes.DBConnection{
		"postgres": &testhelpers.FakeConnection{},
	})

	_, err := svc.Provision(context.Background(), provisionConfig(true))
	assert.ErrorIs(t, err, airroutes.ErrApprovalDenied)
	assert.Equal(t, []string{"Exists airroutes"}, mgr.calls, "nothing dropped")
	assert.Equal(t, []string{"postgres"}, rec.databases(), "target never opened")
}

func TestProvision_OverwriteApprovalError(t *testing.T) {
	mgr := &mockDatabaseManager{existsResult: true}
	svc, _ := newTestService(&mockApprover{err: context.Canceled}, mgr, map[string]airroutes.DBConnection{
		"postgres": &testhelpers.FakeConnection{},
	})

	_, err := svc.Provision(context.Background(), provisionConfig(true))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProvision_OverwriteMissingDatabaseSkipsApproval(t *testing.T) {
	mgr := &mockDatabaseManager{}
	approver := &mockApprover{}
	svc, _ := newTestService(approver, mgr, map[string]airroutes.DBConnection{
		"postgres":  &testhelpers.FakeConnection{},
		"airroutes": newFakeTarget(false, nil),
	})

	_, err := svc.Provision(context.Background(), provisionConfig(true))
	require.NoError(t, err)
	assert.Empty(t, approver.actions)
	assert.Equal(t, []string{"Exists airroutes", "Create airroutes"}, mgr.calls)
}

func TestProvision_RefusesProtectedTargets(t *testing.T) {
	tests := []struct {
		name   string
		target string
		maint  string
	}{
		{"maintenance database", "postgres", ""},
		{"custom maintenance database", "ops", "OPS"},
		{"template database", "template1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, rec := newTestService(&mockApprover{approved: true}, &mockDatabaseManager{}, nil)
			_, err := svc.Provision(context.Background(), airroutes.ProvisionConfig{
				Connection:          testConnection(tt.target),
				MaintenanceDatabase: tt.maint,
				Overwrite:           true,
			})
			assert.ErrorIs(t, err, airroutes.ErrInvalidConfig)
			assert.Empty(t, rec.configs, "no connection attempted")
		})
	}
}

func TestProvision_SkipSchema(t *testing.T) {
	svc, rec := newTestService(&mockApprover{}, &mockDatabaseManager{}, map[string]airroutes.DBConnection{
		"postgres": &testhelpers.FakeConnection{},
	})

	cfg := provisionConfig(false)
	cfg.SkipSchema = true
	result, err := svc.Provision(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, result.SchemaApplied)
	assert.Equal(t, []string{"postgres"}, rec.databases())
}

func TestProvision_SchemaAlreadyExists(t *testing.T) {
	target := &testhelpers.FakeConnection{
		ExecFunc: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "42P07", Message: `relation "countries" already exists`}
		},
	}
	svc, _ := newTestService(&mockApprover{}, &mockDatabaseManager{existsResult: true}, map[string]airroutes.DBConnection{
		"postgres":  &testhelpers.FakeConnection{},
		"airroutes": target,
	})

	result, err := svc.Provision(context.Background(), provisionConfig(false))
	assert.ErrorIs(t, err, airroutes.ErrSchemaExists)
	require.NotNil(t, result)
	assert.False(t, result.SchemaApplied)
}

func TestProvision_ManagerFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		mgr  *mockDatabaseManager
	}{
		{"exists", &mockDatabaseManager{existsErr: boom}},
		{"create", &mockDatabaseManager{createErr: boom}},
		{"terminate", &mockDatabaseManager{existsResult: true, terminateErr: boom}},
		{"drop", &mockDatabaseManager{existsResult: true, dropErr: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(&mockApprover{approved: true}, tt.mgr, map[string]airroutes.DBConnection{
				"postgres": &testhelpers.FakeConnection{},
			})
			_, err := svc.Provision(context.Background(), provisionConfig(true))
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestProvision_InvalidConfig(t *testing.T) {
	svc, _ := newTestService(&mockApprover{}, &mockDatabaseManager{}, nil)
	_, err := svc.Provision(context.Background(), airroutes.ProvisionConfig{})
	assert.ErrorIs(t, err, airroutes.ErrInvalidConfig)
}

func TestProvision_MaintenanceConnectionFailure(t *testing.T) {
	svc, _ := newTestService(&mockApprover{}, &mockDatabaseManager{}, nil)
	_, err := svc.Provision(context.Background(), provisionConfig(false))
	assert.ErrorIs(t, err, airroutes.ErrConnectionFailed)
}
