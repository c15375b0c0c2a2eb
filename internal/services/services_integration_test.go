package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/airroutes/internal/db"
	"github.com/vvka-141/airroutes/internal/db/manager"
	"github.com/vvka-141/airroutes/internal/logging"
	"github.com/vvka-141/airroutes/internal/services"
	testhelpers "github.com/vvka-141/airroutes/internal/testing"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

func TestDatasetLifecycle(t *testing.T) {
	connString := testhelpers.RequireDatabase(t)
	base, err := db.ParseConnectionString(connString)
	require.NoError(t, err)

	name := testhelpers.UniqueDBName()
	t.Cleanup(func() { testhelpers.CleanupTestDB(t, connString, name) })

	ctx := context.Background()
	logger := logging.NewNullLogger()
	svc := services.NewDatasetService(db.Factory(logger), &testhelpers.ForceApprover{}, logger, manager.New())
	target := base.WithDatabase(name)
	provision := airroutes.ProvisionConfig{Connection: target, MaintenanceDatabase: base.Database}

	created, err := svc.Provision(ctx, provision)
	require.NoError(t, err)
	assert.True(t, created.Created)
	assert.True(t, created.SchemaApplied)

	_, err = svc.Provision(ctx, provision)
	assert.ErrorIs(t, err, airroutes.ErrSchemaExists, "schema creation is not repeatable")

	load := airroutes.LoadConfig{
		Connection: target,
		DataPath:   testhelpers.WriteDataDir(t, testhelpers.FixtureFiles()),
	}
	loaded, err := svc.Load(ctx, load)
	require.NoError(t, err)
	assert.Equal(t, airroutes.StageRoutesLoaded, loaded.Stage)

	verified, err := svc.Verify(ctx, airroutes.VerifyConfig{Connection: target, Samples: 2})
	require.NoError(t, err)
	for _, c := range verified.Counts {
		assert.EqualValues(t, testhelpers.FixtureCounts[c.Table], c.Rows, c.Table)
	}
	require.Len(t, verified.Samples, 2)
	assert.True(t, strings.HasPrefix(verified.Samples[0], "Test Air (TA)"), verified.Samples[0])

	_, err = svc.Load(ctx, load)
	assert.ErrorIs(t, err, airroutes.ErrUniqueViolation, "reload without reset")

	_, err = svc.Reset(ctx, airroutes.ResetConfig{Connection: target})
	require.NoError(t, err)
	status, err := svc.Status(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, airroutes.StageSchemaCreated, status.Stage)

	reloaded, err := svc.Load(ctx, load)
	require.NoError(t, err)
	assert.Equal(t, airroutes.StageRoutesLoaded, reloaded.Stage)

	provision.Overwrite = true
	overwritten, err := svc.Provision(ctx, provision)
	require.NoError(t, err)
	assert.True(t, overwritten.Dropped)
	status, err = svc.Status(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, airroutes.StageSchemaCreated, status.Stage)
}

func TestReset_DeniedKeepsRows(t *testing.T) {
	testDB := testhelpers.NewTestDB(t)
	ctx := context.Background()
	logger := logging.NewNullLogger()

	allow := services.NewDatasetService(db.Factory(logger), &testhelpers.ForceApprover{}, logger, manager.New())
	_, err := allow.Provision(ctx, airroutes.ProvisionConfig{Connection: testDB.Config, MaintenanceDatabase: testDB.MaintenanceDB})
	require.NoError(t, err)
	_, err = allow.Load(ctx, airroutes.LoadConfig{
		Connection: testDB.Config,
		DataPath:   testhelpers.WriteDataDir(t, testhelpers.FixtureFiles()),
	})
	require.NoError(t, err)

	deny := services.NewDatasetService(db.Factory(logger), &testhelpers.DenyApprover{}, logger, manager.New())
	_, err = deny.Reset(ctx, airroutes.ResetConfig{Connection: testDB.Config})
	assert.ErrorIs(t, err, airroutes.ErrApprovalDenied)

	status, err := allow.Status(ctx, testDB.Config)
	require.NoError(t, err)
	assert.Equal(t, airroutes.StageRoutesLoaded, status.Stage)
}
