package schema_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/airroutes/internal/schema"
	testhelpers "github.com/vvka-141/airroutes/internal/testing"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

func TestApply_Integration(t *testing.T) {
	tdb := testhelpers.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, schema.Apply(ctx, tdb.Conn))

	for _, name := range schema.Names() {
		var exists bool
		err := tdb.Conn.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", name).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, name)
	}

	err := schema.Apply(ctx, tdb.Conn)
	assert.ErrorIs(t, err, airroutes.ErrSchemaExists)
	assert.Equal(t, airroutes.ExitSchemaExists, airroutes.ExitCodeForError(err))
}
