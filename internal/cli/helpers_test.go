package cli

import (
	"os"
	"testing"
)

// connectionEnvVars are cleared so tests do not pick up the caller's database.
var connectionEnvVars = []string{
	"PGHOST", "PGPORT", "PGUSER", "PGPASSWORD", "PGDATABASE", "PGSSLMODE",
	"DATABASE_URL", "AIRROUTES_CONNECTION_STRING",
	"AIRROUTES_HOST", "AIRROUTES_PORT", "AIRROUTES_USER", "AIRROUTES_DATABASE",
	"AIRROUTES_DATA_PATH", "AIRROUTES_TIMEOUT",
	"AZURE_TENANT_ID", "AZURE_CLIENT_ID", "AZURE_CLIENT_SECRET",
}

// unsetEnv removes the variables for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

// resetCommandFlags resets the package-level flag values shared across tests.
func resetCommandFlags() {
	initFlags = initFlagValues{}
	loadFlags = loadFlagValues{}
	resetFlags = resetFlagValues{}
	verifyFlags = verifyFlagValues{}
	validateFlags = validateFlagValues{}
	sampleFlags = sampleFlagValues{routes: 350, seed: 42}
	configFlags = configFlagValues{}
}
