package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vvka-141/airroutes/internal/config"
	"github.com/vvka-141/airroutes/internal/db"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// connectionFlags holds the common connection-related flag values.
type connectionFlags struct {
	connection     string
	host           string
	port           int
	username       string
	database       string
	sslMode        string
	authMethod     string
	azureTenantID  string
	azureClientID  string
	awsRegion      string
	googleInstance string
}

// resolvedConnection holds the resolved connection configuration.
type resolvedConnection struct {
	ConnConfig    *airroutes.ConnectionConfig
	MaintenanceDB string
}

// registerConnectionFlags adds the connection flags shared by every
// database command.
func registerConnectionFlags(cmd *cobra.Command, f *connectionFlags) {
	flags := cmd.Flags()

	// Connection string flag (mutually exclusive with granular flags)
	flags.StringVar(&f.connection, "connection", "",
		"PostgreSQL connection string (URI or ADO.NET format).\n"+
			"Mutually exclusive with granular flags (--host, --port, --username).\n"+
			"Alternative: Use AIRROUTES_CONNECTION_STRING or DATABASE_URL environment variable.\n"+
			"Example: postgresql://user@localhost:5432/airroutes")

	// Granular connection flags (PostgreSQL standard)
	// Precedence: flag > environment variable > airroutes.yaml > default
	flags.StringVarP(&f.host, "host", "h", "",
		"PostgreSQL server host\n"+
			"Precedence: --host > $PGHOST > localhost")
	flags.IntVarP(&f.port, "port", "p", 0,
		"PostgreSQL server port\n"+
			"Precedence: --port > $PGPORT > 5432")
	flags.StringVarP(&f.username, "username", "U", "",
		"PostgreSQL user (default: $PGUSER or current OS user)")
	flags.StringVarP(&f.database, "database", "d", "",
		"Target database name (optional if specified in connection string, or $PGDATABASE)\n"+
			"With --connection, the connection string's database becomes the maintenance database")
	flags.StringVar(&f.sslMode, "sslmode", "",
		"SSL mode: disable|allow|prefer|require|verify-ca|verify-full\n"+
			"(default: prefer, or $PGSSLMODE)")

	// Cloud authentication
	flags.StringVar(&f.authMethod, "auth-method", "",
		"Authentication method: standard|aws-iam|google-iam|azure\n"+
			"(default: standard, or azure when Azure credentials are present)")
	flags.StringVar(&f.azureTenantID, "azure-tenant-id", "",
		"Azure AD tenant/directory ID (overrides $AZURE_TENANT_ID)")
	flags.StringVar(&f.azureClientID, "azure-client-id", "",
		"Azure AD application/client ID (overrides $AZURE_CLIENT_ID)")
	flags.StringVar(&f.awsRegion, "aws-region", "",
		"AWS region for RDS IAM tokens (overrides $AWS_REGION)")
	flags.StringVar(&f.googleInstance, "google-instance", "",
		"Cloud SQL instance connection name (project:region:instance)")

	_ = cmd.RegisterFlagCompletionFunc("sslmode", completeSSLModes)
	_ = cmd.RegisterFlagCompletionFunc("auth-method", completeAuthMethods)
}

// resolveConnectionFromFlags resolves connection configuration from flags,
// the environment and the project config. A target database is required.
func resolveConnectionFromFlags(flags connectionFlags, projectCfg *config.ProjectConfig, commandName string) (*resolvedConnection, error) {
	granularFlags := &db.GranularConnFlags{
		Host:     flags.host,
		Port:     flags.port,
		Username: flags.username,
		Database: flags.database,
		SSLMode:  flags.sslMode,
	}

	cloudFlags := &db.CloudFlags{
		AuthMethod:     flags.authMethod,
		AzureTenantID:  flags.azureTenantID,
		AzureClientID:  flags.azureClientID,
		AWSRegion:      flags.awsRegion,
		GoogleInstance: flags.googleInstance,
	}

	connConfig, maintenanceDB, err := db.ResolveConnectionParams(
		flags.connection,
		granularFlags,
		cloudFlags,
		db.LoadFromEnvironment(),
		projectCfg,
	)
	if err != nil {
		return nil, err
	}

	if connConfig.Database == "" {
		return nil, fmt.Errorf("database name is required\n"+
			"Provide via:\n"+
			"  1. --database/-d flag: airroutes %s -d airroutes\n"+
			"  2. Connection string: airroutes %s --connection \"postgresql://user@host/airroutes\"\n"+
			"  3. Environment variable: export PGDATABASE=airroutes\n"+
			"  4. connection.database in airroutes.yaml: %w",
			commandName, commandName, airroutes.ErrInvalidConfig)
	}

	return &resolvedConnection{ConnConfig: connConfig, MaintenanceDB: maintenanceDB}, nil
}

// logConnectionVerbose logs connection details when verbose mode is enabled.
func logConnectionVerbose(logger airroutes.Logger, conn *resolvedConnection, includeMaintenanceDB bool) {
	cfg := conn.ConnConfig
	logger.Verbose("Connection resolved:")
	logger.Verbose("  Host: %s", cfg.Host)
	logger.Verbose("  Port: %d", cfg.Port)
	logger.Verbose("  User: %s", cfg.Username)
	logger.Verbose("  Target Database: %s", cfg.Database)
	if includeMaintenanceDB {
		logger.Verbose("  Maintenance Database: %s", conn.MaintenanceDB)
	}
	logger.Verbose("  SSL Mode: %s", cfg.SSLMode)
	logger.Verbose("  Auth Method: %s", cfg.AuthMethod)
}
