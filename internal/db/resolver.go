package db

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vvka-141/airroutes/internal/config"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Password is not a flag. Use $PGPASSWORD, ~/.pgpass or a connection
// string with an embedded password.
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided by the user.
// Database is excluded because it may override the database of a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// CloudFlags selects the authentication method and its cloud parameters.
// Client secrets are never flags; AZURE_CLIENT_SECRET carries them.
type CloudFlags struct {
	AuthMethod     string // standard, aws-iam, google-iam, azure
	AzureTenantID  string // Overrides AZURE_TENANT_ID
	AzureClientID  string // Overrides AZURE_CLIENT_ID
	AWSRegion      string // Overrides AWS_REGION
	GoogleInstance string // project:region:instance
}

// IsEmpty returns true if no cloud flags were provided.
func (c *CloudFlags) IsEmpty() bool {
	return c == nil || *c == CloudFlags{}
}

// ParseAuthMethod maps the --auth-method values to an AuthMethod.
// An empty string means standard authentication.
func ParseAuthMethod(s string) (airroutes.AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return airroutes.AuthMethodStandard, nil
	case "aws-iam", "aws":
		return airroutes.AuthMethodAWSIAM, nil
	case "google-iam", "gcp", "google":
		return airroutes.AuthMethodGoogleIAM, nil
	case "azure", "azure-entra-id", "entra":
		return airroutes.AuthMethodAzureEntraID, nil
	default:
		return 0, fmt.Errorf("unknown auth method %q (use standard, aws-iam, google-iam or azure): %w",
			s, airroutes.ErrUnsupportedAuthMethod)
	}
}

// EnvVars represents PostgreSQL standard environment variables plus the
// airroutes and cloud SDK ones.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST                      string
	PGPORT                      string
	PGUSER                      string
	PGPASSWORD                  string
	PGDATABASE                  string
	PGSSLMODE                   string
	DATABASE_URL                string // Heroku/Rails convention
	AIRROUTES_CONNECTION_STRING string // Wins over DATABASE_URL

	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
	AWS_REGION          string
}

// LoadFromEnvironment loads PostgreSQL and cloud provider environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:                      os.Getenv("PGHOST"),
		PGPORT:                      os.Getenv("PGPORT"),
		PGUSER:                      os.Getenv("PGUSER"),
		PGPASSWORD:                  os.Getenv("PGPASSWORD"),
		PGDATABASE:                  os.Getenv("PGDATABASE"),
		PGSSLMODE:                   os.Getenv("PGSSLMODE"),
		DATABASE_URL:                os.Getenv("DATABASE_URL"),
		AIRROUTES_CONNECTION_STRING: os.Getenv("AIRROUTES_CONNECTION_STRING"),
		AZURE_TENANT_ID:             os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:             os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET:         os.Getenv("AZURE_CLIENT_SECRET"),
		AWS_REGION:                  os.Getenv("AWS_REGION"),
	}
}

// HasAzureCredentials returns true if Azure Entra ID environment variables are set.
func (e *EnvVars) HasAzureCredentials() bool {
	return e.AZURE_TENANT_ID != "" || e.AZURE_CLIENT_ID != ""
}

// connectionStringFromEnv returns the environment connection string, if any.
func (e *EnvVars) connectionStringFromEnv() string {
	if e.AIRROUTES_CONNECTION_STRING != "" {
		return e.AIRROUTES_CONNECTION_STRING
	}
	return e.DATABASE_URL
}

// ResolveConnectionParams resolves connection parameters using PostgreSQL-standard precedence:
//
//  1. Connection string flag (--connection)
//  2. $AIRROUTES_CONNECTION_STRING, then $DATABASE_URL, when no granular flags are given
//  3. Granular flags (-h, -p, -U, -d)
//  4. Environment variables (PGHOST, PGPORT, ...)
//  5. airroutes.yaml connection section
//  6. Defaults (localhost:5432, sslmode=prefer)
//
// The -d flag always names the target database, also on top of a connection string.
//
// Authentication: --auth-method (or auth_method in airroutes.yaml) selects
// the method. Without it, Azure credentials in flags or environment switch to
// Azure Entra ID.
//
// Returns the resolved config and the maintenance database used for
// CREATE DATABASE and DROP DATABASE.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	cloudFlags *CloudFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*airroutes.ConnectionConfig, string, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if cloudFlags == nil {
		cloudFlags = &CloudFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}
	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, "", fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U)\n"+
				"Choose one approach:\n"+
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/airroutes\"\n"+
				"  2. Granular flags: -h localhost -p 5432 -U myuser -d airroutes\n"+
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser: %w",
			airroutes.ErrInvalidConfig,
		)
	}

	var cfg *airroutes.ConnectionConfig
	var maintenanceDB string
	var err error

	switch {
	case connStringFlag != "":
		cfg, maintenanceDB, err = resolveFromConnectionString(connStringFlag, granularFlags.Database, envVars, pc)
	case granularFlags.IsEmpty() && envVars.connectionStringFromEnv() != "":
		cfg, maintenanceDB, err = resolveFromConnectionString(envVars.connectionStringFromEnv(), granularFlags.Database, envVars, pc)
	default:
		cfg, maintenanceDB, err = resolveFromGranularParams(granularFlags, envVars, pc)
	}
	if err != nil {
		return nil, "", err
	}

	if err := applyAuth(cfg, cloudFlags, envVars, pc); err != nil {
		return nil, "", err
	}

	return cfg, maintenanceDB, nil
}

// applyAuth selects the authentication method and attaches its parameters.
// CLI flags take precedence over environment variables and the project file.
func applyAuth(cfg *airroutes.ConnectionConfig, flags *CloudFlags, env *EnvVars, pc config.ConnectionConfig) error {
	methodName := firstNonEmpty(flags.AuthMethod, pc.AuthMethod)
	method, err := ParseAuthMethod(methodName)
	if err != nil {
		return err
	}

	tenantID := firstNonEmpty(flags.AzureTenantID, env.AZURE_TENANT_ID, pc.AzureTenantID)
	clientID := firstNonEmpty(flags.AzureClientID, env.AZURE_CLIENT_ID, pc.AzureClientID)

	// Azure credentials imply Azure auth unless a method was chosen explicitly.
	if methodName == "" && (tenantID != "" || clientID != "") {
		method = airroutes.AuthMethodAzureEntraID
	}

	cfg.AuthMethod = method
	switch method {
	case airroutes.AuthMethodAzureEntraID:
		cfg.AzureTenantID = tenantID
		cfg.AzureClientID = clientID
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	case airroutes.AuthMethodAWSIAM:
		cfg.AWSRegion = firstNonEmpty(flags.AWSRegion, env.AWS_REGION, pc.AWSRegion)
	case airroutes.AuthMethodGoogleIAM:
		cfg.GoogleInstance = firstNonEmpty(flags.GoogleInstance, pc.GoogleInstance)
	}
	return nil
}

// resolveFromConnectionString parses a connection string and derives the
// maintenance database.
//
// The database of the connection string is the target unless targetDB (-d)
// overrides it; in that case the string's database becomes the maintenance
// database. Environment variables fill parameters the string leaves out.
func resolveFromConnectionString(connStr, targetDB string, envVars *EnvVars, pc config.ConnectionConfig) (*airroutes.ConnectionConfig, string, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, "", fmt.Errorf("invalid connection string: %w: %w", airroutes.ErrInvalidConfig, err)
	}

	if cfg.SSLMode == "" {
		cfg.SSLMode = firstNonEmpty(envVars.PGSSLMODE, "prefer")
	}
	if cfg.Password == "" {
		cfg.Password = envVars.PGPASSWORD
	}

	maintenanceDB := firstNonEmpty(pc.ManagementDatabase, airroutes.DefaultManagementDB)
	if targetDB != "" && targetDB != cfg.Database {
		maintenanceDB = cfg.Database
		cfg.Database = targetDB
	}

	return cfg, maintenanceDB, nil
}

// resolveFromGranularParams builds ConnectionConfig from granular flags,
// environment variables and the project file.
//
// Precedence for each parameter:
//  1. CLI flag (highest priority)
//  2. Environment variable
//  3. airroutes.yaml
//  4. Default value (lowest priority)
func resolveFromGranularParams(flags *GranularConnFlags, envVars *EnvVars, pc config.ConnectionConfig) (*airroutes.ConnectionConfig, string, error) {
	cfg := &airroutes.ConnectionConfig{
		AuthMethod:       airroutes.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	cfg.Host = firstNonEmpty(flags.Host, envVars.PGHOST, pc.Host, "localhost")

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case envVars.PGPORT != "":
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, "", fmt.Errorf("invalid $PGPORT value '%s': must be an integer: %w", envVars.PGPORT, airroutes.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = 5432
	}

	// Username falls back to the current OS user like psql does.
	cfg.Username = firstNonEmpty(flags.Username, envVars.PGUSER, pc.Username, os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Password = envVars.PGPASSWORD
	cfg.Database = firstNonEmpty(flags.Database, envVars.PGDATABASE, pc.Database)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, envVars.PGSSLMODE, pc.SSLMode, "prefer")

	maintenanceDB := firstNonEmpty(pc.ManagementDatabase, airroutes.DefaultManagementDB)

	return cfg, maintenanceDB, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
