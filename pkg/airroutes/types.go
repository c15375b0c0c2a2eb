package airroutes

import (
	"errors"
	"fmt"
	"time"
)

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID).
	// With all three set, Service Principal authentication is used;
	// otherwise the DefaultAzureCredential chain applies.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is the RDS region for AuthMethodAWSIAM.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name
	// (project:region:instance) for AuthMethodGoogleIAM.
	GoogleInstance string
}

// Clone returns a deep copy of the configuration.
func (c *ConnectionConfig) Clone() *ConnectionConfig {
	out := *c
	out.AdditionalParams = make(map[string]string, len(c.AdditionalParams))
	for k, v := range c.AdditionalParams {
		out.AdditionalParams[k] = v
	}
	return &out
}

// WithDatabase returns a copy of the configuration targeting dbName.
func (c *ConnectionConfig) WithDatabase(dbName string) *ConnectionConfig {
	out := c.Clone()
	out.Database = dbName
	return out
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// ProvisionConfig contains the parameters of `airroutes init`.
type ProvisionConfig struct {
	// Connection targets the database to provision.
	Connection *ConnectionConfig

	// MaintenanceDatabase is the database to connect to for server-level operations
	// (CREATE DATABASE, DROP DATABASE). Typically "postgres".
	MaintenanceDatabase string

	// Overwrite drops and recreates the target database
	Overwrite bool

	// Force bypasses interactive approval when used with Overwrite
	Force bool

	// SkipSchema only creates the database
	SkipSchema bool

	Timeout time.Duration
	Verbose bool
}

// Validate checks if the ProvisionConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *ProvisionConfig) Validate() error {
	var errs []error

	if c.Connection == nil {
		errs = append(errs, fmt.Errorf("connection is required: %w", ErrInvalidConfig))
	} else if c.Connection.Database == "" {
		errs = append(errs, fmt.Errorf("database name is required: %w", ErrInvalidConfig))
	}

	if c.Force && !c.Overwrite {
		errs = append(errs, fmt.Errorf("force flag requires overwrite to be enabled: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// LoadConfig contains the parameters of `airroutes load`.
type LoadConfig struct {
	Connection *ConnectionConfig

	// DataPath is a directory or s3://bucket/prefix holding the .dat files.
	DataPath string

	// Files maps table name to file name under DataPath.
	// Missing entries fall back to the default file names.
	Files map[string]string

	// Table restricts the run to a single table. Empty means all tables.
	Table string

	// Resume skips steps already completed in the target database.
	Resume bool

	// SkipValidate disables the row-level pre-check before each COPY.
	SkipValidate bool

	// SkipOrderCheck lets a single-table load run before its parents are
	// loaded, leaving the foreign keys to reject it.
	SkipOrderCheck bool

	// S3Region, S3Endpoint and S3PathStyle configure s3:// data paths.
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	Timeout time.Duration
	Verbose bool
}

// Validate checks if the LoadConfig has all required fields and valid values.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.Connection == nil || c.Connection.Database == "" {
		errs = append(errs, fmt.Errorf("database name is required: %w", ErrInvalidConfig))
	}

	if c.DataPath == "" {
		errs = append(errs, fmt.Errorf("data path is required: %w", ErrInvalidConfig))
	}

	if c.Table != "" && c.Resume {
		errs = append(errs, fmt.Errorf("--table and --resume are mutually exclusive: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ResetConfig contains the parameters of `airroutes reset`.
type ResetConfig struct {
	Connection *ConnectionConfig

	// Force skips the interactive confirmation after a short countdown.
	Force bool

	Timeout time.Duration
}

// Validate checks if the ResetConfig has all required fields and valid values.
func (c *ResetConfig) Validate() error {
	var errs []error

	if c.Connection == nil || c.Connection.Database == "" {
		errs = append(errs, fmt.Errorf("database name is required: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// VerifyConfig contains the parameters of `airroutes verify`.
type VerifyConfig struct {
	Connection *ConnectionConfig

	// Samples is the number of joined routes to read back. Zero skips sampling.
	Samples int

	Timeout time.Duration
}

// Validate checks if the VerifyConfig has all required fields and valid values.
func (c *VerifyConfig) Validate() error {
	var errs []error

	if c.Connection == nil || c.Connection.Database == "" {
		errs = append(errs, fmt.Errorf("database name is required: %w", ErrInvalidConfig))
	}

	if c.Samples < 0 {
		errs = append(errs, fmt.Errorf("samples cannot be negative: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// TableCount is the row count of one table.
type TableCount struct {
	Table string
	Rows  int64
}

// LoadResult summarizes a load run.
type LoadResult struct {
	RunID   string
	Loaded  []TableCount
	Skipped []string
	Stage   Stage
}

// ProvisionResult describes what `airroutes init` did.
type ProvisionResult struct {
	Database      string
	Created       bool
	Dropped       bool
	SchemaApplied bool
}

// ResetResult summarizes a reset run, in delete order.
type ResetResult struct {
	Deleted []TableCount
}

// StatusResult describes the current state of the target database.
type StatusResult struct {
	Stage  Stage
	Counts []TableCount
}

// CheckOutcome is the number of rows violating one integrity rule.
type CheckOutcome struct {
	Name       string
	Violations int64
}

// VerifyResult describes a verification run. Samples holds the rendered
// route lines read back through the joins.
type VerifyResult struct {
	Stage   Stage
	Counts  []TableCount
	Checks  []CheckOutcome
	Samples []string
}

// Failed returns the checks with at least one violation.
func (r *VerifyResult) Failed() []CheckOutcome {
	var failed []CheckOutcome
	for _, c := range r.Checks {
		if c.Violations > 0 {
			failed = append(failed, c)
		}
	}
	return failed
}
