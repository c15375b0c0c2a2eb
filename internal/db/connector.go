package db

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/airroutes/internal/logging"
	"github.com/vvka-141/airroutes/internal/retry"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns caps the pool. A load uses a single connection;
	// the rest serve status and verification queries.
	DefaultMaxConns = 5

	// DefaultMinConns maintains at least one connection in the pool.
	DefaultMinConns = 1

	// DefaultMaxConnIdleTime keeps the connection alive across long COPY runs.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, logger airroutes.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	if _, ok := poolConfig.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = airroutes.DefaultApplicationName
	}
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("%s: %s", notice.Severity, notice.Message)
	}
}

func newRetryExecutor(logger airroutes.Logger) *retry.Executor {
	classifier := retry.NewPostgreSQLErrorClassifier()
	strategy := retry.NewExponentialBackoff(airroutes.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(airroutes.DefaultRetryInitialDelay),
		retry.WithMaxDelay(airroutes.DefaultRetryMaxDelay),
	)

	return retry.NewExecutor(classifier, strategy).WithOnRetry(func(attempt int, err error, delay time.Duration) {
		logger.Verbose("connect attempt %d failed, retrying in %v: %v", attempt+1, delay.Round(time.Millisecond), err)
	})
}

// NewConnector returns the connector for config.AuthMethod.
func NewConnector(config *airroutes.ConnectionConfig, logger airroutes.Logger) (airroutes.Connector, error) {
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	switch config.AuthMethod {
	case airroutes.AuthMethodStandard:
		return NewStandardConnector(config, logger), nil
	case airroutes.AuthMethodAWSIAM:
		return newAWSConnector(config, logger)
	case airroutes.AuthMethodGoogleIAM:
		return newGoogleConnector(config, logger)
	case airroutes.AuthMethodAzureEntraID:
		return newAzureConnector(config, logger)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, airroutes.ErrUnsupportedAuthMethod)
	}
}

// Factory binds logger into an airroutes.ConnectorFactory.
func Factory(logger airroutes.Logger) airroutes.ConnectorFactory {
	return func(config *airroutes.ConnectionConfig) (airroutes.Connector, error) {
		return NewConnector(config, logger)
	}
}

// newAWSConnector signs RDS IAM tokens for the configured user.
func newAWSConnector(config *airroutes.ConnectionConfig, logger airroutes.Logger) (airroutes.Connector, error) {
	provider, err := NewRDSTokenProvider(fmt.Sprintf("%s:%d", config.Host, config.Port), config.AWSRegion, config.Username)
	if err != nil {
		return nil, err
	}
	return NewTokenBasedConnector(config, provider, "AWS IAM", logger), nil
}

// newGoogleConnector creates a GoogleCloudSQLConnector for Google Cloud SQL IAM authentication.
func newGoogleConnector(config *airroutes.ConnectionConfig, logger airroutes.Logger) (airroutes.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w", airroutes.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires username (-U): %w", airroutes.ErrInvalidConfig)
	}

	return NewGoogleCloudSQLConnector(config, config.GoogleInstance, logger), nil
}

// newAzureConnector requests Entra ID tokens, from a service principal when
// its credentials are complete.
func newAzureConnector(config *airroutes.ConnectionConfig, logger airroutes.Logger) (airroutes.Connector, error) {
	provider, err := NewEntraTokenProvider(config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
	if err != nil {
		return nil, err
	}
	return NewTokenBasedConnector(config, provider, "Azure", logger), nil
}
