package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/airroutes/internal/logging"
	"github.com/vvka-141/airroutes/internal/retry"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// Tokens closer to expiry than this are reported; a long load outlives them
// only on connections opened before expiry.
const tokenExpiryWarning = 5 * time.Minute

// StandardConnector authenticates with the configured password, $PGPASSWORD
// or ~/.pgpass, retrying transient connection failures.
type StandardConnector struct {
	config        *airroutes.ConnectionConfig
	retryExecutor *retry.Executor
	logger        airroutes.Logger
}

func NewStandardConnector(config *airroutes.ConnectionConfig, logger airroutes.Logger) *StandardConnector {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &StandardConnector{config: config, retryExecutor: newRetryExecutor(logger), logger: logger}
}

func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	connStr := BuildConnectionString(c.config)
	return connectWithRetry(ctx, c.retryExecutor, func(ctx context.Context) (*pgxpool.Pool, error) {
		return openPool(ctx, connStr, c.config, c.logger)
	})
}

// TokenBasedConnector uses a short-lived cloud token as the password
// (RDS IAM, Entra ID). Every attempt fetches a fresh token.
type TokenBasedConnector struct {
	config        *airroutes.ConnectionConfig
	tokenProvider TokenProvider
	retryExecutor *retry.Executor
	providerName  string // "AWS IAM", "Azure"
	logger        airroutes.Logger
}

func NewTokenBasedConnector(config *airroutes.ConnectionConfig, tokenProvider TokenProvider, providerName string, logger airroutes.Logger) *TokenBasedConnector {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		retryExecutor: newRetryExecutor(logger),
		providerName:  providerName,
		logger:        logger,
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	return connectWithRetry(ctx, c.retryExecutor, func(ctx context.Context) (*pgxpool.Pool, error) {
		token, err := c.token(ctx)
		if err != nil {
			return nil, err
		}
		withToken := c.config.Clone()
		withToken.Password = token
		return openPool(ctx, BuildConnectionString(withToken), c.config, c.logger)
	})
}

func (c *TokenBasedConnector) token(ctx context.Context) (string, error) {
	token, expiresOn, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
	}
	c.logger.Verbose("acquired token from %s", c.tokenProvider)
	if left := time.Until(expiresOn); left < tokenExpiryWarning {
		c.logger.Info("Warning: %s token expires in %v", c.providerName, left.Round(time.Second))
	}
	return token, nil
}

func connectWithRetry(ctx context.Context, exec *retry.Executor, open func(context.Context) (*pgxpool.Pool, error)) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	err := exec.Execute(ctx, func(ctx context.Context) error {
		var err error
		pool, err = open(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// openPool applies the pool settings to connStr and pings the server.
func openPool(ctx context.Context, connStr string, config *airroutes.ConnectionConfig, logger airroutes.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w: %w", airroutes.ErrInvalidConfig, err)
	}
	configurePool(poolConfig, logger)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, config.Host, config.Port, config.Database)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, config.Host, config.Port, config.Database)
	}
	return pool, nil
}
