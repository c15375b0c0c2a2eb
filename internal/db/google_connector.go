package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/airroutes/internal/logging"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// GoogleCloudSQLConnector reaches a Cloud SQL instance through the Cloud SQL
// Go connector with IAM database authentication. The dialer owns TLS, so the
// pgx side runs with sslmode=disable.
//
// The dialer outlives Connect; Close it after the pool.
type GoogleCloudSQLConnector struct {
	config   *airroutes.ConnectionConfig
	instance string // project:region:instance
	dialer   *cloudsqlconn.Dialer
	logger   airroutes.Logger
}

func NewGoogleCloudSQLConnector(config *airroutes.ConnectionConfig, instance string, logger airroutes.Logger) *GoogleCloudSQLConnector {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &GoogleCloudSQLConnector{config: config, instance: instance, logger: logger}
}

func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("Cloud SQL dialer for %s: %w: %w", c.instance, airroutes.ErrConnectionFailed, err)
	}

	pool, err := c.open(ctx, dialer)
	if err != nil {
		_ = dialer.Close()
		return nil, err
	}

	c.logger.Verbose("Connected to Cloud SQL instance %s as %s", c.instance, c.config.Username)
	c.dialer = dialer
	return pool, nil
}

func (c *GoogleCloudSQLConnector) open(ctx context.Context, dialer *cloudsqlconn.Dialer) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(fmt.Sprintf("user=%s dbname=%s sslmode=disable", c.config.Username, c.config.Database))
	if err != nil {
		return nil, fmt.Errorf("Cloud SQL pool config: %w: %w", airroutes.ErrInvalidConfig, err)
	}
	poolConfig.ConnConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dialer.Dial(ctx, c.instance)
	}
	configurePool(poolConfig, c.logger)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w: %w", airroutes.ErrConnectionFailed, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w: %w", airroutes.ErrConnectionFailed, err)
	}
	return pool, nil
}

// Close releases the dialer. Calling it without a prior Connect is a no-op.
func (c *GoogleCloudSQLConnector) Close() error {
	if c.dialer == nil {
		return nil
	}
	err := c.dialer.Close()
	c.dialer = nil
	return err
}
