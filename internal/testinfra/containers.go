// Package testinfra runs the PostgreSQL server integration tests load into.
package testinfra

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// ImageEnv overrides DefaultImage, e.g. to test against an older major version.
const ImageEnv = "AIRROUTES_TEST_PG_IMAGE"

const (
	DefaultImage = "postgres:17-alpine"
	superuser    = "postgres"
	password     = "postgres"
	maintenance  = "postgres"
)

// PostgresContainer is a running server. ConnString is a superuser
// connection to its maintenance database.
type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

func image() string {
	if img := os.Getenv(ImageEnv); img != "" {
		return img
	}
	return DefaultImage
}

// StartPostgres starts the server and waits for the second "ready" log line;
// the first one belongs to the initdb bootstrap.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	ctr, err := postgres.Run(ctx, image(),
		postgres.WithUsername(superuser),
		postgres.WithPassword(password),
		postgres.WithDatabase(maintenance),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", image(), err)
	}

	conn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("connection string: %w", err)
	}
	return &PostgresContainer{PostgresContainer: ctr, ConnString: conn}, nil
}
