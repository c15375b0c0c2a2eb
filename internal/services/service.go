package services

import (
	"context"
	"fmt"
	"io"

	"github.com/vvka-141/airroutes/internal/db"
	"github.com/vvka-141/airroutes/internal/loader"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// connectFunc opens a connection to dbName using connConfig's server and
// credentials. The returned cleanup closes it.
type connectFunc func(ctx context.Context, connConfig *airroutes.ConnectionConfig, dbName string) (airroutes.DBConnection, func(), error)

// DatasetService implements the airroutes commands on top of a connector
// factory. Thread-Safety: NOT safe for concurrent calls on the same instance.
type DatasetService struct {
	connectorFactory airroutes.ConnectorFactory
	approver         airroutes.Approver
	logger           airroutes.Logger
	dbManager        airroutes.DatabaseManager
	connect          connectFunc
	sampleRoutes     routeSampler
}

// NewDatasetService creates a DatasetService with all dependencies injected.
//
// Panics on nil dependencies: they are wiring mistakes that must fail at
// startup. Runtime conditions are returned as errors.
func NewDatasetService(
	connectorFactory airroutes.ConnectorFactory,
	approver airroutes.Approver,
	logger airroutes.Logger,
	dbManager airroutes.DatabaseManager,
) *DatasetService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if dbManager == nil {
		panic("dbManager cannot be nil")
	}

	svc := &DatasetService{
		connectorFactory: connectorFactory,
		approver:         approver,
		logger:           logger,
		dbManager:        dbManager,
	}
	svc.connect = svc.defaultConnect
	svc.sampleRoutes = gormSampleRoutes
	return svc
}

func (s *DatasetService) defaultConnect(ctx context.Context, connConfig *airroutes.ConnectionConfig, dbName string) (airroutes.DBConnection, func(), error) {
	cfg := connConfig.WithDatabase(dbName)

	connector, err := s.connectorFactory(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create connector: %w", err)
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}

	cleanup := pool.Close
	if closer, ok := connector.(io.Closer); ok {
		cleanup = func() {
			pool.Close()
			if err := closer.Close(); err != nil {
				s.logger.Verbose("closing connector: %v", err)
			}
		}
	}
	return db.NewPoolAdapter(pool), cleanup, nil
}

// connectTarget opens the target database of connConfig.
func (s *DatasetService) connectTarget(ctx context.Context, connConfig *airroutes.ConnectionConfig) (airroutes.DBConnection, func(), error) {
	s.logger.Verbose("Connecting to database '%s'", connConfig.Database)
	return s.connect(ctx, connConfig, connConfig.Database)
}

// Status reports the stage and row counts of the target database.
func (s *DatasetService) Status(ctx context.Context, connConfig *airroutes.ConnectionConfig) (*airroutes.StatusResult, error) {
	if connConfig == nil || connConfig.Database == "" {
		return nil, fmt.Errorf("database name is required: %w", airroutes.ErrInvalidConfig)
	}

	conn, cleanup, err := s.connectTarget(ctx, connConfig)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	stage, counts, err := loader.DetectStage(ctx, conn)
	if err != nil {
		return nil, err
	}
	return &airroutes.StatusResult{Stage: stage, Counts: counts}, nil
}
