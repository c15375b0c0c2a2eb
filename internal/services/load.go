package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vvka-141/airroutes/internal/loader"
	"github.com/vvka-141/airroutes/internal/source"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// Load streams the data files into the target database in foreign-key
// order. On failure the returned result lists the tables loaded before it.
func (s *DatasetService) Load(ctx context.Context, config airroutes.LoadConfig) (*airroutes.LoadResult, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	runID := uuid.NewString()
	connConfig := config.Connection.Clone()
	if connConfig.AppName == "" {
		connConfig.AppName = fmt.Sprintf("%s/%s", airroutes.DefaultApplicationName, runID[:8])
	}
	s.logger.Verbose("Load run %s from %s", runID, config.DataPath)

	src, err := source.Open(ctx, config.DataPath, source.S3Config{
		Region:       config.S3Region,
		Endpoint:     config.S3Endpoint,
		UsePathStyle: config.S3PathStyle,
	})
	if err != nil {
		return nil, err
	}

	conn, cleanup, err := s.connectTarget(ctx, connConfig)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result, err := loader.NewRunner(s.logger).Run(ctx, conn, loader.Plan{
		Source:         src,
		Files:          config.Files,
		Table:          config.Table,
		Resume:         config.Resume,
		Validate:       !config.SkipValidate,
		SkipOrderCheck: config.SkipOrderCheck,
		RunID:          runID,
	})
	if err != nil {
		return result, err
	}

	s.logger.Info("✓ Load %s reached stage %s", runID, result.Stage)
	return result, nil
}
