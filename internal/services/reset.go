package services

import (
	"context"
	"fmt"

	"github.com/vvka-141/airroutes/internal/loader"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// Reset deletes every loaded row after approval, leaving the schema in
// place for a reload.
func (s *DatasetService) Reset(ctx context.Context, config airroutes.ResetConfig) (*airroutes.ResetResult, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	conn, cleanup, err := s.connectTarget(ctx, config.Connection)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	stage, _, err := loader.DetectStage(ctx, conn)
	if err != nil {
		return nil, err
	}
	if stage == airroutes.StageEmpty {
		return nil, fmt.Errorf("nothing to reset in '%s': %w", config.Connection.Database, airroutes.ErrSchemaMissing)
	}

	approved, err := s.approver.RequestApproval(ctx, airroutes.ActionReset, config.Connection.Database)
	if err != nil {
		return nil, fmt.Errorf("approval request failed: %w", err)
	}
	if !approved {
		return nil, airroutes.ErrApprovalDenied
	}

	result, err := loader.Reset(ctx, conn, s.logger)
	if err != nil {
		return nil, err
	}
	s.logger.Info("✓ Reset '%s' to stage %s", config.Connection.Database, airroutes.StageSchemaCreated)
	return result, nil
}
