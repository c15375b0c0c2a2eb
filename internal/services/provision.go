package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/vvka-141/airroutes/internal/schema"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

func validateOverwriteTarget(targetDB, managementDB string) error {
	if strings.EqualFold(targetDB, managementDB) {
		return fmt.Errorf(
			"cannot overwrite database %q: it is the maintenance database used for CREATE and DROP DATABASE. "+
				"Load into a different target database: %w",
			targetDB, airroutes.ErrInvalidConfig,
		)
	}
	if airroutes.IsTemplateDatabase(targetDB) {
		return fmt.Errorf(
			"cannot overwrite database %q: PostgreSQL template databases cannot be dropped: %w",
			targetDB, airroutes.ErrInvalidConfig,
		)
	}
	return nil
}

// Provision creates the target database when missing, drops and recreates
// it on Overwrite after approval, then applies the schema.
func (s *DatasetService) Provision(ctx context.Context, config airroutes.ProvisionConfig) (*airroutes.ProvisionResult, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	targetDB := config.Connection.Database
	managementDB := config.MaintenanceDatabase
	if managementDB == "" {
		managementDB = airroutes.DefaultManagementDB
	}
	if config.Overwrite {
		if err := validateOverwriteTarget(targetDB, managementDB); err != nil {
			return nil, err
		}
	}

	result := &airroutes.ProvisionResult{Database: targetDB}
	if err := s.ensureDatabase(ctx, config, managementDB, result); err != nil {
		return result, err
	}

	if config.SkipSchema {
		s.logger.Verbose("Skipping schema creation")
		return result, nil
	}

	conn, cleanup, err := s.connectTarget(ctx, config.Connection)
	if err != nil {
		return result, err
	}
	defer cleanup()

	s.logger.Verbose("Creating tables %s", strings.Join(schema.Names(), ", "))
	if err := schema.Apply(ctx, conn); err != nil {
		return result, err
	}
	result.SchemaApplied = true
	s.logger.Info("✓ Schema created in '%s'", targetDB)
	return result, nil
}

// ensureDatabase creates or recreates the target database through the
// maintenance database.
func (s *DatasetService) ensureDatabase(ctx context.Context, config airroutes.ProvisionConfig, managementDB string, result *airroutes.ProvisionResult) error {
	targetDB := config.Connection.Database
	s.logger.Verbose("Connecting to maintenance database '%s'", managementDB)

	mgmt, cleanup, err := s.connect(ctx, config.Connection, managementDB)
	if err != nil {
		return err
	}
	defer cleanup()

	exists, err := s.dbManager.Exists(ctx, mgmt, targetDB)
	if err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if exists && !config.Overwrite {
		s.logger.Verbose("Database '%s' already exists", targetDB)
		return nil
	}

	if exists {
		s.logger.Verbose("Database '%s' exists. Requesting approval for overwrite.", targetDB)
		approved, err := s.approver.RequestApproval(ctx, airroutes.ActionOverwrite, targetDB)
		if err != nil {
			return fmt.Errorf("approval request failed: %w", err)
		}
		if !approved {
			return airroutes.ErrApprovalDenied
		}

		s.logger.Verbose("Terminating all connections to database '%s'", targetDB)
		if err := s.dbManager.TerminateConnections(ctx, mgmt, targetDB); err != nil {
			return fmt.Errorf("failed to terminate connections: %w", err)
		}

		s.logger.Verbose("Dropping database '%s'", targetDB)
		if err := s.dbManager.Drop(ctx, mgmt, targetDB); err != nil {
			return fmt.Errorf("failed to drop database: %w", err)
		}
		result.Dropped = true
	}

	s.logger.Info("Creating database '%s'", targetDB)
	if err := s.dbManager.Create(ctx, mgmt, targetDB); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	result.Created = true
	return nil
}
