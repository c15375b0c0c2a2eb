package loader

import (
	"context"
	"fmt"

	"github.com/vvka-141/airroutes/internal/schema"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// Reset deletes every row of every table, children first, in one
// transaction. The schema is kept, so a reset database is at SchemaCreated.
func Reset(ctx context.Context, conn airroutes.DBConnection, logger airroutes.Logger) (*airroutes.ResetResult, error) {
	pc, err := conn.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer pc.Release()

	if _, err := pc.Exec(ctx, "BEGIN"); err != nil {
		return nil, fmt.Errorf("failed to begin reset: %w", Classify(err))
	}

	result := &airroutes.ResetResult{}
	for _, table := range schema.ReverseOrder() {
		tag, err := pc.Exec(ctx, "DELETE FROM "+table.Name)
		if err != nil {
			rollback(pc, logger)
			return nil, fmt.Errorf("failed to delete from %s: %w", table.Name, Classify(err))
		}
		logger.Verbose("Deleted %d rows from %s", tag.RowsAffected(), table.Name)
		result.Deleted = append(result.Deleted, airroutes.TableCount{Table: table.Name, Rows: tag.RowsAffected()})
	}

	if _, err := pc.Exec(ctx, "COMMIT"); err != nil {
		rollback(pc, logger)
		return nil, fmt.Errorf("failed to commit reset: %w", Classify(err))
	}
	return result, nil
}

// rollback aborts the open transaction. It uses a fresh context so a
// cancelled run still releases its locks.
func rollback(pc airroutes.PooledConnection, logger airroutes.Logger) {
	if _, err := pc.Exec(context.Background(), "ROLLBACK"); err != nil {
		logger.Verbose("ROLLBACK failed: %v", err)
	}
}
