package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/airroutes/internal/loader"
	"github.com/vvka-141/airroutes/internal/verify"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// routeSampler reads n joined routes back from conn, rendered one per line.
type routeSampler func(ctx context.Context, conn airroutes.DBConnection, n int) ([]string, error)

// poolProvider is implemented by connections backed by a pgx pool.
type poolProvider interface {
	Pool() *pgxpool.Pool
}

func gormSampleRoutes(ctx context.Context, conn airroutes.DBConnection, n int) ([]string, error) {
	pp, ok := conn.(poolProvider)
	if !ok {
		return nil, fmt.Errorf("route samples need a pooled connection: %w", airroutes.ErrInvalidConfig)
	}

	gdb, closeDB, err := verify.OpenGorm(pp.Pool())
	if err != nil {
		return nil, err
	}
	defer closeDB()

	routes, err := verify.SampleRoutes(ctx, gdb, n)
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(routes))
	for i, r := range routes {
		lines[i] = r.String()
	}
	return lines, nil
}

// Verify reports row counts, runs the integrity checks and samples joined
// routes. A failed check returns the result together with an error
// wrapping ErrVerificationFailed.
func (s *DatasetService) Verify(ctx context.Context, config airroutes.VerifyConfig) (*airroutes.VerifyResult, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	conn, cleanup, err := s.connectTarget(ctx, config.Connection)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	stage, counts, err := loader.DetectStage(ctx, conn)
	if err != nil {
		return nil, err
	}
	if stage == airroutes.StageEmpty {
		return nil, fmt.Errorf("tables have not been created in '%s': %w", config.Connection.Database, airroutes.ErrSchemaMissing)
	}
	result := &airroutes.VerifyResult{Stage: stage, Counts: counts}
	for _, c := range counts {
		s.logger.Verbose("%s: %d rows", c.Table, c.Rows)
	}

	checks, err := verify.RunChecks(ctx, conn)
	if err != nil {
		return result, err
	}
	result.Checks = checks

	if config.Samples > 0 && stage == airroutes.StageRoutesLoaded {
		samples, err := s.sampleRoutes(ctx, conn, config.Samples)
		if err != nil {
			return result, err
		}
		result.Samples = samples
	}

	if failed := result.Failed(); len(failed) > 0 {
		names := make([]string, len(failed))
		for i, f := range failed {
			names[i] = fmt.Sprintf("%s (%d)", f.Name, f.Violations)
		}
		return result, fmt.Errorf("%d integrity check(s) failed: %s: %w",
			len(failed), strings.Join(names, ", "), airroutes.ErrVerificationFailed)
	}
	return result, nil
}
