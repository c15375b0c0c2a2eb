package loader

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/vvka-141/airroutes/internal/checksum"
	"github.com/vvka-141/airroutes/internal/dataset"
	"github.com/vvka-141/airroutes/internal/schema"
	"github.com/vvka-141/airroutes/internal/source"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// Plan selects what a Run loads.
type Plan struct {
	// Source provides the .dat files.
	Source source.Source

	// Files overrides the file name per table. Missing entries use
	// schema.Table.File.
	Files map[string]string

	// Table restricts the run to one table. Its step's precondition must hold.
	Table string

	// Resume skips tables that already hold rows.
	Resume bool

	// Validate checks each file row by row before its COPY.
	Validate bool

	// SkipOrderCheck lets the database enforce the load order through its
	// foreign keys instead of failing early with ErrOutOfOrder.
	SkipOrderCheck bool

	RunID string
}

// fileName returns the data file name for table.
func (p Plan) fileName(table schema.Table) string {
	if name := p.Files[table.Name]; name != "" {
		return name
	}
	return table.File
}

// Runner executes load plans one table at a time, in load order.
type Runner struct {
	logger airroutes.Logger
}

// NewRunner creates a Runner that reports progress to logger.
func NewRunner(logger airroutes.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run loads the tables selected by plan and stops at the first failure.
// The returned result is non-nil whenever the target could be inspected,
// also when err is set, and lists the tables loaded before the failure.
func (r *Runner) Run(ctx context.Context, conn airroutes.DBConnection, plan Plan) (*airroutes.LoadResult, error) {
	stage, counts, err := DetectStage(ctx, conn)
	if err != nil {
		return nil, err
	}
	if stage == airroutes.StageEmpty {
		return nil, newLoadError("", "", 0, fmt.Errorf("tables have not been created: %w", airroutes.ErrSchemaMissing))
	}
	r.logger.Verbose("Database is at stage %s", stage)

	result := &airroutes.LoadResult{RunID: plan.RunID, Stage: stage}

	steps, err := r.selectSteps(plan, stage)
	if err != nil {
		return result, err
	}

	loaded := make(map[string]bool, len(counts))
	for _, c := range counts {
		loaded[c.Table] = c.Rows > 0
	}

	for _, step := range steps {
		for _, table := range step.Tables {
			if plan.Table != "" && !strings.EqualFold(table.Name, plan.Table) {
				continue
			}
			if plan.Resume && loaded[table.Name] {
				r.logger.Info("Skipping %s: already loaded", table.Name)
				result.Skipped = append(result.Skipped, table.Name)
				continue
			}

			n, err := r.loadTable(ctx, conn, plan, table)
			if err != nil {
				result.Stage = r.finalStage(ctx, conn, result.Stage)
				return result, err
			}
			result.Loaded = append(result.Loaded, airroutes.TableCount{Table: table.Name, Rows: n})
		}
	}

	result.Stage = r.finalStage(ctx, conn, result.Stage)
	return result, nil
}

// selectSteps returns the steps plan runs, checking the order precondition
// of a single-table run against stage.
func (r *Runner) selectSteps(plan Plan, stage airroutes.Stage) ([]Step, error) {
	if plan.Table == "" {
		return Steps(), nil
	}

	step, err := StepFor(plan.Table)
	if err != nil {
		return nil, err
	}
	if !plan.SkipOrderCheck && !stage.Reached(step.Requires) {
		table, _ := schema.Lookup(plan.Table)
		return nil, newLoadError(table.Name, "", 0, fmt.Errorf("%s requires stage %s but the database is at %s: %w",
			table.Name, step.Requires, stage, airroutes.ErrOutOfOrder))
	}
	return []Step{step}, nil
}

// loadTable reads, optionally validates and copies one file.
func (r *Runner) loadTable(ctx context.Context, conn airroutes.DBConnection, plan Plan, table schema.Table) (int64, error) {
	name := plan.fileName(table)

	data, err := plan.Source.ReadFile(ctx, name)
	if err != nil {
		return 0, newLoadError(table.Name, name, 0, err)
	}

	if plan.Validate {
		if err := r.validate(table, name, data); err != nil {
			return 0, err
		}
	}

	r.logger.Verbose("COPY %s from %s (%d bytes, sha256 %s)",
		table.Name, name, len(data), checksum.Short(checksum.New().CalculateNormalized(data)))
	n, err := CopyTable(ctx, conn, table, bytes.NewReader(data))
	if err != nil {
		return 0, newLoadError(table.Name, name, 0, err)
	}

	r.logger.Info("✓ %s: %d rows from %s", table.Name, n, name)
	return n, nil
}

// validate runs the row-level checks and reports the first issue.
func (r *Runner) validate(table schema.Table, name string, data []byte) error {
	f, err := dataset.Parse(table, name, data)
	if err != nil {
		return newLoadError(table.Name, name, 0, err)
	}

	issues := dataset.ValidateRows(f)
	if len(issues) == 0 {
		return nil
	}
	for _, issue := range issues[1:] {
		r.logger.Verbose("%s", issue.Error())
	}
	if len(issues) > 1 {
		r.logger.Error("%s: %d rows rejected by validation", name, len(issues))
	}
	first := issues[0]
	return newLoadError(table.Name, name, first.Line, first)
}

// finalStage re-reads the stage after a run, falling back to fallback when
// the database cannot be inspected.
func (r *Runner) finalStage(ctx context.Context, conn airroutes.DBConnection, fallback airroutes.Stage) airroutes.Stage {
	stage, _, err := DetectStage(ctx, conn)
	if err != nil {
		r.logger.Verbose("Could not re-read stage: %v", err)
		return fallback
	}
	return stage
}
