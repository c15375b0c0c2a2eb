package loader

import (
	"fmt"
	"strings"

	"github.com/vvka-141/airroutes/internal/schema"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// Step is one stage transition of the load sequence. Its tables depend only
// on tables of earlier steps, so they may be loaded in any order.
type Step struct {
	Tables   []schema.Table
	Requires airroutes.Stage
	Reaches  airroutes.Stage
}

// Names returns the table names of the step.
func (s Step) Names() []string {
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}
	return names
}

func (s Step) String() string {
	return strings.Join(s.Names(), ", ")
}

// Steps returns the load sequence.
func Steps() []Step {
	return []Step{
		{
			Tables:   []schema.Table{schema.MustLookup(schema.Countries)},
			Requires: airroutes.StageSchemaCreated,
			Reaches:  airroutes.StageCountriesLoaded,
		},
		{
			Tables:   []schema.Table{schema.MustLookup(schema.Airlines), schema.MustLookup(schema.Airports)},
			Requires: airroutes.StageCountriesLoaded,
			Reaches:  airroutes.StageAirlinesAndAirportsLoaded,
		},
		{
			Tables:   []schema.Table{schema.MustLookup(schema.Planes)},
			Requires: airroutes.StageAirlinesAndAirportsLoaded,
			Reaches:  airroutes.StagePlanesLoaded,
		},
		{
			Tables:   []schema.Table{schema.MustLookup(schema.Routes)},
			Requires: airroutes.StagePlanesLoaded,
			Reaches:  airroutes.StageRoutesLoaded,
		},
	}
}

// StepFor returns the step that loads table.
func StepFor(table string) (Step, error) {
	for _, step := range Steps() {
		for _, t := range step.Tables {
			if strings.EqualFold(t.Name, table) {
				return step, nil
			}
		}
	}
	return Step{}, fmt.Errorf("unknown table %q (expected one of %s): %w",
		table, strings.Join(schema.Names(), ", "), airroutes.ErrInvalidConfig)
}

// StageFromCounts derives the stage of a database whose tables all exist.
// A step counts as done when every one of its tables holds rows; the first
// step that is not done ends the walk.
func StageFromCounts(counts []airroutes.TableCount) airroutes.Stage {
	rows := make(map[string]int64, len(counts))
	for _, c := range counts {
		rows[c.Table] = c.Rows
	}

	stage := airroutes.StageSchemaCreated
	for _, step := range Steps() {
		for _, t := range step.Tables {
			if rows[t.Name] == 0 {
				return stage
			}
		}
		stage = step.Reaches
	}
	return stage
}
