package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vvka-141/airroutes/internal/dataset"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

func TestPrintLoadResult(t *testing.T) {
	var out bytes.Buffer
	PrintLoadResult(&out, &airroutes.LoadResult{
		RunID:   "run-1",
		Loaded:  []airroutes.TableCount{{Table: "Airlines", Rows: 6162}, {Table: "Airports", Rows: 7698}},
		Skipped: []string{"Countries"},
		Stage:   airroutes.StageAirlinesAndAirportsLoaded,
	})

	text := out.String()
	assert.Contains(t, text, "run-1")
	assert.Contains(t, text, "Airlines")
	assert.Contains(t, text, "6162")
	assert.Contains(t, text, "Countries already loaded")
	assert.Contains(t, text, "AirlinesAndAirportsLoaded")
}

func TestPrintResetResult(t *testing.T) {
	var out bytes.Buffer
	PrintResetResult(&out, &airroutes.ResetResult{Deleted: []airroutes.TableCount{
		{Table: "Routes", Rows: 4}, {Table: "Planes", Rows: 3},
	}})

	text := out.String()
	assert.Less(t, strings.Index(text, "Routes"), strings.Index(text, "Planes"), "delete order kept")
	assert.Contains(t, text, "SchemaCreated")
}

func TestPrintStatus(t *testing.T) {
	var out bytes.Buffer
	PrintStatus(&out, &airroutes.StatusResult{
		Stage:  airroutes.StageCountriesLoaded,
		Counts: []airroutes.TableCount{{Table: "Countries", Rows: 2}},
	})

	text := out.String()
	assert.Contains(t, text, "CountriesLoaded")
	assert.Contains(t, text, "next: AirlinesAndAirportsLoaded")

	out.Reset()
	PrintStatus(&out, &airroutes.StatusResult{Stage: airroutes.StageRoutesLoaded})
	assert.NotContains(t, out.String(), "next:")
}

func TestPrintVerifyResult(t *testing.T) {
	var out bytes.Buffer
	PrintVerifyResult(&out, &airroutes.VerifyResult{
		Stage:   airroutes.StageRoutesLoaded,
		Checks:  []airroutes.CheckOutcome{{Name: "routes.equipment → planes", Violations: 2}},
		Samples: []string{"Test Air (TA): AAA → BBB"},
	})

	text := out.String()
	assert.Contains(t, text, "routes.equipment → planes")
	assert.Contains(t, text, SymbolCross)
	assert.Contains(t, text, "Test Air (TA): AAA → BBB")
}

func TestPrintSampleStats(t *testing.T) {
	var out bytes.Buffer
	PrintSampleStats(&out, dataset.SampleStats{CleanRoutes: 900, SampledRoutes: 350, EquipmentCodes: 41})

	text := out.String()
	assert.Contains(t, text, "900")
	assert.Contains(t, text, "350")
	assert.Contains(t, text, "41 equipment codes")
}
