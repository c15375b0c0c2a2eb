package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/vvka-141/airroutes/internal/dataset"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// newTable returns a bordered table with the shared header and cell styles.
// Numeric columns listed in right are right-aligned.
func newTable(headers []string, right ...int) *table.Table {
	align := make(map[int]bool, len(right))
	for _, c := range right {
		align[c] = true
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(MutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			if align[col] {
				return CellStyle.Align(lipgloss.Right)
			}
			return CellStyle
		})
}

// CountsTable renders per-table row counts.
func CountsTable(counts []airroutes.TableCount) string {
	t := newTable([]string{"Table", "Rows"}, 1)
	for _, c := range counts {
		t.Row(c.Table, strconv.FormatInt(c.Rows, 10))
	}
	return t.String()
}

// PrintLoadResult writes the summary of a load run.
func PrintLoadResult(w io.Writer, r *airroutes.LoadResult) {
	fmt.Fprintln(w, TitleStyle.Render("Load "+r.RunID))
	if len(r.Loaded) > 0 {
		fmt.Fprintln(w, CountsTable(r.Loaded))
	}
	for _, name := range r.Skipped {
		fmt.Fprintln(w, MutedStyle.Render(fmt.Sprintf("%s %s already loaded, skipped", SymbolArrowRight, name)))
	}
	fmt.Fprintf(w, "%s Stage: %s\n", SuccessStyle.Render(SymbolCheck), r.Stage)
}

// PrintResetResult writes the rows deleted by a reset, in delete order.
func PrintResetResult(w io.Writer, r *airroutes.ResetResult) {
	t := newTable([]string{"Table", "Deleted"}, 1)
	for _, c := range r.Deleted {
		t.Row(c.Table, strconv.FormatInt(c.Rows, 10))
	}
	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "%s Stage: %s\n", SuccessStyle.Render(SymbolCheck), airroutes.StageSchemaCreated)
}

// PrintStatus writes the stage and, once a schema exists, the row counts.
func PrintStatus(w io.Writer, r *airroutes.StatusResult) {
	fmt.Fprintf(w, "%s %s\n", TitleStyle.Render("Stage:"), r.Stage)
	if len(r.Counts) > 0 {
		fmt.Fprintln(w, CountsTable(r.Counts))
	}
	if next := r.Stage.Next(); next != r.Stage {
		fmt.Fprintln(w, MutedStyle.Render(fmt.Sprintf("%s next: %s", SymbolArrowRight, next)))
	}
}

// PrintVerifyResult writes counts, integrity checks and sampled routes.
func PrintVerifyResult(w io.Writer, r *airroutes.VerifyResult) {
	fmt.Fprintf(w, "%s %s\n", TitleStyle.Render("Stage:"), r.Stage)
	if len(r.Counts) > 0 {
		fmt.Fprintln(w, CountsTable(r.Counts))
	}

	t := newTable([]string{"", "Check", "Violations"}, 2)
	for _, c := range r.Checks {
		mark := SuccessStyle.Render(SymbolCheck)
		if c.Violations > 0 {
			mark = ErrorStyle.Render(SymbolCross)
		}
		t.Row(mark, c.Name, strconv.FormatInt(c.Violations, 10))
	}
	fmt.Fprintln(w, t.String())

	if len(r.Samples) > 0 {
		fmt.Fprintln(w, TitleStyle.Render("Sample routes"))
		for _, s := range r.Samples {
			fmt.Fprintf(w, "  %s\n", s)
		}
	}
}

// PrintSampleStats writes what the sampler kept and why it dropped the rest.
func PrintSampleStats(w io.Writer, s dataset.SampleStats) {
	t := newTable([]string{"", "Routes"}, 1)
	t.Row("clean", strconv.Itoa(s.CleanRoutes))
	t.Row("sampled", strconv.Itoa(s.SampledRoutes))
	t.Row("equipment normalized", strconv.Itoa(s.NormalizedRoutes))
	t.Row("missing airline", strconv.Itoa(s.MissingAirlines))
	t.Row("missing airport", strconv.Itoa(s.MissingAirports))
	t.Row("missing country", strconv.Itoa(s.MissingCountries))
	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "%s %d equipment codes\n", SymbolArrowRight, s.EquipmentCodes)
}
