package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/vvka-141/airroutes/internal/loader"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// Check is an integrity query counting rows that break one rule.
type Check struct {
	Name  string
	Query string
}

// CheckResult is the number of offending rows found by a Check.
type CheckResult = airroutes.CheckOutcome

// Checks returns the integrity checks. The database enforces every rule
// already; a non-zero count means a constraint was dropped or bypassed.
func Checks() []Check {
	return []Check{
		{"airlines.country → countries", `SELECT count(*) FROM Airlines a WHERE a.Country IS NOT NULL AND NOT EXISTS (SELECT 1 FROM Countries c WHERE c.Name = a.Country)`},
		{"airports.country → countries", `SELECT count(*) FROM Airports a WHERE a.Country IS NOT NULL AND NOT EXISTS (SELECT 1 FROM Countries c WHERE c.Name = a.Country)`},
		{"routes.airlineid → airlines", `SELECT count(*) FROM Routes r WHERE NOT EXISTS (SELECT 1 FROM Airlines a WHERE a.AirlineID = r.AirlineID)`},
		{"routes.sourceairportid → airports", `SELECT count(*) FROM Routes r WHERE NOT EXISTS (SELECT 1 FROM Airports a WHERE a.AirportID = r.SourceAirportID)`},
		{"routes.destinationairportid → airports", `SELECT count(*) FROM Routes r WHERE NOT EXISTS (SELECT 1 FROM Airports a WHERE a.AirportID = r.DestinationAirportID)`},
		{"routes.equipment → planes", `SELECT count(*) FROM Routes r WHERE NOT EXISTS (SELECT 1 FROM Planes p WHERE p.IATACode = r.Equipment)`},
		{"airlines.active in (Y, N)", `SELECT count(*) FROM Airlines WHERE Active IS NULL OR Active NOT IN ('Y', 'N')`},
		{"routes.codeshare in (Y, '', NULL)", `SELECT count(*) FROM Routes WHERE Codeshare IS NOT NULL AND Codeshare NOT IN ('Y', '')`},
	}
}

// checksQuery combines all checks into one UNION ALL aggregate.
func checksQuery(checks []Check) string {
	parts := make([]string, len(checks))
	for i, c := range checks {
		parts[i] = fmt.Sprintf("SELECT %d AS ord, (%s) AS violations", i, c.Query)
	}
	return "SELECT violations FROM (\n  " + strings.Join(parts, "\n  UNION ALL\n  ") + "\n) AS checks ORDER BY ord"
}

// RunChecks evaluates every check in a single round trip.
func RunChecks(ctx context.Context, conn airroutes.DBConnection) ([]CheckResult, error) {
	checks := Checks()
	rows, err := conn.Query(ctx, checksQuery(checks))
	if err != nil {
		return nil, fmt.Errorf("failed to run integrity checks: %w", loader.Classify(err))
	}
	defer rows.Close()

	results := make([]CheckResult, 0, len(checks))
	for rows.Next() {
		if len(results) == len(checks) {
			return nil, fmt.Errorf("integrity checks returned more rows than checks: %w", airroutes.ErrExecutionFailed)
		}
		r := CheckResult{Name: checks[len(results)].Name}
		if err := rows.Scan(&r.Violations); err != nil {
			return nil, fmt.Errorf("failed to read integrity checks: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to run integrity checks: %w", loader.Classify(err))
	}
	return results, nil
}

// Failed returns the checks with at least one violation.
func Failed(results []CheckResult) []CheckResult {
	var failed []CheckResult
	for _, r := range results {
		if r.Violations > 0 {
			failed = append(failed, r)
		}
	}
	return failed
}
