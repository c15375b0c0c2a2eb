package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/vvka-141/airroutes/internal/schema"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

const queryExistingTables = `SELECT count(*) FROM unnest($1::text[]) AS t(name) WHERE to_regclass(t.name) IS NOT NULL`

// CountQuery returns a single UNION ALL aggregate yielding
// (table_name, row_count) for every table, in load order.
func CountQuery() string {
	tables := schema.Tables()
	parts := make([]string, len(tables))
	for i, t := range tables {
		parts[i] = fmt.Sprintf("SELECT %d AS ord, '%s' AS table_name, count(*) AS row_count FROM %s", i, t.Name, t.Name)
	}
	return "SELECT table_name, row_count FROM (\n  " +
		strings.Join(parts, "\n  UNION ALL\n  ") +
		"\n) AS counts ORDER BY ord"
}

// CountRows returns the row count of every table, in load order.
func CountRows(ctx context.Context, conn airroutes.DBConnection) ([]airroutes.TableCount, error) {
	rows, err := conn.Query(ctx, CountQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", Classify(err))
	}
	defer rows.Close()

	var counts []airroutes.TableCount
	for rows.Next() {
		var c airroutes.TableCount
		if err := rows.Scan(&c.Table, &c.Rows); err != nil {
			return nil, fmt.Errorf("failed to read row counts: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", Classify(err))
	}
	return counts, nil
}

// DetectStage reads the catalog and the row counts of the target database.
// Counts are nil when the schema has not been created. A partially created
// schema is reported as ErrSchemaMissing.
func DetectStage(ctx context.Context, conn airroutes.DBConnection) (airroutes.Stage, []airroutes.TableCount, error) {
	names := schema.Names()
	lower := make([]string, len(names))
	for i, n := range names {
		lower[i] = strings.ToLower(n)
	}

	var existing int64
	if err := conn.QueryRow(ctx, queryExistingTables, lower).Scan(&existing); err != nil {
		return airroutes.StageEmpty, nil, fmt.Errorf("failed to inspect catalog: %w", Classify(err))
	}

	switch {
	case existing == 0:
		return airroutes.StageEmpty, nil, nil
	case existing < int64(len(names)):
		return airroutes.StageEmpty, nil, fmt.Errorf("only %d of %d tables exist; drop the database and run 'airroutes init --overwrite': %w",
			existing, len(names), airroutes.ErrSchemaMissing)
	}

	counts, err := CountRows(ctx, conn)
	if err != nil {
		return airroutes.StageSchemaCreated, nil, err
	}
	return StageFromCounts(counts), counts, nil
}
