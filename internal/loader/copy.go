package loader

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vvka-141/airroutes/internal/schema"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// CopyStatement returns the COPY ... FROM STDIN statement for table.
// Columns are listed explicitly in file order.
func CopyStatement(table schema.Table) string {
	return fmt.Sprintf(`COPY %s (%s) FROM STDIN WITH (FORMAT csv, DELIMITER '%c', NULL '%s')`,
		table.Name,
		strings.Join(table.ColumnNames(), ", "),
		airroutes.FieldDelimiter,
		airroutes.NullSentinel,
	)
}

// CopyTable streams data into table and returns the number of rows inserted.
// The COPY is atomic: on error no row of data is visible. Errors are
// classified with Classify.
func CopyTable(ctx context.Context, conn airroutes.DBConnection, table schema.Table, data io.Reader) (int64, error) {
	tag, err := conn.CopyFrom(ctx, data, CopyStatement(table))
	if err != nil {
		return 0, Classify(err)
	}
	return tag.RowsAffected(), nil
}
