package dataset

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/vvka-141/airroutes/internal/schema"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// Issue is one problem found in a data file. Err is one of the airroutes
// sentinels: ErrMalformedInput, ErrCheckViolation, ErrUniqueViolation or
// ErrForeignKeyViolation.
type Issue struct {
	File    string
	Line    int
	Table   string
	Column  string
	Err     error
	Message string
}

func (i Issue) Error() string {
	loc := i.File
	if i.Line > 0 {
		loc = fmt.Sprintf("%s:%d", i.File, i.Line)
	}
	if i.Column != "" {
		return fmt.Sprintf("%s: %s.%s: %s", loc, i.Table, i.Column, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", loc, i.Table, i.Message)
}

func (i Issue) Unwrap() error { return i.Err }

// ValidateRows checks every record of f on its own: field count, column
// types, NOT NULL and domain checks. Primary key uniqueness within the file
// is checked too.
func ValidateRows(f *File) []Issue {
	var issues []Issue
	table := f.Table
	seen := make(map[string]int)

	issue := func(rec Record, column string, err error, format string, args ...any) {
		issues = append(issues, Issue{
			File:    f.Name,
			Line:    rec.Line,
			Table:   table.Name,
			Column:  column,
			Err:     err,
			Message: fmt.Sprintf(format, args...),
		})
	}

	for _, rec := range f.Records {
		if len(rec.Fields) != len(table.Columns) {
			issue(rec, "", airroutes.ErrMalformedInput, "expected %d fields, got %d: %s",
				len(table.Columns), len(rec.Fields), airroutes.Preview(rec.String()))
			continue
		}

		valid := true
		for i, col := range table.Columns {
			field := rec.Fields[i]
			if field.Null {
				if col.NotNull {
					issue(rec, col.Name, airroutes.ErrMalformedInput, "NULL in NOT NULL column")
					valid = false
				}
				continue
			}
			if err := checkType(col.Type, field.Value); err != nil {
				issue(rec, col.Name, airroutes.ErrMalformedInput, "%q is not a valid %s", field.Value, col.Type)
				valid = false
				continue
			}
			if len(col.Allowed) > 0 && !slices.Contains(col.Allowed, field.Value) {
				issue(rec, col.Name, airroutes.ErrCheckViolation, "%q is not one of %s", field.Value, quoteAll(col.Allowed))
				valid = false
			}
		}
		if !valid {
			continue
		}

		k, ok := key(table, rec, table.PrimaryKey)
		if !ok {
			continue
		}
		if first, dup := seen[k]; dup {
			issue(rec, "", airroutes.ErrUniqueViolation, "duplicate key (%s) first seen on line %d",
				strings.Join(table.PrimaryKey, ", "), first)
			continue
		}
		seen[k] = rec.Line
	}

	return issues
}

// ValidateReferences checks foreign keys across the files of ds. References
// into a table missing from ds are not checked; NULL references are allowed.
func ValidateReferences(ds Dataset) []Issue {
	var issues []Issue

	for _, table := range schema.Tables() {
		f := ds.Get(table.Name)
		if f == nil {
			continue
		}
		for _, fk := range table.ForeignKeys {
			parent := ds.Get(fk.RefTable)
			if parent == nil {
				continue
			}
			keys := make(map[string]bool, len(parent.Records))
			for _, rec := range parent.Records {
				if k, ok := key(parent.Table, rec, fk.RefColumns); ok {
					keys[k] = true
				}
			}

			for _, rec := range f.Records {
				if len(rec.Fields) != len(table.Columns) {
					continue
				}
				k, ok := key(table, rec, fk.Columns)
				if !ok || keys[k] {
					continue
				}
				issues = append(issues, Issue{
					File:    f.Name,
					Line:    rec.Line,
					Table:   table.Name,
					Column:  strings.Join(fk.Columns, ", "),
					Err:     airroutes.ErrForeignKeyViolation,
					Message: fmt.Sprintf("%s not present in %s(%s)", describe(table, rec, fk.Columns), fk.RefTable, strings.Join(fk.RefColumns, ", ")),
				})
			}
		}
	}

	return issues
}

// Validate runs ValidateRows on every file, in load order, followed by
// ValidateReferences.
func Validate(ds Dataset) []Issue {
	var issues []Issue
	for _, table := range schema.Tables() {
		if f := ds.Get(table.Name); f != nil {
			issues = append(issues, ValidateRows(f)...)
		}
	}
	return append(issues, ValidateReferences(ds)...)
}

func checkType(t schema.ColumnType, v string) error {
	var err error
	switch t {
	case schema.Integer:
		_, err = strconv.ParseInt(strings.TrimSpace(v), 10, 32)
	case schema.Float, schema.Numeric:
		_, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	return err
}

func describe(table schema.Table, rec Record, columns []string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = strconv.Quote(rec.Get(table.Index(c)).Value)
	}
	return strings.Join(parts, ", ")
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return "{" + strings.Join(quoted, ", ") + "}"
}
