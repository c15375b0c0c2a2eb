package loader

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// sqlStateClasses maps SQLSTATE codes to the airroutes error taxonomy.
var sqlStateClasses = map[string]error{
	"23505": airroutes.ErrUniqueViolation,
	"23503": airroutes.ErrForeignKeyViolation,
	"23514": airroutes.ErrCheckViolation,
	"22P04": airroutes.ErrMalformedInput, // bad_copy_file_format
	"22P02": airroutes.ErrMalformedInput, // invalid_text_representation
	"22003": airroutes.ErrMalformedInput, // numeric_value_out_of_range
	"22007": airroutes.ErrMalformedInput, // invalid_datetime_format
	"22008": airroutes.ErrMalformedInput, // datetime_field_overflow
	"23502": airroutes.ErrMalformedInput, // not_null_violation
	"22001": airroutes.ErrMalformedInput, // string_data_right_truncation
}

// copyLinePattern extracts the line number from a COPY error context such as
// `COPY airlines, line 3, column active: "X"`.
var copyLinePattern = regexp.MustCompile(`COPY \w+, line (\d+)`)

// Classify wraps err with the sentinel matching its SQLSTATE. Unknown
// server errors become ErrExecutionFailed. Context cancellation is returned
// unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%w: %w", airroutes.ErrExecutionFailed, err)
	}

	sentinel, ok := sqlStateClasses[pgErr.Code]
	if !ok {
		sentinel = airroutes.ErrExecutionFailed
	}
	if pgErr.Detail != "" {
		return fmt.Errorf("%w: %w (%s)", sentinel, err, pgErr.Detail)
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// ErrorLine returns the data file line a COPY error points at, or 0.
func ErrorLine(err error) int {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return 0
	}
	m := copyLinePattern.FindStringSubmatch(pgErr.Where)
	if m == nil {
		return 0
	}
	line, _ := strconv.Atoi(m[1])
	return line
}

// HintFor returns the operator guidance for a classified load error.
func HintFor(err error) string {
	switch {
	case errors.Is(err, airroutes.ErrUniqueViolation):
		return "The table already holds these rows. Run 'airroutes reset' and load again from Countries."
	case errors.Is(err, airroutes.ErrForeignKeyViolation):
		return "A referenced parent row is missing. Load order is Countries, Airlines and Airports, Planes, Routes."
	case errors.Is(err, airroutes.ErrCheckViolation):
		return `Active must be Y or N; Codeshare must be Y, empty or \N.`
	case errors.Is(err, airroutes.ErrMalformedInput):
		return "Run 'airroutes validate <data_path>' to list every offending row."
	case errors.Is(err, airroutes.ErrOutOfOrder):
		return "Run 'airroutes status' to see which step comes next, or load without --table."
	case errors.Is(err, airroutes.ErrSchemaMissing):
		return "Run 'airroutes init' to create the tables first."
	case errors.Is(err, airroutes.ErrDataFileNotFound):
		return "Check the data path and the file names configured in airroutes.yaml."
	}
	return ""
}

// LoadError reports the table, file and line a load step failed on.
type LoadError struct {
	Table string
	File  string
	Line  int
	Err   error
	Hint  string
}

// newLoadError builds a LoadError, taking the line from a COPY error when
// line is unknown.
func newLoadError(table, file string, line int, err error) *LoadError {
	if line == 0 {
		line = ErrorLine(err)
	}
	return &LoadError{Table: table, File: file, Line: line, Err: err, Hint: HintFor(err)}
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("load")
	if e.Table != "" {
		b.WriteString(" ")
		b.WriteString(e.Table)
	}
	switch {
	case e.File != "" && e.Line > 0:
		fmt.Fprintf(&b, " (%s:%d)", e.File, e.Line)
	case e.File != "":
		fmt.Fprintf(&b, " (%s)", e.File)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.Hint != "" {
		b.WriteString("\n\nHint: ")
		b.WriteString(e.Hint)
	}
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }
