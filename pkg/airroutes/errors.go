package airroutes

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := svc.Load(ctx, cfg)
//	if errors.Is(err, airroutes.ErrUniqueViolation) {
//	    // table already populated: reset and reload
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrApprovalDenied indicates the user denied approval for the operation.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrExecutionFailed indicates SQL execution failed for an unclassified reason.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrDataFileNotFound indicates a .dat input file does not exist.
	ErrDataFileNotFound = errors.New("data file not found")

	// ErrUniqueViolation indicates a primary key collision: the table already
	// contains this data.
	ErrUniqueViolation = errors.New("uniqueness violation")

	// ErrForeignKeyViolation indicates a referenced parent row is missing,
	// usually because the load order was violated.
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrCheckViolation indicates a value outside its allowed domain
	// (Active or Codeshare).
	ErrCheckViolation = errors.New("check constraint violation")

	// ErrMalformedInput indicates a row whose field count or types do not
	// match the declared columns.
	ErrMalformedInput = errors.New("malformed input row")

	// ErrOutOfOrder indicates a load step was attempted before its predecessor.
	ErrOutOfOrder = errors.New("load step out of order")

	// ErrSchemaExists indicates the schema was already created.
	ErrSchemaExists = errors.New("schema already exists")

	// ErrSchemaMissing indicates the tables have not been created yet.
	ErrSchemaMissing = errors.New("schema not created")

	// ErrVerificationFailed indicates loaded data violates an integrity check.
	ErrVerificationFailed = errors.New("verification failed")
)

// usagePatterns are the messages cobra produces for command-line misuse.
var usagePatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument",
	"missing required argument",
	"flag needs an argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrDataFileNotFound):
		return ExitDataFileMissing
	case errors.Is(err, ErrUniqueViolation):
		return ExitUniqueViolation
	case errors.Is(err, ErrForeignKeyViolation):
		return ExitForeignKey
	case errors.Is(err, ErrCheckViolation):
		return ExitCheckViolation
	case errors.Is(err, ErrMalformedInput):
		return ExitMalformedInput
	case errors.Is(err, ErrOutOfOrder):
		return ExitOutOfOrder
	case errors.Is(err, ErrSchemaExists):
		return ExitSchemaExists
	case errors.Is(err, ErrSchemaMissing):
		return ExitSchemaMissing
	case errors.Is(err, ErrVerificationFailed):
		return ExitVerificationFailed
	case errors.Is(err, ErrExecutionFailed):
		return ExitExecutionFailed
	}

	errStr := err.Error()
	for _, p := range usagePatterns {
		if strings.HasPrefix(errStr, p) {
			return ExitUsageError
		}
	}

	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
