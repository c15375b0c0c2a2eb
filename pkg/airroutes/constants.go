package airroutes

import (
	"strings"
	"time"
)

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess            = 0  // Command completed successfully
	ExitGeneralError       = 1  // Unknown or unclassified error
	ExitUsageError         = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic              = 3  // Internal panic (unexpected crash)
	ExitConfigError        = 10 // Invalid configuration or parameters
	ExitConnectionError    = 11 // Failed to connect to database
	ExitApprovalDenied     = 12 // User denied a destructive operation
	ExitExecutionFailed    = 13 // SQL execution failed
	ExitDataFileMissing    = 14 // A .dat file could not be found
	ExitUniqueViolation    = 20 // Table already holds the rows being loaded
	ExitForeignKey         = 21 // Parent row missing or load order violated
	ExitCheckViolation     = 22 // Value outside its allowed domain
	ExitMalformedInput     = 23 // Field count or type mismatch in a data file
	ExitOutOfOrder         = 24 // Step attempted before its predecessor
	ExitSchemaExists       = 25 // Tables already exist
	ExitSchemaMissing      = 26 // Tables have not been created
	ExitVerificationFailed = 27 // Loaded data failed an integrity check
)

const (
	// DefaultForceApprovalCountdown is the countdown duration before force approval proceeds.
	DefaultForceApprovalCountdown = 5 * time.Second

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultManagementDB is the default database to connect to for management operations.
	DefaultManagementDB = "postgres"

	// DefaultTimeout bounds a whole command run.
	DefaultTimeout = 10 * time.Minute

	// DefaultApplicationName is reported to the server as application_name.
	DefaultApplicationName = "airroutes"

	// NullSentinel marks a NULL field in .dat files.
	NullSentinel = `\N`

	// FieldDelimiter separates fields in .dat files.
	FieldDelimiter = ','

	// MaxErrorPreviewLength caps how much of an offending row is echoed in errors.
	MaxErrorPreviewLength = 200
)

// IsTemplateDatabase reports whether name is one of PostgreSQL's built-in
// template databases, which can never be dropped or overwritten.
func IsTemplateDatabase(name string) bool {
	switch strings.ToLower(name) {
	case "template0", "template1":
		return true
	}
	return false
}

// Preview truncates s to MaxErrorPreviewLength characters for error messages.
func Preview(s string) string {
	if len(s) <= MaxErrorPreviewLength {
		return s
	}
	return s[:MaxErrorPreviewLength] + "..."
}
