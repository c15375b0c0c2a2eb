// Package retry re-runs connection attempts that fail for transient reasons.
//
// Only establishing a connection is retried. Once a COPY or DDL statement
// has reached the server its outcome is final: constraint violations, bad
// input and schema conflicts are classified as fatal so that a load step is
// never silently repeated.
//
// The db connectors build one Executor from PostgreSQLErrorClassifier and an
// ExponentialBackoff sized by airroutes.DefaultRetryMaxAttempts, and log each
// retry through WithOnRetry.
package retry
