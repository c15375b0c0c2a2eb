// Package verify checks a loaded database: row counts per table, integrity
// queries that must all return zero, and a few sample routes joined with
// their parents through gorm.
package verify
