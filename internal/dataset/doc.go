// Package dataset reads, checks and subsets OpenFlights-style .dat files.
//
// A .dat file is comma-delimited without a header. Fields may be quoted with
// double quotes and \N marks a NULL. The field order of every record equals
// the column order of its table in package schema.
//
// Three parts live here:
//   - the codec (Read, Write) that keeps source line numbers for error reports
//   - the offline validator, which finds the same classes of problems the
//     database would reject (malformed rows, domain checks, duplicate keys,
//     missing parents) before any COPY is attempted
//   - the sampler, which cuts a small referentially consistent subset of
//     the full dataset
package dataset
