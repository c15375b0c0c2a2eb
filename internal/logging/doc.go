// Package logging implements airroutes.Logger.
//
// New selects the implementation from --log-format: "console" writes
// human-readable lines to stderr, "json" emits one zap record per message
// for log collectors. NullLogger discards everything.
package logging
