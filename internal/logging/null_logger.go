package logging

import "github.com/vvka-141/airroutes/pkg/airroutes"

// NullLogger drops every message. Tests and library callers without output
// use it.
type NullLogger struct{}

// NewNullLogger returns a NullLogger.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (*NullLogger) Verbose(string, ...any) {}
func (*NullLogger) Info(string, ...any)    {}
func (*NullLogger) Error(string, ...any)   {}

var _ airroutes.Logger = (*NullLogger)(nil)
