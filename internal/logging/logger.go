package logging

import (
	"fmt"

	"github.com/vvka-141/airroutes/pkg/airroutes"
)

// Supported values of --log-format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New returns the logger for format.
func New(format string, verbose bool) (airroutes.Logger, error) {
	switch format {
	case "", FormatConsole:
		return NewConsoleLogger(verbose), nil
	case FormatJSON:
		return NewJSONLogger(verbose), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (use %s or %s): %w",
			format, FormatConsole, FormatJSON, airroutes.ErrInvalidConfig)
	}
}

var (
	_ airroutes.Logger = (*ConsoleLogger)(nil)
	_ airroutes.Logger = (*ZapLogger)(nil)
	_ airroutes.Logger = (*NullLogger)(nil)
)
