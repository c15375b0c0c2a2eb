package logging

import (
	"io"
	"os"
	"sync"
)

// ConsoleLogger prints one line per message for an operator watching a load.
// Verbose lines are dropped unless --verbose is set.
type ConsoleLogger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
}

func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewConsoleLoggerTo(os.Stderr, verbose)
}

func NewConsoleLoggerTo(out io.Writer, verbose bool) *ConsoleLogger {
	return &ConsoleLogger{out: out, verbose: verbose}
}

func (l *ConsoleLogger) Verbose(format string, args ...any) {
	if l.verbose {
		l.println("[VERBOSE] " + sprintf(format, args))
	}
}

func (l *ConsoleLogger) Info(format string, args ...any) {
	l.println(sprintf(format, args))
}

func (l *ConsoleLogger) Error(format string, args ...any) {
	l.println("[ERROR] " + sprintf(format, args))
}

func (l *ConsoleLogger) println(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, line+"\n")
}
