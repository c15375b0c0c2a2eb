package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a *zap.Logger to the airroutes.Logger interface.
// Verbose maps to debug level, which is enabled only in verbose mode.
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger wraps an existing zap logger.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{logger: logger}
}

// NewJSONLogger builds a ZapLogger emitting JSON lines to stderr.
func NewJSONLogger(verbose bool) *ZapLogger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return NewZapLogger(zap.New(core))
}

// With returns a logger that attaches fields to every record.
func (l *ZapLogger) With(fields ...zap.Field) *ZapLogger {
	return &ZapLogger{logger: l.logger.With(fields...)}
}

// Verbose logs at debug level.
func (l *ZapLogger) Verbose(format string, args ...any) {
	if l.logger.Core().Enabled(zapcore.DebugLevel) {
		l.logger.Debug(sprintf(format, args))
	}
}

// Info logs at info level.
func (l *ZapLogger) Info(format string, args ...any) {
	l.logger.Info(sprintf(format, args))
}

// Error logs at error level.
func (l *ZapLogger) Error(format string, args ...any) {
	l.logger.Error(sprintf(format, args))
}

// Sync flushes buffered records.
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

func sprintf(format string, args []any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
