// Package logging builds the process-wide zap logger. Console encoding,
// info level by default, debug when the --debug flag is set.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs the application logger. Falls back to a no-op logger if
// construction fails, so logging never blocks an audit.
func New(debug bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
