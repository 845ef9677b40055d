// Package logging holds the module-wide zap logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is silent until UseLogger or UseDevelopment is called.
var Logger = zap.NewNop()

// UseLogger replaces the module logger. A nil logger restores the no-op logger.
func UseLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	Logger = l
}

// UseDevelopment installs a human-readable logger at the given level.
func UseDevelopment(level zapcore.Level) error {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Logger = l
	return nil
}
