// Package zaplog adapts go.uber.org/zap to the core.Logger interface.
package zaplog

import (
	"go.uber.org/zap"

	"github.com/Helix128/EasyAsync/core"
)

// Logger forwards library log entries to a zap.Logger.
// Install it with core.SetLogger.
type Logger struct {
	base *zap.Logger
}

var _ core.Logger = (*Logger)(nil)

// New wraps base. A nil base means a no-op zap logger.
func New(base *zap.Logger) *Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return &Logger{base: base}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...core.Field) {
	l.base.Debug(msg, convert(fields)...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...core.Field) {
	l.base.Info(msg, convert(fields)...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...core.Field) {
	l.base.Warn(msg, convert(fields)...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...core.Field) {
	l.base.Error(msg, convert(fields)...)
}

func convert(fields []core.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}
