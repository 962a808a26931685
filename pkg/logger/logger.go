// Package logger provides structured logging utilities.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger is a structured JSON logger backed by slog.
type Logger struct {
	sl *slog.Logger
}

// New creates a Logger writing JSON to the given output at the given level.
func New(output io.Writer, level string) *Logger {
	if output == nil {
		output = os.Stdout
	}
	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return &Logger{sl: slog.New(handler)}
}

// With returns a new Logger with additional persistent fields.
func (l *Logger) With(keyvals ...any) *Logger {
	return &Logger{sl: l.sl.With(keyvals...)}
}

// Debug logs a message at debug level.
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.sl.Debug(msg, keyvals...)
}

// Info logs a message at info level.
func (l *Logger) Info(msg string, keyvals ...any) {
	l.sl.Info(msg, keyvals...)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(msg string, keyvals ...any) {
	l.sl.Warn(msg, keyvals...)
}

// Error logs a message at error level.
func (l *Logger) Error(msg string, keyvals ...any) {
	l.sl.Error(msg, keyvals...)
}
