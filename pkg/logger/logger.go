// Package logger is the component-scoped logging surface used across
// TeleClaw. Every call names the component ("telegram", "agent", "api", …)
// so log lines from the single process remain attributable.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var base atomic.Pointer[slog.Logger]

func init() {
	base.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: levelFromEnv(),
	})))
}

// SetLogger replaces the backing slog.Logger. Intended for tests.
func SetLogger(l *slog.Logger) {
	if l != nil {
		base.Store(l)
	}
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("TELECLAW_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func log(level slog.Level, component, msg string, fields map[string]any) {
	attrs := make([]any, 0, 2+2*len(fields))
	attrs = append(attrs, "component", component)
	for k, v := range fields {
		attrs = append(attrs, k, v)
	}
	base.Load().Log(context.Background(), level, msg, attrs...)
}

// DebugC logs a debug message for a component.
func DebugC(component, msg string) { log(slog.LevelDebug, component, msg, nil) }

// InfoC logs an info message for a component.
func InfoC(component, msg string) { log(slog.LevelInfo, component, msg, nil) }

// WarnC logs a warning for a component.
func WarnC(component, msg string) { log(slog.LevelWarn, component, msg, nil) }

// ErrorC logs an error for a component.
func ErrorC(component, msg string) { log(slog.LevelError, component, msg, nil) }

// DebugCF logs a debug message with structured fields.
func DebugCF(component, msg string, fields map[string]any) {
	log(slog.LevelDebug, component, msg, fields)
}

// InfoCF logs an info message with structured fields.
func InfoCF(component, msg string, fields map[string]any) {
	log(slog.LevelInfo, component, msg, fields)
}

// WarnCF logs a warning with structured fields.
func WarnCF(component, msg string, fields map[string]any) {
	log(slog.LevelWarn, component, msg, fields)
}

// ErrorCF logs an error with structured fields.
func ErrorCF(component, msg string, fields map[string]any) {
	log(slog.LevelError, component, msg, fields)
}
