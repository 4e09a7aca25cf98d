// Package logging provides the structured logger used across diskscout.
// Output goes to a file (with size based rotation) or to a stream such as
// stderr, rendered as plain text or one JSON object per line.
package logging

import "context"

// Level represents log severity
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Fields carries structured key/value context attached to a log line.
type Fields map[string]interface{}

// Logger is the logging surface handed to every component. Implementations
// must be safe for concurrent use.
type Logger interface {
	Debug(ctx context.Context, msg string, fields Fields)
	Info(ctx context.Context, msg string, fields Fields)
	Warn(ctx context.Context, msg string, fields Fields)
	Error(ctx context.Context, msg string, err error, fields Fields)

	// WithFields returns a logger that attaches the given fields to every
	// line on top of any inherited ones.
	WithFields(fields Fields) Logger

	// Close flushes and releases the underlying sink.
	Close() error
}

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return DebugLevel
	case "info", "INFO":
		return InfoLevel
	case "warn", "WARN", "warning", "WARNING":
		return WarnLevel
	case "error", "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// LevelString returns the canonical upper-case name of a level.
func LevelString(level Level) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
