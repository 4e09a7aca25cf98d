package logging

import "context"

// NullLogger discards everything. It stands in wherever logging is disabled
// so callers never have to nil-check their logger.
type NullLogger struct{}

// NewNullLogger returns the discard logger.
func NewNullLogger() *NullLogger { return &NullLogger{} }

func (l *NullLogger) Debug(ctx context.Context, msg string, fields Fields)            {}
func (l *NullLogger) Info(ctx context.Context, msg string, fields Fields)             {}
func (l *NullLogger) Warn(ctx context.Context, msg string, fields Fields)             {}
func (l *NullLogger) Error(ctx context.Context, msg string, err error, fields Fields) {}

// WithFields returns the logger unchanged; there is nothing to attach to.
func (l *NullLogger) WithFields(fields Fields) Logger { return l }

// Close is a no-op.
func (l *NullLogger) Close() error { return nil }
