package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Format selects how log lines are rendered.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// FileLoggerConfig describes a rotating log file. A zero MaxSize disables
// rotation entirely.
type FileLoggerConfig struct {
	Path       string
	Format     Format
	Level      Level
	MaxSize    int64 // bytes written before the file rolls over
	MaxBackups int   // rotated files kept next to the live one
}

// FileLogger writes structured lines to a file or an arbitrary stream. All
// writes go through one mutex so concurrent callers never interleave lines.
type FileLogger struct {
	config      FileLoggerConfig
	file        *os.File
	writer      io.Writer
	mu          sync.Mutex
	fields      Fields
	currentSize int64
}

// NewFileLogger opens the configured log file in append mode, creating
// parent directories as needed.
func NewFileLogger(config FileLoggerConfig) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &FileLogger{
		config:      config,
		file:        file,
		writer:      file,
		currentSize: info.Size(),
	}, nil
}

// NewStreamLogger returns a logger writing to an arbitrary stream, typically
// stderr when no log file is configured. Stream loggers never rotate.
func NewStreamLogger(w io.Writer, format Format, level Level) *FileLogger {
	return &FileLogger{
		config: FileLoggerConfig{Format: format, Level: level},
		writer: w,
	}
}

func (l *FileLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.write(DebugLevel, msg, nil, fields)
}

func (l *FileLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.write(InfoLevel, msg, nil, fields)
}

func (l *FileLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.write(WarnLevel, msg, nil, fields)
}

func (l *FileLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.write(ErrorLevel, msg, err, fields)
}

// WithFields returns a logger that stamps every line with the given fields
// on top of any inherited ones. The derived logger shares the underlying
// file.
func (l *FileLogger) WithFields(fields Fields) Logger {
	return &FileLogger{
		config:      l.config,
		file:        l.file,
		writer:      l.writer,
		fields:      mergeFields(l.fields, fields),
		currentSize: l.currentSize,
	}
}

// Close closes the underlying file when one is open.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// write renders one line and appends it, rotating first when the live file
// has outgrown its budget.
func (l *FileLogger) write(level Level, msg string, err error, fields Fields) {
	if level < l.config.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.config.MaxSize > 0 && l.currentSize >= l.config.MaxSize {
		l.rotateLocked()
	}

	merged := mergeFields(l.fields, fields)

	var line []byte
	if l.config.Format == FormatJSON {
		line = encodeJSON(level, msg, err, merged)
	} else {
		line = encodeText(level, msg, err, merged)
	}
	if line == nil {
		return
	}

	n, _ := l.writer.Write(line)
	l.currentSize += int64(n)
}

func mergeFields(base, extra Fields) Fields {
	merged := make(Fields, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func encodeJSON(level Level, msg string, err error, fields Fields) []byte {
	entry := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"level":     LevelString(level),
		"message":   msg,
	}
	if err != nil {
		entry["error"] = err.Error()
	}
	for k, v := range fields {
		entry[k] = v
	}

	data, jsonErr := json.Marshal(entry)
	if jsonErr != nil {
		return nil
	}
	return append(data, '\n')
}

// encodeText renders "timestamp [LEVEL] message key=value ...", fields in
// key order so repeated runs stay diffable.
func encodeText(level Level, msg string, err error, fields Fields) []byte {
	var b strings.Builder
	b.WriteString(time.Now().UTC().Format("2006-01-02T15:04:05.000Z"))
	b.WriteString(" [")
	b.WriteString(LevelString(level))
	b.WriteString("] ")
	b.WriteString(msg)

	if err != nil {
		fmt.Fprintf(&b, " error=%q", err.Error())
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}

	b.WriteByte('\n')
	return []byte(b.String())
}

// rotateLocked shifts the backup chain up by one and reopens a fresh live
// file. Rename errors are ignored: logging must never take the process
// down.
func (l *FileLogger) rotateLocked() {
	if l.file == nil {
		return
	}
	l.file.Close()

	for i := l.config.MaxBackups - 1; i >= 1; i-- {
		os.Rename(
			fmt.Sprintf("%s.%d", l.config.Path, i),
			fmt.Sprintf("%s.%d", l.config.Path, i+1),
		)
	}
	os.Rename(l.config.Path, l.config.Path+".1")
	if l.config.MaxBackups > 0 {
		os.Remove(fmt.Sprintf("%s.%d", l.config.Path, l.config.MaxBackups+1))
	}

	file, err := os.OpenFile(l.config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}
	l.file = file
	l.writer = file
	l.currentSize = 0
}
