package logging

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// newTempFileLogger opens a file logger under a temp dir and returns the
// logger together with the log path.
func newTempFileLogger(t *testing.T, config FileLoggerConfig) (*FileLogger, string) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "diskscout-logging-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	config.Path = filepath.Join(tempDir, "diskscout.log")
	logger, err := NewFileLogger(config)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	return logger, config.Path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(content)
}

// TestFileLoggerCreatesNestedDirectory tests parent directory creation
func TestFileLoggerCreatesNestedDirectory(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "diskscout-logging-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "var", "log", "diskscout.log")
	logger, err := NewFileLogger(FileLoggerConfig{Path: path, Format: FormatText})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file was not created: %v", err)
	}
}

// TestFileLoggerLevelFiltering tests that lines below the configured level
// are dropped
func TestFileLoggerLevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		dropped []string
		kept    []string
	}{
		{"Info", InfoLevel, []string{"debug line"}, []string{"info line", "warn line", "error line"}},
		{"Debug", DebugLevel, nil, []string{"debug line", "info line", "warn line", "error line"}},
		{"Error", ErrorLevel, []string{"debug line", "info line", "warn line"}, []string{"error line"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, path := newTempFileLogger(t, FileLoggerConfig{Format: FormatText, Level: tt.level})

			ctx := context.Background()
			logger.Debug(ctx, "debug line", nil)
			logger.Info(ctx, "info line", nil)
			logger.Warn(ctx, "warn line", nil)
			logger.Error(ctx, "error line", nil, nil)
			logger.Close()

			content := readLog(t, path)
			for _, msg := range tt.dropped {
				if strings.Contains(content, msg) {
					t.Errorf("%q should be filtered at this level", msg)
				}
			}
			for _, msg := range tt.kept {
				if !strings.Contains(content, msg) {
					t.Errorf("%q missing from the log", msg)
				}
			}
		})
	}
}

// TestFileLoggerTextFormat tests the text line layout and field ordering
func TestFileLoggerTextFormat(t *testing.T) {
	logger, path := newTempFileLogger(t, FileLoggerConfig{Format: FormatText, Level: InfoLevel})

	logger.Info(context.Background(), "compare finished", Fields{"root": "/data", "files": 42})
	logger.Close()

	line := readLog(t, path)
	if !strings.Contains(line, "[INFO] compare finished") {
		t.Errorf("line is missing the level marker and message:\n%s", line)
	}
	// Fields render sorted by key.
	if !strings.Contains(line, "files=42 root=/data") {
		t.Errorf("fields are missing or out of order:\n%s", line)
	}
}

// TestFileLoggerJSONFormat tests one-object-per-line JSON output
func TestFileLoggerJSONFormat(t *testing.T) {
	logger, path := newTempFileLogger(t, FileLoggerConfig{Format: FormatJSON, Level: InfoLevel})

	logger.Error(context.Background(), "walk failed", errors.New("permission denied"), Fields{"root": "/data"})
	logger.Close()

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(readLog(t, path)), &entry); err != nil {
		t.Fatalf("log line is not valid JSON: %v", err)
	}

	if entry["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", entry["level"])
	}
	if entry["message"] != "walk failed" {
		t.Errorf("message = %v, want 'walk failed'", entry["message"])
	}
	if entry["error"] != "permission denied" {
		t.Errorf("error = %v, want 'permission denied'", entry["error"])
	}
	if entry["root"] != "/data" {
		t.Errorf("root = %v, want /data", entry["root"])
	}
	if entry["timestamp"] == nil {
		t.Error("timestamp should be present")
	}
}

// TestFileLoggerWithFields tests inherited fields merging with per-line ones
func TestFileLoggerWithFields(t *testing.T) {
	logger, path := newTempFileLogger(t, FileLoggerConfig{Format: FormatJSON, Level: InfoLevel})

	scoped := logger.WithFields(Fields{"component": "scan"})
	scoped.Info(context.Background(), "started", Fields{"root": "/data"})
	logger.Close()

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(readLog(t, path)), &entry); err != nil {
		t.Fatalf("log line is not valid JSON: %v", err)
	}
	if entry["component"] != "scan" {
		t.Errorf("component = %v, want the inherited field", entry["component"])
	}
	if entry["root"] != "/data" {
		t.Errorf("root = %v, want the per-line field", entry["root"])
	}
}

// TestStreamLogger tests the no-file variant used for stderr logging
func TestStreamLogger(t *testing.T) {
	var buf strings.Builder
	logger := NewStreamLogger(&buf, FormatText, InfoLevel)

	ctx := context.Background()
	logger.Debug(ctx, "hidden", nil)
	logger.Info(ctx, "visible message", Fields{"root": "/data"})

	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Error("debug line should be filtered at info level")
	}
	if !strings.Contains(output, "visible message") || !strings.Contains(output, "root=/data") {
		t.Errorf("stream output is incomplete:\n%s", output)
	}
}

// TestFileLoggerRotation tests the backup chain when MaxSize is exceeded
func TestFileLoggerRotation(t *testing.T) {
	logger, path := newTempFileLogger(t, FileLoggerConfig{
		Format:     FormatText,
		Level:      InfoLevel,
		MaxSize:    100,
		MaxBackups: 2,
	})

	ctx := context.Background()
	for i := 0; i < 20; i++ {
		logger.Info(ctx, "a line long enough to push the file past its rotation budget", nil)
	}
	logger.Close()

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Errorf("backup file .1 should exist after rotation: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("live log file should still exist: %v", err)
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Error("backups beyond MaxBackups should be removed")
	}
}

// TestFileLoggerConcurrentWrites tests that parallel writers never tear lines
func TestFileLoggerConcurrentWrites(t *testing.T) {
	logger, path := newTempFileLogger(t, FileLoggerConfig{Format: FormatText, Level: InfoLevel})

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				logger.Info(ctx, "concurrent line", Fields{"goroutine": id, "iteration": j})
			}
		}(i)
	}
	wg.Wait()
	logger.Close()

	lines := strings.Split(strings.TrimSpace(readLog(t, path)), "\n")
	if len(lines) != 1000 {
		t.Errorf("log lines = %d, want 1000", len(lines))
	}
	for _, line := range lines {
		if !strings.Contains(line, "concurrent line") {
			t.Fatalf("torn log line: %q", line)
		}
	}
}

// TestNullLogger tests that the discard logger is safe everywhere
func TestNullLogger(t *testing.T) {
	logger := NewNullLogger()
	ctx := context.Background()

	logger.Debug(ctx, "debug", nil)
	logger.Info(ctx, "info", nil)
	logger.Warn(ctx, "warn", nil)
	logger.Error(ctx, "error", nil, nil)

	if logger.WithFields(Fields{"key": "value"}) == nil {
		t.Error("WithFields should return a logger")
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

// TestParseLevel tests config string mapping with the info default
func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"ERROR", ErrorLevel},
		{"trace", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// TestLevelString tests canonical level names
func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := LevelString(tt.level); got != tt.want {
			t.Errorf("LevelString(%v) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
