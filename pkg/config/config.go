package config

import (
	"github.com/diskscout/diskscout/pkg/analyze"
	"github.com/diskscout/diskscout/pkg/compare"
	"github.com/diskscout/diskscout/pkg/ignore"
	"github.com/diskscout/diskscout/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Scan     ScanConfig     `yaml:"scan"`
	Compare  CompareConfig  `yaml:"compare"`
	Analyze  AnalyzeConfig  `yaml:"analyze"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Server   ServerConfig   `yaml:"server"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ScanConfig holds traversal settings shared by scans and comparisons
type ScanConfig struct {
	// IgnorePaths are absolute path fragments skipped during traversal
	IgnorePaths []string `yaml:"ignore_paths"`
	// Exclude are relative-path glob patterns skipped during traversal
	Exclude []string `yaml:"exclude"`
}

// CompareConfig holds comparison settings
type CompareConfig struct {
	DeepScan    bool   `yaml:"deep_scan"`
	Algorithm   string `yaml:"algorithm"`     // "sha256", "blake3", "md5", "xxh64"
	ChunkSize   int    `yaml:"chunk_size"`    // Hash read size in bytes
	MaxWorkers  int    `yaml:"max_workers"`   // 0 = number of CPUs
	MaxReadRate int64  `yaml:"max_read_rate"` // Bytes per second, 0 = unlimited
}

// AnalyzeConfig holds analyzer thresholds
type AnalyzeConfig struct {
	LargeFolderMiB     int64    `yaml:"large_folder_mib"`
	CacheCandidateMiB  int64    `yaml:"cache_candidate_mib"`
	DuplicateFolderMiB int64    `yaml:"duplicate_folder_mib"`
	DuplicateFileMiB   int64    `yaml:"duplicate_file_mib"`
	StaleDays          int      `yaml:"stale_days"`
	ActiveDays         int      `yaml:"active_days"`
	CachePatterns      []string `yaml:"cache_patterns"` // empty = built-in set
}

// SnapshotConfig holds snapshot storage settings
type SnapshotConfig struct {
	// DatabasePath overrides the snapshot database location
	// (empty = <user config dir>/diskscout/snapshots.db)
	DatabasePath string `yaml:"database_path"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Listen      string   `yaml:"listen"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show progress bars
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
	Color    string `yaml:"color"`    // "auto", "always", or "never"
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Format     string `yaml:"format"`       // "json" or "text"
	Level      string `yaml:"level"`        // "debug", "info", "warn", "error"
	File       string `yaml:"file"`         // Log file path (empty = stderr)
	MaxSizeMiB int64  `yaml:"max_size_mib"` // Rotation threshold (0 = no rotation)
	MaxBackups int    `yaml:"max_backups"`  // Rotated files to keep
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			IgnorePaths: ignore.DefaultIgnorePaths(),
			Exclude: []string{
				"*.tmp",
				"*.swp",
				".DS_Store",
			},
		},
		Compare: CompareConfig{
			DeepScan:    false,
			Algorithm:   "sha256",
			ChunkSize:   65536,
			MaxWorkers:  0,
			MaxReadRate: 0,
		},
		Analyze: AnalyzeConfig{
			LargeFolderMiB:     1024,
			CacheCandidateMiB:  50,
			DuplicateFolderMiB: 10,
			DuplicateFileMiB:   1,
			StaleDays:          365,
			ActiveDays:         30,
		},
		Snapshot: SnapshotConfig{
			DatabasePath: "",
		},
		Server: ServerConfig{
			Listen:      "127.0.0.1:8590",
			CORSOrigins: []string{"*"},
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
			Color:    "auto",
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Format:     "json",
			Level:      "info",
			File:       "",
			MaxSizeMiB: 10,
			MaxBackups: 3,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !compare.Algorithm(c.Compare.Algorithm).Valid() {
		return &models.ValidationError{
			Field:   "compare.algorithm",
			Message: "must be 'sha256', 'blake3', 'md5', or 'xxh64'",
		}
	}

	if c.Compare.MaxWorkers < 0 {
		return &models.ValidationError{
			Field:   "compare.max_workers",
			Message: "must not be negative (0 = number of CPUs)",
		}
	}

	if c.Compare.ChunkSize < 1024 {
		return &models.ValidationError{
			Field:   "compare.chunk_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if c.Compare.MaxReadRate < 0 {
		return &models.ValidationError{
			Field:   "compare.max_read_rate",
			Message: "must not be negative (0 = unlimited)",
		}
	}

	if c.Analyze.LargeFolderMiB < 1 || c.Analyze.CacheCandidateMiB < 1 ||
		c.Analyze.DuplicateFolderMiB < 1 || c.Analyze.DuplicateFileMiB < 1 {
		return &models.ValidationError{
			Field:   "analyze",
			Message: "size thresholds must be at least 1 MiB",
		}
	}

	if c.Analyze.StaleDays < 1 || c.Analyze.ActiveDays < 1 {
		return &models.ValidationError{
			Field:   "analyze",
			Message: "day thresholds must be at least 1",
		}
	}

	if c.Server.Listen == "" {
		return &models.ValidationError{
			Field:   "server.listen",
			Message: "must be a host:port address",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[c.Output.Color] {
		return &models.ValidationError{
			Field:   "output.color",
			Message: "must be 'auto', 'always', or 'never'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	if c.Logging.MaxSizeMiB < 0 || c.Logging.MaxBackups < 0 {
		return &models.ValidationError{
			Field:   "logging",
			Message: "rotation settings must not be negative",
		}
	}

	return nil
}

// CompareOptions translates the configuration into comparison options
func (c *Config) CompareOptions() compare.Options {
	opts := compare.Options{
		DeepScan:     c.Compare.DeepScan,
		Algorithm:    compare.Algorithm(c.Compare.Algorithm),
		ChunkSize:    c.Compare.ChunkSize,
		Workers:      c.Compare.MaxWorkers,
		MaxReadRate:  c.Compare.MaxReadRate,
		IgnorePaths:  c.Scan.IgnorePaths,
		ExcludeGlobs: c.Scan.Exclude,
	}
	return opts
}

// AnalyzeThresholds translates the configured MiB and day values into
// analyzer thresholds
func (c *Config) AnalyzeThresholds() analyze.Thresholds {
	return analyze.Thresholds{
		LargeFolderBytes:     c.Analyze.LargeFolderMiB * 1024 * 1024,
		CacheCandidateBytes:  c.Analyze.CacheCandidateMiB * 1024 * 1024,
		DuplicateFolderBytes: c.Analyze.DuplicateFolderMiB * 1024 * 1024,
		DuplicateFileBytes:   c.Analyze.DuplicateFileMiB * 1024 * 1024,
		StaleDays:            c.Analyze.StaleDays,
		ActiveDays:           c.Analyze.ActiveDays,
	}
}
