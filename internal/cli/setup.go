package cli

import (
	"fmt"
	"os"

	"github.com/diskscout/diskscout/pkg/config"
	"github.com/diskscout/diskscout/pkg/logging"
	"github.com/diskscout/diskscout/pkg/snapshot"
)

// loadConfig loads configuration from the --config file or the default
// location, falling back to built-in defaults
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyGlobalFlags overrides config values with global command-line flags
func applyGlobalFlags(cfg *config.Config) {
	if globalFlags.LogFile != "" {
		cfg.Logging.Enabled = true
		cfg.Logging.File = globalFlags.LogFile
	}
	if globalFlags.LogLevel != "" {
		cfg.Logging.Level = globalFlags.LogLevel
	}
	if globalFlags.Quiet {
		cfg.Output.Quiet = true
		cfg.Output.Progress = false
	}
}

// buildLogger creates the logger configured by cfg.Logging. Without a log
// file, logs go to stderr; quiet mode silences them entirely.
func buildLogger(cfg *config.Config) (logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NewNullLogger(), nil
	}

	format := logging.FormatText
	if cfg.Logging.Format == "json" {
		format = logging.FormatJSON
	}
	level := logging.ParseLevel(cfg.Logging.Level)

	if cfg.Logging.File == "" {
		if cfg.Output.Quiet {
			return logging.NewNullLogger(), nil
		}
		return logging.NewStreamLogger(os.Stderr, format, level), nil
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.Logging.File,
		Format:     format,
		Level:      level,
		MaxSize:    cfg.Logging.MaxSizeMiB * 1024 * 1024,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}

// openStore opens the snapshot database at the configured location
func openStore(cfg *config.Config) (*snapshot.Store, error) {
	path := cfg.Snapshot.DatabasePath
	if path == "" {
		defaultPath, err := snapshot.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve snapshot database path: %w", err)
		}
		path = defaultPath
	}
	return snapshot.Open(path)
}
