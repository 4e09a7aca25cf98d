package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diskscout/diskscout/pkg/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or initialize diskscout configuration.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Printf("Deep Scan: %v\n", cfg.Compare.DeepScan)
			fmt.Printf("Algorithm: %s\n", cfg.Compare.Algorithm)
			fmt.Printf("Max Workers: %d\n", cfg.Compare.MaxWorkers)
			fmt.Printf("Large Folder Threshold: %d MiB\n", cfg.Analyze.LargeFolderMiB)
			fmt.Printf("Stale After: %d days\n", cfg.Analyze.StaleDays)
			fmt.Printf("Listen: %s\n", cfg.Server.Listen)
			fmt.Printf("Output Format: %s\n", cfg.Output.Format)
			fmt.Printf("Log Format: %s\n", cfg.Logging.Format)
			fmt.Printf("Log Level: %s\n", cfg.Logging.Level)

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}

			cfg := config.Default()
			if err := config.SaveToFile(cfg, path); err != nil {
				return err
			}

			fmt.Printf("Configuration file created at: %s\n", path)
			return nil
		},
	}
}
