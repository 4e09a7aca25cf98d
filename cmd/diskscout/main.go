package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diskscout/diskscout/internal/cli"
	"github.com/diskscout/diskscout/pkg/models"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Version = version
	cli.Commit = commit
	cli.BuildDate = date

	rootCmd := &cobra.Command{
		Use:   "diskscout",
		Short: "Disk usage scanner and folder comparison tool",
		Long: `diskscout analyzes disk usage and compares directory trees.
It scans folders to find what uses your space, compares two trees down to
file content, and keeps snapshots of past runs for later review.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	cli.AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(cli.NewCompareCommand())
	rootCmd.AddCommand(cli.NewScanCommand())
	rootCmd.AddCommand(cli.NewSnapshotCommand())
	rootCmd.AddCommand(cli.NewServeCommand())
	rootCmd.AddCommand(cli.NewConfigCommand())
	rootCmd.AddCommand(cli.NewVersionCommand())

	return rootCmd.ExecuteContext(ctx)
}

// exitCode maps command failures to the documented exit codes: validation
// and path problems exit 2, execution failures exit 3
func exitCode(err error) int {
	var validationErr *models.ValidationError
	var pathErr *models.PathError
	if errors.As(err, &validationErr) || errors.As(err, &pathErr) {
		return models.ExitValidation
	}
	return models.ExitFailure
}
