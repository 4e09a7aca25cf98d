package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diskscout/diskscout/pkg/analyze"
	"github.com/diskscout/diskscout/pkg/compare"
	"github.com/diskscout/diskscout/pkg/config"
	"github.com/diskscout/diskscout/pkg/logging"
	"github.com/diskscout/diskscout/pkg/models"
	"github.com/diskscout/diskscout/pkg/output"
	"github.com/diskscout/diskscout/pkg/scan"
	"github.com/diskscout/diskscout/pkg/snapshot"
)

// SnapshotFlags holds snapshot command flags
type SnapshotFlags struct {
	Output string
}

var snapshotFlags SnapshotFlags

// NewSnapshotCommand creates the snapshot command group
func NewSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage stored scans and comparisons",
		Long: `List, inspect, refresh and delete snapshots saved by scan --snapshot
and compare --snapshot.`,
	}

	cmd.PersistentFlags().StringVarP(&snapshotFlags.Output, "output", "o", "", "output format: human, json")

	cmd.AddCommand(newSnapshotListCommand())
	cmd.AddCommand(newSnapshotShowCommand())
	cmd.AddCommand(newSnapshotDeleteCommand())
	cmd.AddCommand(newSnapshotUpdateCommand())

	return cmd
}

// snapshotSetup loads config and opens the store for snapshot subcommands
func snapshotSetup() (*config.Config, *snapshot.Store, output.Formatter, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyGlobalFlags(cfg)
	if snapshotFlags.Output != "" {
		cfg.Output.Format = snapshotFlags.Output
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}

	output.ConfigureColor(cfg.Output.Color, os.Stdout)
	formatter, err := output.NewFormatter(cfg.Output.Format)
	if err != nil {
		store.Close()
		return nil, nil, nil, err
	}

	return cfg, store, formatter, nil
}

func newSnapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, formatter, err := snapshotSetup()
			if err != nil {
				return err
			}
			defer store.Close()

			snapshots, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			return formatter.Snapshots(os.Stdout, snapshots)
		},
	}
}

func newSnapshotShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, formatter, err := snapshotSetup()
			if err != nil {
				return err
			}
			defer store.Close()

			snap, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return formatter.Snapshot(os.Stdout, snap)
		},
	}
}

func newSnapshotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, _, err := snapshotSetup()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted snapshot %s\n", args[0])
			return nil
		},
	}
}

func newSnapshotUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update ID",
		Short: "Re-run a snapshot and replace its payload",
		Long: `Re-run the scan or comparison recorded in a snapshot against the same
paths and replace the stored payload with the fresh result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, store, formatter, err := snapshotSetup()
			if err != nil {
				return err
			}
			defer store.Close()

			logger, err := buildLogger(cfg)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer logger.Close()

			snap, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			switch snap.Kind {
			case models.SnapshotScan:
				err = refreshScanSnapshot(ctx, cfg, logger, snap)
			case models.SnapshotComparison:
				err = refreshComparisonSnapshot(ctx, cfg, logger, snap)
			default:
				return fmt.Errorf("unknown snapshot kind: %s", snap.Kind)
			}
			if err != nil {
				return err
			}

			if err := store.Update(ctx, snap); err != nil {
				return err
			}
			return formatter.Snapshot(os.Stdout, snap)
		},
	}
}

// refreshScanSnapshot re-runs the recorded scan and swaps in the new payload
func refreshScanSnapshot(ctx context.Context, cfg *config.Config, logger logging.Logger, snap *models.Snapshot) error {
	scanner, err := scan.NewScanner(scan.Options{
		IgnorePaths:  cfg.Scan.IgnorePaths,
		ExcludeGlobs: cfg.Scan.Exclude,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	result, err := scanner.Scan(ctx, snap.RootPath)
	if err != nil {
		return err
	}

	analyzer := analyze.NewAnalyzer(cfg.AnalyzeThresholds(), cfg.Analyze.CachePatterns)

	snap.ScanID = result.ScanID
	snap.ScanInfo = result
	snap.Findings = analyzer.Analyze(result)
	snap.Extensions = analyze.ExtensionSummary(result.Files)
	snap.TotalFiles = result.TotalFiles
	snap.TotalFolders = result.TotalFolders
	snap.TotalBytes = result.TotalBytes
	return nil
}

// refreshComparisonSnapshot re-runs the recorded comparison, keeping the
// deep-scan mode of the stored envelope
func refreshComparisonSnapshot(ctx context.Context, cfg *config.Config, logger logging.Logger, snap *models.Snapshot) error {
	var stored output.ComparisonEnvelope
	if len(snap.Comparison) > 0 {
		if err := json.Unmarshal(snap.Comparison, &stored); err != nil {
			return fmt.Errorf("stored comparison is unreadable: %w", err)
		}
	}

	opts := cfg.CompareOptions()
	opts.DeepScan = stored.DeepScan
	opts.Logger = logger

	comparator, err := compare.NewFolderComparator(opts)
	if err != nil {
		return err
	}

	result, err := comparator.Compare(ctx, snap.RootPath, snap.TargetPath)
	if err != nil {
		return err
	}

	envelope := output.NewComparisonEnvelope(result)
	raw, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	snap.Comparison = raw
	snap.ComparisonSummary = &result.Summary
	snap.TotalFiles = result.Summary.TotalFiles()
	snap.TotalBytes = result.Summary.TotalSourceBytes
	return nil
}
