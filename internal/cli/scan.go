package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diskscout/diskscout/pkg/analyze"
	"github.com/diskscout/diskscout/pkg/config"
	"github.com/diskscout/diskscout/pkg/output"
	"github.com/diskscout/diskscout/pkg/scan"
	"github.com/diskscout/diskscout/pkg/snapshot"
)

// ScanFlags holds scan command flags
type ScanFlags struct {
	Findings   bool
	Extensions bool
	Ignore     []string
	Exclude    []string
	Output     string
	Save       string
	Snapshot   bool
}

var scanFlags ScanFlags

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan PATH",
		Short: "Scan a folder and report disk usage",
		Long: `Walk a directory tree and report how much space its files and folders
use. With --findings the scan is analyzed for large folders, caches and
likely duplicates; --extensions adds a per-extension usage table.`,
		Args: cobra.ExactArgs(1),
		RunE: runScan,
	}

	cmd.Flags().BoolVar(&scanFlags.Findings, "findings", false, "analyze the scan and report findings")
	cmd.Flags().BoolVar(&scanFlags.Extensions, "extensions", false, "report usage grouped by file extension")
	cmd.Flags().StringSliceVar(&scanFlags.Ignore, "ignore", nil, "path fragments to skip (repeatable)")
	cmd.Flags().StringSliceVar(&scanFlags.Exclude, "exclude", nil, "glob patterns to exclude (repeatable)")
	cmd.Flags().StringVarP(&scanFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().StringVar(&scanFlags.Save, "save", "", "write the scan report as JSON to a file")
	cmd.Flags().BoolVar(&scanFlags.Snapshot, "snapshot", false, "persist the scan to the snapshot store")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyGlobalFlags(cfg)
	applyScanFlags(cfg)

	logger, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	opts := scan.Options{
		IgnorePaths:  cfg.Scan.IgnorePaths,
		ExcludeGlobs: cfg.Scan.Exclude,
		Logger:       logger,
	}

	var bar *output.ScanProgressBar
	if output.ShowProgress(cfg.Output.Progress, cfg.Output.Quiet, os.Stderr) {
		bar = output.NewScanProgressBar(os.Stderr)
		opts.Progress = bar.Update
	}

	scanner, err := scan.NewScanner(opts)
	if err != nil {
		return err
	}

	result, err := scanner.Scan(ctx, args[0])
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	// Snapshots always carry the full analysis so they can be reviewed later
	report := &output.ScanReport{Scan: result}
	if scanFlags.Findings || scanFlags.Snapshot {
		analyzer := analyze.NewAnalyzer(cfg.AnalyzeThresholds(), cfg.Analyze.CachePatterns)
		report.Findings = analyzer.Analyze(result)
	}
	if scanFlags.Extensions || scanFlags.Snapshot {
		report.Extensions = analyze.ExtensionSummary(result.Files)
	}

	output.ConfigureColor(cfg.Output.Color, os.Stdout)
	formatter, err := output.NewFormatter(cfg.Output.Format)
	if err != nil {
		return err
	}

	renderOpts := output.RenderOptions{
		ShowFindings:   scanFlags.Findings,
		ShowExtensions: scanFlags.Extensions,
	}
	if !cfg.Output.Quiet || formatter.Name() == "json" {
		if err := formatter.Scan(os.Stdout, report, renderOpts); err != nil {
			return fmt.Errorf("failed to render scan: %w", err)
		}
	}

	if scanFlags.Save != "" {
		if err := output.SaveScanReport(report, scanFlags.Save); err != nil {
			return err
		}
	}

	if scanFlags.Snapshot {
		store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("failed to open snapshot store: %w", err)
		}
		defer store.Close()

		snap := snapshot.NewScanSnapshot(result, report.Findings, report.Extensions)
		if err := store.Save(ctx, snap); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved snapshot %s\n", snap.ID)
	}

	return nil
}

// applyScanFlags overrides config values with scan command flags
func applyScanFlags(cfg *config.Config) {
	if len(scanFlags.Ignore) > 0 {
		cfg.Scan.IgnorePaths = scanFlags.Ignore
	}
	if len(scanFlags.Exclude) > 0 {
		cfg.Scan.Exclude = append(cfg.Scan.Exclude, scanFlags.Exclude...)
	}
	if scanFlags.Output != "" {
		cfg.Output.Format = scanFlags.Output
	}
}
