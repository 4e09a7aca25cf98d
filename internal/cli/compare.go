package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diskscout/diskscout/pkg/compare"
	"github.com/diskscout/diskscout/pkg/config"
	"github.com/diskscout/diskscout/pkg/models"
	"github.com/diskscout/diskscout/pkg/output"
	"github.com/diskscout/diskscout/pkg/snapshot"
)

// CompareFlags holds compare command flags
type CompareFlags struct {
	Deep      bool
	Algorithm string
	Workers   int
	Ignore    []string
	Exclude   []string
	Output    string
	OnlyDiff  bool
	Save      string
	Snapshot  bool
}

var compareFlags CompareFlags

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare SOURCE TARGET",
		Short: "Compare two folders and report differences",
		Long: `Compare a source and a target directory tree and report every entry as
identical, modified, missing from the target or extra in the target.

By default entries are compared by size and modification time. With --deep,
entries that still look equal are verified by hashing their content.`,
		Args: cobra.ExactArgs(2),
		RunE: runCompare,
	}

	cmd.Flags().BoolVar(&compareFlags.Deep, "deep", false, "verify file content with a hash")
	cmd.Flags().StringVar(&compareFlags.Algorithm, "algorithm", "", "hash algorithm: sha256, blake3, md5, xxh64")
	cmd.Flags().IntVar(&compareFlags.Workers, "workers", 0, "parallel hashing workers (default: number of CPUs)")
	cmd.Flags().StringSliceVar(&compareFlags.Ignore, "ignore", nil, "path fragments to skip (repeatable)")
	cmd.Flags().StringSliceVar(&compareFlags.Exclude, "exclude", nil, "glob patterns to exclude (repeatable)")
	cmd.Flags().StringVarP(&compareFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().BoolVar(&compareFlags.OnlyDiff, "only-diff", false, "hide identical entries from the tree")
	cmd.Flags().StringVar(&compareFlags.Save, "save", "", "write the comparison as JSON to a file")
	cmd.Flags().BoolVar(&compareFlags.Snapshot, "snapshot", false, "persist the comparison to the snapshot store")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyGlobalFlags(cfg)
	applyCompareFlags(cmd, cfg)

	logger, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	opts := cfg.CompareOptions()
	opts.Logger = logger

	var bar *output.CompareProgressBar
	if output.ShowProgress(cfg.Output.Progress, cfg.Output.Quiet, os.Stderr) {
		bar = output.NewCompareProgressBar(os.Stderr)
		opts.Progress = bar.Update
	}

	comparator, err := compare.NewFolderComparator(opts)
	if err != nil {
		return err
	}

	result, err := comparator.Compare(ctx, args[0], args[1])
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	envelope := output.NewComparisonEnvelope(result)

	output.ConfigureColor(cfg.Output.Color, os.Stdout)
	formatter, err := output.NewFormatter(cfg.Output.Format)
	if err != nil {
		return err
	}

	renderOpts := output.RenderOptions{OnlyDifferences: compareFlags.OnlyDiff}
	if !cfg.Output.Quiet || formatter.Name() == "json" {
		if err := formatter.Comparison(os.Stdout, envelope, renderOpts); err != nil {
			return fmt.Errorf("failed to render comparison: %w", err)
		}
	}

	if compareFlags.Save != "" {
		if err := output.SaveComparison(envelope, compareFlags.Save); err != nil {
			return err
		}
	}

	if compareFlags.Snapshot {
		if err := saveComparisonSnapshot(ctx, cfg, envelope); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
	}

	// A completed comparison reports differences through the exit code
	if code := models.ExitCodeFor(&result.Summary); code != models.ExitOK {
		logger.Close()
		os.Exit(code)
	}
	return nil
}

// applyCompareFlags overrides config values with compare command flags
func applyCompareFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("deep") {
		cfg.Compare.DeepScan = compareFlags.Deep
	}
	if compareFlags.Algorithm != "" {
		cfg.Compare.Algorithm = compareFlags.Algorithm
	}
	if compareFlags.Workers > 0 {
		cfg.Compare.MaxWorkers = compareFlags.Workers
	}
	if len(compareFlags.Ignore) > 0 {
		cfg.Scan.IgnorePaths = compareFlags.Ignore
	}
	if len(compareFlags.Exclude) > 0 {
		cfg.Scan.Exclude = append(cfg.Scan.Exclude, compareFlags.Exclude...)
	}
	if compareFlags.Output != "" {
		cfg.Output.Format = compareFlags.Output
	}
}

func saveComparisonSnapshot(ctx context.Context, cfg *config.Config, envelope *output.ComparisonEnvelope) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	raw, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	snap := snapshot.NewComparisonSnapshot(envelope.SourcePath, envelope.TargetPath, envelope.Summary, raw)
	if err := store.Save(ctx, snap); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Saved snapshot %s\n", snap.ID)
	return nil
}
