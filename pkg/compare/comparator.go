// Package compare implements the directory comparison engine: two trees are
// indexed, every relative path is classified against its counterpart, and the
// flat verdicts are assembled into a difference tree with aggregate counters.
package compare

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/diskscout/diskscout/pkg/ignore"
	"github.com/diskscout/diskscout/pkg/logging"
	"github.com/diskscout/diskscout/pkg/models"
	"github.com/diskscout/diskscout/pkg/ratelimit"
)

// Options configures a FolderComparator
type Options struct {
	// DeepScan enables content hashing on top of metadata comparison
	DeepScan bool

	// Algorithm selects the digest used for deep scans
	Algorithm Algorithm

	// ChunkSize is the read size for content hashing
	ChunkSize int

	// Workers bounds how many entries are hashed concurrently
	Workers int

	// IgnorePaths are case-insensitive substrings matched against absolute
	// paths; matching subtrees are pruned before descent
	IgnorePaths []string

	// ExcludeGlobs are gitignore-flavoured patterns matched against
	// relative paths
	ExcludeGlobs []string

	// MaxReadRate throttles hashing reads in bytes per second, 0 = unlimited
	MaxReadRate int64

	// Progress, when set, is called after each classified entry. It must be
	// safe for concurrent use; deep scans call it from worker goroutines.
	Progress func(done, total int, relPath string)

	// Logger receives structured diagnostics; nil means silent
	Logger logging.Logger
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Algorithm:   AlgorithmSHA256,
		ChunkSize:   DefaultChunkSize,
		Workers:     runtime.NumCPU(),
		IgnorePaths: ignore.DefaultIgnorePaths(),
	}
}

// Validate checks if the options are usable
func (o *Options) Validate() error {
	if !o.Algorithm.Valid() {
		return &models.ValidationError{Field: "Algorithm", Message: fmt.Sprintf("unknown algorithm %q", o.Algorithm)}
	}
	if o.Workers < 1 {
		return &models.ValidationError{Field: "Workers", Message: "must be at least 1"}
	}
	if o.ChunkSize < 1024 {
		return &models.ValidationError{Field: "ChunkSize", Message: "must be at least 1024 bytes"}
	}
	if o.MaxReadRate < 0 {
		return &models.ValidationError{Field: "MaxReadRate", Message: "must not be negative"}
	}
	return nil
}

// FolderComparator compares two directory trees. It holds no per-comparison
// state: every Compare call indexes, classifies and assembles from scratch,
// so one comparator is safe to reuse across calls.
type FolderComparator struct {
	opts    Options
	indexer *PathIndexer
	hasher  *ContentHasher
	logger  logging.Logger
}

// NewFolderComparator creates a comparator. Zero-valued fields in opts fall
// back to their defaults before validation.
func NewFolderComparator(opts Options) (*FolderComparator, error) {
	if opts.Algorithm == "" {
		opts.Algorithm = AlgorithmSHA256
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Workers == 0 {
		opts.Workers = runtime.NumCPU()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	filter, err := ignore.NewFilter(opts.IgnorePaths, opts.ExcludeGlobs)
	if err != nil {
		return nil, &models.ValidationError{Field: "ExcludeGlobs", Message: err.Error()}
	}

	return &FolderComparator{
		opts:    opts,
		indexer: NewPathIndexer(filter, logger),
		hasher:  NewContentHasher(opts.Algorithm, opts.ChunkSize, ratelimit.NewLimiter(opts.MaxReadRate)),
		logger:  logger,
	}, nil
}

// Compare indexes both roots, classifies the union of their entries and
// returns a fresh comparison result. Both roots must be existing directories;
// anything else fails with *models.PathError before any traversal. A
// cancelled context aborts with its error and no partial result.
func (fc *FolderComparator) Compare(ctx context.Context, sourceRoot, targetRoot string) (*models.ComparisonResult, error) {
	source, err := validateRoot(sourceRoot)
	if err != nil {
		return nil, err
	}
	target, err := validateRoot(targetRoot)
	if err != nil {
		return nil, err
	}

	fc.logger.Info(ctx, "starting comparison", logging.Fields{
		"source":    source,
		"target":    target,
		"deep_scan": fc.opts.DeepScan,
		"algorithm": string(fc.opts.Algorithm),
	})

	// Index both trees in parallel; they touch disjoint parts of the
	// filesystem and share nothing.
	var sourceIndex, targetIndex models.PathIndex
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var indexErr error
		sourceIndex, indexErr = fc.indexer.Index(groupCtx, source)
		return indexErr
	})
	group.Go(func() error {
		var indexErr error
		targetIndex, indexErr = fc.indexer.Index(groupCtx, target)
		return indexErr
	})
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("indexing failed: %w", err)
	}

	fc.logger.Debug(ctx, "indexing complete", logging.Fields{
		"source_entries": len(sourceIndex),
		"target_entries": len(targetIndex),
	})

	records := mergeIndexes(sourceIndex, targetIndex)

	if err := fc.classifyAll(ctx, records); err != nil {
		return nil, err
	}

	result := &models.ComparisonResult{
		SourceRoot:      source,
		TargetRoot:      target,
		RootNodes:       assembleTree(records),
		Summary:         summarize(records),
		UsedContentHash: fc.opts.DeepScan,
	}

	fc.logger.Info(ctx, "comparison complete", logging.Fields{
		"identical": result.Summary.IdenticalCount,
		"modified":  result.Summary.ModifiedCount,
		"missing":   result.Summary.MissingFromTargetCount,
		"extra":     result.Summary.ExtraInTargetCount,
	})

	return result, nil
}

// mergeIndexes joins two indexes on their relative-path keys into one sorted
// record per distinct path.
func mergeIndexes(source, target models.PathIndex) []*entryRecord {
	keys := make(map[string]struct{}, len(source)+len(target))
	for key := range source {
		keys[key] = struct{}{}
	}
	for key := range target {
		keys[key] = struct{}{}
	}

	records := make([]*entryRecord, 0, len(keys))
	for key := range keys {
		rec := &entryRecord{relPath: key}
		if meta, ok := source[key]; ok {
			m := meta
			rec.source = &m
		}
		if meta, ok := target[key]; ok {
			m := meta
			rec.target = &m
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].relPath < records[j].relPath
	})

	return records
}

// classifyAll runs the classifier over every record. Metadata-only runs are
// a cheap sequential pass; deep scans spread the hashing over a bounded
// worker pool. Each record is written only by its own classification.
func (fc *FolderComparator) classifyAll(ctx context.Context, records []*entryRecord) error {
	total := len(records)

	if !fc.opts.DeepScan {
		for i, rec := range records {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := classify(ctx, rec, false, fc.hasher); err != nil {
				return err
			}
			if fc.opts.Progress != nil {
				fc.opts.Progress(i+1, total, rec.relPath)
			}
		}
		return nil
	}

	semaphore := make(chan struct{}, fc.opts.Workers)
	errChan := make(chan error, total)
	var wg sync.WaitGroup
	var done atomic.Int64

dispatch:
	for _, rec := range records {
		// Acquire a slot, bailing out as soon as the context dies.
		select {
		case <-ctx.Done():
			break dispatch
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(rec *entryRecord) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := classify(ctx, rec, true, fc.hasher); err != nil {
				errChan <- err
				return
			}
			if fc.opts.Progress != nil {
				fc.opts.Progress(int(done.Add(1)), total, rec.relPath)
			}
		}(rec)
	}

	wg.Wait()
	close(errChan)

	var firstErr error
	for err := range errChan {
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// summarize computes the aggregate counters: per-status counts over files
// only, byte totals over every entry of each side. Folders were indexed with
// size 0, so they contribute nothing to the totals.
func summarize(records []*entryRecord) models.ComparisonSummary {
	var summary models.ComparisonSummary

	for _, rec := range records {
		if rec.source != nil {
			summary.TotalSourceBytes += rec.source.Size
		}
		if rec.target != nil {
			summary.TotalTargetBytes += rec.target.Size
		}

		if rec.isFolder() {
			continue
		}

		switch rec.status {
		case models.StatusIdentical:
			summary.IdenticalCount++
		case models.StatusModified:
			summary.ModifiedCount++
		case models.StatusMissingFromTarget:
			summary.MissingFromTargetCount++
		case models.StatusExtraInTarget:
			summary.ExtraInTargetCount++
		}
	}

	return summary
}
