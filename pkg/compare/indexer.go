package compare

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/diskscout/diskscout/internal/platform"
	"github.com/diskscout/diskscout/pkg/ignore"
	"github.com/diskscout/diskscout/pkg/logging"
	"github.com/diskscout/diskscout/pkg/models"
)

// PathIndexer walks one directory tree and flattens it into a PathIndex.
// Entries that cannot be read are skipped so a single unreadable file never
// aborts a comparison; only an unreadable root does.
type PathIndexer struct {
	filter *ignore.Filter
	logger logging.Logger
}

// NewPathIndexer creates an indexer using the given filter. A nil logger
// falls back to the null logger.
func NewPathIndexer(filter *ignore.Filter, logger logging.Logger) *PathIndexer {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &PathIndexer{filter: filter, logger: logger}
}

// Index walks root top-down and returns metadata keyed by slash-normalized
// relative path. The root itself is not part of the index. Filtered
// directories are pruned before descent, so their subtrees are never visited.
func (ix *PathIndexer) Index(ctx context.Context, root string) (models.PathIndex, error) {
	index := make(models.PathIndex)

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			if p == root {
				return fmt.Errorf("failed to read root: %w", err)
			}
			// Unreadable entries are skipped, not fatal.
			ix.logger.Debug(ctx, "skipping unreadable entry", logging.Fields{
				"path":  p,
				"error": err.Error(),
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil || rel == "." {
			return nil
		}
		key := filepath.ToSlash(rel)

		if ix.filter.Skip(p, key, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			// Raced deletion or permission change between list and stat.
			ix.logger.Debug(ctx, "skipping entry without metadata", logging.Fields{
				"path":  p,
				"error": infoErr.Error(),
			})
			return nil
		}

		size := info.Size()
		if d.IsDir() {
			size = 0
		}

		index[key] = models.PathMeta{
			AbsolutePath: p,
			Size:         size,
			ModTime:      info.ModTime(),
			IsDir:        d.IsDir(),
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return index, nil
}

// validateRoot resolves a comparison root and verifies it is an existing
// directory. Violations come back as *models.PathError before any traversal.
func validateRoot(path string) (string, error) {
	if err := platform.ValidatePath(path); err != nil {
		return "", &models.PathError{Path: path, Reason: err.Error()}
	}

	abs, err := filepath.Abs(platform.NormalizePath(path))
	if err != nil {
		return "", &models.PathError{Path: path, Reason: "cannot resolve absolute path"}
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &models.PathError{Path: abs, Reason: "path does not exist"}
		}
		return "", &models.PathError{Path: abs, Reason: err.Error()}
	}

	if !info.IsDir() {
		return "", &models.PathError{Path: abs, Reason: "path is not a directory"}
	}

	return abs, nil
}
