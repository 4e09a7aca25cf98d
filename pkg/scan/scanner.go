// Package scan walks a directory tree and collects the per-file and
// per-folder usage records that feed analysis, findings and snapshots.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shibukawa/extstat"

	"github.com/diskscout/diskscout/internal/platform"
	"github.com/diskscout/diskscout/pkg/ignore"
	"github.com/diskscout/diskscout/pkg/logging"
	"github.com/diskscout/diskscout/pkg/models"
)

// Progress reporting cadence
const (
	// progressFileInterval is the number of files between progress reports
	progressFileInterval = 50
	// progressTimeInterval is the longest gap between progress reports
	progressTimeInterval = time.Second
)

// Options configures a Scanner
type Options struct {
	// IgnorePaths are absolute path fragments to skip, matched
	// case-insensitively
	IgnorePaths []string

	// ExcludeGlobs are relative-path patterns to skip
	ExcludeGlobs []string

	// Progress, when set, receives throttled in-flight reports and one
	// final report when the walk finishes
	Progress func(models.ScanProgress)

	// Logger receives scan lifecycle events; nil discards them
	Logger logging.Logger
}

// Scanner walks one directory tree and flattens it into file and folder
// usage records. Folder totals cover the full subtree; file counts are
// direct children only.
type Scanner struct {
	filter   *ignore.Filter
	progress func(models.ScanProgress)
	logger   logging.Logger
}

// NewScanner creates a scanner. Invalid exclude patterns are rejected here,
// before any filesystem work.
func NewScanner(opts Options) (*Scanner, error) {
	filter, err := ignore.NewFilter(opts.IgnorePaths, opts.ExcludeGlobs)
	if err != nil {
		return nil, &models.ValidationError{Field: "ExcludeGlobs", Message: err.Error()}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	return &Scanner{
		filter:   filter,
		progress: opts.Progress,
		logger:   logger,
	}, nil
}

// folderAccum carries one folder's totals while the walk is in flight.
// totalBytes and the timestamps aggregate the whole subtree in a second
// pass; fileCount stays direct children only.
type folderAccum struct {
	path         string
	name         string
	totalBytes   int64
	fileCount    int
	lastModified time.Time
	lastAccessed time.Time
}

// Scan walks rootPath top-down and returns the collected usage records.
// Entries that cannot be read are skipped; only an invalid root fails, with
// *models.PathError. A cancelled context aborts with its error.
func (s *Scanner) Scan(ctx context.Context, rootPath string) (*models.ScanResult, error) {
	root, err := validateScanRoot(rootPath)
	if err != nil {
		return nil, err
	}

	startedAt := time.Now()
	scanID := uuid.NewString()

	s.logger.Info(ctx, "starting scan", logging.Fields{
		"scan_id": scanID,
		"root":    root,
	})

	var (
		files     []models.FileRecord
		folders   = make(map[string]*folderAccum)
		bytesSeen int64

		filesSinceReport = 0
		lastReport       = startedAt
	)

	report := func(currentPath string, force bool) {
		if s.progress == nil {
			return
		}
		if !force && filesSinceReport < progressFileInterval && time.Since(lastReport) < progressTimeInterval {
			return
		}
		s.progress(models.ScanProgress{
			FilesSeen:      len(files),
			FoldersSeen:    len(folders),
			BytesSeen:      bytesSeen,
			CurrentPath:    currentPath,
			ElapsedSeconds: time.Since(startedAt).Seconds(),
		})
		filesSinceReport = 0
		lastReport = time.Now()
	}

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			if p == root {
				return &models.PathError{Path: root, Reason: err.Error()}
			}
			s.logger.Debug(ctx, "skipping unreadable entry", logging.Fields{
				"path":  p,
				"error": err.Error(),
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		if rel != "." && s.filter.Skip(p, filepath.ToSlash(rel), d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}

		if d.IsDir() {
			folders[p] = &folderAccum{
				path:         p,
				name:         filepath.Base(p),
				lastModified: info.ModTime(),
				lastAccessed: extstat.New(info).AccessTime,
			}
			return nil
		}

		files = append(files, models.FileRecord{
			Path:      p,
			Size:      info.Size(),
			Modified:  info.ModTime(),
			Extension: extensionOf(p),
		})
		bytesSeen += info.Size()

		if parent, ok := folders[filepath.Dir(p)]; ok {
			parent.fileCount++
			parent.totalBytes += info.Size()
			if info.ModTime().After(parent.lastModified) {
				parent.lastModified = info.ModTime()
			}
			if atime := extstat.New(info).AccessTime; atime.After(parent.lastAccessed) {
				parent.lastAccessed = atime
			}
		}

		filesSinceReport++
		report(p, false)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &models.ScanResult{
		ScanID:          scanID,
		RootPath:        root,
		Files:           files,
		Folders:         rollUpFolders(folders),
		TotalFiles:      len(files),
		TotalFolders:    len(folders),
		TotalBytes:      bytesSeen,
		StartedAt:       startedAt,
		DurationSeconds: time.Since(startedAt).Seconds(),
	}

	report(root, true)

	s.logger.Info(ctx, "scan complete", logging.Fields{
		"scan_id":       scanID,
		"total_files":   result.TotalFiles,
		"total_folders": result.TotalFolders,
		"total_bytes":   result.TotalBytes,
	})

	return result, nil
}

// rollUpFolders aggregates subtree totals into every ancestor. Reverse
// lexical order visits children before their parents, so each folder's
// totals are final before they are added to the level above.
func rollUpFolders(folders map[string]*folderAccum) []models.FolderRecord {
	paths := make([]string, 0, len(folders))
	for p := range folders {
		paths = append(paths, p)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))

	for _, p := range paths {
		folder := folders[p]
		parent, ok := folders[filepath.Dir(p)]
		if !ok {
			continue
		}
		parent.totalBytes += folder.totalBytes
		if folder.lastModified.After(parent.lastModified) {
			parent.lastModified = folder.lastModified
		}
		if folder.lastAccessed.After(parent.lastAccessed) {
			parent.lastAccessed = folder.lastAccessed
		}
	}

	records := make([]models.FolderRecord, 0, len(folders))
	for i := len(paths) - 1; i >= 0; i-- {
		folder := folders[paths[i]]
		records = append(records, models.FolderRecord{
			Path:         folder.path,
			Name:         folder.name,
			TotalBytes:   folder.totalBytes,
			FileCount:    folder.fileCount,
			LastModified: folder.lastModified,
			LastAccessed: folder.lastAccessed,
		})
	}
	return records
}

// extensionOf returns the lowercased extension without the leading dot,
// empty when the name has none.
func extensionOf(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// validateScanRoot resolves the scan root and verifies it is an existing
// directory.
func validateScanRoot(path string) (string, error) {
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
