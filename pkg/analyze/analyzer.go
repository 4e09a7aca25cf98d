// Package analyze derives cleanup findings from a completed disk scan:
// oversized folders, rebuildable caches, likely duplicates and cold data
// that could move to cheaper storage.
package analyze

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/diskscout/diskscout/pkg/models"
)

// Thresholds control when the analyzer flags something
type Thresholds struct {
	// LargeFolderBytes is the floor for large-folder findings (1 GiB)
	LargeFolderBytes int64

	// CacheCandidateBytes is the floor for cache findings (50 MiB)
	CacheCandidateBytes int64

	// DuplicateFolderBytes is the per-folder floor for duplicate folder
	// findings (10 MiB)
	DuplicateFolderBytes int64

	// DuplicateFileBytes is the per-file floor for duplicate file
	// findings (1 MiB)
	DuplicateFileBytes int64

	// StaleDays is the age beyond which a folder counts as untouched (365)
	StaleDays int

	// ActiveDays is the window within which a folder counts as active (30)
	ActiveDays int
}

// DefaultThresholds returns the standard analyzer thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		LargeFolderBytes:     1 << 30,
		CacheCandidateBytes:  50 << 20,
		DuplicateFolderBytes: 10 << 20,
		DuplicateFileBytes:   1 << 20,
		StaleDays:            365,
		ActiveDays:           30,
	}
}

// largeFolderCap bounds how many large-folder findings one run produces
const largeFolderCap = 20

// DefaultCachePatterns returns folder names that identify rebuildable
// caches. Matching is case-insensitive on the final path segment.
func DefaultCachePatterns() []string {
	return []string{
		"node_modules", ".cache", "__pycache__", "dist", "build", "out",
		"tmp", "temp", ".tmp", ".temp", "cache", ".git", ".gradle",
		".venv", "venv", "env", ".env", ".next", ".nuxt", "target",
		"bin", "obj",
	}
}

// Analyzer inspects scan results and produces findings. It reads the scan
// records only; running it never touches the filesystem.
type Analyzer struct {
	thresholds    Thresholds
	cachePatterns map[string]struct{}
}

// NewAnalyzer creates an analyzer. Zero-valued thresholds fall back to their
// defaults; nil cachePatterns falls back to DefaultCachePatterns.
func NewAnalyzer(thresholds Thresholds, cachePatterns []string) *Analyzer {
	defaults := DefaultThresholds()
	if thresholds.LargeFolderBytes == 0 {
		thresholds.LargeFolderBytes = defaults.LargeFolderBytes
	}
	if thresholds.CacheCandidateBytes == 0 {
		thresholds.CacheCandidateBytes = defaults.CacheCandidateBytes
	}
	if thresholds.DuplicateFolderBytes == 0 {
		thresholds.DuplicateFolderBytes = defaults.DuplicateFolderBytes
	}
	if thresholds.DuplicateFileBytes == 0 {
		thresholds.DuplicateFileBytes = defaults.DuplicateFileBytes
	}
	if thresholds.StaleDays == 0 {
		thresholds.StaleDays = defaults.StaleDays
	}
	if thresholds.ActiveDays == 0 {
		thresholds.ActiveDays = defaults.ActiveDays
	}

	if cachePatterns == nil {
		cachePatterns = DefaultCachePatterns()
	}
	patterns := make(map[string]struct{}, len(cachePatterns))
	for _, p := range cachePatterns {
		patterns[strings.ToLower(p)] = struct{}{}
	}

	return &Analyzer{thresholds: thresholds, cachePatterns: patterns}
}

// Analyze produces findings for one scan result, ordered by attributed size
// descending. IDs are assigned after ordering, so finding-1 is always the
// biggest.
func (a *Analyzer) Analyze(result *models.ScanResult) []models.Finding {
	now := time.Now()
	staleCutoff := now.AddDate(0, 0, -a.thresholds.StaleDays)
	activeCutoff := now.AddDate(0, 0, -a.thresholds.ActiveDays)

	findings := []models.Finding{}

	large := a.largeFolders(result)
	for _, folder := range large {
		findings = append(findings, models.Finding{
			Type:           models.FindingLargeFolder,
			Paths:          []string{folder.Path},
			TotalBytes:     folder.TotalBytes,
			Reason:         fmt.Sprintf("folder holds %s", humanize.IBytes(uint64(folder.TotalBytes))),
			Recommendation: "review the contents and archive or delete what is no longer needed",
		})

		switch {
		case folder.LastModified.Before(staleCutoff):
			findings = append(findings, models.Finding{
				Type:       models.FindingOldLargeFolder,
				Paths:      []string{folder.Path},
				TotalBytes: folder.TotalBytes,
				Reason: fmt.Sprintf("folder holds %s and was last modified %s",
					humanize.IBytes(uint64(folder.TotalBytes)), humanize.Time(folder.LastModified)),
				Recommendation: "consider moving it to colder storage",
			})
		case folder.LastModified.After(activeCutoff):
			findings = append(findings, models.Finding{
				Type:       models.FindingActiveLargeFolder,
				Paths:      []string{folder.Path},
				TotalBytes: folder.TotalBytes,
				Reason: fmt.Sprintf("folder holds %s and was modified %s",
					humanize.IBytes(uint64(folder.TotalBytes)), humanize.Time(folder.LastModified)),
				Recommendation: "leave in place, it is in active use",
			})
		}

		if !folder.LastAccessed.IsZero() &&
			folder.LastModified.Before(staleCutoff) && folder.LastAccessed.Before(staleCutoff) {
			findings = append(findings, models.Finding{
				Type:       models.FindingColdArchive,
				Paths:      []string{folder.Path},
				TotalBytes: folder.TotalBytes,
				Reason: fmt.Sprintf("folder holds %s and has not been modified or read since %s",
					humanize.IBytes(uint64(folder.TotalBytes)), folder.LastModified.Format("January 2006")),
				Recommendation: "move it to external or cloud archive storage",
			})
		}
	}

	findings = append(findings, a.cacheCandidates(result)...)
	findings = append(findings, a.duplicateFolders(result)...)
	findings = append(findings, a.duplicateFiles(result)...)

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].TotalBytes != findings[j].TotalBytes {
			return findings[i].TotalBytes > findings[j].TotalBytes
		}
		if findings[i].Type != findings[j].Type {
			return findings[i].Type < findings[j].Type
		}
		return findings[i].Paths[0] < findings[j].Paths[0]
	})
	for i := range findings {
		findings[i].ID = fmt.Sprintf("finding-%d", i+1)
	}

	return findings
}

// largeFolders returns folders above the large-folder floor, biggest first,
// capped to the reporting limit. The scan root itself is excluded; it always
// holds everything and would flag on every scan.
func (a *Analyzer) largeFolders(result *models.ScanResult) []models.FolderRecord {
	var large []models.FolderRecord
	for _, folder := range result.Folders {
		if folder.Path == result.RootPath {
			continue
		}
		if folder.TotalBytes > a.thresholds.LargeFolderBytes {
			large = append(large, folder)
		}
	}

	sort.Slice(large, func(i, j int) bool {
		if large[i].TotalBytes != large[j].TotalBytes {
			return large[i].TotalBytes > large[j].TotalBytes
		}
		return large[i].Path < large[j].Path
	})

	if len(large) > largeFolderCap {
		large = large[:largeFolderCap]
	}
	return large
}

func (a *Analyzer) cacheCandidates(result *models.ScanResult) []models.Finding {
	var findings []models.Finding
	for _, folder := range result.Folders {
		if _, ok := a.cachePatterns[strings.ToLower(folder.Name)]; !ok {
			continue
		}
		if folder.TotalBytes <= a.thresholds.CacheCandidateBytes {
			continue
		}
		findings = append(findings, models.Finding{
			Type:       models.FindingCacheCandidate,
			Paths:      []string{folder.Path},
			TotalBytes: folder.TotalBytes,
			Reason: fmt.Sprintf("%s looks like a rebuildable cache holding %s",
				folder.Name, humanize.IBytes(uint64(folder.TotalBytes))),
			Recommendation: "safe to delete; the tool that created it will rebuild it on demand",
		})
	}
	return findings
}

func (a *Analyzer) duplicateFolders(result *models.ScanResult) []models.Finding {
	byName := make(map[string][]models.FolderRecord)
	for _, folder := range result.Folders {
		if folder.TotalBytes <= a.thresholds.DuplicateFolderBytes {
			continue
		}
		key := strings.ToLower(folder.Name)
		byName[key] = append(byName[key], folder)
	}

	var findings []models.Finding
	for _, group := range byName {
		sort.Slice(group, func(i, j int) bool { return group[i].Path < group[j].Path })
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				one, two := group[i], group[j]
				// Nested same-name folders trivially track each other's
				// size; they are scaffolding, not copies.
				if isAncestorPath(one.Path, two.Path) || isAncestorPath(two.Path, one.Path) {
					continue
				}
				if !sizesWithinTenPercent(one.TotalBytes, two.TotalBytes) {
					continue
				}
				findings = append(findings, models.Finding{
					Type:       models.FindingDuplicateFolder,
					Paths:      []string{one.Path, two.Path},
					TotalBytes: one.TotalBytes + two.TotalBytes,
					Reason: fmt.Sprintf("two folders named %q hold %s and %s",
						one.Name, humanize.IBytes(uint64(one.TotalBytes)), humanize.IBytes(uint64(two.TotalBytes))),
					Recommendation: "verify one is a copy and remove it",
				})
			}
		}
	}
	return findings
}

func (a *Analyzer) duplicateFiles(result *models.ScanResult) []models.Finding {
	type dupKey struct {
		name string
		size int64
	}
	groups := make(map[dupKey][]string)
	for _, file := range result.Files {
		if file.Size <= a.thresholds.DuplicateFileBytes {
			continue
		}
		key := dupKey{name: strings.ToLower(filepath.Base(file.Path)), size: file.Size}
		groups[key] = append(groups[key], file.Path)
	}

	var findings []models.Finding
	for key, paths := range groups {
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		findings = append(findings, models.Finding{
			Type:       models.FindingDuplicateFile,
			Paths:      paths,
			TotalBytes: key.size * int64(len(paths)),
			Reason: fmt.Sprintf("%d files named %q share the same size of %s",
				len(paths), filepath.Base(paths[0]), humanize.IBytes(uint64(key.size))),
			Recommendation: "verify they are copies and deduplicate",
		})
	}
	return findings
}

// ExtensionSummary aggregates file counts and sizes per extension, biggest
// first. Files without an extension group under "none".
func ExtensionSummary(files []models.FileRecord) []models.ExtensionStat {
	byExt := make(map[string]*models.ExtensionStat)
	for _, file := range files {
		ext := file.Extension
		if ext == "" {
			ext = "none"
		}
		stat, ok := byExt[ext]
		if !ok {
			stat = &models.ExtensionStat{Extension: ext}
			byExt[ext] = stat
		}
		stat.Count++
		stat.TotalBytes += file.Size
	}

	stats := make([]models.ExtensionStat, 0, len(byExt))
	for _, stat := range byExt {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalBytes != stats[j].TotalBytes {
			return stats[i].TotalBytes > stats[j].TotalBytes
		}
		return stats[i].Extension < stats[j].Extension
	})
	return stats
}

func isAncestorPath(parent, child string) bool {
	return strings.HasPrefix(child, parent+string(filepath.Separator))
}

// sizesWithinTenPercent reports whether the smaller size is within ten
// percent of the larger one.
func sizesWithinTenPercent(a, b int64) bool {
	bigger, smaller := a, b
	if smaller > bigger {
		bigger, smaller = smaller, bigger
	}
	return bigger-smaller <= bigger/10
}
