package models

import (
	"encoding/json"
	"time"
)

// SnapshotKind distinguishes what a stored snapshot captured
type SnapshotKind string

const (
	// SnapshotScan is a persisted disk scan with findings
	SnapshotScan SnapshotKind = "scan"
	// SnapshotComparison is a persisted directory comparison
	SnapshotComparison SnapshotKind = "comparison"
)

// Snapshot is a persisted scan or comparison. Scan snapshots carry ScanInfo,
// Findings and Extensions; comparison snapshots carry TargetPath, Comparison
// and ComparisonSummary instead.
type Snapshot struct {
	// ID uniquely identifies the snapshot
	ID string `json:"id"`

	// ScanID is the run that produced the payload
	ScanID string `json:"scanId,omitempty"`

	// Kind tells scan snapshots from comparison snapshots
	Kind SnapshotKind `json:"kind"`

	// RootPath is the scanned root, or the comparison source root
	RootPath string `json:"rootPath"`

	// TargetPath is the comparison target root, empty for scan snapshots
	TargetPath string `json:"targetPath,omitempty"`

	// TotalFiles, TotalFolders and TotalBytes summarize the payload for
	// listings without loading the heavy columns
	TotalFiles   int   `json:"totalFiles"`
	TotalFolders int   `json:"totalFolders"`
	TotalBytes   int64 `json:"totalSizeBytes"`

	// SavedAt is when the snapshot was written or last updated
	SavedAt time.Time `json:"savedAt"`

	// ScanInfo is the scan summary, nil for comparison snapshots
	ScanInfo *ScanResult `json:"scanInfo,omitempty"`

	// Findings from the analysis of a scan snapshot
	Findings []Finding `json:"findings,omitempty"`

	// Extensions is the extension usage summary of a scan snapshot
	Extensions []ExtensionStat `json:"extensions,omitempty"`

	// Comparison is the serialized comparison envelope as produced at the
	// output boundary, preserved verbatim
	Comparison json.RawMessage `json:"comparison,omitempty"`

	// ComparisonSummary is the comparison's aggregate counters
	ComparisonSummary *ComparisonSummary `json:"comparisonSummary,omitempty"`
}
