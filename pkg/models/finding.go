package models

// FindingType categorizes analyzer findings
type FindingType string

const (
	// FindingLargeFolder flags folders above the large-folder threshold
	FindingLargeFolder FindingType = "large_folder"
	// FindingOldLargeFolder flags large folders not modified for a long time
	FindingOldLargeFolder FindingType = "old_large_folder"
	// FindingActiveLargeFolder flags large folders modified recently
	FindingActiveLargeFolder FindingType = "active_large_folder"
	// FindingCacheCandidate flags folders that look like rebuildable caches
	FindingCacheCandidate FindingType = "cache_candidate"
	// FindingDuplicateFolder flags folder pairs that look like copies
	FindingDuplicateFolder FindingType = "duplicate_folder_candidate"
	// FindingDuplicateFile flags files sharing name and size
	FindingDuplicateFile FindingType = "duplicate_file_candidate"
	// FindingColdArchive flags large folders neither modified nor accessed
	FindingColdArchive FindingType = "cold_archive_candidate"
)

// Finding is one analyzer observation about reclaimable or notable disk usage
type Finding struct {
	// ID is a stable identifier within one analysis run ("finding-N")
	ID string `json:"id"`

	// Type categorizes the finding
	Type FindingType `json:"type"`

	// Paths lists the folder or file paths involved
	Paths []string `json:"paths"`

	// TotalBytes is the disk usage attributed to this finding
	TotalBytes int64 `json:"totalSizeBytes"`

	// Reason is a human-readable explanation of why this was flagged
	Reason string `json:"reason"`

	// Recommendation suggests what to do about it
	Recommendation string `json:"recommendation"`
}

// ExtensionStat aggregates disk usage for one file extension
type ExtensionStat struct {
	// Extension is the lowercased extension without the dot; "none" groups
	// files without an extension
	Extension string `json:"extension"`

	// Count is the number of files with this extension
	Count int `json:"count"`

	// TotalBytes is the summed size of those files
	TotalBytes int64 `json:"totalSizeBytes"`
}
