package models

import (
	"time"
)

// FileRecord is one file observed during a disk scan
type FileRecord struct {
	// Path is the absolute path of the file
	Path string `json:"path"`

	// Size in bytes
	Size int64 `json:"size"`

	// Modified is the last modification time
	Modified time.Time `json:"modified"`

	// Extension is the lowercased extension without the dot, empty when none
	Extension string `json:"extension,omitempty"`
}

// FolderRecord is one directory observed during a disk scan
type FolderRecord struct {
	// Path is the absolute path of the folder
	Path string `json:"path"`

	// Name is the final path segment
	Name string `json:"name"`

	// TotalBytes is the aggregated size of every file below this folder
	TotalBytes int64 `json:"totalSize"`

	// FileCount is the number of files directly inside this folder
	FileCount int `json:"fileCount"`

	// LastModified is the most recent modification time seen in the subtree
	LastModified time.Time `json:"lastModified"`

	// LastAccessed is the most recent access time seen in the subtree, the
	// zero time when the platform does not expose access times
	LastAccessed time.Time `json:"lastAccessed,omitzero"`
}

// ScanResult is the complete outcome of one disk scan. The heavy per-entry
// slices are excluded from JSON; the remaining fields form the scan summary
// stored in snapshots and returned by the API.
type ScanResult struct {
	// ScanID uniquely identifies this scan run
	ScanID string `json:"scanId"`

	// RootPath is the absolute path that was scanned
	RootPath string `json:"rootPath"`

	// Files holds every file record collected
	Files []FileRecord `json:"-"`

	// Folders holds every folder record collected
	Folders []FolderRecord `json:"-"`

	// TotalFiles is the number of files seen
	TotalFiles int `json:"totalFiles"`

	// TotalFolders is the number of folders seen
	TotalFolders int `json:"totalFolders"`

	// TotalBytes is the summed size of all files seen
	TotalBytes int64 `json:"totalSizeBytes"`

	// StartedAt is when the scan began
	StartedAt time.Time `json:"startedAt"`

	// DurationSeconds is the wall-clock scan duration
	DurationSeconds float64 `json:"durationSeconds"`
}

// ScanProgress is an in-flight progress report emitted during a scan
type ScanProgress struct {
	// FilesSeen is the number of files visited so far
	FilesSeen int `json:"filesSeen"`

	// FoldersSeen is the number of folders visited so far
	FoldersSeen int `json:"foldersSeen"`

	// BytesSeen is the summed size of files visited so far
	BytesSeen int64 `json:"bytesSeen"`

	// CurrentPath is the entry being visited when the report was emitted
	CurrentPath string `json:"currentPath"`

	// ElapsedSeconds is the time since the scan started
	ElapsedSeconds float64 `json:"elapsedSeconds"`
}
