package models

import (
	"time"
)

// CompareStatus is the per-entry verdict of a directory comparison
type CompareStatus string

const (
	// StatusIdentical indicates both sides are considered equal
	StatusIdentical CompareStatus = "identical"
	// StatusModified indicates both sides exist but differ
	StatusModified CompareStatus = "modified"
	// StatusMissingFromTarget indicates the entry exists in the source only
	StatusMissingFromTarget CompareStatus = "missing_from_target"
	// StatusExtraInTarget indicates the entry exists in the target only
	StatusExtraInTarget CompareStatus = "extra_in_target"
)

// IsDifference reports whether the status marks a divergence between the trees
func (s CompareStatus) IsDifference() bool {
	return s != StatusIdentical
}

// ComparisonNode is one entry in a comparison tree. Folder nodes always carry a
// non-nil Children slice (empty when the folder has no entries); file nodes
// carry none. Side-specific fields are nil when that side is absent.
type ComparisonNode struct {
	// Name is the final path segment
	Name string `json:"name"`

	// RelativePath is the slash-normalized path below the compared roots,
	// identical for the corresponding source and target entries
	RelativePath string `json:"relativePath"`

	// ItemType is file or folder
	ItemType ItemType `json:"itemType"`

	// Status is the comparison verdict for this entry
	Status CompareStatus `json:"status"`

	// SourceSize is the size recorded in the source index, nil when absent
	SourceSize *int64 `json:"sourceSize,omitempty"`

	// TargetSize is the size recorded in the target index, nil when absent
	TargetSize *int64 `json:"targetSize,omitempty"`

	// SourceModified is the source-side modification time, nil when absent
	SourceModified *time.Time `json:"sourceModified,omitempty"`

	// TargetModified is the target-side modification time, nil when absent
	TargetModified *time.Time `json:"targetModified,omitempty"`

	// SourceHash is the source content digest, empty unless computed
	SourceHash string `json:"sourceHash,omitempty"`

	// TargetHash is the target content digest, empty unless computed
	TargetHash string `json:"targetHash,omitempty"`

	// Children are the folder's entries ordered by relative path ascending.
	// omitzero keeps the empty slice for folders and drops the nil for files.
	Children []*ComparisonNode `json:"children,omitzero"`

	// DifferenceCount is the number of descendants, at any depth, whose status
	// is not identical or whose own DifferenceCount is nonzero
	DifferenceCount int `json:"differenceCount"`
}

// IsFolder reports whether the node represents a directory on either side
func (n *ComparisonNode) IsFolder() bool {
	return n.ItemType == ItemFolder
}

// ComparisonSummary aggregates per-status file counts and per-side byte totals.
// Folder entries contribute to neither the counts nor the byte totals.
type ComparisonSummary struct {
	// IdenticalCount is the number of files judged identical
	IdenticalCount int `json:"identical"`

	// ModifiedCount is the number of files judged modified
	ModifiedCount int `json:"modified"`

	// MissingFromTargetCount is the number of files present in the source only
	MissingFromTargetCount int `json:"missingFromTarget"`

	// ExtraInTargetCount is the number of files present in the target only
	ExtraInTargetCount int `json:"extraInTarget"`

	// TotalSourceBytes sums the recorded sizes of all source entries
	TotalSourceBytes int64 `json:"totalSourceSize"`

	// TotalTargetBytes sums the recorded sizes of all target entries
	TotalTargetBytes int64 `json:"totalTargetSize"`
}

// DifferenceCount returns the number of files that are not identical
func (s *ComparisonSummary) DifferenceCount() int {
	return s.ModifiedCount + s.MissingFromTargetCount + s.ExtraInTargetCount
}

// HasDifferences reports whether the comparison found any divergence
func (s *ComparisonSummary) HasDifferences() bool {
	return s.DifferenceCount() > 0
}

// TotalFiles returns the number of distinct files across both trees
func (s *ComparisonSummary) TotalFiles() int {
	return s.IdenticalCount + s.DifferenceCount()
}

// ComparisonResult is the complete outcome of one directory comparison
type ComparisonResult struct {
	// SourceRoot is the absolute path of the compared source tree
	SourceRoot string

	// TargetRoot is the absolute path of the compared target tree
	TargetRoot string

	// RootNodes are the top-level entries of the merged tree, ordered by
	// relative path ascending
	RootNodes []*ComparisonNode

	// Summary holds the aggregate counters
	Summary ComparisonSummary

	// UsedContentHash records whether deep scanning was in effect
	UsedContentHash bool
}
