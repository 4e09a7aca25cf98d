package models

import (
	"time"
)

// PathMeta describes a single filesystem entry observed while indexing a tree
type PathMeta struct {
	// AbsolutePath is the full path on the filesystem
	AbsolutePath string

	// Size in bytes; directories are always recorded as 0
	Size int64

	// ModTime is the last modification time
	ModTime time.Time

	// IsDir indicates if this is a directory
	IsDir bool
}

// PathIndex maps slash-normalized relative paths to their metadata. The same
// relative path computed against two different roots collapses to the same key,
// which is what makes two indexes joinable.
type PathIndex map[string]PathMeta

// ItemType distinguishes files from folders in a comparison tree
type ItemType string

const (
	// ItemFile is a regular file
	ItemFile ItemType = "file"
	// ItemFolder is a directory
	ItemFolder ItemType = "folder"
)

// ItemTypeFor returns the item type matching a directory flag
func ItemTypeFor(isDir bool) ItemType {
	if isDir {
		return ItemFolder
	}
	return ItemFile
}
