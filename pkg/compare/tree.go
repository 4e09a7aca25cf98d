package compare

import (
	"path"
	"sort"

	"github.com/diskscout/diskscout/pkg/models"
)

// assembleTree builds the comparison forest from flat classified records.
// The build is two passes over an arena of nodes rather than a recursive
// descent: pass one allocates every node, pass two links children in sorted
// key order, which guarantees parents are linked before their children and
// yields the required child ordering without a per-folder sort.
func assembleTree(records []*entryRecord) []*models.ComparisonNode {
	roots := []*models.ComparisonNode{}
	if len(records) == 0 {
		return roots
	}

	nodes := make(map[string]*models.ComparisonNode, len(records))
	keys := make([]string, 0, len(records))
	for _, rec := range records {
		nodes[rec.relPath] = newNode(rec)
		keys = append(keys, rec.relPath)
	}
	sort.Strings(keys)

	for _, key := range keys {
		node := nodes[key]
		parent := parentKey(key)
		if parent == "" {
			roots = append(roots, node)
			continue
		}
		parentNode, ok := nodes[parent]
		if !ok {
			// The parent directory was skipped (stat failure) while its
			// children survived; surface the orphan at the top level.
			roots = append(roots, node)
			continue
		}
		parentNode.Children = append(parentNode.Children, node)
	}

	// Difference propagation. Reverse sorted order visits every child before
	// its parent, so each node's count is final by the time it is charged to
	// the level above.
	for i := len(keys) - 1; i >= 0; i-- {
		node := nodes[keys[i]]
		parent := parentKey(keys[i])
		if parent == "" {
			continue
		}
		parentNode, ok := nodes[parent]
		if !ok {
			continue
		}
		if node.Status.IsDifference() || node.DifferenceCount > 0 {
			parentNode.DifferenceCount += 1 + node.DifferenceCount
			if parentNode.Status == models.StatusIdentical {
				parentNode.Status = models.StatusModified
			}
		}
	}

	return roots
}

// newNode materializes one record as a tree node. Folder nodes start with an
// empty, non-nil children slice; absent sides stay nil.
func newNode(rec *entryRecord) *models.ComparisonNode {
	node := &models.ComparisonNode{
		Name:         path.Base(rec.relPath),
		RelativePath: rec.relPath,
		ItemType:     models.ItemTypeFor(rec.isFolder()),
		Status:       rec.status,
		SourceHash:   rec.sourceHash,
		TargetHash:   rec.targetHash,
	}

	if rec.source != nil {
		size := rec.source.Size
		modified := rec.source.ModTime
		node.SourceSize = &size
		node.SourceModified = &modified
	}
	if rec.target != nil {
		size := rec.target.Size
		modified := rec.target.ModTime
		node.TargetSize = &size
		node.TargetModified = &modified
	}

	if node.ItemType == models.ItemFolder {
		node.Children = []*models.ComparisonNode{}
	}

	return node
}

// parentKey returns the key of the containing folder, or "" for top-level
// entries.
func parentKey(key string) string {
	dir := path.Dir(key)
	if dir == "." {
		return ""
	}
	return dir
}
