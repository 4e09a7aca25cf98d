package compare

import (
	"context"
	"time"

	"github.com/diskscout/diskscout/pkg/models"
)

// entryRecord is the classification state for one relative path present in
// either index. Exactly one of source/target may be nil.
type entryRecord struct {
	relPath string
	source  *models.PathMeta
	target  *models.PathMeta

	status     models.CompareStatus
	sourceHash string
	targetHash string
}

// isFolder reports whether either side is a directory. A file/folder type
// clash is treated as a folder so the clashing subtree surfaces through
// children differences.
func (r *entryRecord) isFolder() bool {
	return (r.source != nil && r.source.IsDir) || (r.target != nil && r.target.IsDir)
}

// modTimesEqual compares modification times at one-second precision.
// Sub-second fields vary across filesystems and copy tools and would turn
// every backup into a wall of false positives.
func modTimesEqual(a, b time.Time) bool {
	return a.Truncate(time.Second).Equal(b.Truncate(time.Second))
}

// classify assigns the record's status. Presence decides first, then for file
// pairs a cheap-to-expensive ladder: size, then modification time, then
// content digests when deep scanning. Digest computation that fails on either
// side falls back to the metadata verdict of its branch; an unreadable file
// never fabricates a difference on its own.
func classify(ctx context.Context, rec *entryRecord, deepScan bool, hasher *ContentHasher) error {
	switch {
	case rec.target == nil:
		rec.status = models.StatusMissingFromTarget
		return nil
	case rec.source == nil:
		rec.status = models.StatusExtraInTarget
		return nil
	}

	// Folders have no content of their own; the assembler decides their
	// final status from what happens underneath.
	if rec.isFolder() {
		rec.status = models.StatusIdentical
		return nil
	}

	if rec.source.Size != rec.target.Size {
		rec.status = models.StatusModified
		return nil
	}

	if !modTimesEqual(rec.source.ModTime, rec.target.ModTime) {
		if !deepScan {
			rec.status = models.StatusModified
			return nil
		}

		sourceHash, targetHash, err := hasher.hashPair(ctx, rec.source.AbsolutePath, rec.target.AbsolutePath)
		if err != nil {
			return err
		}
		rec.sourceHash = sourceHash
		rec.targetHash = targetHash

		// Equal content rescues a touched-but-unchanged file; anything
		// less than two matching digests stays modified.
		if sourceHash != "" && targetHash != "" && sourceHash == targetHash {
			rec.status = models.StatusIdentical
		} else {
			rec.status = models.StatusModified
		}
		return nil
	}

	// Same size and modification time.
	if !deepScan {
		rec.status = models.StatusIdentical
		return nil
	}

	sourceHash, targetHash, err := hasher.hashPair(ctx, rec.source.AbsolutePath, rec.target.AbsolutePath)
	if err != nil {
		return err
	}
	rec.sourceHash = sourceHash
	rec.targetHash = targetHash

	// Only two present-and-different digests override matching metadata.
	if sourceHash != "" && targetHash != "" && sourceHash != targetHash {
		rec.status = models.StatusModified
	} else {
		rec.status = models.StatusIdentical
	}
	return nil
}
