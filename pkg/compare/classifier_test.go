package compare

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diskscout/diskscout/pkg/models"
)

func fileMeta(path string, size int64, modTime time.Time) *models.PathMeta {
	return &models.PathMeta{AbsolutePath: path, Size: size, ModTime: modTime}
}

func dirMeta(path string, modTime time.Time) *models.PathMeta {
	return &models.PathMeta{AbsolutePath: path, ModTime: modTime, IsDir: true}
}

func mustClassify(t *testing.T, rec *entryRecord, deepScan bool, hasher *ContentHasher) {
	t.Helper()
	if err := classify(context.Background(), rec, deepScan, hasher); err != nil {
		t.Fatalf("classify() error = %v", err)
	}
}

// TestClassifyPresence tests the one-sided verdicts
func TestClassifyPresence(t *testing.T) {
	t.Run("SourceOnly", func(t *testing.T) {
		rec := &entryRecord{relPath: "a.txt", source: fileMeta("/src/a.txt", 10, testTime)}
		mustClassify(t, rec, false, nil)
		if rec.status != models.StatusMissingFromTarget {
			t.Errorf("status = %s, want missing_from_target", rec.status)
		}
	})

	t.Run("TargetOnly", func(t *testing.T) {
		rec := &entryRecord{relPath: "b.txt", target: fileMeta("/dst/b.txt", 10, testTime)}
		mustClassify(t, rec, false, nil)
		if rec.status != models.StatusExtraInTarget {
			t.Errorf("status = %s, want extra_in_target", rec.status)
		}
	})
}

// TestClassifyFolders tests that paired folders get a provisional verdict
func TestClassifyFolders(t *testing.T) {
	t.Run("FolderPair", func(t *testing.T) {
		rec := &entryRecord{
			relPath: "dir",
			source:  dirMeta("/src/dir", testTime),
			target:  dirMeta("/dst/dir", testTime.Add(48*time.Hour)),
		}
		mustClassify(t, rec, true, nil)
		if rec.status != models.StatusIdentical {
			t.Errorf("status = %s, want identical (folder times are irrelevant)", rec.status)
		}
	})

	t.Run("FileFolderClash", func(t *testing.T) {
		rec := &entryRecord{
			relPath: "thing",
			source:  fileMeta("/src/thing", 42, testTime),
			target:  dirMeta("/dst/thing", testTime),
		}
		if !rec.isFolder() {
			t.Error("isFolder() = false, want true when either side is a directory")
		}
		mustClassify(t, rec, true, nil)
		if rec.status != models.StatusIdentical {
			t.Errorf("status = %s, want identical (children decide the clash)", rec.status)
		}
	})
}

// TestClassifyShallow tests the metadata-only ladder
func TestClassifyShallow(t *testing.T) {
	tests := []struct {
		name       string
		sourceSize int64
		targetSize int64
		sourceTime time.Time
		targetTime time.Time
		want       models.CompareStatus
	}{
		{"SizesDiffer", 10, 20, testTime, testTime, models.StatusModified},
		{"TimesDiffer", 10, 10, testTime, testTime.Add(time.Minute), models.StatusModified},
		{"SameMetadata", 10, 10, testTime, testTime, models.StatusIdentical},
		{"SubSecondDrift", 10, 10, testTime.Add(200 * time.Millisecond), testTime.Add(800 * time.Millisecond), models.StatusIdentical},
		{"CrossSecondBoundary", 10, 10, testTime.Add(900 * time.Millisecond), testTime.Add(1100 * time.Millisecond), models.StatusModified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &entryRecord{
				relPath: "f.txt",
				source:  fileMeta("/src/f.txt", tt.sourceSize, tt.sourceTime),
				target:  fileMeta("/dst/f.txt", tt.targetSize, tt.targetTime),
			}
			mustClassify(t, rec, false, nil)
			if rec.status != tt.want {
				t.Errorf("status = %s, want %s", rec.status, tt.want)
			}
			if rec.sourceHash != "" || rec.targetHash != "" {
				t.Error("shallow classification should never compute digests")
			}
		})
	}
}

// TestClassifyDeep tests the content-digest branches
func TestClassifyDeep(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "diskscout-classify-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	writeTemp := func(name string, content []byte) string {
		t.Helper()
		path := filepath.Join(tempDir, name)
		if err := os.WriteFile(path, content, 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		return path
	}

	same1 := writeTemp("same1", []byte("equal content"))
	same2 := writeTemp("same2", []byte("equal content"))
	diff := writeTemp("diff", []byte("other content"))
	missing := filepath.Join(tempDir, "does-not-exist")

	hasher := NewContentHasher(AlgorithmSHA256, DefaultChunkSize, nil)
	size := int64(len("equal content"))

	t.Run("TouchedButEqual", func(t *testing.T) {
		rec := &entryRecord{
			relPath: "f",
			source:  fileMeta(same1, size, testTime),
			target:  fileMeta(same2, size, testTime.Add(time.Hour)),
		}
		mustClassify(t, rec, true, hasher)
		if rec.status != models.StatusIdentical {
			t.Errorf("status = %s, want identical", rec.status)
		}
		if rec.sourceHash == "" || rec.sourceHash != rec.targetHash {
			t.Errorf("digests = %q / %q, want present and equal", rec.sourceHash, rec.targetHash)
		}
	})

	t.Run("SameMetadataDifferentContent", func(t *testing.T) {
		rec := &entryRecord{
			relPath: "f",
			source:  fileMeta(same1, size, testTime),
			target:  fileMeta(diff, size, testTime),
		}
		mustClassify(t, rec, true, hasher)
		if rec.status != models.StatusModified {
			t.Errorf("status = %s, want modified", rec.status)
		}
		if rec.sourceHash == "" || rec.targetHash == "" || rec.sourceHash == rec.targetHash {
			t.Errorf("digests = %q / %q, want present and different", rec.sourceHash, rec.targetHash)
		}
	})

	// An unreadable side leaves its digest absent. With differing times the
	// verdict stays modified; with matching metadata it stays identical. The
	// asymmetry keeps an IO failure from ever inventing a difference.
	t.Run("UnreadableWithDifferingTimes", func(t *testing.T) {
		rec := &entryRecord{
			relPath: "f",
			source:  fileMeta(missing, size, testTime),
			target:  fileMeta(same2, size, testTime.Add(time.Hour)),
		}
		mustClassify(t, rec, true, hasher)
		if rec.status != models.StatusModified {
			t.Errorf("status = %s, want modified", rec.status)
		}
		if rec.sourceHash != "" {
			t.Errorf("sourceHash = %q, want empty for an unreadable file", rec.sourceHash)
		}
		if rec.targetHash == "" {
			t.Error("targetHash should still be computed for the readable side")
		}
	})

	t.Run("UnreadableWithMatchingMetadata", func(t *testing.T) {
		rec := &entryRecord{
			relPath: "f",
			source:  fileMeta(missing, size, testTime),
			target:  fileMeta(same2, size, testTime),
		}
		mustClassify(t, rec, true, hasher)
		if rec.status != models.StatusIdentical {
			t.Errorf("status = %s, want identical", rec.status)
		}
	})

	t.Run("BothUnreadable", func(t *testing.T) {
		rec := &entryRecord{
			relPath: "f",
			source:  fileMeta(missing, size, testTime),
			target:  fileMeta(filepath.Join(tempDir, "also-missing"), size, testTime),
		}
		mustClassify(t, rec, true, hasher)
		if rec.status != models.StatusIdentical {
			t.Errorf("status = %s, want identical (two absent digests decide nothing)", rec.status)
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		rec := &entryRecord{
			relPath: "f",
			source:  fileMeta(same1, size, testTime),
			target:  fileMeta(same2, size, testTime),
		}
		if err := classify(ctx, rec, true, hasher); err == nil {
			t.Error("classify() with cancelled context should return an error")
		}
	})
}

// TestModTimesEqual tests one-second precision time comparison
func TestModTimesEqual(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want bool
	}{
		{"Exact", base, base, true},
		{"WithinSameSecond", base.Add(100 * time.Millisecond), base.Add(999 * time.Millisecond), true},
		{"AcrossBoundary", base.Add(999 * time.Millisecond), base.Add(1001 * time.Millisecond), false},
		{"WholeSecondApart", base, base.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := modTimesEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("modTimesEqual() = %v, want %v", got, tt.want)
			}
		})
	}
}
