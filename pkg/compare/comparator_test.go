package compare

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diskscout/diskscout/pkg/models"
)

// TestHelper builds throwaway source/target trees for comparison tests
type TestHelper struct {
	t         *testing.T
	tempDir   string
	sourceDir string
	targetDir string
}

// NewTestHelper creates a helper with empty source and target directories
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "diskscout-compare-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	sourceDir := filepath.Join(tempDir, "source")
	targetDir := filepath.Join(tempDir, "target")

	if err := os.MkdirAll(sourceDir, 0755); err != nil {
		t.Fatalf("failed to create source dir: %v", err)
	}
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		t.Fatalf("failed to create target dir: %v", err)
	}

	return &TestHelper{
		t:         t,
		tempDir:   tempDir,
		sourceDir: sourceDir,
		targetDir: targetDir,
	}
}

// Cleanup removes all temporary files
func (h *TestHelper) Cleanup() {
	os.RemoveAll(h.tempDir)
}

// WriteSource creates a file under the source tree
func (h *TestHelper) WriteSource(name string, content []byte) {
	h.t.Helper()
	h.writeFile(filepath.Join(h.sourceDir, name), content)
}

// WriteTarget creates a file under the target tree
func (h *TestHelper) WriteTarget(name string, content []byte) {
	h.t.Helper()
	h.writeFile(filepath.Join(h.targetDir, name), content)
}

func (h *TestHelper) writeFile(path string, content []byte) {
	h.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		h.t.Fatalf("failed to write file: %v", err)
	}
}

// MkdirSource creates an empty directory under the source tree
func (h *TestHelper) MkdirSource(name string) {
	h.t.Helper()
	if err := os.MkdirAll(filepath.Join(h.sourceDir, name), 0755); err != nil {
		h.t.Fatalf("failed to create dir: %v", err)
	}
}

// MkdirTarget creates an empty directory under the target tree
func (h *TestHelper) MkdirTarget(name string) {
	h.t.Helper()
	if err := os.MkdirAll(filepath.Join(h.targetDir, name), 0755); err != nil {
		h.t.Fatalf("failed to create dir: %v", err)
	}
}

// TouchBoth pins the same modification time on the file in both trees.
// Comparison uses one-second precision, so files written moments apart must
// have their times pinned to test metadata equality deterministically.
func (h *TestHelper) TouchBoth(name string, when time.Time) {
	h.t.Helper()
	h.TouchSource(name, when)
	h.TouchTarget(name, when)
}

// TouchSource pins the modification time of a source file
func (h *TestHelper) TouchSource(name string, when time.Time) {
	h.t.Helper()
	if err := os.Chtimes(filepath.Join(h.sourceDir, name), when, when); err != nil {
		h.t.Fatalf("failed to set source mod time: %v", err)
	}
}

// TouchTarget pins the modification time of a target file
func (h *TestHelper) TouchTarget(name string, when time.Time) {
	h.t.Helper()
	if err := os.Chtimes(filepath.Join(h.targetDir, name), when, when); err != nil {
		h.t.Fatalf("failed to set target mod time: %v", err)
	}
}

// Compare runs a comparison of the helper trees with the given options
func (h *TestHelper) Compare(opts Options) *models.ComparisonResult {
	h.t.Helper()
	return h.CompareRoots(opts, h.sourceDir, h.targetDir)
}

// CompareRoots runs a comparison of two explicit roots
func (h *TestHelper) CompareRoots(opts Options, source, target string) *models.ComparisonResult {
	h.t.Helper()

	comparator, err := NewFolderComparator(opts)
	if err != nil {
		h.t.Fatalf("NewFolderComparator() error = %v", err)
	}

	result, err := comparator.Compare(context.Background(), source, target)
	if err != nil {
		h.t.Fatalf("Compare() error = %v", err)
	}
	return result
}

// FindNode walks the result tree for the node with the given relative path
func (h *TestHelper) FindNode(result *models.ComparisonResult, relPath string) *models.ComparisonNode {
	h.t.Helper()
	node := findNode(result.RootNodes, relPath)
	if node == nil {
		h.t.Fatalf("node %q not found in result tree", relPath)
	}
	return node
}

func findNode(nodes []*models.ComparisonNode, relPath string) *models.ComparisonNode {
	for _, node := range nodes {
		if node.RelativePath == relPath {
			return node
		}
		if strings.HasPrefix(relPath, node.RelativePath+"/") {
			if found := findNode(node.Children, relPath); found != nil {
				return found
			}
		}
	}
	return nil
}

var testTime = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

// TestCompareEndToEnd verifies the canonical mixed-tree scenario
func TestCompareEndToEnd(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.WriteSource("docs/a.txt", make([]byte, 100))
	h.WriteSource("docs/b.txt", make([]byte, 50))
	h.WriteTarget("docs/a.txt", make([]byte, 100))
	h.WriteTarget("docs/c.txt", make([]byte, 30))
	h.TouchBoth("docs/a.txt", testTime)

	result := h.Compare(Options{})

	docs := h.FindNode(result, "docs")
	if docs.ItemType != models.ItemFolder {
		t.Errorf("docs ItemType = %s, want folder", docs.ItemType)
	}
	if docs.Status != models.StatusModified {
		t.Errorf("docs Status = %s, want modified", docs.Status)
	}
	if docs.DifferenceCount != 2 {
		t.Errorf("docs DifferenceCount = %d, want 2", docs.DifferenceCount)
	}

	if got := h.FindNode(result, "docs/a.txt").Status; got != models.StatusIdentical {
		t.Errorf("a.txt Status = %s, want identical", got)
	}
	if got := h.FindNode(result, "docs/b.txt").Status; got != models.StatusMissingFromTarget {
		t.Errorf("b.txt Status = %s, want missing_from_target", got)
	}
	if got := h.FindNode(result, "docs/c.txt").Status; got != models.StatusExtraInTarget {
		t.Errorf("c.txt Status = %s, want extra_in_target", got)
	}

	want := models.ComparisonSummary{
		IdenticalCount:         1,
		ModifiedCount:          0,
		MissingFromTargetCount: 1,
		ExtraInTargetCount:     1,
		TotalSourceBytes:       150,
		TotalTargetBytes:       130,
	}
	if result.Summary != want {
		t.Errorf("Summary = %+v, want %+v", result.Summary, want)
	}

	if result.UsedContentHash {
		t.Error("UsedContentHash should be false for a metadata comparison")
	}
}

// TestCompareIdempotence verifies comparing a tree against itself
func TestCompareIdempotence(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.WriteSource("a.txt", []byte("alpha"))
	h.WriteSource("sub/b.txt", []byte("beta"))
	h.WriteSource("sub/deep/c.txt", []byte("gamma"))

	result := h.CompareRoots(Options{}, h.sourceDir, h.sourceDir)

	if result.Summary.IdenticalCount != 3 {
		t.Errorf("IdenticalCount = %d, want 3", result.Summary.IdenticalCount)
	}
	if result.Summary.HasDifferences() {
		t.Errorf("self-comparison found differences: %+v", result.Summary)
	}
	for _, rel := range []string{"a.txt", "sub", "sub/b.txt", "sub/deep", "sub/deep/c.txt"} {
		node := h.FindNode(result, rel)
		if node.Status != models.StatusIdentical {
			t.Errorf("%s Status = %s, want identical", rel, node.Status)
		}
		if node.DifferenceCount != 0 {
			t.Errorf("%s DifferenceCount = %d, want 0", rel, node.DifferenceCount)
		}
	}
}

// TestCompareSymmetry verifies that swapping the roots swaps the verdicts
func TestCompareSymmetry(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.WriteSource("only-in-a.txt", []byte("aaa"))
	h.WriteSource("shared.txt", []byte("same"))
	h.WriteTarget("only-in-b.txt", []byte("bb"))
	h.WriteTarget("shared.txt", []byte("same"))
	h.TouchBoth("shared.txt", testTime)

	forward := h.CompareRoots(Options{}, h.sourceDir, h.targetDir)
	reverse := h.CompareRoots(Options{}, h.targetDir, h.sourceDir)

	if forward.Summary.MissingFromTargetCount != reverse.Summary.ExtraInTargetCount {
		t.Errorf("missing(A,B) = %d, extra(B,A) = %d, want equal",
			forward.Summary.MissingFromTargetCount, reverse.Summary.ExtraInTargetCount)
	}
	if forward.Summary.ExtraInTargetCount != reverse.Summary.MissingFromTargetCount {
		t.Errorf("extra(A,B) = %d, missing(B,A) = %d, want equal",
			forward.Summary.ExtraInTargetCount, reverse.Summary.MissingFromTargetCount)
	}
	if forward.Summary.TotalSourceBytes != reverse.Summary.TotalTargetBytes {
		t.Errorf("sourceBytes(A,B) = %d, targetBytes(B,A) = %d, want equal",
			forward.Summary.TotalSourceBytes, reverse.Summary.TotalTargetBytes)
	}

	fwdNode := h.FindNode(forward, "only-in-a.txt")
	revNode := h.FindNode(reverse, "only-in-a.txt")
	if fwdNode.Status != models.StatusMissingFromTarget {
		t.Errorf("forward Status = %s, want missing_from_target", fwdNode.Status)
	}
	if revNode.Status != models.StatusExtraInTarget {
		t.Errorf("reverse Status = %s, want extra_in_target", revNode.Status)
	}
	if fwdNode.SourceSize == nil || revNode.TargetSize == nil {
		t.Fatal("side fields should swap between directions")
	}
	if *fwdNode.SourceSize != *revNode.TargetSize {
		t.Errorf("SourceSize = %d, swapped TargetSize = %d, want equal",
			*fwdNode.SourceSize, *revNode.TargetSize)
	}
	if revNode.SourceSize != nil {
		t.Error("reverse SourceSize should be nil for an entry absent from the new source")
	}
}

// TestCompareSizeMismatch verifies sizes decide without hashing
func TestCompareSizeMismatch(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.WriteSource("f.bin", make([]byte, 10))
	h.WriteTarget("f.bin", make([]byte, 20))
	h.TouchBoth("f.bin", testTime)

	result := h.Compare(Options{DeepScan: true})

	node := h.FindNode(result, "f.bin")
	if node.Status != models.StatusModified {
		t.Errorf("Status = %s, want modified", node.Status)
	}
	if node.SourceHash != "" || node.TargetHash != "" {
		t.Error("size mismatch should be conclusive without computing digests")
	}
}

// TestCompareDeepScanUpgrade verifies hashing rescues touched-but-equal files
func TestCompareDeepScanUpgrade(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	content := []byte("unchanged payload")
	h.WriteSource("f.txt", content)
	h.WriteTarget("f.txt", content)
	h.TouchSource("f.txt", testTime)
	h.TouchTarget("f.txt", testTime.Add(2*time.Hour))

	shallow := h.Compare(Options{})
	if got := h.FindNode(shallow, "f.txt").Status; got != models.StatusModified {
		t.Errorf("shallow Status = %s, want modified", got)
	}

	deep := h.Compare(Options{DeepScan: true})
	node := h.FindNode(deep, "f.txt")
	if node.Status != models.StatusIdentical {
		t.Errorf("deep Status = %s, want identical", node.Status)
	}
	if node.SourceHash == "" || node.SourceHash != node.TargetHash {
		t.Errorf("digests should be present and equal, got %q / %q", node.SourceHash, node.TargetHash)
	}
	if len(node.SourceHash) != 64 {
		t.Errorf("sha256 digest width = %d, want 64", len(node.SourceHash))
	}
	if !deep.UsedContentHash {
		t.Error("UsedContentHash should be true for a deep scan")
	}
}

// TestCompareDeepScanCatchesCorruption verifies silent corruption detection
func TestCompareDeepScanCatchesCorruption(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.WriteSource("f.dat", []byte("good-data"))
	h.WriteTarget("f.dat", []byte("bad-data!"))
	h.TouchBoth("f.dat", testTime)

	// Same size, same time: metadata alone cannot tell them apart. This is
	// the documented false negative of shallow comparison.
	shallow := h.Compare(Options{})
	if got := h.FindNode(shallow, "f.dat").Status; got != models.StatusIdentical {
		t.Errorf("shallow Status = %s, want identical", got)
	}

	deep := h.Compare(Options{DeepScan: true})
	node := h.FindNode(deep, "f.dat")
	if node.Status != models.StatusModified {
		t.Errorf("deep Status = %s, want modified", node.Status)
	}
	if node.SourceHash == "" || node.TargetHash == "" || node.SourceHash == node.TargetHash {
		t.Errorf("digests should be present and different, got %q / %q", node.SourceHash, node.TargetHash)
	}
}

// TestCompareFolderPropagation verifies difference counts climb the tree
func TestCompareFolderPropagation(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.WriteSource("outer/keep.txt", []byte("same"))
	h.WriteSource("outer/changed.txt", make([]byte, 5))
	h.WriteSource("outer/inner/changed2.txt", make([]byte, 7))
	h.WriteTarget("outer/keep.txt", []byte("same"))
	h.WriteTarget("outer/changed.txt", make([]byte, 6))
	h.WriteTarget("outer/inner/changed2.txt", make([]byte, 8))
	h.TouchBoth("outer/keep.txt", testTime)

	result := h.Compare(Options{})

	inner := h.FindNode(result, "outer/inner")
	if inner.Status != models.StatusModified {
		t.Errorf("inner Status = %s, want modified", inner.Status)
	}
	if inner.DifferenceCount != 1 {
		t.Errorf("inner DifferenceCount = %d, want 1", inner.DifferenceCount)
	}

	// outer: one modified file plus (1 + 1) for the modified inner folder.
	outer := h.FindNode(result, "outer")
	if outer.Status != models.StatusModified {
		t.Errorf("outer Status = %s, want modified", outer.Status)
	}
	if outer.DifferenceCount != 3 {
		t.Errorf("outer DifferenceCount = %d, want 3", outer.DifferenceCount)
	}
}

// TestCompareMissingSubtree verifies a folder absent from the target
func TestCompareMissingSubtree(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.WriteSource("gone/x.txt", []byte("x"))
	h.WriteSource("gone/sub/y.txt", []byte("y"))

	result := h.Compare(Options{})

	gone := h.FindNode(result, "gone")
	if gone.Status != models.StatusMissingFromTarget {
		t.Errorf("gone Status = %s, want missing_from_target", gone.Status)
	}
	// x.txt, sub and sub/y.txt are all missing descendants: 1 + (1+1).
	if gone.DifferenceCount != 3 {
		t.Errorf("gone DifferenceCount = %d, want 3", gone.DifferenceCount)
	}
	if result.Summary.MissingFromTargetCount != 2 {
		t.Errorf("MissingFromTargetCount = %d, want 2 (files only)", result.Summary.MissingFromTargetCount)
	}
}

// TestCompareChildOrdering verifies children sort by relative path
func TestCompareChildOrdering(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	for _, name := range []string{"dir/zeta.txt", "dir/alpha.txt", "dir/mid.txt"} {
		h.WriteSource(name, []byte("x"))
		h.WriteTarget(name, []byte("x"))
		h.TouchBoth(name, testTime)
	}

	result := h.Compare(Options{})

	dir := h.FindNode(result, "dir")
	var got []string
	for _, child := range dir.Children {
		got = append(got, child.Name)
	}
	want := []string{"alpha.txt", "mid.txt", "zeta.txt"}
	if len(got) != len(want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("children[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

// TestCompareEmptyFolders verifies empty directories compare as identical
func TestCompareEmptyFolders(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.MkdirSource("hollow")
	h.MkdirTarget("hollow")

	result := h.Compare(Options{})

	node := h.FindNode(result, "hollow")
	if node.Status != models.StatusIdentical {
		t.Errorf("Status = %s, want identical", node.Status)
	}
	if node.Children == nil {
		t.Error("folder Children should be an empty slice, not nil")
	}
	if len(node.Children) != 0 {
		t.Errorf("Children length = %d, want 0", len(node.Children))
	}
	if result.Summary.TotalFiles() != 0 {
		t.Errorf("TotalFiles() = %d, want 0 (folders are not files)", result.Summary.TotalFiles())
	}
}

// TestCompareEmptyTrees verifies two empty roots produce an empty result
func TestCompareEmptyTrees(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	result := h.Compare(Options{})

	if result.RootNodes == nil {
		t.Error("RootNodes should be an empty slice, not nil")
	}
	if len(result.RootNodes) != 0 {
		t.Errorf("RootNodes length = %d, want 0", len(result.RootNodes))
	}
	if result.Summary != (models.ComparisonSummary{}) {
		t.Errorf("Summary = %+v, want zero", result.Summary)
	}
}

// TestCompareTypeClash verifies a file/folder collision at one path
func TestCompareTypeClash(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.WriteSource("thing", []byte("i am a file"))
	h.WriteTarget("thing/nested.txt", []byte("i am inside a folder"))

	result := h.Compare(Options{})

	thing := h.FindNode(result, "thing")
	if thing.ItemType != models.ItemFolder {
		t.Errorf("ItemType = %s, want folder (either side being a directory wins)", thing.ItemType)
	}
	if thing.Status != models.StatusModified {
		t.Errorf("Status = %s, want modified via child differences", thing.Status)
	}
	if got := h.FindNode(result, "thing/nested.txt").Status; got != models.StatusExtraInTarget {
		t.Errorf("nested Status = %s, want extra_in_target", got)
	}
}

// TestCompareIgnorePruning verifies ignored subtrees contribute nothing
func TestCompareIgnorePruning(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.WriteSource("keep.txt", []byte("k"))
	h.WriteTarget("keep.txt", []byte("k"))
	h.TouchBoth("keep.txt", testTime)

	// Wildly different ignored subtrees on both sides.
	h.WriteSource("Skip Me/big.bin", make([]byte, 4096))
	h.WriteTarget("Skip Me/other.bin", make([]byte, 123))

	result := h.Compare(Options{IgnorePaths: []string{"skip me"}})

	if node := findNode(result.RootNodes, "Skip Me"); node != nil {
		t.Error("ignored directory should not appear in the result tree")
	}
	want := models.ComparisonSummary{IdenticalCount: 1, TotalSourceBytes: 1, TotalTargetBytes: 1}
	if result.Summary != want {
		t.Errorf("Summary = %+v, want %+v", result.Summary, want)
	}
}

// TestCompareExcludeGlobs verifies relative-path patterns prune entries
func TestCompareExcludeGlobs(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.WriteSource("app.log", []byte("log log log"))
	h.WriteSource("src/main.go", []byte("package main"))
	h.WriteTarget("src/main.go", []byte("package main"))
	h.TouchBoth("src/main.go", testTime)

	result := h.Compare(Options{ExcludeGlobs: []string{"*.log"}})

	if node := findNode(result.RootNodes, "app.log"); node != nil {
		t.Error("excluded file should not appear in the result tree")
	}
	if result.Summary.MissingFromTargetCount != 0 {
		t.Errorf("MissingFromTargetCount = %d, want 0", result.Summary.MissingFromTargetCount)
	}
}

// TestCompareFreshTraversal verifies results reflect filesystem changes
func TestCompareFreshTraversal(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.WriteSource("f.txt", []byte("v1"))
	h.WriteTarget("f.txt", []byte("v1"))
	h.TouchBoth("f.txt", testTime)

	comparator, err := NewFolderComparator(Options{})
	if err != nil {
		t.Fatalf("NewFolderComparator() error = %v", err)
	}

	first, err := comparator.Compare(context.Background(), h.sourceDir, h.targetDir)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if first.Summary.IdenticalCount != 1 {
		t.Fatalf("IdenticalCount = %d, want 1", first.Summary.IdenticalCount)
	}

	// Change the target; a reused comparator must see it.
	h.WriteTarget("f.txt", []byte("v2 now longer"))

	second, err := comparator.Compare(context.Background(), h.sourceDir, h.targetDir)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if second.Summary.ModifiedCount != 1 {
		t.Errorf("ModifiedCount = %d, want 1 after target changed", second.Summary.ModifiedCount)
	}
	if first.Summary.ModifiedCount != 0 {
		t.Error("earlier result must not be mutated by a later comparison")
	}
}

// TestCompareInvalidRoots verifies up-front path validation
func TestCompareInvalidRoots(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	comparator, err := NewFolderComparator(Options{})
	if err != nil {
		t.Fatalf("NewFolderComparator() error = %v", err)
	}

	t.Run("MissingSource", func(t *testing.T) {
		_, err := comparator.Compare(context.Background(), filepath.Join(h.tempDir, "absent"), h.targetDir)
		var pathErr *models.PathError
		if !errors.As(err, &pathErr) {
			t.Fatalf("Compare() error = %v, want *models.PathError", err)
		}
	})

	t.Run("FileAsTarget", func(t *testing.T) {
		h.WriteSource("plain.txt", []byte("x"))
		_, err := comparator.Compare(context.Background(), h.sourceDir, filepath.Join(h.sourceDir, "plain.txt"))
		var pathErr *models.PathError
		if !errors.As(err, &pathErr) {
			t.Fatalf("Compare() error = %v, want *models.PathError", err)
		}
	})
}

// TestCompareCancellation verifies a dead context aborts with no result
func TestCompareCancellation(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.WriteSource("f.txt", []byte("x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	comparator, err := NewFolderComparator(Options{DeepScan: true})
	if err != nil {
		t.Fatalf("NewFolderComparator() error = %v", err)
	}

	result, err := comparator.Compare(ctx, h.sourceDir, h.targetDir)
	if result != nil {
		t.Error("cancelled comparison should not return a partial result")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Compare() error = %v, want context.Canceled", err)
	}
}

// TestCompareProgressCallback verifies every entry is reported once
func TestCompareProgressCallback(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	for _, name := range []string{"a.txt", "b.txt", "dir/c.txt"} {
		h.WriteSource(name, []byte(name))
		h.WriteTarget(name, []byte(name))
	}

	var calls atomic.Int64
	opts := Options{
		DeepScan: true,
		Workers:  2,
		Progress: func(done, total int, relPath string) {
			calls.Add(1)
			if total != 4 {
				t.Errorf("total = %d, want 4", total)
			}
		},
	}

	h.Compare(opts)

	if calls.Load() != 4 {
		t.Errorf("progress calls = %d, want 4", calls.Load())
	}
}

// TestOptionsValidate tests option validation
func TestOptionsValidate(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		opts := DefaultOptions()
		if err := opts.Validate(); err != nil {
			t.Errorf("Validate() error = %v, want nil", err)
		}
	})

	t.Run("UnknownAlgorithm", func(t *testing.T) {
		_, err := NewFolderComparator(Options{Algorithm: "crc32"})
		var vErr *models.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("error = %v, want *models.ValidationError", err)
		}
		if vErr.Field != "Algorithm" {
			t.Errorf("Field = %s, want Algorithm", vErr.Field)
		}
	})

	t.Run("NegativeWorkers", func(t *testing.T) {
		_, err := NewFolderComparator(Options{Workers: -1})
		if err == nil {
			t.Error("NewFolderComparator() should reject negative workers")
		}
	})

	t.Run("BadExcludeGlob", func(t *testing.T) {
		_, err := NewFolderComparator(Options{ExcludeGlobs: []string{"[oops"}})
		if err == nil {
			t.Error("NewFolderComparator() should reject invalid exclude patterns")
		}
	})
}
