package ignore

import (
	"testing"
)

func TestIgnoresAbsolute(t *testing.T) {
	filter, err := NewFilter([]string{"$Recycle.Bin", "System Volume Information"}, nil)
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"RecycleBinExact", `D:\$Recycle.Bin`, true},
		{"RecycleBinNested", `D:\$Recycle.Bin\S-1-5-21\file.txt`, true},
		{"CaseInsensitive", `d:\$recycle.bin`, true},
		{"SystemVolume", `E:\System Volume Information`, true},
		{"PlainPath", `D:\Projects\app`, false},
		{"UnixPath", "/home/user/data", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filter.IgnoresAbsolute(tt.path); got != tt.want {
				t.Errorf("IgnoresAbsolute(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestExcludesRelative(t *testing.T) {
	filter, err := NewFilter(nil, []string{"*.tmp", "logs/", "build/**", "**/generated"})
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}

	tests := []struct {
		name  string
		path  string
		isDir bool
		want  bool
	}{
		{"TmpAtRoot", "scratch.tmp", false, true},
		{"TmpNested", "work/deep/scratch.tmp", false, true},
		{"DirPatternOnDir", "logs", true, true},
		{"DirPatternOnFile", "logs", false, false},
		{"DoublestarUnderBuild", "build/debug/main.o", false, true},
		{"DoublestarAnyDepth", "src/api/generated", true, true},
		{"Unmatched", "src/main.go", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filter.ExcludesRelative(tt.path, tt.isDir); got != tt.want {
				t.Errorf("ExcludesRelative(%q, %v) = %v, want %v", tt.path, tt.isDir, got, tt.want)
			}
		})
	}
}

func TestNewFilterInvalidPattern(t *testing.T) {
	_, err := NewFilter(nil, []string{"[unclosed"})
	if err == nil {
		t.Error("NewFilter() should reject an invalid glob pattern")
	}
}

func TestNewFilterSkipsEmptyEntries(t *testing.T) {
	filter, err := NewFilter([]string{"", "cache"}, []string{""})
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}
	if !filter.IgnoresAbsolute("/data/Cache/blobs") {
		t.Error("non-empty fragment should still match")
	}
}

func TestNilFilterSkipsNothing(t *testing.T) {
	var filter *Filter
	if filter.Skip("/any/path", "any/path", false) {
		t.Error("nil filter should skip nothing")
	}
}

func TestSkipCombines(t *testing.T) {
	filter, err := NewFilter([]string{"node_modules"}, []string{"*.log"})
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}

	if !filter.Skip("/app/node_modules/pkg", "node_modules/pkg", true) {
		t.Error("Skip() should honor ignore fragments")
	}
	if !filter.Skip("/app/run.log", "run.log", false) {
		t.Error("Skip() should honor exclude patterns")
	}
	if filter.Skip("/app/src/main.go", "src/main.go", false) {
		t.Error("Skip() should pass unmatched paths")
	}
}
