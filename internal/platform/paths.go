// Package platform handles filesystem path differences between operating
// systems, mostly around Windows drive letters and UNC shares.
package platform

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizePath cleans a path with platform-specific separators. On Windows
// the UNC prefix is preserved where cleaning would collapse it.
func NormalizePath(path string) string {
	normalized := filepath.Clean(path)

	if runtime.GOOS == "windows" {
		if strings.HasPrefix(path, `\\`) && !strings.HasPrefix(normalized, `\\`) {
			normalized = `\` + normalized
		}
	}

	return normalized
}

// IsUNCPath reports whether a path names a Windows network share
func IsUNCPath(path string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	return strings.HasPrefix(path, `\\`) || strings.HasPrefix(path, "//")
}

// ValidatePath rejects paths that cannot exist on the current platform.
// The drive-letter colon in C:\... is legal and skipped before the
// character check.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path is empty")
	}

	if runtime.GOOS == "windows" && !IsUNCPath(path) {
		rest := path
		if len(path) >= 2 && path[1] == ':' {
			rest = path[2:]
		}
		for _, char := range []string{"<", ">", ":", "\"", "|", "?", "*"} {
			if strings.Contains(rest, char) {
				return fmt.Errorf("path contains invalid character %q", char)
			}
		}
	}

	return nil
}
