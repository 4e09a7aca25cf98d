// Package ignore decides which filesystem entries a traversal should skip.
// Two mechanisms are combined: ignore fragments matched case-insensitively as
// substrings of the absolute path, and gitignore-flavoured glob patterns
// matched against the slash-normalized relative path.
package ignore

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIgnorePaths returns the built-in ignore fragments covering system
// trees that produce noise and permission errors rather than insight. The
// unix entries keep their trailing separator so "/proc/" cannot swallow a
// user folder like /data/processing.
func DefaultIgnorePaths() []string {
	return []string{
		"C:\\Windows",
		"C:\\Program Files",
		"C:\\Program Files (x86)",
		"C:\\ProgramData",
		"$Recycle.Bin",
		"System Volume Information",
		"pagefile.sys",
		"hiberfil.sys",
		"swapfile.sys",
		"/proc/",
		"/sys/",
		"/dev/",
		"/private/var/vm/",
	}
}

// excludePattern is one parsed glob pattern.
type excludePattern struct {
	// pattern is the normalized glob
	pattern string

	// directoryOnly restricts the pattern to directories (trailing /)
	directoryOnly bool

	// matchLeaf allows matching against the basename when the pattern
	// contains no slash
	matchLeaf bool
}

// newExcludePattern parses and validates a single glob pattern.
func newExcludePattern(pattern string) (excludePattern, error) {
	if pattern == "" {
		return excludePattern{}, fmt.Errorf("empty pattern")
	}

	normalized := filepath.ToSlash(pattern)

	directoryOnly := strings.HasSuffix(normalized, "/")
	if directoryOnly {
		normalized = strings.TrimSuffix(normalized, "/")
	}

	matchLeaf := !strings.Contains(normalized, "/")

	// Force pattern validation before any real matching happens.
	if _, err := doublestar.Match(normalized, "a"); err != nil {
		return excludePattern{}, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	return excludePattern{
		pattern:       normalized,
		directoryOnly: directoryOnly,
		matchLeaf:     matchLeaf,
	}, nil
}

// matches checks a slash-normalized relative path against the pattern.
func (p excludePattern) matches(relPath string, isDir bool) bool {
	if p.directoryOnly && !isDir {
		return false
	}
	if matched, _ := doublestar.Match(p.pattern, relPath); matched {
		return true
	}
	if p.matchLeaf {
		if matched, _ := doublestar.Match(p.pattern, filepath.Base(relPath)); matched {
			return true
		}
	}
	return false
}

// Filter combines ignore fragments and exclude patterns into one skip
// decision. A nil Filter skips nothing.
type Filter struct {
	fragments []string
	patterns  []excludePattern
}

// NewFilter builds a filter from ignore fragments (substring, absolute path)
// and exclude globs (relative path). Fragments are stored lowercased; globs
// are validated up front so a bad pattern fails the whole operation instead
// of silently matching nothing.
func NewFilter(ignorePaths []string, excludeGlobs []string) (*Filter, error) {
	f := &Filter{}

	for _, fragment := range ignorePaths {
		if fragment == "" {
			continue
		}
		f.fragments = append(f.fragments, strings.ToLower(fragment))
	}

	for _, glob := range excludeGlobs {
		if glob == "" {
			continue
		}
		p, err := newExcludePattern(glob)
		if err != nil {
			return nil, err
		}
		f.patterns = append(f.patterns, p)
	}

	return f, nil
}

// IgnoresAbsolute reports whether any ignore fragment occurs in the absolute
// path, compared case-insensitively.
func (f *Filter) IgnoresAbsolute(absPath string) bool {
	if f == nil || len(f.fragments) == 0 {
		return false
	}
	lower := strings.ToLower(absPath)
	for _, fragment := range f.fragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// ExcludesRelative reports whether any exclude pattern matches the
// slash-normalized relative path.
func (f *Filter) ExcludesRelative(relPath string, isDir bool) bool {
	if f == nil || len(f.patterns) == 0 {
		return false
	}
	normalized := filepath.ToSlash(relPath)
	for _, p := range f.patterns {
		if p.matches(normalized, isDir) {
			return true
		}
	}
	return false
}

// Skip is the combined decision used by tree walks: skip when either the
// absolute path is ignored or the relative path is excluded.
func (f *Filter) Skip(absPath, relPath string, isDir bool) bool {
	if f == nil {
		return false
	}
	return f.IgnoresAbsolute(absPath) || f.ExcludesRelative(relPath, isDir)
}
