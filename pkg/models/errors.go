package models

// PathError indicates a root path that cannot be compared or scanned. It is
// raised before any traversal begins; per-entry access failures during a
// traversal are skipped instead.
type PathError struct {
	// Path is the offending path
	Path string

	// Reason explains why the path was rejected
	Reason string
}

func (e *PathError) Error() string {
	return "invalid path " + e.Path + ": " + e.Reason
}

// ValidationError represents a configuration or flag validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Exit codes returned by the command line interface
const (
	// ExitOK means the operation succeeded with no differences found
	ExitOK = 0
	// ExitDifferences means a comparison completed and found differences
	ExitDifferences = 1
	// ExitValidation means flags, config or paths failed validation
	ExitValidation = 2
	// ExitFailure means the operation itself failed or was cancelled
	ExitFailure = 3
)

// ExitCodeFor maps a completed comparison summary to an exit code
func ExitCodeFor(summary *ComparisonSummary) int {
	if summary.HasDifferences() {
		return ExitDifferences
	}
	return ExitOK
}
