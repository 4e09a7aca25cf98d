package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveComparison writes the comparison envelope to path as indented JSON.
// The file is written to a temp path and renamed into place.
func SaveComparison(envelope *ComparisonEnvelope, path string) error {
	return saveJSON(envelope, path)
}

// SaveScanReport writes a scan report to path as indented JSON
func SaveScanReport(report *ScanReport, path string) error {
	return saveJSON(report, path)
}

func saveJSON(v any, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}

	// Write atomically using temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize export file: %w", err)
	}

	return nil
}
