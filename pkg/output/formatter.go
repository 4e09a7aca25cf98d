package output

import (
	"fmt"
	"io"

	"github.com/diskscout/diskscout/pkg/models"
)

// Formatter renders finished comparisons, scans and snapshots in one output
// mode. Implementations write complete documents; live progress is handled
// separately by the progress bars in this package.
type Formatter interface {
	// Comparison renders a finished comparison envelope
	Comparison(w io.Writer, envelope *ComparisonEnvelope, opts RenderOptions) error

	// Scan renders a finished scan together with its analysis
	Scan(w io.Writer, report *ScanReport, opts RenderOptions) error

	// Snapshots renders a snapshot listing
	Snapshots(w io.Writer, snapshots []models.Snapshot) error

	// Snapshot renders a single stored snapshot
	Snapshot(w io.Writer, snap *models.Snapshot) error

	// Name returns the formatter name
	Name() string
}

// RenderOptions adjust what the renderers include
type RenderOptions struct {
	// OnlyDifferences hides identical entries from comparison trees
	OnlyDifferences bool

	// ShowFindings includes analyzer findings in scan output
	ShowFindings bool

	// ShowExtensions includes the per-extension usage table in scan output
	ShowExtensions bool
}

// ScanReport bundles a scan result with its analysis. It is the payload
// rendered by the scan command, exported by --save and returned by the
// HTTP scan endpoint.
type ScanReport struct {
	Scan       *models.ScanResult     `json:"scan"`
	Findings   []models.Finding       `json:"findings,omitempty"`
	Extensions []models.ExtensionStat `json:"extensions,omitempty"`
}

// NewFormatter returns the formatter registered under the given name
func NewFormatter(name string) (Formatter, error) {
	switch name {
	case "", "human":
		return NewHumanFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s (use: human, json)", name)
	}
}
