package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/diskscout/diskscout/pkg/models"
)

// ComparisonEnvelope is the serialized form of a finished comparison. The
// field names are a wire contract: the frontend, the --save export and the
// snapshot store all consume this exact shape.
type ComparisonEnvelope struct {
	// ComparisonID uniquely identifies this comparison run
	ComparisonID string `json:"comparisonId"`

	// SourcePath and TargetPath are the compared roots
	SourcePath string `json:"sourcePath"`
	TargetPath string `json:"targetPath"`

	// Summary holds the aggregate counters
	Summary models.ComparisonSummary `json:"summary"`

	// Tree holds the ordered root nodes of the merged tree
	Tree []*models.ComparisonNode `json:"tree"`

	// DeepScan records whether content hashing was in effect
	DeepScan bool `json:"deepScan"`

	// CompletedAt is when the comparison finished, truncated to whole
	// seconds so it serializes as plain RFC3339
	CompletedAt time.Time `json:"completedAt"`
}

// NewComparisonEnvelope wraps a comparison result for transport, assigning a
// fresh comparison ID
func NewComparisonEnvelope(result *models.ComparisonResult) *ComparisonEnvelope {
	return &ComparisonEnvelope{
		ComparisonID: uuid.NewString(),
		SourcePath:   result.SourceRoot,
		TargetPath:   result.TargetRoot,
		Summary:      result.Summary,
		Tree:         result.RootNodes,
		DeepScan:     result.UsedContentHash,
		CompletedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

// JSONFormatter renders results as indented JSON for automation and the
// frontend
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Comparison writes the envelope unchanged
func (f *JSONFormatter) Comparison(w io.Writer, envelope *ComparisonEnvelope, _ RenderOptions) error {
	return encodeJSON(w, envelope)
}

// Scan writes the scan report unchanged
func (f *JSONFormatter) Scan(w io.Writer, report *ScanReport, _ RenderOptions) error {
	return encodeJSON(w, report)
}

// Snapshots writes the snapshot listing as a JSON array
func (f *JSONFormatter) Snapshots(w io.Writer, snapshots []models.Snapshot) error {
	if snapshots == nil {
		snapshots = []models.Snapshot{}
	}
	return encodeJSON(w, snapshots)
}

// Snapshot writes a single snapshot with its payload
func (f *JSONFormatter) Snapshot(w io.Writer, snap *models.Snapshot) error {
	return encodeJSON(w, snap)
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
