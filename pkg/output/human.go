package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/diskscout/diskscout/pkg/models"
)

// Status markers shown in front of each tree entry
const (
	markerIdentical = "="
	markerModified  = "~"
	markerMissing   = "-"
	markerExtra     = "+"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	identicalColor = color.New(color.FgGreen)
	modifiedColor  = color.New(color.FgYellow)
	missingColor   = color.New(color.FgRed)
	extraColor     = color.New(color.FgCyan)
	folderColor    = color.New(color.Bold)
	detailColor    = color.New(color.Faint)
)

// ConfigureColor applies the configured color mode ("auto", "always" or
// "never") for output written to w. In auto mode color is enabled only when
// w is a terminal.
func ConfigureColor(mode string, w io.Writer) {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		f, ok := w.(*os.File)
		color.NoColor = !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	}
}

// HumanFormatter renders results as colored, humanized terminal output
type HumanFormatter struct {
	termWidth int
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// Comparison renders the merged tree with per-status markers, followed by a
// summary block
func (f *HumanFormatter) Comparison(w io.Writer, envelope *ComparisonEnvelope, opts RenderOptions) error {
	f.detectWidth(w)

	fmt.Fprintf(w, "Comparing %s\n", envelope.SourcePath)
	fmt.Fprintf(w, "  against %s\n", envelope.TargetPath)
	mode := "shallow (size and modification time)"
	if envelope.DeepScan {
		mode = "deep (content hash)"
	}
	fmt.Fprintf(w, "Mode: %s\n\n", mode)

	fmt.Fprintln(w, envelope.SourcePath)
	roots := visibleNodes(envelope.Tree, opts.OnlyDifferences)
	for i, node := range roots {
		f.renderNode(w, node, "", i == len(roots)-1, opts)
	}

	summary := envelope.Summary
	fmt.Fprintf(w, "\nSummary:\n")
	fmt.Fprintf(w, "  Identical:           %s\n", identicalColor.Sprintf("%d", summary.IdenticalCount))
	fmt.Fprintf(w, "  Modified:            %s\n", modifiedColor.Sprintf("%d", summary.ModifiedCount))
	fmt.Fprintf(w, "  Missing from target: %s\n", missingColor.Sprintf("%d", summary.MissingFromTargetCount))
	fmt.Fprintf(w, "  Extra in target:     %s\n", extraColor.Sprintf("%d", summary.ExtraInTargetCount))
	fmt.Fprintf(w, "  Source size:         %s\n", humanize.IBytes(uint64(summary.TotalSourceBytes)))
	fmt.Fprintf(w, "  Target size:         %s\n", humanize.IBytes(uint64(summary.TotalTargetBytes)))

	switch n := summary.DifferenceCount(); n {
	case 0:
		fmt.Fprintf(w, "\nNo differences found\n")
	case 1:
		fmt.Fprintf(w, "\n1 difference found\n")
	default:
		fmt.Fprintf(w, "\n%d differences found\n", n)
	}

	return nil
}

// renderNode prints one entry and recurses into its visible children
func (f *HumanFormatter) renderNode(w io.Writer, node *models.ComparisonNode, prefix string, last bool, opts RenderOptions) {
	branch, childPrefix := "├── ", prefix+"│   "
	if last {
		branch, childPrefix = "└── ", prefix+"    "
	}

	fmt.Fprintln(w, f.truncate(prefix+branch+nodeLabel(node)))

	children := visibleNodes(node.Children, opts.OnlyDifferences)
	for i, child := range children {
		f.renderNode(w, child, childPrefix, i == len(children)-1, opts)
	}
}

// visibleNodes filters identical subtrees out when only differences are wanted
func visibleNodes(nodes []*models.ComparisonNode, onlyDifferences bool) []*models.ComparisonNode {
	if !onlyDifferences {
		return nodes
	}
	visible := make([]*models.ComparisonNode, 0, len(nodes))
	for _, node := range nodes {
		if node.Status.IsDifference() || node.DifferenceCount > 0 {
			visible = append(visible, node)
		}
	}
	return visible
}

// nodeLabel builds the colored "marker name (detail)" text for one entry
func nodeLabel(node *models.ComparisonNode) string {
	var marker string
	switch node.Status {
	case models.StatusModified:
		marker = modifiedColor.Sprint(markerModified)
	case models.StatusMissingFromTarget:
		marker = missingColor.Sprint(markerMissing)
	case models.StatusExtraInTarget:
		marker = extraColor.Sprint(markerExtra)
	default:
		marker = identicalColor.Sprint(markerIdentical)
	}

	name := node.Name
	if node.IsFolder() {
		name = folderColor.Sprint(name + "/")
	}

	label := marker + " " + name
	if detail := nodeDetail(node); detail != "" {
		label += " " + detailColor.Sprint("("+detail+")")
	}
	return label
}

// nodeDetail summarizes what makes the entry interesting
func nodeDetail(node *models.ComparisonNode) string {
	switch node.Status {
	case models.StatusMissingFromTarget:
		if node.IsFolder() {
			return "only in source"
		}
		return "only in source, " + sizeOf(node.SourceSize)

	case models.StatusExtraInTarget:
		if node.IsFolder() {
			return "only in target"
		}
		return "only in target, " + sizeOf(node.TargetSize)

	case models.StatusModified:
		if node.IsFolder() {
			if node.DifferenceCount == 1 {
				return "1 difference"
			}
			return fmt.Sprintf("%d differences", node.DifferenceCount)
		}
		if node.SourceSize != nil && node.TargetSize != nil && *node.SourceSize != *node.TargetSize {
			return sizeOf(node.SourceSize) + " -> " + sizeOf(node.TargetSize)
		}
		if node.SourceHash != "" && node.TargetHash != "" && node.SourceHash != node.TargetHash {
			return "content differs"
		}
		if node.SourceModified != nil && node.TargetModified != nil {
			return fmt.Sprintf("modified %s vs %s",
				node.SourceModified.Format(timeLayout),
				node.TargetModified.Format(timeLayout))
		}
		return "modified"

	default:
		if node.IsFolder() {
			return ""
		}
		return sizeOf(node.SourceSize)
	}
}

func sizeOf(size *int64) string {
	if size == nil {
		return "?"
	}
	return humanize.IBytes(uint64(*size))
}

// Scan renders the scan summary followed by optional findings and extension
// tables
func (f *HumanFormatter) Scan(w io.Writer, report *ScanReport, opts RenderOptions) error {
	f.detectWidth(w)
	scan := report.Scan

	fmt.Fprintf(w, "Scanned %s\n\n", scan.RootPath)
	fmt.Fprintf(w, "  Files:      %s\n", humanize.Comma(int64(scan.TotalFiles)))
	fmt.Fprintf(w, "  Folders:    %s\n", humanize.Comma(int64(scan.TotalFolders)))
	fmt.Fprintf(w, "  Total size: %s\n", humanize.IBytes(uint64(scan.TotalBytes)))
	fmt.Fprintf(w, "  Duration:   %.2fs\n", scan.DurationSeconds)

	if opts.ShowFindings {
		renderFindings(w, report.Findings)
	}
	if opts.ShowExtensions {
		renderExtensions(w, report.Extensions)
	}

	return nil
}

// Snapshots renders the snapshot listing as a table
func (f *HumanFormatter) Snapshots(w io.Writer, snapshots []models.Snapshot) error {
	if len(snapshots) == 0 {
		fmt.Fprintln(w, "No snapshots saved")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-10s  %-14s  %-10s  %s\n", "ID", "KIND", "SAVED", "SIZE", "PATH")
	for _, snap := range snapshots {
		path := snap.RootPath
		if snap.Kind == models.SnapshotComparison {
			path = snap.RootPath + " -> " + snap.TargetPath
		}
		fmt.Fprintf(w, "%-36s  %-10s  %-14s  %-10s  %s\n",
			snap.ID,
			snap.Kind,
			humanize.Time(snap.SavedAt),
			humanize.IBytes(uint64(snap.TotalBytes)),
			path,
		)
	}
	return nil
}

// Snapshot renders one stored snapshot with its summary and, for scan
// snapshots, the findings and extension tables
func (f *HumanFormatter) Snapshot(w io.Writer, snap *models.Snapshot) error {
	f.detectWidth(w)

	fmt.Fprintf(w, "Snapshot %s\n\n", snap.ID)
	fmt.Fprintf(w, "  Kind:       %s\n", snap.Kind)
	fmt.Fprintf(w, "  Saved:      %s (%s)\n", snap.SavedAt.Format(timeLayout), humanize.Time(snap.SavedAt))
	fmt.Fprintf(w, "  Root:       %s\n", snap.RootPath)
	if snap.TargetPath != "" {
		fmt.Fprintf(w, "  Target:     %s\n", snap.TargetPath)
	}
	fmt.Fprintf(w, "  Files:      %s\n", humanize.Comma(int64(snap.TotalFiles)))
	if snap.Kind == models.SnapshotScan {
		fmt.Fprintf(w, "  Folders:    %s\n", humanize.Comma(int64(snap.TotalFolders)))
	}
	fmt.Fprintf(w, "  Total size: %s\n", humanize.IBytes(uint64(snap.TotalBytes)))

	if s := snap.ComparisonSummary; s != nil {
		fmt.Fprintf(w, "\n  Identical: %d  Modified: %d  Missing: %d  Extra: %d\n",
			s.IdenticalCount, s.ModifiedCount, s.MissingFromTargetCount, s.ExtraInTargetCount)
	}
	if len(snap.Findings) > 0 {
		renderFindings(w, snap.Findings)
	}
	if len(snap.Extensions) > 0 {
		renderExtensions(w, snap.Extensions)
	}

	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// detectWidth picks up the terminal width so long lines can be truncated.
// Defaults to 120 for pipes and redirects.
func (f *HumanFormatter) detectWidth(w io.Writer) {
	f.termWidth = 0
	if file, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			f.termWidth = width
		}
	}
	if f.termWidth == 0 {
		f.termWidth = 120
	}
}

// truncate keeps a line within the terminal width. Color escape sequences
// count toward the rune total, so colored lines truncate early rather than
// wrap.
func (f *HumanFormatter) truncate(line string) string {
	runes := []rune(line)
	if len(runes) > f.termWidth && f.termWidth > 3 {
		return string(runes[:f.termWidth-3]) + "..."
	}
	return line
}
