package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/diskscout/diskscout/pkg/models"
)

// Display order and labels for finding categories
var findingOrder = []models.FindingType{
	models.FindingLargeFolder,
	models.FindingOldLargeFolder,
	models.FindingActiveLargeFolder,
	models.FindingColdArchive,
	models.FindingCacheCandidate,
	models.FindingDuplicateFolder,
	models.FindingDuplicateFile,
}

var findingLabels = map[models.FindingType]string{
	models.FindingLargeFolder:       "Large Folders",
	models.FindingOldLargeFolder:    "Old Large Folders",
	models.FindingActiveLargeFolder: "Recently Active Large Folders",
	models.FindingColdArchive:       "Cold Archive Candidates",
	models.FindingCacheCandidate:    "Cache Candidates",
	models.FindingDuplicateFolder:   "Possible Duplicate Folders",
	models.FindingDuplicateFile:     "Possible Duplicate Files",
}

// renderFindings writes analyzer findings grouped by category
func renderFindings(w io.Writer, findings []models.Finding) {
	fmt.Fprintf(w, "\nFindings: %d\n", len(findings))
	if len(findings) == 0 {
		return
	}

	byType := make(map[models.FindingType][]models.Finding)
	for _, finding := range findings {
		byType[finding.Type] = append(byType[finding.Type], finding)
	}

	for _, findingType := range findingOrder {
		group := byType[findingType]
		if len(group) == 0 {
			continue
		}

		label := fmt.Sprintf("%s (%d)", findingLabels[findingType], len(group))
		fmt.Fprintf(w, "\n%s\n", label)
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", len(label)))

		for _, finding := range group {
			fmt.Fprintf(w, "  %-10s  %s\n", humanize.IBytes(uint64(finding.TotalBytes)), finding.Paths[0])
			for _, path := range finding.Paths[1:] {
				fmt.Fprintf(w, "  %-10s  %s\n", "", path)
			}
			fmt.Fprintf(w, "              %s\n", finding.Reason)
			if finding.Recommendation != "" {
				fmt.Fprintf(w, "              %s\n", finding.Recommendation)
			}
		}
	}
}

// renderExtensions writes the per-extension usage table
func renderExtensions(w io.Writer, stats []models.ExtensionStat) {
	fmt.Fprintf(w, "\nUsage by extension:\n")
	if len(stats) == 0 {
		return
	}

	fmt.Fprintf(w, "  %-12s  %10s  %s\n", "EXTENSION", "FILES", "TOTAL")
	for _, stat := range stats {
		fmt.Fprintf(w, "  %-12s  %10s  %s\n",
			stat.Extension,
			humanize.Comma(int64(stat.Count)),
			humanize.IBytes(uint64(stat.TotalBytes)),
		)
	}
}
