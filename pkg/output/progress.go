package output

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/mattn/go-isatty"

	"github.com/diskscout/diskscout/pkg/models"
)

// Bar templates. Scans count bytes with an unknown total; comparisons count
// classified entries against a known total.
const (
	scanBarTemplate    = `{{etime . }} {{counters . }} in {{string . "files"}} files {{string . "path"}}`
	compareBarTemplate = `{{counters . }} {{bar . }} {{percent . }} {{string . "path"}}`
)

const (
	barRefreshRate = 150 * time.Millisecond
	barMaxPathLen  = 48
)

// ShowProgress reports whether a live progress bar should be drawn on w:
// progress must be enabled, quiet not set, and w must be a terminal
func ShowProgress(enabled, quiet bool, w io.Writer) bool {
	if !enabled || quiet {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ScanProgressBar renders scan progress. The scanner does not know the total
// up front, so the bar shows elapsed time, bytes and files seen instead of a
// percentage.
type ScanProgressBar struct {
	bar *pb.ProgressBar
}

// NewScanProgressBar starts a scan progress bar writing to w
func NewScanProgressBar(w io.Writer) *ScanProgressBar {
	bar := pb.ProgressBarTemplate(scanBarTemplate).New(0)
	bar.Set(pb.Bytes, true)
	bar.Set("files", "0")
	bar.Set("path", "")
	bar.SetWriter(w)
	bar.SetRefreshRate(barRefreshRate)
	bar.Start()
	return &ScanProgressBar{bar: bar}
}

// Update feeds one scan progress report into the bar
func (p *ScanProgressBar) Update(progress models.ScanProgress) {
	p.bar.SetCurrent(progress.BytesSeen)
	p.bar.Set("files", strconv.Itoa(progress.FilesSeen))
	p.bar.Set("path", truncatePath(progress.CurrentPath, barMaxPathLen))
}

// Finish stops the bar
func (p *ScanProgressBar) Finish() {
	p.bar.Finish()
}

// CompareProgressBar renders classification progress for a comparison. The
// entry total is only known once both trees are indexed, so Update carries
// it on every call. Update is safe to call from multiple hashing workers.
type CompareProgressBar struct {
	bar *pb.ProgressBar
}

// NewCompareProgressBar starts a comparison progress bar writing to w
func NewCompareProgressBar(w io.Writer) *CompareProgressBar {
	bar := pb.ProgressBarTemplate(compareBarTemplate).New(0)
	bar.Set("path", "")
	bar.SetWriter(w)
	bar.SetMaxWidth(100)
	bar.SetRefreshRate(barRefreshRate)
	bar.Start()
	return &CompareProgressBar{bar: bar}
}

// Update records one classified entry
func (p *CompareProgressBar) Update(done, total int, relPath string) {
	p.bar.SetTotal(int64(total))
	p.bar.SetCurrent(int64(done))
	p.bar.Set("path", truncatePath(relPath, barMaxPathLen))
}

// Finish stops the bar
func (p *CompareProgressBar) Finish() {
	p.bar.Finish()
}

// truncatePath keeps the tail of long paths so the bar stays on one line
func truncatePath(path string, max int) string {
	runes := []rune(path)
	if len(runes) <= max {
		return path
	}
	return "..." + string(runes[len(runes)-max+3:])
}
