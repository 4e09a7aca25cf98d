package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/diskscout/diskscout/pkg/analyze"
	"github.com/diskscout/diskscout/pkg/compare"
	"github.com/diskscout/diskscout/pkg/models"
	"github.com/diskscout/diskscout/pkg/output"
	"github.com/diskscout/diskscout/pkg/scan"
	"github.com/diskscout/diskscout/pkg/snapshot"
)

// handleHealth reports liveness and the running version
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

type compareRequest struct {
	SourcePath string `json:"sourcePath"`
	TargetPath string `json:"targetPath"`
	DeepScan   *bool  `json:"deepScan"`
}

// handleCompare runs a comparison and returns its envelope
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SourcePath == "" || req.TargetPath == "" {
		s.writeError(w, http.StatusBadRequest, "sourcePath and targetPath are required")
		return
	}

	deep := s.cfg.Compare.DeepScan
	if req.DeepScan != nil {
		deep = *req.DeepScan
	}

	envelope, err := s.executeCompare(r.Context(), req.SourcePath, req.TargetPath, deep)
	if err != nil {
		s.writeOperationError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope)
}

type scanRequest struct {
	RootPath string `json:"rootPath"`
}

// handleScan runs a scan and returns the report. The report also becomes
// the source for /api/findings and /api/extensions-summary.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RootPath == "" {
		s.writeError(w, http.StatusBadRequest, "rootPath is required")
		return
	}

	report, err := s.executeScan(r.Context(), req.RootPath, nil)
	if err != nil {
		s.writeOperationError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// handleScanStream runs a scan and streams progress as Server-Sent Events,
// ending with a complete event that carries the full scan report
func (s *Server) handleScanStream(w http.ResponseWriter, r *http.Request) {
	rootPath := r.URL.Query().Get("rootPath")
	if rootPath == "" {
		s.writeError(w, http.StatusBadRequest, "rootPath is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	progress := func(p models.ScanProgress) {
		writeEvent(w, "progress", p)
		flusher.Flush()
	}

	report, err := s.executeScan(r.Context(), rootPath, progress)
	if err != nil {
		writeEvent(w, "error", map[string]string{"error": err.Error()})
		flusher.Flush()
		return
	}

	writeEvent(w, "complete", report)
	flusher.Flush()
}

// writeEvent writes one Server-Sent Event with a JSON payload
func writeEvent(w io.Writer, event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
}

// handleFindings filters the findings of the most recent scan
func (s *Server) handleFindings(w http.ResponseWriter, r *http.Request) {
	report := s.latestReport()
	if report == nil {
		s.writeError(w, http.StatusNotFound, "no scan has been run yet")
		return
	}

	findingType := r.URL.Query().Get("type")
	var minSize int64
	if raw := r.URL.Query().Get("minSize"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			s.writeError(w, http.StatusBadRequest, "minSize must be a non-negative integer")
			return
		}
		minSize = parsed
	}

	filtered := make([]models.Finding, 0, len(report.Findings))
	for _, finding := range report.Findings {
		if findingType != "" && string(finding.Type) != findingType {
			continue
		}
		if finding.TotalBytes < minSize {
			continue
		}
		filtered = append(filtered, finding)
	}
	s.writeJSON(w, http.StatusOK, filtered)
}

// handleExtensions returns the extension summary of the most recent scan
func (s *Server) handleExtensions(w http.ResponseWriter, r *http.Request) {
	report := s.latestReport()
	if report == nil {
		s.writeError(w, http.StatusNotFound, "no scan has been run yet")
		return
	}
	s.writeJSON(w, http.StatusOK, report.Extensions)
}

func (s *Server) handleSnapshotList(w http.ResponseWriter, r *http.Request) {
	snapshots, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if snapshots == nil {
		snapshots = []models.Snapshot{}
	}
	s.writeJSON(w, http.StatusOK, snapshots)
}

type snapshotRequest struct {
	Kind       models.SnapshotKind `json:"kind"`
	RootPath   string              `json:"rootPath"`
	TargetPath string              `json:"targetPath"`
	DeepScan   *bool               `json:"deepScan"`
}

// handleSnapshotCreate runs the requested scan or comparison server side
// and persists the result as a new snapshot
func (s *Server) handleSnapshotCreate(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RootPath == "" {
		s.writeError(w, http.StatusBadRequest, "rootPath is required")
		return
	}

	var snap *models.Snapshot
	switch req.Kind {
	case models.SnapshotScan, "":
		report, err := s.executeScan(r.Context(), req.RootPath, nil)
		if err != nil {
			s.writeOperationError(w, err)
			return
		}
		snap = snapshot.NewScanSnapshot(report.Scan, report.Findings, report.Extensions)

	case models.SnapshotComparison:
		if req.TargetPath == "" {
			s.writeError(w, http.StatusBadRequest, "targetPath is required for comparison snapshots")
			return
		}
		deep := s.cfg.Compare.DeepScan
		if req.DeepScan != nil {
			deep = *req.DeepScan
		}
		envelope, err := s.executeCompare(r.Context(), req.RootPath, req.TargetPath, deep)
		if err != nil {
			s.writeOperationError(w, err)
			return
		}
		raw, err := json.Marshal(envelope)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		snap = snapshot.NewComparisonSnapshot(envelope.SourcePath, envelope.TargetPath, envelope.Summary, raw)

	default:
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown snapshot kind: %s", req.Kind))
		return
	}

	if err := s.store.Save(r.Context(), snap); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleSnapshotGet(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// handleSnapshotUpdate re-runs the snapshot's scan or comparison against
// the same paths and replaces the stored payload
func (s *Server) handleSnapshotUpdate(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	switch snap.Kind {
	case models.SnapshotScan:
		report, err := s.executeScan(r.Context(), snap.RootPath, nil)
		if err != nil {
			s.writeOperationError(w, err)
			return
		}
		snap.ScanID = report.Scan.ScanID
		snap.ScanInfo = report.Scan
		snap.Findings = report.Findings
		snap.Extensions = report.Extensions
		snap.TotalFiles = report.Scan.TotalFiles
		snap.TotalFolders = report.Scan.TotalFolders
		snap.TotalBytes = report.Scan.TotalBytes

	case models.SnapshotComparison:
		deep := s.cfg.Compare.DeepScan
		var stored output.ComparisonEnvelope
		if len(snap.Comparison) > 0 {
			if err := json.Unmarshal(snap.Comparison, &stored); err == nil {
				deep = stored.DeepScan
			}
		}
		envelope, err := s.executeCompare(r.Context(), snap.RootPath, snap.TargetPath, deep)
		if err != nil {
			s.writeOperationError(w, err)
			return
		}
		raw, err := json.Marshal(envelope)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		snap.Comparison = raw
		snap.ComparisonSummary = &envelope.Summary
		snap.TotalFiles = envelope.Summary.TotalFiles()
		snap.TotalBytes = envelope.Summary.TotalSourceBytes

	default:
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("unknown snapshot kind: %s", snap.Kind))
		return
	}

	if err := s.store.Update(r.Context(), snap); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSnapshotDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// executeScan runs one scan with the configured traversal options,
// analyzes the result and remembers the report for the findings endpoints
func (s *Server) executeScan(ctx context.Context, rootPath string, progress func(models.ScanProgress)) (*output.ScanReport, error) {
	scanner, err := scan.NewScanner(scan.Options{
		IgnorePaths:  s.cfg.Scan.IgnorePaths,
		ExcludeGlobs: s.cfg.Scan.Exclude,
		Progress:     progress,
		Logger:       s.logger,
	})
	if err != nil {
		return nil, err
	}

	result, err := scanner.Scan(ctx, rootPath)
	if err != nil {
		return nil, err
	}

	analyzer := analyze.NewAnalyzer(s.cfg.AnalyzeThresholds(), s.cfg.Analyze.CachePatterns)
	report := &output.ScanReport{
		Scan:       result,
		Findings:   analyzer.Analyze(result),
		Extensions: analyze.ExtensionSummary(result.Files),
	}

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()

	return report, nil
}

// executeCompare runs one comparison with the configured options
func (s *Server) executeCompare(ctx context.Context, sourcePath, targetPath string, deep bool) (*output.ComparisonEnvelope, error) {
	opts := s.cfg.CompareOptions()
	opts.DeepScan = deep
	opts.Logger = s.logger

	comparator, err := compare.NewFolderComparator(opts)
	if err != nil {
		return nil, err
	}

	result, err := comparator.Compare(ctx, sourcePath, targetPath)
	if err != nil {
		return nil, err
	}
	return output.NewComparisonEnvelope(result), nil
}

// latestReport returns the most recent in-memory scan report
func (s *Server) latestReport() *output.ScanReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReport
}
