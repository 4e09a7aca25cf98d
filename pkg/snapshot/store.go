// Package snapshot persists scans and comparisons in a local SQLite
// database so runs can be listed, reloaded and compared against later.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/diskscout/diskscout/pkg/models"
)

// ErrNotFound is returned when no snapshot exists with the requested ID
var ErrNotFound = errors.New("snapshot not found")

// savedAtFormat is RFC 3339 with a fixed-width fraction so the TEXT column
// sorts chronologically.
const savedAtFormat = "2006-01-02T15:04:05.000000000Z07:00"

// schema is applied on every open; all statements are idempotent
const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	scan_id TEXT NOT NULL DEFAULT '',
	kind TEXT NOT NULL,
	root_path TEXT NOT NULL,
	target_path TEXT NOT NULL DEFAULT '',
	total_files INTEGER NOT NULL DEFAULT 0,
	total_folders INTEGER NOT NULL DEFAULT 0,
	total_size_bytes INTEGER NOT NULL DEFAULT 0,
	saved_at TEXT NOT NULL,
	scan_info_json TEXT,
	findings_json TEXT,
	extensions_json TEXT,
	comparison_json TEXT,
	comparison_summary_json TEXT
);
CREATE INDEX IF NOT EXISTS idx_snapshots_saved_at ON snapshots(saved_at);
`

// Store reads and writes snapshots in one SQLite database file
type Store struct {
	db *sql.DB
}

// DefaultPath returns the snapshot database location under the user config
// directory.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve user config directory: %w", err)
	}
	return filepath.Join(configDir, "diskscout", "snapshots.db"), nil
}

// Open opens or creates the snapshot database at path. The connection pool
// is capped at one connection so the session pragmas below hold for every
// statement.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create snapshot schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// NewScanSnapshot composes a snapshot from a scan and its analysis
func NewScanSnapshot(scan *models.ScanResult, findings []models.Finding, extensions []models.ExtensionStat) *models.Snapshot {
	return &models.Snapshot{
		Kind:         models.SnapshotScan,
		ScanID:       scan.ScanID,
		RootPath:     scan.RootPath,
		TotalFiles:   scan.TotalFiles,
		TotalFolders: scan.TotalFolders,
		TotalBytes:   scan.TotalBytes,
		ScanInfo:     scan,
		Findings:     findings,
		Extensions:   extensions,
	}
}

// NewComparisonSnapshot composes a snapshot from a comparison envelope and
// its summary. The envelope is preserved verbatim so a reload renders
// exactly what the original run produced.
func NewComparisonSnapshot(sourcePath, targetPath string, summary models.ComparisonSummary, envelope json.RawMessage) *models.Snapshot {
	return &models.Snapshot{
		Kind:              models.SnapshotComparison,
		RootPath:          sourcePath,
		TargetPath:        targetPath,
		TotalFiles:        summary.TotalFiles(),
		TotalBytes:        summary.TotalSourceBytes,
		Comparison:        envelope,
		ComparisonSummary: &summary,
	}
}

// Save inserts a snapshot. An empty ID gets a fresh one; SavedAt is always
// stamped here. The passed snapshot is updated with both.
func (s *Store) Save(ctx context.Context, snap *models.Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	snap.SavedAt = time.Now().UTC()

	scanInfo, err := marshalColumn(snap.ScanInfo)
	if err != nil {
		return err
	}
	findings, err := marshalColumn(snap.Findings)
	if err != nil {
		return err
	}
	extensions, err := marshalColumn(snap.Extensions)
	if err != nil {
		return err
	}
	comparisonSummary, err := marshalColumn(snap.ComparisonSummary)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (
			id, scan_id, kind, root_path, target_path,
			total_files, total_folders, total_size_bytes, saved_at,
			scan_info_json, findings_json, extensions_json,
			comparison_json, comparison_summary_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.ScanID, string(snap.Kind), snap.RootPath, snap.TargetPath,
		snap.TotalFiles, snap.TotalFolders, snap.TotalBytes,
		snap.SavedAt.Format(savedAtFormat),
		scanInfo, findings, extensions,
		rawColumn(snap.Comparison), comparisonSummary,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// List returns summary rows for every snapshot, newest first. The heavy
// JSON columns are not loaded.
func (s *Store) List(ctx context.Context) ([]models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scan_id, kind, root_path, target_path,
		       total_files, total_folders, total_size_bytes, saved_at
		FROM snapshots
		ORDER BY saved_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []models.Snapshot{}
	for rows.Next() {
		var snap models.Snapshot
		var kind, savedAt string
		if err := rows.Scan(
			&snap.ID, &snap.ScanID, &kind, &snap.RootPath, &snap.TargetPath,
			&snap.TotalFiles, &snap.TotalFolders, &snap.TotalBytes, &savedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to read snapshot row: %w", err)
		}
		snap.Kind = models.SnapshotKind(kind)
		snap.SavedAt = parseSavedAt(savedAt)
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}

// Get loads one snapshot in full
func (s *Store) Get(ctx context.Context, id string) (*models.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, scan_id, kind, root_path, target_path,
		       total_files, total_folders, total_size_bytes, saved_at,
		       scan_info_json, findings_json, extensions_json,
		       comparison_json, comparison_summary_json
		FROM snapshots
		WHERE id = ?`, id)

	var snap models.Snapshot
	var kind, savedAt string
	var scanInfo, findings, extensions, comparison, comparisonSummary sql.NullString
	err := row.Scan(
		&snap.ID, &snap.ScanID, &kind, &snap.RootPath, &snap.TargetPath,
		&snap.TotalFiles, &snap.TotalFolders, &snap.TotalBytes, &savedAt,
		&scanInfo, &findings, &extensions, &comparison, &comparisonSummary,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", id, err)
	}

	snap.Kind = models.SnapshotKind(kind)
	snap.SavedAt = parseSavedAt(savedAt)

	if err := unmarshalColumn(scanInfo, &snap.ScanInfo); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(findings, &snap.Findings); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(extensions, &snap.Extensions); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(comparisonSummary, &snap.ComparisonSummary); err != nil {
		return nil, err
	}
	if comparison.Valid {
		snap.Comparison = json.RawMessage(comparison.String)
	}

	return &snap, nil
}

// Update replaces the payload of an existing snapshot and refreshes its
// SavedAt. The ID must already exist.
func (s *Store) Update(ctx context.Context, snap *models.Snapshot) error {
	if snap.ID == "" {
		return ErrNotFound
	}
	snap.SavedAt = time.Now().UTC()

	scanInfo, err := marshalColumn(snap.ScanInfo)
	if err != nil {
		return err
	}
	findings, err := marshalColumn(snap.Findings)
	if err != nil {
		return err
	}
	extensions, err := marshalColumn(snap.Extensions)
	if err != nil {
		return err
	}
	comparisonSummary, err := marshalColumn(snap.ComparisonSummary)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE snapshots SET
			scan_id = ?, kind = ?, root_path = ?, target_path = ?,
			total_files = ?, total_folders = ?, total_size_bytes = ?,
			saved_at = ?,
			scan_info_json = ?, findings_json = ?, extensions_json = ?,
			comparison_json = ?, comparison_summary_json = ?
		WHERE id = ?`,
		snap.ScanID, string(snap.Kind), snap.RootPath, snap.TargetPath,
		snap.TotalFiles, snap.TotalFolders, snap.TotalBytes,
		snap.SavedAt.Format(savedAtFormat),
		scanInfo, findings, extensions,
		rawColumn(snap.Comparison), comparisonSummary,
		snap.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update snapshot %s: %w", snap.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update snapshot %s: %w", snap.ID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one snapshot
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// marshalColumn serializes a payload for a nullable JSON column. Nil
// pointers and empty slices store as NULL.
func marshalColumn(v interface{}) (sql.NullString, error) {
	if v == nil || isEmptyPayload(v) {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to serialize snapshot payload: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func isEmptyPayload(v interface{}) bool {
	switch payload := v.(type) {
	case *models.ScanResult:
		return payload == nil
	case *models.ComparisonSummary:
		return payload == nil
	case []models.Finding:
		return len(payload) == 0
	case []models.ExtensionStat:
		return len(payload) == 0
	}
	return false
}

func rawColumn(raw json.RawMessage) sql.NullString {
	if len(raw) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}

// unmarshalColumn deserializes a nullable JSON column into out, leaving out
// untouched for NULL.
func unmarshalColumn(column sql.NullString, out interface{}) error {
	if !column.Valid {
		return nil
	}
	if err := json.Unmarshal([]byte(column.String), out); err != nil {
		return fmt.Errorf("failed to deserialize snapshot payload: %w", err)
	}
	return nil
}

func parseSavedAt(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
