package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"competitive-intel/models"
)

// SQLiteWriter persists results to a local SQLite file. It backs CLI runs
// that have no PostgreSQL server available.
type SQLiteWriter struct {
	db   *sql.DB
	path string
}

// NewSQLiteWriter opens (or creates) the database at path and migrates it.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	sw := &SQLiteWriter{db: db, path: path}
	if err := sw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return sw, nil
}

// Path returns the database file path.
func (sw *SQLiteWriter) Path() string {
	return sw.path
}

func (sw *SQLiteWriter) migrate() error {
	_, err := sw.db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_results (
			id                 TEXT    PRIMARY KEY,
			subject_id         TEXT    NOT NULL,
			competitor_id      TEXT    NOT NULL DEFAULT '',
			mode               TEXT    NOT NULL,
			confidence_score   REAL    NOT NULL,
			processing_time_ms INTEGER NOT NULL DEFAULT 0,
			payload            TEXT    NOT NULL,
			created_at         TEXT    NOT NULL
		);

		CREATE TABLE IF NOT EXISTS recommendations (
			id                    TEXT PRIMARY KEY,
			analysis_id           TEXT NOT NULL REFERENCES analysis_results(id) ON DELETE CASCADE,
			type                  TEXT NOT NULL,
			title                 TEXT NOT NULL,
			description           TEXT NOT NULL DEFAULT '',
			priority_score        REAL NOT NULL,
			implementation_effort TEXT NOT NULL,
			expected_impact       TEXT NOT NULL,
			metadata              TEXT NOT NULL DEFAULT '{}'
		);

		CREATE INDEX IF NOT EXISTS idx_results_key ON analysis_results(subject_id, competitor_id, mode, created_at);
	`)
	return err
}

// Save inserts the result and its recommendations in one transaction.
func (sw *SQLiteWriter) Save(ctx context.Context, result *models.AnalysisResult, recs []models.Recommendation) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("sqlite: encode result: %w", err)
	}

	tx, err := sw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO analysis_results
			(id, subject_id, competitor_id, mode, confidence_score, processing_time_ms, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, result.ID, result.SubjectID, result.CompetitorID, string(result.Mode),
		result.ConfidenceScore, result.ProcessingTimeMs, string(payload),
		result.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("sqlite: insert result: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recommendations
			(id, analysis_id, type, title, description, priority_score, implementation_effort, expected_impact, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare recommendations: %w", err)
	}
	defer stmt.Close()

	for _, r := range recs {
		meta, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("sqlite: encode metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.AnalysisID, r.Type, r.Title, r.Description,
			r.PriorityScore, r.ImplementationEffort, r.ExpectedImpact, string(meta)); err != nil {
			return fmt.Errorf("sqlite: insert recommendation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// FetchResults retrieves the most recent results for a subject.
func (sw *SQLiteWriter) FetchResults(ctx context.Context, subjectID string, limit int) ([]*models.AnalysisResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := sw.db.QueryContext(ctx, `
		SELECT payload FROM analysis_results
		WHERE subject_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, subjectID, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: fetch results: %w", err)
	}
	defer rows.Close()

	var results []*models.AnalysisResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("sqlite: scan row: %w", err)
		}
		r := &models.AnalysisResult{}
		if err := json.Unmarshal([]byte(payload), r); err != nil {
			return nil, fmt.Errorf("sqlite: decode result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// CountRecommendations returns the number of stored recommendations for an analysis.
func (sw *SQLiteWriter) CountRecommendations(ctx context.Context, analysisID string) (int, error) {
	var n int
	err := sw.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recommendations WHERE analysis_id = ?`, analysisID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: count recommendations: %w", err)
	}
	return n, nil
}

func (sw *SQLiteWriter) Close() error {
	return sw.db.Close()
}
