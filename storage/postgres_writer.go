package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"competitive-intel/models"
)

// PostgresWriter persists analysis results and recommendations to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

// NewPostgresWriterFromDB wraps an existing handle without migrating.
func NewPostgresWriterFromDB(db *sql.DB) *PostgresWriter {
	return &PostgresWriter{db: db}
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_results (
			id                 UUID         PRIMARY KEY,
			subject_id         TEXT         NOT NULL,
			competitor_id      TEXT         NOT NULL DEFAULT '',
			mode               VARCHAR(32)  NOT NULL,
			confidence_score   NUMERIC(4,2) NOT NULL,
			processing_time_ms BIGINT       NOT NULL DEFAULT 0,
			payload            JSONB        NOT NULL,
			created_at         TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS recommendations (
			id                    UUID         PRIMARY KEY,
			analysis_id           UUID         NOT NULL REFERENCES analysis_results(id) ON DELETE CASCADE,
			type                  VARCHAR(64)  NOT NULL,
			title                 TEXT         NOT NULL,
			description           TEXT         NOT NULL DEFAULT '',
			priority_score        NUMERIC(4,2) NOT NULL,
			implementation_effort VARCHAR(16)  NOT NULL,
			expected_impact       VARCHAR(16)  NOT NULL,
			metadata              JSONB        NOT NULL DEFAULT '{}'
		);

		CREATE INDEX IF NOT EXISTS idx_results_key ON analysis_results(subject_id, competitor_id, mode, created_at);
		CREATE INDEX IF NOT EXISTS idx_recommendations_analysis ON recommendations(analysis_id);
	`)
	return err
}

// Save inserts the result and its recommendations in one transaction.
func (pw *PostgresWriter) Save(ctx context.Context, result *models.AnalysisResult, recs []models.Recommendation) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("postgres: encode result: %w", err)
	}

	tx, err := pw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analysis_results
			(id, subject_id, competitor_id, mode, confidence_score, processing_time_ms, payload, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, result.ID, result.SubjectID, result.CompetitorID, string(result.Mode),
		result.ConfidenceScore, result.ProcessingTimeMs, payload, result.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: insert result: %w", err)
	}

	if len(recs) > 0 {
		if err := insertRecommendations(ctx, tx, recs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func insertRecommendations(ctx context.Context, tx *sql.Tx, recs []models.Recommendation) error {
	const cols = 9
	valueStrings := make([]string, 0, len(recs))
	valueArgs := make([]interface{}, 0, len(recs)*cols)

	for idx, r := range recs {
		meta, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("postgres: encode metadata: %w", err)
		}
		base := idx * cols
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9))
		valueArgs = append(valueArgs,
			r.ID, r.AnalysisID, r.Type, r.Title, r.Description,
			r.PriorityScore, r.ImplementationEffort, r.ExpectedImpact, meta)
	}

	query := fmt.Sprintf(`
		INSERT INTO recommendations
			(id, analysis_id, type, title, description, priority_score, implementation_effort, expected_impact, metadata)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	if _, err := tx.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert recommendations: %w", err)
	}
	return nil
}

// FetchResults retrieves the most recent results for a subject.
func (pw *PostgresWriter) FetchResults(ctx context.Context, subjectID string, limit int) ([]*models.AnalysisResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := pw.db.QueryContext(ctx, `
		SELECT payload
		FROM analysis_results
		WHERE subject_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, subjectID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch results: %w", err)
	}
	defer rows.Close()

	var results []*models.AnalysisResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		r := &models.AnalysisResult{}
		if err := json.Unmarshal(payload, r); err != nil {
			return nil, fmt.Errorf("postgres: decode result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
