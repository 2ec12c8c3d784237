package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"competitive-intel/models"
)

var csvHeader = []string{
	"analysis_id", "subject_id", "competitor_id", "mode", "created_at",
	"type", "title", "priority_score", "implementation_effort", "expected_impact", "description",
}

// CSVWriter appends one row per recommendation to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Save writes the recommendations of result. Results without
// recommendations produce no rows.
func (c *CSVWriter) Save(_ context.Context, result *models.AnalysisResult, recs []models.Recommendation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range recs {
		row := []string{
			result.ID,
			result.SubjectID,
			result.CompetitorID,
			string(result.Mode),
			result.CreatedAt.Format(time.RFC3339),
			r.Type,
			r.Title,
			strconv.FormatFloat(r.PriorityScore, 'f', 1, 64),
			r.ImplementationEffort,
			r.ExpectedImpact,
			r.Description,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writer.Flush()
	return c.file.Close()
}
