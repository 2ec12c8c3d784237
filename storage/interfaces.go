package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"competitive-intel/models"
)

// ResultWriter is the interface any result store must satisfy. A result and
// its recommendations are written together.
type ResultWriter interface {
	Save(ctx context.Context, result *models.AnalysisResult, recs []models.Recommendation) error
	Close() error
}

// ResultReader loads previously stored results for a subject, newest first.
type ResultReader interface {
	FetchResults(ctx context.Context, subjectID string, limit int) ([]*models.AnalysisResult, error)
}

// MultiWriter fans a save out to several writers in order. A failed save can
// be retried with the same result: writers that already stored it are skipped.
type MultiWriter struct {
	writers []ResultWriter

	mu sync.Mutex
	// pending maps a result ID to the writers that stored it during an
	// incomplete save.
	pending map[string]map[int]struct{}
}

// NewMultiWriter combines writers; nil entries are ignored.
func NewMultiWriter(writers ...ResultWriter) *MultiWriter {
	mw := &MultiWriter{pending: make(map[string]map[int]struct{})}
	for _, w := range writers {
		if w != nil {
			mw.writers = append(mw.writers, w)
		}
	}
	return mw
}

// Len returns the number of underlying writers.
func (m *MultiWriter) Len() int {
	return len(m.writers)
}

// Save writes to every writer, stopping at the first failure.
func (m *MultiWriter) Save(ctx context.Context, result *models.AnalysisResult, recs []models.Recommendation) error {
	for i, w := range m.writers {
		if m.stored(result.ID, i) {
			continue
		}
		if err := w.Save(ctx, result, recs); err != nil {
			return fmt.Errorf("%T: %w", w, err)
		}
		m.markStored(result.ID, i)
	}

	m.mu.Lock()
	delete(m.pending, result.ID)
	m.mu.Unlock()
	return nil
}

func (m *MultiWriter) stored(id string, writer int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pending[id][writer]
	return ok
}

func (m *MultiWriter) markStored(id string, writer int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending[id] == nil {
		m.pending[id] = make(map[int]struct{})
	}
	m.pending[id][writer] = struct{}{}
}

// Close closes every writer and joins their errors.
func (m *MultiWriter) Close() error {
	var errs []error
	for _, w := range m.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
