package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLite(t *testing.T) *SQLiteWriter {
	t.Helper()
	sw, err := NewSQLiteWriter(filepath.Join(t.TempDir(), "data", "analyses.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, sw.Close()) })
	return sw
}

func TestSQLiteWriterRoundTrip(t *testing.T) {
	sw := setupSQLite(t)
	ctx := context.Background()

	result := sampleResult()
	require.NoError(t, sw.Save(ctx, result, sampleRecommendations(result.ID)))

	results, err := sw.FetchResults(ctx, "subject-1", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, result.ID, results[0].ID)
	assert.Equal(t, result.ContentGap.TopicGaps, results[0].ContentGap.TopicGaps)

	n, err := sw.CountRecommendations(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSQLiteWriterDuplicateIDFailsAtomically(t *testing.T) {
	sw := setupSQLite(t)
	ctx := context.Background()

	result := sampleResult()
	require.NoError(t, sw.Save(ctx, result, nil))
	assert.Error(t, sw.Save(ctx, result, sampleRecommendations(result.ID)))

	n, err := sw.CountRecommendations(ctx, result.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteWriterUnknownSubject(t *testing.T) {
	sw := setupSQLite(t)
	results, err := sw.FetchResults(context.Background(), "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
