package storage

import (
	"context"
	"errors"
	"time"

	"competitive-intel/models"
)

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		ID:               "8c4a6f0e-2f6b-4d7a-9d38-5a3f1f0f7c11",
		SubjectID:        "subject-1",
		CompetitorID:     "acme",
		Mode:             models.ModeContentGap,
		ConfidenceScore:  0.85,
		ProcessingTimeMs: 3,
		CreatedAt:        time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		ContentGap: &models.ContentGapAnalysis{
			TopicGaps:    []string{"marketing"},
			TopicOverlap: []string{},
		},
	}
}

func sampleRecommendations(analysisID string) []models.Recommendation {
	return []models.Recommendation{
		{
			ID: "0b9d7c1a-0000-4000-8000-000000000001", AnalysisID: analysisID,
			Type: models.RecContentGap, Title: "Explore topic: marketing", Description: "gap",
			PriorityScore: 8.5, ImplementationEffort: models.LevelMedium, ExpectedImpact: models.LevelHigh,
			Metadata: map[string]any{"topic": "marketing"},
		},
		{
			ID: "0b9d7c1a-0000-4000-8000-000000000002", AnalysisID: analysisID,
			Type: models.RecPostingTime, Title: "Optimize posting time around 09:00 UTC", Description: "time",
			PriorityScore: 7, ImplementationEffort: models.LevelLow, ExpectedImpact: models.LevelMedium,
			Metadata: map[string]any{"peak_hour": 9},
		},
	}
}

type fakeWriter struct {
	saved  int
	calls  int
	closed bool
	err    error
	// failures is the number of calls that fail before saves succeed.
	failures int
}

func (f *fakeWriter) Save(context.Context, *models.AnalysisResult, []models.Recommendation) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	if f.failures > 0 {
		f.failures--
		return errWriterDown
	}
	f.saved++
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

var errWriterDown = errors.New("writer down")
