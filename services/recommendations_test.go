package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"competitive-intel/models"
)

func fullResult(mode models.Mode, threat string) *models.AnalysisResult {
	opps := []models.Opportunity{}
	for _, topic := range []string{"branding", "design", "finance", "growth", "health", "leadership"} {
		opps = append(opps, models.Opportunity{Topic: topic, Priority: models.LevelHigh, Rationale: "gap"})
	}
	return &models.AnalysisResult{
		ID:           "analysis-1",
		CompetitorID: "globex",
		Mode:         mode,
		ContentGap:   &models.ContentGapAnalysis{Opportunities: opps},
		Sentiment: &models.SentimentAnalysis{
			OverallSentiment: models.SentimentNegative,
			ItemCount:        4,
			Trend:            models.SentimentTrend{Direction: models.TrendStable},
		},
		Strategy: &models.StrategyAnalysis{
			PostingTimes: models.PostingTimes{PeakHour: 14, PeakDay: "Tuesday"},
			Frequency:    models.PostingFrequency{PostsPerWeek: 9},
		},
		Performance: &models.PerformanceAnalysis{
			TopPerformingContent: []models.TopContent{{Text: "x", ContentType: "video", Platform: "youtube", Score: 900}},
		},
		Summary: &models.ExecutiveSummary{ThreatLevel: threat, OpportunityScore: 40},
	}
}

func TestGenerate_ComprehensiveHighThreat(t *testing.T) {
	recs := NewRecommendationGenerator().Generate(fullResult(models.ModeComprehensive, models.ThreatHigh))

	require.Len(t, recs, 5)
	types := make([]string, 0, len(recs))
	for _, r := range recs {
		types = append(types, r.Type)
	}
	assert.Equal(t, []string{
		models.RecThreatResponse,
		models.RecContentGap,
		models.RecContentFormat,
		models.RecPostingTime,
		models.RecSentimentPositioning,
	}, types)
	assert.Equal(t, 9.0, recs[0].PriorityScore)
	assert.Equal(t, models.LevelHigh, recs[0].ImplementationEffort)
}

func TestGenerate_ComprehensiveWithoutThreat(t *testing.T) {
	recs := NewRecommendationGenerator().Generate(fullResult(models.ModeComprehensive, models.ThreatMedium))

	require.Len(t, recs, 4)
	seen := map[string]bool{}
	for i, r := range recs {
		assert.False(t, seen[r.Type], "duplicate type %s", r.Type)
		seen[r.Type] = true
		if i > 0 {
			assert.GreaterOrEqual(t, recs[i-1].PriorityScore, r.PriorityScore)
		}
	}
	assert.False(t, seen[models.RecThreatResponse])
}

func TestGenerate_ContentGapCapped(t *testing.T) {
	recs := NewRecommendationGenerator().Generate(fullResult(models.ModeContentGap, ""))

	require.Len(t, recs, maxRecommendations)
	for _, r := range recs {
		assert.Equal(t, models.RecContentGap, r.Type)
		assert.Equal(t, 8.5, r.PriorityScore)
		assert.Equal(t, models.LevelMedium, r.ImplementationEffort)
		assert.Equal(t, models.LevelHigh, r.ExpectedImpact)
		assert.Equal(t, "analysis-1", r.AnalysisID)
		assert.Equal(t, "globex", r.Metadata["competitor_id"])
		assert.Equal(t, "content_gap", r.Metadata["mode"])
		assert.NotEmpty(t, r.ID)
	}
	assert.Equal(t, "Explore topic: branding", recs[0].Title)
}

func TestGenerate_SingleModeTemplates(t *testing.T) {
	tests := []struct {
		mode     models.Mode
		recType  string
		priority float64
		effort   string
		impact   string
	}{
		{models.ModeSentiment, models.RecSentimentPositioning, 6.0, models.LevelLow, models.LevelMedium},
		{models.ModeStrategy, models.RecPostingTime, 7.0, models.LevelLow, models.LevelMedium},
		{models.ModePerformance, models.RecContentFormat, 7.5, models.LevelMedium, models.LevelHigh},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			recs := NewRecommendationGenerator().Generate(fullResult(tt.mode, ""))
			require.Len(t, recs, 1)
			assert.Equal(t, tt.recType, recs[0].Type)
			assert.Equal(t, tt.priority, recs[0].PriorityScore)
			assert.Equal(t, tt.effort, recs[0].ImplementationEffort)
			assert.Equal(t, tt.impact, recs[0].ExpectedImpact)
		})
	}
}

func TestGenerate_NothingToSay(t *testing.T) {
	g := NewRecommendationGenerator()

	assert.Empty(t, g.Generate(&models.AnalysisResult{Mode: models.ModeSentiment, Sentiment: &models.SentimentAnalysis{}}))
	assert.Empty(t, g.Generate(&models.AnalysisResult{Mode: models.ModeStrategy, Strategy: &models.StrategyAnalysis{}}))
	assert.Empty(t, g.Generate(&models.AnalysisResult{Mode: models.ModePerformance, Performance: &models.PerformanceAnalysis{}}))
	assert.Empty(t, g.Generate(&models.AnalysisResult{Mode: models.ModeContentGap, ContentGap: &models.ContentGapAnalysis{}}))
}
