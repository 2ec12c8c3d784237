package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"competitive-intel/models"
)

func TestGap_CompetitorTopicsUncovered(t *testing.T) {
	competitor := make([]models.ContentItem, 0, 10)
	for i := 0; i < 10; i++ {
		competitor = append(competitor, post("Weekly marketing roundup", 1, 0, 0))
	}

	got := NewGapAnalyzer(testExtractor()).Analyze(competitor, []models.ContentItem{})

	assert.Contains(t, got.TopicGaps, "marketing")
	assert.Empty(t, got.TopicOverlap)
	assert.Zero(t, got.CompetitiveIntensity)
	require.NotEmpty(t, got.Opportunities)
	assert.Equal(t, "marketing", got.Opportunities[0].Topic)
	assert.Equal(t, models.LevelHigh, got.Opportunities[0].Priority)
}

func TestGap_PartitionsCompetitorTopics(t *testing.T) {
	competitor := []models.ContentItem{
		{Text: "marketing and sales", DeclaredTopics: []string{"seo"}},
		{Text: "leadership notes"},
	}
	user := []models.ContentItem{
		{Text: "our sales team"},
		{Text: "", DeclaredTopics: []string{"seo", "hiring"}},
	}

	got := NewGapAnalyzer(testExtractor()).Analyze(competitor, user)

	assert.Equal(t, []string{"leadership", "marketing"}, got.TopicGaps)
	assert.Equal(t, []string{"sales", "seo"}, got.TopicOverlap)
	assert.ElementsMatch(t, got.CompetitorTopics, append(append([]string{}, got.TopicGaps...), got.TopicOverlap...))
	assert.Equal(t, 0.5, got.CompetitiveIntensity)
	assert.NotContains(t, got.TopicGaps, "hiring")
}

func TestGap_FormatsAndOpportunityCap(t *testing.T) {
	competitor := []models.ContentItem{
		{Text: "marketing sales technology business finance health education", MediaURLs: []string{"a.png"}},
	}
	user := []models.ContentItem{{Text: "hi"}}

	got := NewGapAnalyzer(testExtractor()).Analyze(competitor, user)

	assert.Equal(t, []string{"image"}, got.FormatGaps)
	assert.Equal(t, []string{"short_form"}, got.FormatOverlap)
	assert.Len(t, got.TopicGaps, 7)
	assert.Len(t, got.Opportunities, maxOpportunities)
}

func TestGap_EmptyCompetitor(t *testing.T) {
	got := NewGapAnalyzer(testExtractor()).Analyze([]models.ContentItem{}, []models.ContentItem{{Text: "marketing"}})

	assert.Empty(t, got.TopicGaps)
	assert.Zero(t, got.CompetitiveIntensity)
	assert.NotNil(t, got.Opportunities)
}
