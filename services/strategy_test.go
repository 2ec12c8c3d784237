package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"competitive-intel/models"
)

func TestStrategy_EvenWeekOfPosting(t *testing.T) {
	week := 7 * 24 * time.Hour
	items := make([]models.ContentItem, 0, 14)
	for i := 0; i < 14; i++ {
		items = append(items, datedPost("daily update", testBase.Add(time.Duration(i)*week/13), 1))
	}

	got := NewStrategyAnalyzer(testExtractor()).Analyze(items)

	assert.Equal(t, 14, got.Frequency.TotalPosts)
	assert.InDelta(t, 14.0, got.Frequency.PostsPerWeek, 0.01)
	assert.InDelta(t, 1.0, got.ConsistencyScore, 0.01)
}

func TestStrategy_FewPostsAreNeutrallyConsistent(t *testing.T) {
	items := []models.ContentItem{
		datedPost("a", testBase, 0),
		datedPost("b", testBase.Add(time.Hour), 0),
		datedPost("c", testBase.Add(100*time.Hour), 0),
	}

	got := NewStrategyAnalyzer(testExtractor()).Analyze(items)
	assert.Equal(t, 0.5, got.ConsistencyScore)
}

func TestConsistencyScore(t *testing.T) {
	every := func(gaps ...time.Duration) []time.Time {
		out := []time.Time{testBase}
		for _, g := range gaps {
			out = append(out, out[len(out)-1].Add(g))
		}
		return out
	}
	day := 24 * time.Hour

	tests := []struct {
		name  string
		dated []time.Time
		want  float64
	}{
		{"too few posts", every(day, day, day, day, day), 0.5},
		{"evenly spaced", every(day, day, day, day, day, day), 1},
		{"all at once", every(0, 0, 0, 0, 0, 0, 0), 1},
		// stddev is about 2.4x the mean gap, so the raw score is negative.
		{"burst then silence", every(time.Minute, time.Minute, time.Minute, time.Minute, time.Minute, time.Minute, 100*day), 0},
		{"somewhat irregular", every(day, 2*day, day, 2*day, day, 2*day), 0.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := consistencyScore(tt.dated)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestPostingFrequency_NoSpan(t *testing.T) {
	got := postingFrequency(4, []time.Time{testBase})

	assert.Equal(t, 0.0, got.SpanDays)
	assert.Equal(t, 4.0, got.PostsPerDay)
	assert.Equal(t, 28.0, got.PostsPerWeek)
}

func TestPostingTimes_TiesGoEarliest(t *testing.T) {
	// testBase is a Monday at 09:00.
	dated := []time.Time{
		testBase,
		testBase.Add(6*24*time.Hour + 2*time.Hour),
	}

	got := postingTimes(dated)

	assert.Equal(t, 9, got.PeakHour)
	assert.Equal(t, "Sunday", got.PeakDay)
	assert.Equal(t, 1, got.HourlyDistribution[9])
	assert.Equal(t, 1, got.HourlyDistribution[11])

	got = postingTimes(append(dated, testBase.Add(2*time.Hour)))
	assert.Equal(t, 11, got.PeakHour)
	assert.Equal(t, "Monday", got.PeakDay)
}

func TestPostingTimes_NoTimestamps(t *testing.T) {
	got := postingTimes(nil)
	assert.Equal(t, "", got.PeakDay)
	assert.Equal(t, 0, got.PeakHour)
}

func TestContentMix(t *testing.T) {
	a := NewStrategyAnalyzer(NewExtractor(nil, 50, 20))

	got := a.contentMix([]models.ContentItem{
		{Text: "How to learn Go"},
		{Text: "Big sale today, buy now"},
		{Text: "Monday thoughts"},
		{Text: strings.Repeat("tips ", 12)},
	})

	require.Len(t, got.Proportions, len(categoryOrder))
	assert.Equal(t, 0.5, got.Proportions[FormatShortForm])
	assert.Equal(t, 0.25, got.Proportions[FormatLongForm])
	assert.Equal(t, 0.5, got.Proportions[CategoryEducational])
	assert.Equal(t, 0.25, got.Proportions[CategoryPromotional])
	assert.Equal(t, 0.25, got.Proportions[CategoryGeneral])
	assert.Equal(t, FormatShortForm, got.TopCategory)
}

func TestContentMix_Empty(t *testing.T) {
	got := NewStrategyAnalyzer(testExtractor()).contentMix(nil)

	assert.Equal(t, "", got.TopCategory)
	for _, c := range categoryOrder {
		assert.Zero(t, got.Proportions[c])
	}
}

func TestCategorize_EducationalWins(t *testing.T) {
	assert.Equal(t, CategoryEducational, categorize("Tips to buy smarter"))
	assert.Equal(t, CategoryPromotional, categorize("Limited time DEAL"))
	assert.Equal(t, CategoryGeneral, categorize("hello"))
}

func TestHashtagStrategy(t *testing.T) {
	got := hashtagStrategy([]models.ContentItem{
		{Text: "#Go is fun #golang"},
		{Text: "more #go"},
		{Text: "none here"},
	})

	assert.Equal(t, 3, got.TotalOccurrences)
	assert.Equal(t, 2, got.DistinctCount)
	assert.Equal(t, 1.0, got.AveragePerPost)
	assert.Equal(t, 0.6667, got.DiversityRatio)
	require.Len(t, got.TopHashtags, 2)
	assert.Equal(t, models.HashtagCount{Tag: "#go", Count: 2}, got.TopHashtags[0])
}

func TestPlatformDistribution(t *testing.T) {
	items := []models.ContentItem{
		{Platform: "twitter"}, {Platform: "linkedin"}, {Platform: "twitter"}, {Platform: "instagram"},
	}

	got := platformDistribution(items)

	assert.Equal(t, "twitter", got.PrimaryPlatform)
	assert.True(t, got.MultiPlatform)
	assert.Equal(t, 2, got.Counts["twitter"])

	single := platformDistribution([]models.ContentItem{{Platform: "linkedin"}, {Platform: "instagram"}})
	assert.Equal(t, "instagram", single.PrimaryPlatform)
}
