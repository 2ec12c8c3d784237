package services

import (
	"fmt"

	"competitive-intel/models"
)

// Synthesizer folds the four analyzer outputs into an executive summary.
type Synthesizer struct{}

// NewSynthesizer creates a Synthesizer.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// Synthesize scores threat and opportunity and lists the key findings in a
// fixed order: gaps, sentiment, cadence, engagement.
func (s *Synthesizer) Synthesize(
	gap *models.ContentGapAnalysis,
	sentiment *models.SentimentAnalysis,
	strategy *models.StrategyAnalysis,
	performance *models.PerformanceAnalysis,
) *models.ExecutiveSummary {
	postsPerWeek := strategy.Frequency.PostsPerWeek
	avgEngagement := performance.Engagement.AvgEngagementRate
	trend := performance.Trend.TrendDirection

	return &models.ExecutiveSummary{
		ThreatLevel:      threatLevel(postsPerWeek, avgEngagement, strategy.ConsistencyScore, trend),
		OpportunityScore: opportunityScore(len(gap.TopicGaps), avgEngagement, trend),
		KeyFindings: []string{
			fmt.Sprintf("Identified %d content gaps to exploit", len(gap.TopicGaps)),
			fmt.Sprintf("Competitor sentiment is %s", sentiment.OverallSentiment),
			fmt.Sprintf("Competitor posts %.1f times per week", postsPerWeek),
			fmt.Sprintf("Average engagement rate: %.1f", avgEngagement),
		},
	}
}

func threatLevel(postsPerWeek, avgEngagement, consistency float64, trend string) string {
	points := 0
	switch {
	case postsPerWeek > 7:
		points += 2
	case postsPerWeek > 3:
		points++
	}
	switch {
	case avgEngagement > 100:
		points += 2
	case avgEngagement > 50:
		points++
	}
	if consistency > 0.8 {
		points++
	}
	if trend == models.TrendIncreasing {
		points++
	}

	switch {
	case points >= 4:
		return models.ThreatHigh
	case points >= 2:
		return models.ThreatMedium
	default:
		return models.ThreatLow
	}
}

func opportunityScore(gapCount int, avgEngagement float64, trend string) int {
	score := 2 * gapCount
	if score > 20 {
		score = 20
	}
	switch {
	case avgEngagement < 30:
		score += 15
	case avgEngagement < 60:
		score += 10
	default:
		score += 5
	}
	if trend == models.TrendDecreasing {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}
