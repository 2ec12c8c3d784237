package services

import (
	"fmt"

	"competitive-intel/models"
)

const maxOpportunities = 5

// GapAnalyzer compares the competitor's topics and formats with the subject's own.
type GapAnalyzer struct {
	extractor *Extractor
}

// NewGapAnalyzer creates a GapAnalyzer.
func NewGapAnalyzer(extractor *Extractor) *GapAnalyzer {
	return &GapAnalyzer{extractor: extractor}
}

// Analyze returns the set differences between both corpora. Gap and overlap
// always partition the competitor's topics.
func (a *GapAnalyzer) Analyze(competitor, user []models.ContentItem) *models.ContentGapAnalysis {
	compTopics := a.extractor.ExtractTopics(competitor)
	userTopics := a.extractor.ExtractTopics(user)
	compFormats := a.extractor.ExtractFormats(competitor)
	userFormats := a.extractor.ExtractFormats(user)

	topicGaps, topicOverlap := partition(compTopics, userTopics)
	formatGaps, formatOverlap := partition(compFormats, userFormats)

	result := &models.ContentGapAnalysis{
		CompetitorTopics:     sortedKeys(compTopics),
		UserTopics:           sortedKeys(userTopics),
		TopicGaps:            topicGaps,
		TopicOverlap:         topicOverlap,
		FormatGaps:           formatGaps,
		FormatOverlap:        formatOverlap,
		CompetitiveIntensity: round4(float64(len(topicOverlap)) / maxFloat(float64(len(compTopics)), 1)),
		Opportunities:        []models.Opportunity{},
	}

	for i, topic := range topicGaps {
		if i == maxOpportunities {
			break
		}
		result.Opportunities = append(result.Opportunities, models.Opportunity{
			Topic:     topic,
			Priority:  models.LevelHigh,
			Rationale: fmt.Sprintf("Competitor publishes on %q and you have no content covering it yet", topic),
		})
	}
	return result
}

// partition splits a into the keys missing from b and the keys shared with b,
// both sorted.
func partition(a, b map[string]struct{}) (missing, shared []string) {
	missing, shared = []string{}, []string{}
	for _, k := range sortedKeys(a) {
		if _, ok := b[k]; ok {
			shared = append(shared, k)
		} else {
			missing = append(missing, k)
		}
	}
	return missing, shared
}
