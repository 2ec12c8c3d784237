package services

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"competitive-intel/models"
)

const maxRecommendations = 5

// template fixes the scoring of one recommendation type. Priority, effort and
// impact are constants, not derived from the data.
type template struct {
	recType  string
	priority float64
	effort   string
	impact   string
}

var (
	contentGapTemplate     = template{models.RecContentGap, 8.5, models.LevelMedium, models.LevelHigh}
	sentimentTemplate      = template{models.RecSentimentPositioning, 6.0, models.LevelLow, models.LevelMedium}
	postingTimeTemplate    = template{models.RecPostingTime, 7.0, models.LevelLow, models.LevelMedium}
	contentFormatTemplate  = template{models.RecContentFormat, 7.5, models.LevelMedium, models.LevelHigh}
	threatResponseTemplate = template{models.RecThreatResponse, 9.0, models.LevelHigh, models.LevelHigh}
)

// RecommendationGenerator maps analysis output onto ranked recommendations.
type RecommendationGenerator struct{}

// NewRecommendationGenerator creates a RecommendationGenerator.
func NewRecommendationGenerator() *RecommendationGenerator {
	return &RecommendationGenerator{}
}

// Generate returns up to five recommendations for result, highest priority first.
func (g *RecommendationGenerator) Generate(result *models.AnalysisResult) []models.Recommendation {
	var recs []models.Recommendation

	switch result.Mode {
	case models.ModeContentGap:
		recs = g.gapRecommendations(result, maxRecommendations)
	case models.ModeSentiment:
		recs = g.sentimentRecommendations(result)
	case models.ModeStrategy:
		recs = g.strategyRecommendations(result)
	case models.ModePerformance:
		recs = g.performanceRecommendations(result)
	case models.ModeComprehensive:
		recs = g.comprehensiveRecommendations(result)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].PriorityScore > recs[j].PriorityScore
	})
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	for _, r := range recs {
		recommendationsTotal.WithLabelValues(r.Type).Inc()
	}
	return recs
}

func (g *RecommendationGenerator) gapRecommendations(result *models.AnalysisResult, limit int) []models.Recommendation {
	if result.ContentGap == nil {
		return nil
	}
	var recs []models.Recommendation
	for _, opp := range result.ContentGap.Opportunities {
		if len(recs) == limit {
			break
		}
		recs = append(recs, newRecommendation(result, contentGapTemplate,
			fmt.Sprintf("Explore topic: %s", opp.Topic),
			fmt.Sprintf("%s. Publishing on this topic lets you compete for an audience you currently do not reach.", opp.Rationale),
			map[string]any{"topic": opp.Topic, "priority": opp.Priority},
		))
	}
	return recs
}

func (g *RecommendationGenerator) sentimentRecommendations(result *models.AnalysisResult) []models.Recommendation {
	s := result.Sentiment
	if s == nil || s.ItemCount == 0 {
		return nil
	}

	var desc string
	switch s.OverallSentiment {
	case models.SentimentNegative:
		desc = "Competitor content skews negative. Lead with a constructive, optimistic tone to stand apart."
	case models.SentimentPositive:
		desc = "Competitor content is upbeat. Match the positive tone and add concrete proof points to differentiate."
	default:
		desc = "Competitor content is largely neutral. A clearer emotional voice can make your posts more memorable."
	}
	return []models.Recommendation{newRecommendation(result, sentimentTemplate,
		fmt.Sprintf("Position your tone against a %s competitor", s.OverallSentiment),
		desc,
		map[string]any{
			"overall_sentiment": s.OverallSentiment,
			"trend":             s.Trend.Direction,
		},
	)}
}

func (g *RecommendationGenerator) strategyRecommendations(result *models.AnalysisResult) []models.Recommendation {
	s := result.Strategy
	if s == nil || s.PostingTimes.PeakDay == "" {
		return nil
	}
	return []models.Recommendation{newRecommendation(result, postingTimeTemplate,
		fmt.Sprintf("Optimize posting time around %02d:00 UTC", s.PostingTimes.PeakHour),
		fmt.Sprintf("Competitor posts most often at %02d:00 UTC on %ss, about %.1f times per week. Schedule your posts to compete for the same attention window.",
			s.PostingTimes.PeakHour, s.PostingTimes.PeakDay, s.Frequency.PostsPerWeek),
		map[string]any{
			"peak_hour":      s.PostingTimes.PeakHour,
			"peak_day":       s.PostingTimes.PeakDay,
			"posts_per_week": s.Frequency.PostsPerWeek,
		},
	)}
}

func (g *RecommendationGenerator) performanceRecommendations(result *models.AnalysisResult) []models.Recommendation {
	p := result.Performance
	if p == nil || len(p.TopPerformingContent) == 0 {
		return nil
	}
	top := p.TopPerformingContent[0]
	return []models.Recommendation{newRecommendation(result, contentFormatTemplate,
		fmt.Sprintf("Replicate top content format: %s", top.ContentType),
		fmt.Sprintf("The competitor's best post on %s reached %d engagements using the %s format. Adapt this format for your audience.",
			top.Platform, top.Score, top.ContentType),
		map[string]any{
			"content_type": top.ContentType,
			"platform":     top.Platform,
			"score":        top.Score,
		},
	)}
}

// comprehensiveRecommendations draws at most one recommendation per type from
// every analyzer, plus a threat response when the threat level is high.
func (g *RecommendationGenerator) comprehensiveRecommendations(result *models.AnalysisResult) []models.Recommendation {
	var recs []models.Recommendation
	seen := make(map[string]struct{})
	add := func(candidates []models.Recommendation) {
		for _, r := range candidates {
			if _, dup := seen[r.Type]; dup {
				continue
			}
			seen[r.Type] = struct{}{}
			recs = append(recs, r)
		}
	}

	if result.Summary != nil && result.Summary.ThreatLevel == models.ThreatHigh {
		add([]models.Recommendation{newRecommendation(result, threatResponseTemplate,
			"Respond to a high competitive threat",
			"The competitor combines a strong cadence with high engagement. Increase posting frequency and prioritise the gaps and formats listed above.",
			map[string]any{
				"threat_level":      result.Summary.ThreatLevel,
				"opportunity_score": result.Summary.OpportunityScore,
			},
		)})
	}
	add(g.gapRecommendations(result, 1))
	add(g.performanceRecommendations(result))
	add(g.strategyRecommendations(result))
	add(g.sentimentRecommendations(result))
	return recs
}

func newRecommendation(result *models.AnalysisResult, t template, title, desc string, meta map[string]any) models.Recommendation {
	meta["competitor_id"] = result.CompetitorID
	meta["mode"] = string(result.Mode)
	return models.Recommendation{
		ID:                   uuid.NewString(),
		AnalysisID:           result.ID,
		Type:                 t.recType,
		Title:                title,
		Description:          desc,
		PriorityScore:        t.priority,
		ImplementationEffort: t.effort,
		ExpectedImpact:       t.impact,
		Metadata:             meta,
	}
}
