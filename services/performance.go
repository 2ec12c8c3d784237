package services

import (
	"sort"

	"competitive-intel/models"
)

const (
	topContentLimit    = 5
	topContentTextLen  = 100
	trendWindowMonths  = 3
	performanceTrendPc = 0.1
)

// PerformanceAnalyzer benchmarks engagement over a corpus.
type PerformanceAnalyzer struct{}

// NewPerformanceAnalyzer creates a PerformanceAnalyzer.
func NewPerformanceAnalyzer() *PerformanceAnalyzer {
	return &PerformanceAnalyzer{}
}

// Analyze computes engagement aggregates, top content and the monthly trend.
func (a *PerformanceAnalyzer) Analyze(items []models.ContentItem) *models.PerformanceAnalysis {
	var engaged []models.ContentItem
	for _, item := range items {
		if item.HasEngagement() {
			engaged = append(engaged, item)
		}
	}

	return &models.PerformanceAnalysis{
		Engagement:           engagementSummary(engaged),
		TopPerformingContent: topContent(engaged),
		Trend:                monthlyTrend(engaged),
	}
}

func engagementSummary(engaged []models.ContentItem) models.EngagementSummary {
	summary := models.EngagementSummary{
		PostsWithEngagement: len(engaged),
		Distribution:        map[string]float64{"likes": 0, "comments": 0, "shares": 0},
	}
	if len(engaged) == 0 {
		return summary
	}

	var likes, comments, shares int
	for _, item := range engaged {
		likes += item.Engagement.Likes
		comments += item.Engagement.Comments
		shares += item.Engagement.Shares
	}
	total := likes + comments + shares
	n := float64(len(engaged))

	summary.AverageLikes = round2(float64(likes) / n)
	summary.AverageComments = round2(float64(comments) / n)
	summary.AverageShares = round2(float64(shares) / n)
	summary.TotalEngagement = total
	summary.AvgEngagementRate = round2(float64(total) / n)
	if total > 0 {
		summary.Distribution["likes"] = round4(float64(likes) / float64(total))
		summary.Distribution["comments"] = round4(float64(comments) / float64(total))
		summary.Distribution["shares"] = round4(float64(shares) / float64(total))
	}
	return summary
}

// topContent returns the five most engaging items. Equal scores keep input order.
func topContent(engaged []models.ContentItem) []models.TopContent {
	ranked := make([]models.ContentItem, len(engaged))
	copy(ranked, engaged)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Engagement.Total() > ranked[j].Engagement.Total()
	})
	if len(ranked) > topContentLimit {
		ranked = ranked[:topContentLimit]
	}

	out := make([]models.TopContent, 0, len(ranked))
	for _, item := range ranked {
		contentType := item.ContentType
		if contentType == "" {
			contentType = categorize(item.Text)
		}
		out = append(out, models.TopContent{
			Text:        truncate(item.Text, topContentTextLen),
			ContentType: contentType,
			Platform:    item.Platform,
			Score:       item.Engagement.Total(),
			PostedAt:    item.PostedAt,
		})
	}
	return out
}

// monthlyTrend buckets engaged, timestamped items by calendar month and
// compares the mean of the last three months with the first three.
func monthlyTrend(engaged []models.ContentItem) models.PerformanceTrend {
	trend := models.PerformanceTrend{
		Months:         []models.MonthlyBucket{},
		TrendDirection: models.TrendStable,
	}

	totals := make(map[string]int)
	counts := make(map[string]int)
	for _, item := range engaged {
		if !item.HasTimestamp() {
			continue
		}
		period := item.PostedAt.Format("2006-01")
		totals[period] += item.Engagement.Total()
		counts[period]++
	}
	if len(counts) == 0 {
		return trend
	}

	periods := make([]string, 0, len(counts))
	for p := range counts {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	best := -1.0
	means := make([]float64, 0, len(periods))
	for _, p := range periods {
		avg := float64(totals[p]) / float64(counts[p])
		means = append(means, avg)
		trend.Months = append(trend.Months, models.MonthlyBucket{
			Period:            p,
			AverageEngagement: round2(avg),
			PostCount:         counts[p],
		})
		if avg > best {
			best = avg
			trend.BestPeriod = p
		}
	}

	if len(means) < 2 {
		return trend
	}
	// With fewer than six months the two windows overlap.
	window := min(trendWindowMonths, len(means))
	older := mean(means[:window])
	recent := mean(means[len(means)-window:])
	switch {
	case older == 0:
	case recent > older*(1+performanceTrendPc):
		trend.TrendDirection = models.TrendIncreasing
	case recent < older*(1-performanceTrendPc):
		trend.TrendDirection = models.TrendDecreasing
	}
	return trend
}
