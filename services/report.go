package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"competitive-intel/models"
)

// Reporter renders an analysis result as a terminal report.
type Reporter struct {
	out io.Writer
}

// NewReporter creates a Reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Print writes the full report for r and its recommendations.
func (p *Reporter) Print(r *models.AnalysisResult, recs []models.Recommendation) {
	sep := strings.Repeat("═", 60)
	thin := strings.Repeat("─", 60)

	p.printf("\n\033[1;35m%s\033[0m\n", sep)
	p.printf("\033[1;35m  📊 COMPETITIVE CONTENT INTELLIGENCE: %s\033[0m\n", strings.ToUpper(string(r.Mode)))
	p.printf("\033[1;35m%s\033[0m\n\n", sep)

	p.section("Overview", thin)
	p.printf("  Analysis ID    : %s\n", r.ID)
	p.printf("  Subject        : %s\n", orDash(r.SubjectID))
	p.printf("  Competitor     : %s\n", orDash(r.CompetitorID))
	p.printf("  Confidence     : \033[1m%.2f\033[0m\n", r.ConfidenceScore)
	p.printf("  Processing time: %dms\n\n", r.ProcessingTimeMs)

	if s := r.Summary; s != nil {
		p.section("Executive Summary", thin)
		p.printf("  Threat level      : %s\n", colourLevel(s.ThreatLevel))
		p.printf("  Opportunity score : \033[1;32m%d/100\033[0m\n", s.OpportunityScore)
		for _, f := range s.KeyFindings {
			p.printf("  • %s\n", f)
		}
		p.printf("\n")
	}

	if g := r.ContentGap; g != nil {
		p.section("Content Gaps", thin)
		p.printf("  Topic gaps            : %s\n", listOrNone(g.TopicGaps))
		p.printf("  Topic overlap         : %s\n", listOrNone(g.TopicOverlap))
		p.printf("  Format gaps           : %s\n", listOrNone(g.FormatGaps))
		p.printf("  Competitive intensity : %.2f\n\n", g.CompetitiveIntensity)
	}

	if s := r.Sentiment; s != nil {
		p.section("Sentiment", thin)
		p.printf("  Overall     : %s (avg %.3f)\n", s.OverallSentiment, s.AverageScore)
		p.printf("  Distribution: +%d / =%d / -%d\n", s.Distribution.Positive, s.Distribution.Neutral, s.Distribution.Negative)
		p.printf("  Trend       : %s\n", s.Trend.Direction)
		p.printf("  Engagement correlation: %.3f\n\n", s.EngagementCorrelation)
	}

	if s := r.Strategy; s != nil {
		p.section("Strategy", thin)
		p.printf("  Posts per week   : %.1f\n", s.Frequency.PostsPerWeek)
		if s.PostingTimes.PeakDay != "" {
			p.printf("  Peak posting time: %02d:00 UTC, %s\n", s.PostingTimes.PeakHour, s.PostingTimes.PeakDay)
		}
		p.printf("  Top category     : %s (avg %.0f chars)\n", orDash(s.ContentMix.TopCategory), s.ContentMix.AverageLength)
		p.printf("  Hashtags/post    : %.2f (%d distinct)\n", s.Hashtags.AveragePerPost, s.Hashtags.DistinctCount)
		p.printf("  Primary platform : %s\n", orDash(s.Platforms.PrimaryPlatform))
		p.printf("  Consistency      : %.2f\n", s.ConsistencyScore)
		p.platformBars(s.Platforms.Counts)
		p.printf("\n")
	}

	if perf := r.Performance; perf != nil {
		p.section("Performance", thin)
		p.printf("  Avg engagement rate: \033[1;32m%.1f\033[0m\n", perf.Engagement.AvgEngagementRate)
		p.printf("  Best period        : %s\n", orDash(perf.Trend.BestPeriod))
		p.printf("  Trend              : %s\n", perf.Trend.TrendDirection)
		if len(perf.TopPerformingContent) == 0 {
			p.printf("  No posts with engagement data\n")
		}
		for i, c := range perf.TopPerformingContent {
			p.printf("  \033[1m%d.\033[0m %-44s \033[1;32m%d\033[0m\n", i+1, truncate(c.Text, 42), c.Score)
		}
		p.printf("\n")
	}

	p.section("Recommendations", thin)
	if len(recs) == 0 {
		p.printf("  No recommendations\n")
	}
	for i, rec := range recs {
		p.printf("  \033[1m%d. %s\033[0m  [priority %.1f | effort %s | impact %s]\n",
			i+1, rec.Title, rec.PriorityScore, rec.ImplementationEffort, rec.ExpectedImpact)
		p.printf("     %s\n", rec.Description)
	}

	p.printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func (p *Reporter) platformBars(counts map[string]int) {
	type platformCount struct {
		name  string
		count int
	}
	var pcs []platformCount
	for name, c := range counts {
		pcs = append(pcs, platformCount{name, c})
	}
	sort.Slice(pcs, func(i, j int) bool {
		if pcs[i].count != pcs[j].count {
			return pcs[i].count > pcs[j].count
		}
		return pcs[i].name < pcs[j].name
	})
	for _, pc := range pcs {
		bar := strings.Repeat("█", min(pc.count, 40))
		p.printf("    %-16s %s (%d)\n", truncate(pc.name, 16), bar, pc.count)
	}
}

func (p *Reporter) section(title, rule string) {
	p.printf("\033[1;33m  %s\033[0m\n", title)
	p.printf("  %s\n", rule)
}

func (p *Reporter) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func colourLevel(level string) string {
	switch level {
	case models.ThreatHigh:
		return "\033[1;31m" + level + "\033[0m"
	case models.ThreatMedium:
		return "\033[1;33m" + level + "\033[0m"
	default:
		return "\033[1;32m" + level + "\033[0m"
	}
}

func listOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
