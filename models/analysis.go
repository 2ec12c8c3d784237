package models

import (
	"fmt"
	"time"
)

// Mode selects which analyzers run for a request.
type Mode string

const (
	ModeContentGap    Mode = "content_gap"
	ModeSentiment     Mode = "sentiment"
	ModeStrategy      Mode = "strategy"
	ModePerformance   Mode = "performance"
	ModeComprehensive Mode = "comprehensive"
)

// Modes lists every supported mode in a stable order.
var Modes = []Mode{ModeContentGap, ModeSentiment, ModeStrategy, ModePerformance, ModeComprehensive}

// ParseMode maps a string onto one of the supported modes.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// RequiresUserCorpus reports whether the mode compares against the subject's own posts.
func (m Mode) RequiresUserCorpus() bool {
	return m == ModeContentGap || m == ModeComprehensive
}

// RawAnalysisRequest is the wire form of a request, carrying un-normalised content.
// A nil slice means the corpus was absent; an empty slice means present but empty.
type RawAnalysisRequest struct {
	SubjectID         string       `json:"subject_id"`
	CompetitorID      string       `json:"competitor_id"`
	Mode              string       `json:"mode"`
	CompetitorContent []RawContent `json:"competitor_content"`
	UserContent       []RawContent `json:"user_content"`
}

// AnalysisRequest is the normalised input to the engine.
type AnalysisRequest struct {
	SubjectID              string
	CompetitorID           string
	Mode                   Mode
	CompetitorContentItems []ContentItem
	UserContentItems       []ContentItem
}

// Trend direction labels shared by the sentiment and performance analyzers.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// SentimentDistribution counts items per sentiment band.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// Total is the number of items that were classified.
func (d SentimentDistribution) Total() int {
	return d.Positive + d.Neutral + d.Negative
}

// SentimentTrend compares the most recent third of posts with the oldest third.
type SentimentTrend struct {
	Direction     string  `json:"direction"`
	RecentAverage float64 `json:"recent_average"`
	OlderAverage  float64 `json:"older_average"`
}

// SentimentAnalysis is the output of the sentiment analyzer.
type SentimentAnalysis struct {
	OverallSentiment      string                `json:"overall_sentiment"`
	AverageScore          float64               `json:"average_score"`
	Distribution          SentimentDistribution `json:"distribution"`
	Trend                 SentimentTrend        `json:"trend"`
	EngagementCorrelation float64               `json:"engagement_correlation"`
	ItemCount             int                   `json:"item_count"`
}

// PostingFrequency describes posting cadence.
type PostingFrequency struct {
	TotalPosts   int     `json:"total_posts"`
	SpanDays     float64 `json:"span_days"`
	PostsPerDay  float64 `json:"posts_per_day"`
	PostsPerWeek float64 `json:"posts_per_week"`
}

// PostingTimes describes when posts are published.
type PostingTimes struct {
	PeakHour           int     `json:"peak_hour"`
	PeakDay            string  `json:"peak_day"`
	HourlyDistribution [24]int `json:"hourly_distribution"`
}

// ContentMix describes the share of posts per category bucket.
type ContentMix struct {
	Proportions   map[string]float64 `json:"proportions"`
	TopCategory   string             `json:"top_category"`
	AverageLength float64            `json:"average_length"`
}

// HashtagCount is one hashtag with its number of occurrences.
type HashtagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// HashtagStrategy summarises hashtag usage.
type HashtagStrategy struct {
	AveragePerPost   float64        `json:"average_per_post"`
	TopHashtags      []HashtagCount `json:"top_hashtags"`
	DistinctCount    int            `json:"distinct_count"`
	TotalOccurrences int            `json:"total_occurrences"`
	DiversityRatio   float64        `json:"diversity_ratio"`
}

// PlatformDistribution counts posts per platform.
type PlatformDistribution struct {
	Counts          map[string]int `json:"counts"`
	PrimaryPlatform string         `json:"primary_platform"`
	MultiPlatform   bool           `json:"multi_platform"`
}

// StrategyAnalysis is the output of the strategy analyzer.
type StrategyAnalysis struct {
	Frequency        PostingFrequency     `json:"frequency"`
	PostingTimes     PostingTimes         `json:"posting_times"`
	ContentMix       ContentMix           `json:"content_mix"`
	Hashtags         HashtagStrategy      `json:"hashtags"`
	Platforms        PlatformDistribution `json:"platforms"`
	ConsistencyScore float64              `json:"consistency_score"`
}

// EngagementSummary aggregates engagement across items that have any.
type EngagementSummary struct {
	AverageLikes        float64            `json:"average_likes"`
	AverageComments     float64            `json:"average_comments"`
	AverageShares       float64            `json:"average_shares"`
	TotalEngagement     int                `json:"total_engagement"`
	AvgEngagementRate   float64            `json:"avg_engagement_rate"`
	PostsWithEngagement int                `json:"posts_with_engagement"`
	Distribution        map[string]float64 `json:"distribution"`
}

// TopContent is a projection of one high-performing item.
type TopContent struct {
	Text        string     `json:"text"`
	ContentType string     `json:"content_type"`
	Platform    string     `json:"platform"`
	Score       int        `json:"score"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`
}

// MonthlyBucket is the engagement summary for one calendar month.
type MonthlyBucket struct {
	Period            string  `json:"period"`
	AverageEngagement float64 `json:"average_engagement"`
	PostCount         int     `json:"post_count"`
}

// PerformanceTrend is the month-over-month engagement trend.
type PerformanceTrend struct {
	Months         []MonthlyBucket `json:"months"`
	BestPeriod     string          `json:"best_period"`
	TrendDirection string          `json:"trend_direction"`
}

// PerformanceAnalysis is the output of the performance analyzer.
type PerformanceAnalysis struct {
	Engagement           EngagementSummary `json:"engagement"`
	TopPerformingContent []TopContent      `json:"top_performing_content"`
	Trend                PerformanceTrend  `json:"trend"`
}

// Opportunity is a gap topic worth exploring.
type Opportunity struct {
	Topic     string `json:"topic"`
	Priority  string `json:"priority"`
	Rationale string `json:"rationale"`
}

// ContentGapAnalysis is the output of the content-gap analyzer.
type ContentGapAnalysis struct {
	CompetitorTopics     []string      `json:"competitor_topics"`
	UserTopics           []string      `json:"user_topics"`
	TopicGaps            []string      `json:"topic_gaps"`
	TopicOverlap         []string      `json:"topic_overlap"`
	FormatGaps           []string      `json:"format_gaps"`
	FormatOverlap        []string      `json:"format_overlap"`
	CompetitiveIntensity float64       `json:"competitive_intensity"`
	Opportunities        []Opportunity `json:"opportunities"`
}

// Threat levels.
const (
	ThreatLow    = "low"
	ThreatMedium = "medium"
	ThreatHigh   = "high"
)

// ExecutiveSummary is produced by the synthesizer in comprehensive mode.
type ExecutiveSummary struct {
	ThreatLevel      string   `json:"threat_level"`
	OpportunityScore int      `json:"opportunity_score"`
	KeyFindings      []string `json:"key_findings"`
}

// AnalysisResult is the immutable outcome of one engine invocation.
// Only the sections relevant to the mode are populated.
type AnalysisResult struct {
	ID               string               `json:"id"`
	SubjectID        string               `json:"subject_id"`
	CompetitorID     string               `json:"competitor_id"`
	Mode             Mode                 `json:"mode"`
	ContentGap       *ContentGapAnalysis  `json:"content_gap,omitempty"`
	Sentiment        *SentimentAnalysis   `json:"sentiment,omitempty"`
	Strategy         *StrategyAnalysis    `json:"strategy,omitempty"`
	Performance      *PerformanceAnalysis `json:"performance,omitempty"`
	Summary          *ExecutiveSummary    `json:"summary,omitempty"`
	ConfidenceScore  float64              `json:"confidence_score"`
	ProcessingTimeMs int64                `json:"processing_time_ms"`
	CreatedAt        time.Time            `json:"created_at"`
}
