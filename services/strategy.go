package services

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"competitive-intel/models"
)

const (
	// minConsistencyPosts is the number of timestamped posts needed before
	// cadence consistency is measured.
	minConsistencyPosts = 7
	neutralConsistency  = 0.5
	topHashtagLimit     = 10
)

// Content mix buckets.
const (
	CategoryEducational = "educational"
	CategoryPromotional = "promotional"
	CategoryGeneral     = "general"
)

// categoryOrder is the stable ordering used when proportions tie.
var categoryOrder = []string{
	FormatLongForm, FormatShortForm, CategoryEducational, CategoryPromotional, CategoryGeneral,
}

var (
	hashtagRegexp = regexp.MustCompile(`#\w+`)

	educationalKeywords = []string{
		"how to", "learn", "tips", "guide", "tutorial", "lesson", "explained",
		"step by step", "insight", "study", "research", "webinar", "course",
	}
	promotionalKeywords = []string{
		"buy", "sale", "discount", "offer", "promo", "deal", "limited time",
		"shop", "order now", "free trial", "sign up", "coupon", "launch",
	}
)

// StrategyAnalyzer derives posting cadence and content strategy.
type StrategyAnalyzer struct {
	extractor *Extractor
}

// NewStrategyAnalyzer creates a StrategyAnalyzer using the extractor's length thresholds.
func NewStrategyAnalyzer(extractor *Extractor) *StrategyAnalyzer {
	return &StrategyAnalyzer{extractor: extractor}
}

// Analyze computes the strategy profile of a corpus.
func (a *StrategyAnalyzer) Analyze(items []models.ContentItem) *models.StrategyAnalysis {
	dated := sortedTimestamps(items)

	return &models.StrategyAnalysis{
		Frequency:        postingFrequency(len(items), dated),
		PostingTimes:     postingTimes(dated),
		ContentMix:       a.contentMix(items),
		Hashtags:         hashtagStrategy(items),
		Platforms:        platformDistribution(items),
		ConsistencyScore: consistencyScore(dated),
	}
}

// sortedTimestamps returns the posting times of timestamped items, oldest first.
func sortedTimestamps(items []models.ContentItem) []time.Time {
	var out []time.Time
	for _, item := range items {
		if item.HasTimestamp() {
			out = append(out, *item.PostedAt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// postingFrequency divides the item count by the observed span in days. With
// fewer than two timestamps the span is zero and the rate equals the count.
func postingFrequency(itemCount int, dated []time.Time) models.PostingFrequency {
	var span float64
	if len(dated) >= 2 {
		span = dated[len(dated)-1].Sub(dated[0]).Hours() / 24
	}

	perDay := float64(itemCount) / maxFloat(span, 1)
	return models.PostingFrequency{
		TotalPosts:   itemCount,
		SpanDays:     round2(span),
		PostsPerDay:  round2(perDay),
		PostsPerWeek: round2(perDay * 7),
	}
}

// postingTimes finds the most common hour and weekday. Ties go to the
// earliest hour (0-23) and earliest weekday (Sunday first).
func postingTimes(dated []time.Time) models.PostingTimes {
	var pt models.PostingTimes
	var days [7]int
	for _, t := range dated {
		pt.HourlyDistribution[t.Hour()]++
		days[t.Weekday()]++
	}
	if len(dated) == 0 {
		return pt
	}

	for h := 1; h < 24; h++ {
		if pt.HourlyDistribution[h] > pt.HourlyDistribution[pt.PeakHour] {
			pt.PeakHour = h
		}
	}
	peakDay := 0
	for d := 1; d < 7; d++ {
		if days[d] > days[peakDay] {
			peakDay = d
		}
	}
	pt.PeakDay = time.Weekday(peakDay).String()
	return pt
}

func (a *StrategyAnalyzer) contentMix(items []models.ContentItem) models.ContentMix {
	mix := models.ContentMix{Proportions: make(map[string]float64, len(categoryOrder))}
	for _, c := range categoryOrder {
		mix.Proportions[c] = 0
	}
	if len(items) == 0 {
		return mix
	}

	counts := make(map[string]int, len(categoryOrder))
	var totalLength int
	for _, item := range items {
		totalLength += utf8.RuneCountInString(item.Text)
		if f := a.extractor.lengthFormat(item.Text); f != "" {
			counts[f]++
		}
		counts[categorize(item.Text)]++
	}

	n := float64(len(items))
	best := -1.0
	for _, c := range categoryOrder {
		p := round4(float64(counts[c]) / n)
		mix.Proportions[c] = p
		if p > best {
			best = p
			mix.TopCategory = c
		}
	}
	mix.AverageLength = round2(float64(totalLength) / n)
	return mix
}

// categorize places text in the educational, promotional or general bucket.
// Educational keywords are checked first.
func categorize(text string) string {
	lower := strings.ToLower(text)
	if containsAny(lower, educationalKeywords) {
		return CategoryEducational
	}
	if containsAny(lower, promotionalKeywords) {
		return CategoryPromotional
	}
	return CategoryGeneral
}

func hashtagStrategy(items []models.ContentItem) models.HashtagStrategy {
	counts := make(map[string]int)
	total := 0
	for _, item := range items {
		for _, tag := range hashtagRegexp.FindAllString(item.Text, -1) {
			counts[strings.ToLower(tag)]++
			total++
		}
	}

	hs := models.HashtagStrategy{
		DistinctCount:    len(counts),
		TotalOccurrences: total,
		TopHashtags:      []models.HashtagCount{},
		DiversityRatio:   round4(float64(len(counts)) / maxFloat(float64(total), 1)),
	}
	if len(items) > 0 {
		hs.AveragePerPost = round2(float64(total) / float64(len(items)))
	}

	for tag, c := range counts {
		hs.TopHashtags = append(hs.TopHashtags, models.HashtagCount{Tag: tag, Count: c})
	}
	sort.Slice(hs.TopHashtags, func(i, j int) bool {
		if hs.TopHashtags[i].Count != hs.TopHashtags[j].Count {
			return hs.TopHashtags[i].Count > hs.TopHashtags[j].Count
		}
		return hs.TopHashtags[i].Tag < hs.TopHashtags[j].Tag
	})
	if len(hs.TopHashtags) > topHashtagLimit {
		hs.TopHashtags = hs.TopHashtags[:topHashtagLimit]
	}
	return hs
}

func platformDistribution(items []models.ContentItem) models.PlatformDistribution {
	pd := models.PlatformDistribution{Counts: make(map[string]int)}
	for _, item := range items {
		pd.Counts[item.Platform]++
	}

	names := make([]string, 0, len(pd.Counts))
	for name := range pd.Counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if pd.PrimaryPlatform == "" || pd.Counts[name] > pd.Counts[pd.PrimaryPlatform] {
			pd.PrimaryPlatform = name
		}
	}
	pd.MultiPlatform = len(pd.Counts) > 1
	return pd
}

// consistencyScore rates how evenly posts are spaced: 1 - stddev/mean of the
// gaps in days, clamped to [0, 1]. Too few posts yield the neutral 0.5.
func consistencyScore(dated []time.Time) float64 {
	if len(dated) < minConsistencyPosts {
		return neutralConsistency
	}

	gaps := make([]float64, 0, len(dated)-1)
	for i := 1; i < len(dated); i++ {
		gaps = append(gaps, dated[i].Sub(dated[i-1]).Hours()/24)
	}

	m := mean(gaps)
	if m == 0 {
		return 1
	}
	return round2(clamp(1-stddev(gaps)/m, 0, 1))
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
