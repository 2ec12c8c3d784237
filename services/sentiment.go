package services

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"competitive-intel/models"
)

// sentimentThreshold separates the neutral band from positive/negative, and
// also separates a stable trend from a moving one.
const sentimentThreshold = 0.1

var positiveWords = toSet([]string{
	"good", "great", "excellent", "amazing", "awesome", "love", "loved", "best",
	"happy", "fantastic", "wonderful", "perfect", "success", "successful", "win",
	"winning", "excited", "exciting", "brilliant", "incredible", "beautiful",
	"thanks", "thank", "grateful", "proud", "easy", "helpful", "impressive",
	"innovative", "outstanding", "powerful", "improve", "improved", "growth",
})

var negativeWords = toSet([]string{
	"bad", "terrible", "awful", "horrible", "hate", "worst", "poor", "sad",
	"angry", "disappointed", "disappointing", "fail", "failed", "failure",
	"problem", "problems", "issue", "issues", "broken", "difficult", "hard",
	"frustrating", "frustrated", "annoying", "wrong", "slow", "expensive",
	"scam", "useless", "worse", "crisis", "loss", "risk",
})

// SentimentAnalyzer scores content with a fixed word-list heuristic.
type SentimentAnalyzer struct{}

// NewSentimentAnalyzer creates a SentimentAnalyzer.
func NewSentimentAnalyzer() *SentimentAnalyzer {
	return &SentimentAnalyzer{}
}

// Score returns the polarity of a single text in [-1, 1]. Tokens are split on
// whitespace, lower-cased and stripped of surrounding punctuation before
// exact lexicon lookup.
func (a *SentimentAnalyzer) Score(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	var pos, neg int
	for _, w := range words {
		token := strings.ToLower(strings.TrimFunc(w, unicode.IsPunct))
		if _, ok := positiveWords[token]; ok {
			pos++
		}
		if _, ok := negativeWords[token]; ok {
			neg++
		}
	}

	score := float64(pos-neg) / math.Max(float64(len(words))/10, 1)
	return clamp(score, -1, 1)
}

// Analyze computes the aggregate sentiment posture of a corpus.
func (a *SentimentAnalyzer) Analyze(items []models.ContentItem) *models.SentimentAnalysis {
	result := &models.SentimentAnalysis{
		OverallSentiment: models.SentimentNeutral,
		ItemCount:        len(items),
		Trend:            models.SentimentTrend{Direction: models.TrendStable},
	}
	if len(items) == 0 {
		return result
	}

	scores := make([]float64, len(items))
	var sum float64
	for i, item := range items {
		s := a.Score(item.Text)
		scores[i] = s
		sum += s

		switch label(s) {
		case models.SentimentPositive:
			result.Distribution.Positive++
		case models.SentimentNegative:
			result.Distribution.Negative++
		default:
			result.Distribution.Neutral++
		}
	}

	result.AverageScore = round4(sum / float64(len(items)))
	result.OverallSentiment = label(sum / float64(len(items)))
	result.Trend = sentimentTrend(items, scores)
	result.EngagementCorrelation = round4(engagementCorrelation(items, scores))
	return result
}

func label(score float64) string {
	switch {
	case score > sentimentThreshold:
		return models.SentimentPositive
	case score < -sentimentThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// sentimentTrend compares the newest third of timestamped posts with the
// oldest third. The third is rounded up so a partial third counts as recent.
func sentimentTrend(items []models.ContentItem, scores []float64) models.SentimentTrend {
	type scored struct {
		item  models.ContentItem
		score float64
	}

	var dated []scored
	for i, item := range items {
		if item.HasTimestamp() {
			dated = append(dated, scored{item, scores[i]})
		}
	}

	trend := models.SentimentTrend{Direction: models.TrendStable}
	if len(dated) == 0 {
		return trend
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].item.PostedAt.Before(*dated[j].item.PostedAt)
	})

	size := (len(dated) + 2) / 3
	var older, recent float64
	for _, d := range dated[:size] {
		older += d.score
	}
	for _, d := range dated[len(dated)-size:] {
		recent += d.score
	}
	older /= float64(size)
	recent /= float64(size)

	trend.OlderAverage = round4(older)
	trend.RecentAverage = round4(recent)
	switch diff := recent - older; {
	case diff > sentimentThreshold:
		trend.Direction = models.TrendIncreasing
	case diff < -sentimentThreshold:
		trend.Direction = models.TrendDecreasing
	}
	return trend
}

// engagementCorrelation is the Pearson coefficient between sentiment and total
// engagement over items that carry both text and engagement. It is 0 with
// fewer than three such items or zero variance on either side.
func engagementCorrelation(items []models.ContentItem, scores []float64) float64 {
	var xs, ys []float64
	for i, item := range items {
		if item.Text == "" || !item.HasEngagement() {
			continue
		}
		xs = append(xs, scores[i])
		ys = append(ys, float64(item.Engagement.Total()))
	}
	return pearson(xs, ys)
}

func pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n < 3 || n != len(ys) {
		return 0
	}

	mx, my := mean(xs), mean(ys)
	var cov, vx, vy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0
	}
	r := cov / math.Sqrt(vx*vy)
	if math.IsNaN(r) {
		return 0
	}
	return clamp(r, -1, 1)
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
