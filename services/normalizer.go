package services

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"competitive-intel/models"
	"competitive-intel/utils"
)

const unknownPlatform = "unknown"

// maxCount caps a single engagement counter so the sum of three stays well
// inside int.
const maxCount = math.MaxInt32

// timestampLayouts are tried in order when parsing string timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizeReport counts what happened to a corpus during normalisation.
type NormalizeReport struct {
	Input      int
	Output     int
	Duplicates int
	Malformed  int
}

// Normalizer transforms raw content records into ContentItems.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// NormalizeRequest converts a wire request into an engine request. Absent
// corpora stay nil so the engine can tell them apart from empty ones.
func (n *Normalizer) NormalizeRequest(raw models.RawAnalysisRequest) models.AnalysisRequest {
	competitor, _ := n.Normalize(raw.CompetitorContent)
	user, _ := n.Normalize(raw.UserContent)

	return models.AnalysisRequest{
		SubjectID:              strings.TrimSpace(raw.SubjectID),
		CompetitorID:           strings.TrimSpace(raw.CompetitorID),
		Mode:                   models.Mode(strings.TrimSpace(raw.Mode)),
		CompetitorContentItems: competitor,
		UserContentItems:       user,
	}
}

// Normalize processes raw records and returns clean items. Malformed fields are
// replaced with safe defaults; the batch never fails.
func (n *Normalizer) Normalize(raw []models.RawContent) ([]models.ContentItem, NormalizeReport) {
	report := NormalizeReport{Input: len(raw)}
	if raw == nil {
		return nil, report
	}

	seen := make(map[string]struct{})
	result := make([]models.ContentItem, 0, len(raw))

	for i, r := range raw {
		id := strings.TrimSpace(deref(r.ID))
		if id != "" {
			if _, dup := seen[id]; dup {
				n.logger.Debug("[normalizer] Duplicate item skipped: %s", id)
				report.Duplicates++
				continue
			}
			seen[id] = struct{}{}
		}

		item, malformed := n.normalizeOne(r)
		item.ID = id
		if malformed {
			report.Malformed++
			malformedItemsTotal.Inc()
			n.logger.Warn("[normalizer] Item %d (%q) had malformed fields, defaults substituted", i, id)
		}
		result = append(result, item)
	}

	report.Output = len(result)
	n.logger.Debug("[normalizer] Normalised %d → %d items (duplicates %d, malformed %d)",
		report.Input, report.Output, report.Duplicates, report.Malformed)
	return result, report
}

func (n *Normalizer) normalizeOne(r models.RawContent) (models.ContentItem, bool) {
	malformed := false

	text := deref(r.Text)
	if text == "" {
		text = deref(r.Content)
	}

	postedAt, ok := parseTimestamp(r.PostedAt)
	if !ok {
		malformed = true
	}

	likes, okL := parseCount(r.Likes)
	comments, okC := parseCount(r.Comments)
	shares, okS := parseCount(r.Shares)
	if !okL || !okC || !okS {
		malformed = true
	}

	return models.ContentItem{
		Text:           normaliseText(text),
		PostedAt:       postedAt,
		Platform:       normalisePlatform(deref(r.Platform)),
		Engagement:     models.Engagement{Likes: likes, Comments: comments, Shares: shares},
		DeclaredTopics: normaliseTopics(r.Topics),
		ContentType:    strings.TrimSpace(deref(r.ContentType)),
		MediaURLs:      nonEmpty(r.MediaURLs),
	}, malformed
}

// parseTimestamp accepts RFC3339-style strings, plain dates and unix seconds
// (or milliseconds). The bool is false when a value was present but unusable.
func parseTimestamp(v any) (*time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return nil, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, true
		}
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				parsed = parsed.UTC()
				return &parsed, true
			}
		}
		if secs, err := strconv.ParseFloat(s, 64); err == nil {
			return unixTime(secs)
		}
		return nil, false
	case float64:
		return unixTime(t)
	case int64:
		return unixTime(float64(t))
	case int:
		return unixTime(float64(t))
	default:
		return nil, false
	}
}

func unixTime(v float64) (*time.Time, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return nil, false
	}
	// Values this large are milliseconds.
	if v > 1e12 {
		v /= 1000
	}
	sec, frac := math.Modf(v)
	parsed := time.Unix(int64(sec), int64(frac*1e9)).UTC()
	return &parsed, true
}

func parseCount(v *float64) (int, bool) {
	if v == nil {
		return 0, true
	}
	if math.IsNaN(*v) || *v < 0 {
		return 0, false
	}
	if *v > maxCount {
		return maxCount, false
	}
	return int(*v), true
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

func normalisePlatform(s string) string {
	p := strings.ToLower(strings.TrimSpace(s))
	if p == "" {
		return unknownPlatform
	}
	return p
}

func normaliseTopics(topics []string) []string {
	if len(topics) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(topics))
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
