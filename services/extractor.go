package services

import (
	"sort"
	"strings"
	"unicode/utf8"

	"competitive-intel/models"
)

// Format tags produced by the extractor.
const (
	FormatImage     = "image"
	FormatLongForm  = "long_form"
	FormatShortForm = "short_form"
)

// Extractor derives topic and format tags from content items. It is pure:
// the same items always yield the same sets.
type Extractor struct {
	keywords           []string
	longFormThreshold  int
	shortFormThreshold int
}

// NewExtractor creates an Extractor for the given keyword vocabulary and
// length thresholds (in characters).
func NewExtractor(keywords []string, longFormThreshold, shortFormThreshold int) *Extractor {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}
	return &Extractor{
		keywords:           lowered,
		longFormThreshold:  longFormThreshold,
		shortFormThreshold: shortFormThreshold,
	}
}

// ExtractTopics unions declared topics with vocabulary keywords found in the text.
func (e *Extractor) ExtractTopics(items []models.ContentItem) map[string]struct{} {
	topics := make(map[string]struct{})
	for _, item := range items {
		for _, t := range item.DeclaredTopics {
			topics[t] = struct{}{}
		}
		text := strings.ToLower(item.Text)
		if text == "" {
			continue
		}
		for _, k := range e.keywords {
			if strings.Contains(text, k) {
				topics[k] = struct{}{}
			}
		}
	}
	return topics
}

// ExtractFormats tags the corpus with the formats it uses.
func (e *Extractor) ExtractFormats(items []models.ContentItem) map[string]struct{} {
	formats := make(map[string]struct{})
	for _, item := range items {
		if len(item.MediaURLs) > 0 {
			formats[FormatImage] = struct{}{}
		}
		if f := e.lengthFormat(item.Text); f != "" {
			formats[f] = struct{}{}
		}
		if item.ContentType != "" {
			formats[item.ContentType] = struct{}{}
		}
	}
	return formats
}

// lengthFormat returns long_form, short_form or "" for text in between.
func (e *Extractor) lengthFormat(text string) string {
	n := utf8.RuneCountInString(text)
	switch {
	case n > e.longFormThreshold:
		return FormatLongForm
	case n <= e.shortFormThreshold:
		return FormatShortForm
	default:
		return ""
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
