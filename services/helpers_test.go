package services

import (
	"time"

	"competitive-intel/models"
	"competitive-intel/utils"
)

var testBase = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

func strp(s string) *string { return &s }

func f64(v float64) *float64 { return &v }

func at(t time.Time) *time.Time { return &t }

func post(text string, likes, comments, shares int) models.ContentItem {
	return models.ContentItem{
		Text:       text,
		Platform:   "twitter",
		Engagement: models.Engagement{Likes: likes, Comments: comments, Shares: shares},
	}
}

func datedPost(text string, when time.Time, likes int) models.ContentItem {
	item := post(text, likes, 0, 0)
	item.PostedAt = at(when)
	return item
}

func newTestEngine(parallel bool) *Engine {
	opts := DefaultEngineOptions()
	opts.Parallel = parallel
	return NewEngine(opts, utils.NewNopLogger())
}

func testExtractor() *Extractor {
	opts := DefaultEngineOptions()
	return NewExtractor(opts.TopicKeywords, opts.LongFormThreshold, opts.ShortFormThreshold)
}
