package models

import "time"

// RawContent holds one post as delivered by the collector, before any
// normalisation. Every field may be missing or null.
type RawContent struct {
	ID          *string  `json:"id"`
	Text        *string  `json:"text"`
	Content     *string  `json:"content"`
	Platform    *string  `json:"platform"`
	PostedAt    any      `json:"posted_at"`
	Likes       *float64 `json:"likes"`
	Comments    *float64 `json:"comments"`
	Shares      *float64 `json:"shares"`
	Topics      []string `json:"topics"`
	ContentType *string  `json:"content_type"`
	MediaURLs   []string `json:"media_urls"`
}

// Engagement counts for a single item. All values are non-negative.
type Engagement struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Shares   int `json:"shares"`
}

// Total is likes + comments + shares.
func (e Engagement) Total() int {
	return e.Likes + e.Comments + e.Shares
}

// ContentItem is the normalised unit of analysis.
type ContentItem struct {
	ID             string     `json:"id,omitempty"`
	Text           string     `json:"text"`
	PostedAt       *time.Time `json:"posted_at,omitempty"`
	Platform       string     `json:"platform"`
	Engagement     Engagement `json:"engagement"`
	DeclaredTopics []string   `json:"declared_topics,omitempty"`
	ContentType    string     `json:"content_type,omitempty"`
	MediaURLs      []string   `json:"media_urls,omitempty"`
}

// HasEngagement reports whether the item carries any engagement signal.
// Items whose counts are all zero are treated as having no engagement data.
func (c ContentItem) HasEngagement() bool {
	return c.Engagement.Total() > 0
}

// HasTimestamp reports whether the item can take part in time-ordered computations.
func (c ContentItem) HasTimestamp() bool {
	return c.PostedAt != nil
}
