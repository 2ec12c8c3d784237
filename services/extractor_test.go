package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"competitive-intel/models"
)

func TestExtractTopics_UnionsDeclaredAndKeywords(t *testing.T) {
	e := testExtractor()

	topics := e.ExtractTopics([]models.ContentItem{
		{Text: "Our Marketing playbook for Social Media"},
		{Text: "", DeclaredTopics: []string{"seo"}},
	})

	assert.Equal(t, []string{"marketing", "seo", "social media"}, sortedKeys(topics))
}

func TestExtractTopics_Empty(t *testing.T) {
	assert.Empty(t, testExtractor().ExtractTopics(nil))
}

func TestExtractFormats(t *testing.T) {
	e := testExtractor()

	formats := e.ExtractFormats([]models.ContentItem{
		{Text: "short", MediaURLs: []string{"https://cdn.example.com/a.png"}},
		{Text: strings.Repeat("x", 501)},
		{Text: strings.Repeat("y", 300), ContentType: "video"},
	})

	assert.Equal(t, []string{"image", "long_form", "short_form", "video"}, sortedKeys(formats))
}

func TestLengthFormat_CountsRunes(t *testing.T) {
	e := NewExtractor(nil, 10, 5)

	assert.Equal(t, FormatShortForm, e.lengthFormat("héllo"))
	assert.Equal(t, "", e.lengthFormat("ünïcödé"))
	assert.Equal(t, FormatLongForm, e.lengthFormat("ééééééééééé"))
}
