package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"competitive-intel/models"
	"competitive-intel/utils"
)

func TestNormalize_NilStaysNil(t *testing.T) {
	n := NewNormalizer(utils.NewNopLogger())

	items, report := n.Normalize(nil)
	assert.Nil(t, items)
	assert.Equal(t, 0, report.Input)

	items, _ = n.Normalize([]models.RawContent{})
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestNormalize_DropsDuplicateIDs(t *testing.T) {
	n := NewNormalizer(utils.NewNopLogger())

	items, report := n.Normalize([]models.RawContent{
		{ID: strp("a"), Text: strp("first")},
		{ID: strp(" a "), Text: strp("again")},
		{Text: strp("no id")},
		{Text: strp("no id either")},
	})

	require.Len(t, items, 3)
	assert.Equal(t, "first", items[0].Text)
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, 3, report.Output)
}

func TestNormalize_FieldDefaults(t *testing.T) {
	n := NewNormalizer(utils.NewNopLogger())

	items, report := n.Normalize([]models.RawContent{{
		Content:  strp("  hello \n\t world  "),
		Platform: strp("  LinkedIn "),
		Topics:   []string{"Marketing", "marketing", " ", "SEO"},
		Likes:    f64(12),
	}, {
		Text: strp("bare"),
	}})

	require.Len(t, items, 2)
	assert.Equal(t, "hello world", items[0].Text)
	assert.Equal(t, "linkedin", items[0].Platform)
	assert.Equal(t, []string{"marketing", "seo"}, items[0].DeclaredTopics)
	assert.Equal(t, 12, items[0].Engagement.Likes)
	assert.Nil(t, items[0].PostedAt)

	assert.Equal(t, "unknown", items[1].Platform)
	assert.False(t, items[1].HasEngagement())
	assert.Equal(t, 0, report.Malformed)
}

func TestNormalize_MalformedFieldsRecovered(t *testing.T) {
	n := NewNormalizer(utils.NewNopLogger())

	items, report := n.Normalize([]models.RawContent{
		{Text: strp("negative likes"), Likes: f64(-4), Shares: f64(3)},
		{Text: strp("bad time"), PostedAt: "last tuesday"},
		{Text: strp("bad type"), PostedAt: true},
	})

	require.Len(t, items, 3)
	assert.Equal(t, 3, report.Malformed)
	assert.Equal(t, 0, items[0].Engagement.Likes)
	assert.Equal(t, 3, items[0].Engagement.Shares)
	assert.Nil(t, items[1].PostedAt)
	assert.Nil(t, items[2].PostedAt)
}

func TestNormalize_HugeCountsAreCapped(t *testing.T) {
	n := NewNormalizer(utils.NewNopLogger())

	items, report := n.Normalize([]models.RawContent{
		{Text: strp("viral"), Likes: f64(1e20)},
		{Text: strp("two huge"), Likes: f64(6e18), Shares: f64(6e18)},
		{Text: strp("infinite"), Comments: f64(math.Inf(1))},
	})

	require.Len(t, items, 3)
	assert.Equal(t, 3, report.Malformed)
	assert.Equal(t, math.MaxInt32, items[0].Engagement.Likes)
	for _, item := range items {
		assert.True(t, item.HasEngagement(), item.Text)
		assert.Positive(t, item.Engagement.Total(), item.Text)
	}
	assert.Equal(t, 2*math.MaxInt32, items[1].Engagement.Total())
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input any
	}{
		{"rfc3339", "2024-01-15T10:30:00Z"},
		{"offset", "2024-01-15T12:30:00+02:00"},
		{"space separated", "2024-01-15 10:30:00"},
		{"unix seconds", float64(want.Unix())},
		{"unix millis", float64(want.UnixMilli())},
		{"unix string", "1705314600"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseTimestamp(tt.input)
			require.True(t, ok)
			require.NotNil(t, got)
			assert.True(t, want.Equal(*got), "got %v", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseTimestamp_AbsentIsNotMalformed(t *testing.T) {
	got, ok := parseTimestamp(nil)
	assert.Nil(t, got)
	assert.True(t, ok)

	got, ok = parseTimestamp("   ")
	assert.Nil(t, got)
	assert.True(t, ok)
}

func TestNormalizeRequest(t *testing.T) {
	n := NewNormalizer(utils.NewNopLogger())

	req := n.NormalizeRequest(models.RawAnalysisRequest{
		SubjectID:         " acme ",
		CompetitorID:      "globex",
		Mode:              " content_gap ",
		CompetitorContent: []models.RawContent{{Text: strp("marketing tips")}},
	})

	assert.Equal(t, "acme", req.SubjectID)
	assert.Equal(t, models.ModeContentGap, req.Mode)
	assert.Len(t, req.CompetitorContentItems, 1)
	assert.Nil(t, req.UserContentItems)
}

func TestNormalizeRequest_ModeIsCaseSensitive(t *testing.T) {
	n := NewNormalizer(utils.NewNopLogger())

	req := n.NormalizeRequest(models.RawAnalysisRequest{Mode: "SENTIMENT"})
	assert.Equal(t, models.Mode("SENTIMENT"), req.Mode)

	req.CompetitorContentItems = []models.ContentItem{}
	_, _, err := newTestEngine(false).Analyze(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnsupportedMode)
}
