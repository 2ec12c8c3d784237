package models

import (
	"testing"
	"time"
)

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		got, err := ParseMode(string(m))
		if err != nil || got != m {
			t.Errorf("ParseMode(%q): got %q, %v", m, got, err)
		}
	}
	if _, err := ParseMode("vibes"); err == nil {
		t.Error("ParseMode(vibes): expected error")
	}
}

func TestRequiresUserCorpus(t *testing.T) {
	want := map[Mode]bool{
		ModeContentGap:    true,
		ModeSentiment:     false,
		ModeStrategy:      false,
		ModePerformance:   false,
		ModeComprehensive: true,
	}
	for m, w := range want {
		if got := m.RequiresUserCorpus(); got != w {
			t.Errorf("%s.RequiresUserCorpus: got %v, want %v", m, got, w)
		}
	}
}

func TestContentItemSignals(t *testing.T) {
	var item ContentItem
	if item.HasEngagement() || item.HasTimestamp() {
		t.Fatal("zero item should carry no signals")
	}

	now := time.Now()
	item.PostedAt = &now
	item.Engagement = Engagement{Shares: 1}
	if !item.HasEngagement() || !item.HasTimestamp() {
		t.Errorf("expected engagement and timestamp, got %+v", item)
	}
	if got := (Engagement{Likes: 2, Comments: 3, Shares: 4}).Total(); got != 9 {
		t.Errorf("Total: got %d, want 9", got)
	}
}
