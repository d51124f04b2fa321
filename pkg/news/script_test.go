package news

import (
	"strings"
	"testing"
	"time"
)

func sampleHeadlines() map[Category][]Headline {
	return map[Category][]Headline{
		CategoryNational: {
			{Title: "Interstate reopens after repairs", Summary: "Crews finished ahead of schedule.", Source: "NPR News"},
		},
		CategoryBusiness: {
			{Title: "Fuel prices dip for third week", Source: "CNBC"},
		},
	}
}

func TestBuildScriptGreetings(t *testing.T) {
	now := time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC)

	tests := []struct {
		edition string
		want    string
	}{
		{EditionMorning, "Good morning"},
		{EditionMidday, "Good afternoon"},
		{EditionEvening, "Good evening"},
	}

	for _, tt := range tests {
		s := BuildScript(sampleHeadlines(), tt.edition, now)
		text := s.PlainText()
		if !strings.HasPrefix(text, tt.want) {
			t.Errorf("%s edition: script starts with %q, want %q", tt.edition, text[:20], tt.want)
		}
	}
}

func TestBuildScriptSections(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	s := BuildScript(sampleHeadlines(), EditionMidday, now)

	// Intro + two populated categories + outro. Empty categories are skipped.
	if len(s.Sections) != 4 {
		t.Fatalf("sections = %d, want 4", len(s.Sections))
	}
	if s.Sections[0].Title != "Intro" {
		t.Errorf("first section = %q", s.Sections[0].Title)
	}
	if s.Sections[1].Title != "National News" {
		t.Errorf("second section = %q, categories must keep on-air order", s.Sections[1].Title)
	}
	if s.Sections[len(s.Sections)-1].Title != "Outro" {
		t.Errorf("last section = %q", s.Sections[len(s.Sections)-1].Title)
	}

	if len(s.Sources) != 2 {
		t.Errorf("sources = %v, want the two distinct feeds", s.Sources)
	}
	if s.EstimatedDuration < 1 {
		t.Errorf("estimated duration = %d, want >= 1", s.EstimatedDuration)
	}
	if !strings.Contains(s.Title, "Monday, September 1, 2026") {
		t.Errorf("title = %q, want the spoken date", s.Title)
	}
}

func TestPlainTextJoinsLines(t *testing.T) {
	s := &Script{
		Sections: []Section{
			{Title: "A", Lines: []string{"one", "two"}},
			{Title: "B", Lines: []string{"three"}},
		},
	}
	text := s.PlainText()
	if text != "one\n\ntwo\n\nthree" {
		t.Errorf("PlainText = %q", text)
	}
}

func TestCleanSummary(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Short and readable.", "Short and readable."},
		{"markup dropped", "Read <a href='x'>more</a>", ""},
		{"empty", "   ", ""},
		{"overlong cut at sentence", strings.Repeat("Sentence here. ", 30), strings.TrimSpace(strings.Repeat("Sentence here. ", 18))},
	}
	for _, tt := range tests {
		if got := cleanSummary(tt.in); got != tt.want {
			t.Errorf("%s: cleanSummary = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestEstimateMinutes(t *testing.T) {
	if got := estimateMinutes("just a few words"); got != 1 {
		t.Errorf("short text = %d, want 1", got)
	}
	long := strings.Repeat("word ", 450)
	if got := estimateMinutes(long); got != 3 {
		t.Errorf("450 words = %d, want 3", got)
	}
}

func TestCategoryLabel(t *testing.T) {
	if got := CategoryBusiness.Label(); got != "Business and Finance" {
		t.Errorf("label = %q", got)
	}
	if got := Category("weird").Label(); got != "weird" {
		t.Errorf("unknown category label = %q", got)
	}
}
