package news

import (
	"fmt"
	"strings"
	"time"
)

const (
	EditionMorning = "morning"
	EditionMidday  = "midday"
	EditionEvening = "evening"
)

type Section struct {
	Title string
	Lines []string
}

type Script struct {
	Title    string
	Edition  string
	Date     time.Time
	Sections []Section
	Sources  []string
	// EstimatedDuration is minutes of speech at anchor pace.
	EstimatedDuration int
}

// BuildScript assembles the anchor copy for one edition. The text is
// deterministic given the headlines: greeting, one section per category,
// sign-off.
func BuildScript(headlines map[Category][]Headline, edition string, now time.Time) *Script {
	dateStr := now.Format("Monday, January 2, 2006")

	greeting := "Good evening"
	switch edition {
	case EditionMorning:
		greeting = "Good morning"
	case EditionMidday:
		greeting = "Good afternoon"
	}

	s := &Script{
		Title:   fmt.Sprintf("Daily Briefing - %s %s", dateStr, editionSuffix(edition)),
		Edition: edition,
		Date:    now,
	}

	intro := Section{
		Title: "Intro",
		Lines: []string{
			fmt.Sprintf("%s, and welcome to your Drive Time Tales Daily Briefing for %s.", greeting, dateStr),
			"Here is what you need to know before you hit the road.",
		},
	}
	s.Sections = append(s.Sections, intro)

	seenSources := map[string]bool{}
	for _, cat := range Categories {
		stories := headlines[cat]
		if len(stories) == 0 {
			continue
		}
		sec := Section{Title: cat.Label()}
		sec.Lines = append(sec.Lines, fmt.Sprintf("Now, %s.", strings.ToLower(cat.Label())))
		for _, h := range stories {
			line := h.Title
			if summary := cleanSummary(h.Summary); summary != "" {
				line = fmt.Sprintf("%s. %s", strings.TrimSuffix(h.Title, "."), summary)
			}
			sec.Lines = append(sec.Lines, line)
			if !seenSources[h.Source] {
				seenSources[h.Source] = true
				s.Sources = append(s.Sources, h.Source)
			}
		}
		s.Sections = append(s.Sections, sec)
	}

	outro := Section{
		Title: "Outro",
		Lines: []string{
			"That's your briefing. Drive safe, and we'll see you next time on Drive Time Tales.",
		},
	}
	s.Sections = append(s.Sections, outro)

	s.EstimatedDuration = estimateMinutes(s.PlainText())
	return s
}

// PlainText flattens the script for the TTS engine.
func (s *Script) PlainText() string {
	var b strings.Builder
	for _, sec := range s.Sections {
		for _, line := range sec.Lines {
			b.WriteString(line)
			b.WriteString("\n\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func editionSuffix(edition string) string {
	switch edition {
	case EditionMorning:
		return "AM"
	case EditionEvening:
		return "PM"
	}
	return "Midday"
}

// cleanSummary trims RSS descriptions down to something readable aloud.
// Markup-heavy or overlong summaries are dropped rather than mangled.
func cleanSummary(summary string) string {
	summary = strings.TrimSpace(summary)
	if summary == "" || strings.Contains(summary, "<") {
		return ""
	}
	const maxLen = 280
	if len(summary) > maxLen {
		if idx := strings.LastIndex(summary[:maxLen], ". "); idx > 0 {
			return summary[:idx+1]
		}
		return ""
	}
	return summary
}

// estimateMinutes assumes anchor pace of roughly 150 words per minute.
func estimateMinutes(text string) int {
	words := len(strings.Fields(text))
	mins := (words + 149) / 150
	if mins < 1 {
		mins = 1
	}
	return mins
}
