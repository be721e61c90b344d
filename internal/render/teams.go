package render

import (
	"fmt"
	"time"

	"duewatch/internal/i18n"
	"duewatch/internal/tracker"
)

// TeamsMessage is the legacy MessageCard shape accepted by Teams incoming
// webhooks.
type TeamsMessage struct {
	Type       string         `json:"@type"`
	Context    string         `json:"@context"`
	ThemeColor string         `json:"themeColor"`
	Summary    string         `json:"summary"`
	Title      string         `json:"title"`
	Text       string         `json:"text"`
	Sections   []TeamsSection `json:"sections"`
}

type TeamsSection struct {
	ActivityTitle string      `json:"activityTitle"`
	Facts         []TeamsFact `json:"facts"`
	Markdown      bool        `json:"markdown"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type teamsRenderer struct{}

func (teamsRenderer) Render(issues []tracker.Issue, now time.Time, lang i18n.Lang) any {
	facts := make([]TeamsFact, 0, len(issues))
	for _, issue := range issues {
		f := formatIssue(issue, now, lang)
		facts = append(facts, TeamsFact{
			Name: fmt.Sprintf("**[%s](%s)** - %s", issue.Key, issue.Link, issue.Summary),
			Value: fmt.Sprintf("📅 %s\n👤 %s: %s\n🎯 %s: %s\n📊 %s: %s",
				f.Due,
				i18n.T(lang, "assignee", nil), f.Assignee,
				i18n.T(lang, "priority", nil), f.Priority,
				i18n.T(lang, "status", nil), f.Status),
		})
	}

	return TeamsMessage{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		ThemeColor: "007ACC",
		Summary:    fmt.Sprintf("Due Date Alert - %d issue(s) upcoming", len(issues)),
		Title:      i18n.T(lang, "reminderTitle", nil),
		Text:       i18n.T(lang, "issuesUpcoming", countParam(len(issues))),
		Sections: []TeamsSection{{
			ActivityTitle: i18n.T(lang, "issuesAttentionSection", nil),
			Facts:         facts,
			Markdown:      true,
		}},
	}
}
