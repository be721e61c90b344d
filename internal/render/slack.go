package render

import (
	"fmt"
	"time"

	"duewatch/internal/i18n"
	"duewatch/internal/tracker"
)

// SlackMessage is a Block Kit webhook payload.
type SlackMessage struct {
	Blocks []SlackBlock `json:"blocks"`
}

type SlackBlock struct {
	Type string     `json:"type"`
	Text *SlackText `json:"text,omitempty"`
}

type SlackText struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

type slackRenderer struct{}

func (slackRenderer) Render(issues []tracker.Issue, now time.Time, lang i18n.Lang) any {
	blocks := make([]SlackBlock, 0, len(issues)+3)
	blocks = append(blocks,
		SlackBlock{
			Type: "header",
			Text: &SlackText{Type: "plain_text", Text: i18n.T(lang, "reminderTitle", nil), Emoji: true},
		},
		SlackBlock{
			Type: "section",
			Text: &SlackText{Type: "mrkdwn", Text: i18n.T(lang, "issuesRequireAttention", countParam(len(issues)))},
		},
		SlackBlock{Type: "divider"},
	)

	for _, issue := range issues {
		f := formatIssue(issue, now, lang)
		blocks = append(blocks, SlackBlock{
			Type: "section",
			Text: &SlackText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*<%s|%s>* - %s\n📅 %s | 👤 %s | 🎯 %s | 📊 %s",
					issue.Link, issue.Key, issue.Summary, f.Due, f.Assignee, f.Priority, f.Status),
			},
		})
	}

	return SlackMessage{Blocks: blocks}
}
