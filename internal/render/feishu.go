package render

import (
	"fmt"
	"strings"
	"time"

	"duewatch/internal/i18n"
	"duewatch/internal/tracker"
)

// FeishuMessage is an interactive-card bot message.
type FeishuMessage struct {
	MsgType string     `json:"msg_type"`
	Card    FeishuCard `json:"card"`
}

type FeishuCard struct {
	Config   FeishuCardConfig `json:"config"`
	Header   FeishuCardHeader `json:"header"`
	Elements []FeishuElement  `json:"elements"`
}

type FeishuCardConfig struct {
	WideScreenMode bool `json:"wide_screen_mode"`
	EnableForward  bool `json:"enable_forward"`
}

type FeishuCardHeader struct {
	Title    FeishuText `json:"title"`
	Template string     `json:"template"`
}

type FeishuText struct {
	Tag     string `json:"tag"`
	Content string `json:"content"`
}

type FeishuElement struct {
	Tag  string     `json:"tag"`
	Text FeishuText `json:"text"`
}

type feishuRenderer struct{}

func (feishuRenderer) Render(issues []tracker.Issue, now time.Time, lang i18n.Lang) any {
	lines := make([]string, 0, len(issues))
	for _, issue := range issues {
		f := formatIssue(issue, now, lang)
		lines = append(lines, fmt.Sprintf("• **<u>[%s](%s)</u>** - %s \n 📅 %s | 👤 %s | 🎯 %s | 📊 %s",
			issue.Key, issue.Link, issue.Summary, f.Due, f.Assignee, f.Priority, f.Status))
	}

	content := i18n.T(lang, "issuesRequireAttention", countParam(len(issues))) + "\n\n" + strings.Join(lines, "\n")

	return FeishuMessage{
		MsgType: "interactive",
		Card: FeishuCard{
			Config: FeishuCardConfig{WideScreenMode: true, EnableForward: true},
			Header: FeishuCardHeader{
				Title:    FeishuText{Tag: "plain_text", Content: i18n.T(lang, "reminderTitle", nil)},
				Template: "blue",
			},
			Elements: []FeishuElement{{
				Tag:  "div",
				Text: FeishuText{Tag: "lark_md", Content: content},
			}},
		},
	}
}
