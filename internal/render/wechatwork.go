package render

import (
	"fmt"
	"strings"
	"time"

	"duewatch/internal/i18n"
	"duewatch/internal/tracker"
)

// wechatMaxContentBytes is the bot API's hard ceiling on markdown content.
// Oversized digests are truncated at an issue boundary, never rejected.
const wechatMaxContentBytes = 4096

const wechatEllipsis = "\n..."

// WeChatWorkMessage is a group-bot markdown message.
type WeChatWorkMessage struct {
	MsgType  string             `json:"msgtype"`
	Markdown WeChatWorkMarkdown `json:"markdown"`
}

type WeChatWorkMarkdown struct {
	Content string `json:"content"`
}

type wechatWorkRenderer struct{}

func (wechatWorkRenderer) Render(issues []tracker.Issue, now time.Time, lang i18n.Lang) any {
	var b strings.Builder
	b.WriteString("## " + i18n.T(lang, "reminderTitle", nil) + "\n")
	b.WriteString(i18n.T(lang, "issuesRequireAttention", countParam(len(issues))) + "\n")

	truncated := false
	for _, issue := range issues {
		f := formatIssue(issue, now, lang)
		entry := fmt.Sprintf("\n> **[%s](%s)** - %s\n> 📅 %s | 👤 %s | 🎯 %s | 📊 %s",
			issue.Key, issue.Link, issue.Summary, f.Due, f.Assignee, f.Priority, f.Status)
		if b.Len()+len(entry)+len(wechatEllipsis) > wechatMaxContentBytes {
			truncated = true
			break
		}
		b.WriteString(entry)
	}
	if truncated {
		b.WriteString(wechatEllipsis)
	}

	return WeChatWorkMessage{
		MsgType:  "markdown",
		Markdown: WeChatWorkMarkdown{Content: b.String()},
	}
}
