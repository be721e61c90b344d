// Package i18n holds the notification string tables. English and Simplified
// Chinese are supported; unknown languages and missing keys fall back to
// English, and as a last resort the key itself.
package i18n

import "strings"

// Lang is a supported language code.
type Lang string

const (
	LangEN Lang = "en"
	LangZH Lang = "zh"
)

// ParseLang maps a configured language value to a supported Lang.
// Any "zh*" locale selects Chinese; everything else is English.
func ParseLang(s string) Lang {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "zh") {
		return LangZH
	}
	return LangEN
}

var tables = map[Lang]map[string]string{
	LangEN: {
		"reminderTitle":          "🔔 Jira Issue Reminder",
		"issuesRequireAttention": "You have {count} Jira issue(s) that require attention:",
		"issuesUpcoming":         "You have {count} Jira issue(s) with approaching due dates:",
		"issuesAttentionSection": "📋 Issues Requiring Attention",

		"unassigned": "Unassigned",
		"notSet":     "Not set",
		"unknown":    "Unknown",
		"assignee":   "Assignee",
		"priority":   "Priority",
		"status":     "Status",

		"overdueBy": "Overdue by {days} day(s)",
		"dueToday":  "Due today",
		"dueInDays": "Due in {days} day(s)",
		"noDueDate": "No due date",
	},
	LangZH: {
		"reminderTitle":          "🔔 Jira 问题提醒",
		"issuesRequireAttention": "您有 {count} 个 Jira 问题需要关注：",
		"issuesUpcoming":         "您有 {count} 个 Jira 问题即将到期：",
		"issuesAttentionSection": "📋 需要关注的问题",

		"unassigned": "未分配",
		"notSet":     "未设置",
		"unknown":    "未知",
		"assignee":   "负责人",
		"priority":   "优先级",
		"status":     "状态",

		"overdueBy": "已逾期 {days} 天",
		"dueToday":  "今天到期",
		"dueInDays": "{days} 天后到期",
		"noDueDate": "无截止日期",
	},
}

// T looks up key in the lang table and substitutes {param} placeholders.
func T(lang Lang, key string, params map[string]string) string {
	s, ok := tables[lang][key]
	if !ok {
		s, ok = tables[LangEN][key]
		if !ok {
			s = key
		}
	}
	for k, v := range params {
		s = strings.ReplaceAll(s, "{"+k+"}", v)
	}
	return s
}
