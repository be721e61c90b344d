package render

import (
	"testing"
	"time"

	"duewatch/internal/i18n"
	"duewatch/internal/tracker"
)

var testNow = time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

func dueOn(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDuePhrase(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		due  time.Time
		lang i18n.Lang
		want string
	}{
		{name: "overdue one day", due: dueOn(2025, 6, 9), lang: i18n.LangEN, want: "Overdue by 1 day(s)"},
		{name: "overdue many", due: dueOn(2025, 5, 31), lang: i18n.LangEN, want: "Overdue by 10 day(s)"},
		{name: "due today", due: dueOn(2025, 6, 10), lang: i18n.LangEN, want: "Due today"},
		{name: "due tomorrow", due: dueOn(2025, 6, 11), lang: i18n.LangEN, want: "Due in 1 day(s)"},
		{name: "due next week", due: dueOn(2025, 6, 17), lang: i18n.LangEN, want: "Due in 7 day(s)"},
		{name: "no due date", due: time.Time{}, lang: i18n.LangEN, want: "No due date"},
		{name: "zh overdue", due: dueOn(2025, 6, 8), lang: i18n.LangZH, want: "已逾期 2 天"},
		{name: "zh due today", due: dueOn(2025, 6, 10), lang: i18n.LangZH, want: "今天到期"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := DuePhrase(tt.due, testNow, tt.lang); got != tt.want {
				t.Fatalf("DuePhrase = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDuePhraseIgnoresTimeOfDay(t *testing.T) {
	t.Parallel()
	// Late in the evening, an issue due "today" is still due today, not in
	// a fraction of a day.
	lateNow := time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)
	if got := DuePhrase(dueOn(2025, 6, 10), lateNow, i18n.LangEN); got != "Due today" {
		t.Fatalf("DuePhrase = %q, want %q", got, "Due today")
	}
	if got := DuePhrase(dueOn(2025, 6, 11), lateNow, i18n.LangEN); got != "Due in 1 day(s)" {
		t.Fatalf("DuePhrase = %q, want %q", got, "Due in 1 day(s)")
	}
}

func TestFormatIssueFallbacks(t *testing.T) {
	t.Parallel()
	f := formatIssue(tracker.Issue{Key: "OPS-1", Summary: "bare"}, testNow, i18n.LangEN)
	if f.Assignee != "Unassigned" {
		t.Fatalf("Assignee = %q", f.Assignee)
	}
	if f.Priority != "Not set" {
		t.Fatalf("Priority = %q", f.Priority)
	}
	if f.Status != "Unknown" {
		t.Fatalf("Status = %q", f.Status)
	}
	if f.Due != "No due date" {
		t.Fatalf("Due = %q", f.Due)
	}

	zh := formatIssue(tracker.Issue{}, testNow, i18n.LangZH)
	if zh.Assignee != "未分配" || zh.Priority != "未设置" || zh.Status != "未知" {
		t.Fatalf("zh fallbacks: %+v", zh)
	}
}

func TestFormatIssuePopulated(t *testing.T) {
	t.Parallel()
	f := formatIssue(tracker.Issue{
		Key:      "OPS-2",
		Assignee: "Dana",
		Priority: "High",
		Status:   "Open",
		DueDate:  dueOn(2025, 6, 12),
	}, testNow, i18n.LangEN)
	if f.Assignee != "Dana" || f.Priority != "High" || f.Status != "Open" {
		t.Fatalf("unexpected fields: %+v", f)
	}
	if f.Due != "Due in 2 day(s)" {
		t.Fatalf("Due = %q", f.Due)
	}
}
