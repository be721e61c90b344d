package render

import (
	"strconv"
	"time"

	"duewatch/internal/i18n"
	"duewatch/internal/tracker"
)

// issueFields is the formatted field set shared by every platform envelope.
// Keeping this in one place is what stops the per-platform messages from
// drifting apart.
type issueFields struct {
	Due      string
	Assignee string
	Priority string
	Status   string
}

func formatIssue(issue tracker.Issue, now time.Time, lang i18n.Lang) issueFields {
	f := issueFields{
		Due:      DuePhrase(issue.DueDate, now, lang),
		Assignee: issue.Assignee,
		Priority: issue.Priority,
		Status:   issue.Status,
	}
	if f.Assignee == "" {
		f.Assignee = i18n.T(lang, "unassigned", nil)
	}
	if f.Priority == "" {
		f.Priority = i18n.T(lang, "notSet", nil)
	}
	if f.Status == "" {
		f.Status = i18n.T(lang, "unknown", nil)
	}
	return f
}

// DuePhrase renders a human due-date phrase relative to now's calendar day:
// "Overdue by N day(s)", "Due today", "Due in N day(s)", or "No due date"
// for the zero time. Day distance is measured midnight-to-midnight.
func DuePhrase(due time.Time, now time.Time, lang i18n.Lang) string {
	if due.IsZero() {
		return i18n.T(lang, "noDueDate", nil)
	}
	days := daysBetween(now, due)
	switch {
	case days < 0:
		return i18n.T(lang, "overdueBy", map[string]string{"days": strconv.Itoa(-days)})
	case days == 0:
		return i18n.T(lang, "dueToday", nil)
	default:
		return i18n.T(lang, "dueInDays", map[string]string{"days": strconv.Itoa(days)})
	}
}

func daysBetween(now, due time.Time) int {
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(n) / (24 * time.Hour))
}

func countParam(n int) map[string]string {
	return map[string]string{"count": strconv.Itoa(n)}
}
