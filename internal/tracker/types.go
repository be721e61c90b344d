package tracker

import "time"

// RawIssue is one issue as returned by the tracker search endpoint,
// before normalization.
type RawIssue struct {
	Key    string    `json:"key"`
	Fields RawFields `json:"fields"`
}

type RawFields struct {
	Summary  string     `json:"summary"`
	DueDate  string     `json:"duedate"` // "2006-01-02" or empty
	Updated  string     `json:"updated"` // RFC3339-ish tracker timestamp
	Status   *NamedRef  `json:"status"`
	Priority *NamedRef  `json:"priority"`
	Assignee *PersonRef `json:"assignee"`
}

type NamedRef struct {
	Name string `json:"name"`
}

type PersonRef struct {
	DisplayName string `json:"displayName"`
}

// searchResponse is the wire shape of the enhanced search endpoint.
type searchResponse struct {
	Issues []RawIssue `json:"issues"`
	Total  int        `json:"total"`
}

// Issue is the canonical normalized record produced from a RawIssue.
// Immutable once created; lives for a single orchestration run.
type Issue struct {
	Key      string
	Summary  string
	Status   string    // empty = unknown
	Priority string    // empty = not set
	Assignee string    // empty = unassigned
	DueDate  time.Time // zero = no due date
	Updated  time.Time // zero = unknown
	Link     string
}

// HasDueDate reports whether the issue carries a due date.
func (i Issue) HasDueDate() bool { return !i.DueDate.IsZero() }
