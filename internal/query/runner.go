// Package query runs saved tracker searches and merges their results.
// Fan-in is partial-failure tolerant: one query's failure never aborts the
// others, and "nothing matched" is an empty result, not an error.
package query

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"duewatch/internal/relay"
	"duewatch/internal/tracker"
	"duewatch/pkg/logx"
)

// DefaultQuery is substituted when no saved query is configured: unresolved
// items due within 7 days, soonest first.
const DefaultQuery = "resolution = Unresolved AND duedate <= 7d AND duedate >= now() order by duedate ASC"

// PlaceholderHost is used for issue links when no site URL is configured,
// so a missing setting degrades to an obviously-wrong link instead of a
// failed run.
const PlaceholderHost = "jira-instance.example.com"

const (
	defaultMaxResults = 50
	maxResultsCap     = 100
	maxWorkers        = 4
)

// searchFields is the fixed field set requested from the tracker.
var searchFields = []string{"key", "summary", "duedate", "assignee", "status", "priority", "updated"}

// Runner executes saved queries through a Searcher and normalizes results.
type Runner struct {
	search     tracker.Searcher
	linkHost   string
	maxResults int
	log        logx.Logger
}

// NewRunner builds a Runner. siteURL may be empty; issue links then use
// PlaceholderHost. maxResults <=0 selects the default (50); values above
// the cap (100) are clamped.
func NewRunner(search tracker.Searcher, siteURL string, maxResults int, log logx.Logger) *Runner {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if maxResults > maxResultsCap {
		maxResults = maxResultsCap
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Runner{
		search:     search,
		linkHost:   hostFromSiteURL(siteURL),
		maxResults: maxResults,
		log:        log,
	}
}

func hostFromSiteURL(siteURL string) string {
	siteURL = strings.TrimSpace(siteURL)
	if siteURL == "" {
		return PlaceholderHost
	}
	u, err := url.Parse(siteURL)
	if err != nil || u.Hostname() == "" {
		return PlaceholderHost
	}
	return u.Hostname()
}

// Run executes every non-blank saved query and concatenates the normalized
// results in query declaration order (tracker order within each query).
// An empty or all-blank query list falls back to DefaultQuery. Failed
// queries are logged and skipped; results are never deduplicated across
// queries, since the output is a human-read digest.
func (r *Runner) Run(ctx context.Context, queries []relay.QuerySetting) []tracker.Issue {
	exprs := make([]string, 0, len(queries))
	for _, q := range queries {
		if s := Sanitize(q.Query); s != "" {
			exprs = append(exprs, s)
		}
	}
	if len(exprs) == 0 {
		exprs = []string{DefaultQuery}
	}

	// Each query fills its own slot; merged only after all complete.
	results := make([][]tracker.Issue, len(exprs))
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup
	for i, expr := range exprs {
		wg.Add(1)
		go func(i int, expr string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			issues, err := r.runOne(ctx, expr)
			if err != nil {
				r.log.Warn("query failed",
					logx.String("query", truncateQuery(expr)),
					logx.Err(err),
				)
				return
			}
			results[i] = issues
		}(i, expr)
	}
	wg.Wait()

	var merged []tracker.Issue
	for _, part := range results {
		merged = append(merged, part...)
	}
	return merged
}

// RunOne executes a single query and returns its normalized issues.
// Unlike Run, errors propagate so the manual test path can report them.
func (r *Runner) RunOne(ctx context.Context, expr string) ([]tracker.Issue, error) {
	if err := Validate(expr); err != nil {
		return nil, err
	}
	return r.runOne(ctx, Sanitize(expr))
}

func (r *Runner) runOne(ctx context.Context, expr string) (issues []tracker.Issue, err error) {
	// A misbehaving Searcher counts as a per-query failure, same as an error.
	defer func() {
		if rec := recover(); rec != nil {
			issues = nil
			err = fmt.Errorf("search panicked: %v", rec)
		}
	}()

	raw, err := r.search.Search(ctx, expr, r.maxResults, searchFields)
	if err != nil {
		return nil, err
	}
	out := make([]tracker.Issue, 0, len(raw))
	for _, ri := range raw {
		out = append(out, r.normalize(ri))
	}
	return out, nil
}

func (r *Runner) normalize(ri tracker.RawIssue) tracker.Issue {
	issue := tracker.Issue{
		Key:     ri.Key,
		Summary: ri.Fields.Summary,
		Link:    fmt.Sprintf("https://%s/browse/%s", r.linkHost, ri.Key),
	}
	if ri.Fields.Status != nil {
		issue.Status = ri.Fields.Status.Name
	}
	if ri.Fields.Priority != nil {
		issue.Priority = ri.Fields.Priority.Name
	}
	if ri.Fields.Assignee != nil {
		issue.Assignee = ri.Fields.Assignee.DisplayName
	}
	if t, ok := parseDueDate(ri.Fields.DueDate); ok {
		issue.DueDate = t
	}
	if t, ok := parseUpdated(ri.Fields.Updated); ok {
		issue.Updated = t
	}
	return issue
}

func parseDueDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseUpdated accepts the tracker's millisecond-offset timestamp as well
// as plain RFC3339.
func parseUpdated(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02T15:04:05.000-0700", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func truncateQuery(q string) string {
	if len(q) <= 100 {
		return q
	}
	return q[:100] + "..."
}
