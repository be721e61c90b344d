package query

import (
	"errors"
	"regexp"
	"strings"
)

// maxQueryLen caps saved and ad-hoc search expressions.
const maxQueryLen = 10000

// ErrEmptyQuery is returned by Validate for blank input.
var ErrEmptyQuery = errors.New("query cannot be empty")

// ErrDangerousQuery is returned when a query matches an injection pattern.
// The manual test path rejects these before any network call.
var ErrDangerousQuery = errors.New("invalid or potentially dangerous query")

var (
	markupChars = regexp.MustCompile(`[<>"']`)
	multiSpace  = regexp.MustCompile(`\s+`)
)

// Query expressions are search filters; anything that smells like a data
// manipulation statement or a stacked command has no business in one.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bupdate\s+set\b`),
	regexp.MustCompile(`(?i)\binsert\s+into\b`),
	regexp.MustCompile(`(?i)\bdelete\s+from\b`),
	regexp.MustCompile(`(?i)\bdrop\s+table\b`),
	regexp.MustCompile(`(?i)\bcreate\s+table\b`),
	regexp.MustCompile(`(?i)\balter\s+table\b`),
	regexp.MustCompile(`(?i);\s*\w`),
	regexp.MustCompile(`(?i)--\s*\w`),
	regexp.MustCompile(`(?i)/\*.*\*/`),
	regexp.MustCompile(`(?i)union\s+select`),
	regexp.MustCompile(`(?i)exec\s*\(`),
	regexp.MustCompile(`(?i)xp_cmdshell`),
	regexp.MustCompile(`(?i)load_file\s*\(`),
	regexp.MustCompile(`(?i)into\s+outfile`),
	regexp.MustCompile(`(?i)benchmark\s*\(`),
	regexp.MustCompile(`(?i)sleep\s*\(`),
	regexp.MustCompile(`(?i)waitfor\s+delay`),
}

// Sanitize strips markup characters, normalizes whitespace, and caps length.
// Applied to every query before execution.
func Sanitize(q string) string {
	q = markupChars.ReplaceAllString(q, "")
	q = multiSpace.ReplaceAllString(q, " ")
	q = strings.TrimSpace(q)
	if len(q) > maxQueryLen {
		q = q[:maxQueryLen]
	}
	return q
}

// Validate rejects blank, oversized, or dangerous-looking queries.
// Used by the manual single-query path for synchronous feedback.
func Validate(q string) error {
	if strings.TrimSpace(q) == "" {
		return ErrEmptyQuery
	}
	if len(q) > maxQueryLen {
		return ErrDangerousQuery
	}
	normalized := strings.ToLower(strings.TrimSpace(q))
	for _, p := range dangerousPatterns {
		if p.MatchString(normalized) {
			return ErrDangerousQuery
		}
	}
	return nil
}
