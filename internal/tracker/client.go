// Package tracker implements the issue-tracker search client. The rest of
// the system consumes it through the Searcher contract, so tests can swap
// in fakes without touching HTTP.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"duewatch/pkg/logx"
)

// Searcher executes one saved search expression against the tracker.
// Implementations may fail with an error or return an empty slice; callers
// treat both as per-query conditions, never run-fatal.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int, fields []string) ([]RawIssue, error)
}

// SearchFunc adapts a plain function to the Searcher interface.
type SearchFunc func(ctx context.Context, query string, maxResults int, fields []string) ([]RawIssue, error)

func (f SearchFunc) Search(ctx context.Context, query string, maxResults int, fields []string) ([]RawIssue, error) {
	return f(ctx, query, maxResults, fields)
}

const (
	defaultTimeout    = 10 * time.Second
	searchPath        = "/rest/api/3/search/jql"
	maxDiagnosticBody = 512
)

// Config configures the HTTP search client.
type Config struct {
	// SiteURL is the tracker base, e.g. "https://acme.atlassian.net".
	SiteURL string
	// Email + APIToken authenticate as basic auth (cloud-style API token).
	Email    string
	APIToken string
	// Timeout bounds one search call. Zero means 10s.
	Timeout time.Duration
}

// Client talks to a Jira-style search endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	email      string
	apiToken   string
	log        logx.Logger
}

// NewClient validates the site URL and builds a search client.
func NewClient(cfg Config, log logx.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(cfg.SiteURL))
	if err != nil {
		return nil, fmt.Errorf("invalid tracker site URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("tracker site URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("tracker site URL must include a host")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(u.String(), "/"),
		email:      cfg.Email,
		apiToken:   cfg.APIToken,
		log:        log,
	}, nil
}

type searchRequest struct {
	JQL        string   `json:"jql"`
	MaxResults int      `json:"maxResults"`
	Fields     []string `json:"fields"`
}

// Search implements Searcher via POST {site}/rest/api/3/search/jql.
func (c *Client) Search(ctx context.Context, query string, maxResults int, fields []string) ([]RawIssue, error) {
	body, err := json.Marshal(searchRequest{JQL: query, MaxResults: maxResults, Fields: fields})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.email != "" || c.apiToken != "" {
		req.SetBasicAuth(c.email, c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tracker search: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		diag, _ := io.ReadAll(io.LimitReader(resp.Body, maxDiagnosticBody))
		return nil, fmt.Errorf("tracker search returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(diag)))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	c.log.Debug("tracker search ok",
		logx.Int("issues", len(sr.Issues)),
		logx.Int("total", sr.Total),
	)
	return sr.Issues, nil
}
