// Package dispatch delivers rendered payloads to webhook endpoints.
//
// A dispatcher never fails a run: transport errors and non-2xx responses
// are folded into the returned Outcome, so callers always get one outcome
// per attempted target. One attempt per target per run; delivery guarantees
// are out of scope.
package dispatch

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

	"golang.org/x/time/rate"

	"duewatch/internal/relay"
	"duewatch/pkg/logx"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultRatePerSec = 5
	maxDiagnosticBody = 512
	userAgent         = "duewatch/1"
)

// Outcome is the per-target delivery result.
type Outcome struct {
	Platform   relay.Platform `json:"platform"`
	Success    bool           `json:"success"`
	StatusCode int            `json:"status_code,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Config tunes the dispatcher transport.
type Config struct {
	// Timeout bounds one webhook POST. Zero means 10s.
	Timeout time.Duration
	// RatePerSec caps outbound POSTs across all targets. Zero means 5.
	RatePerSec int
}

// Dispatcher POSTs JSON payloads to webhook targets.
type Dispatcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	log        logx.Logger
}

// New builds a Dispatcher.
func New(cfg Config, log logx.Logger) *Dispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = defaultRatePerSec
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Dispatcher{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), rps),
		log:        log,
	}
}

// Send delivers one payload to one target. It always returns an outcome and
// never panics or propagates transport errors.
func (d *Dispatcher) Send(ctx context.Context, target relay.WebhookTarget, payload any) Outcome {
	out := Outcome{Platform: target.Platform}

	body, err := json.Marshal(payload)
	if err != nil {
		out.Error = fmt.Sprintf("marshal payload: %v", err)
		return out
	}

	if err := d.limiter.Wait(ctx); err != nil {
		out.Error = err.Error()
		return out
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, bytes.NewReader(body))
	if err != nil {
		out.Error = fmt.Sprintf("create request: %v", err)
		return out
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		out.Error = err.Error()
		d.log.Warn("webhook send failed",
			logx.String("platform", string(target.Platform)),
			logx.String("url", RedactURL(target.URL)),
			logx.Err(err),
		)
		return out
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	out.StatusCode = resp.StatusCode
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		out.Success = true
		d.log.Debug("webhook sent",
			logx.String("platform", string(target.Platform)),
			logx.Int("status", resp.StatusCode),
		)
		return out
	}

	// Best-effort diagnostic; a body read failure must not mask the status.
	diag, readErr := io.ReadAll(io.LimitReader(resp.Body, maxDiagnosticBody))
	if readErr == nil && len(diag) > 0 {
		out.Error = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(diag)))
	} else {
		out.Error = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	d.log.Warn("webhook rejected",
		logx.String("platform", string(target.Platform)),
		logx.String("url", RedactURL(target.URL)),
		logx.Int("status", resp.StatusCode),
	)
	return out
}

// ValidateTargetURL checks a configured webhook URL: https-only with a host.
// Webhook URLs embed secrets in the path, so TLS is not negotiable.
func ValidateTargetURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("webhook URL is required")
	}
	if len(raw) > 2000 {
		return fmt.Errorf("webhook URL too long")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid webhook URL: %w", err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("webhook URL must use https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("webhook URL must include a host")
	}
	return nil
}

// KnownWebhookHost reports whether the URL's host matches the platform's
// usual webhook domain. Advisory only: a mismatch is worth a warning, not
// a rejection.
func KnownWebhookHost(target relay.WebhookTarget) bool {
	u, err := url.Parse(target.URL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	switch target.Platform {
	case relay.PlatformTeams:
		return strings.HasSuffix(host, "webhook.office.com")
	case relay.PlatformFeishu:
		return strings.HasSuffix(host, "open.feishu.cn")
	case relay.PlatformSlack:
		return strings.HasSuffix(host, "hooks.slack.com")
	case relay.PlatformWeChatWork:
		return strings.HasSuffix(host, "qyapi.weixin.qq.com")
	default:
		return false
	}
}

// RedactURL masks credentials and query values in a URL for safe logging.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid-url>"
	}
	redacted := u.Redacted()
	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			q.Set(key, "REDACTED")
		}
		r, err := url.Parse(redacted)
		if err != nil {
			return redacted
		}
		r.RawQuery = q.Encode()
		return r.String()
	}
	return redacted
}
