package config

// Config is the whole configuration file. JSON and YAML are both accepted;
// YAML is coerced to JSON before strict decoding, so unknown keys are
// rejected in either format.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type Config struct {
	Logging   LoggingConfig   `json:"logging"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Storage   *StorageConfig  `json:"storage,omitempty"`
	Dispatch  *DispatchConfig `json:"dispatch,omitempty"`

	Tracker  TrackerConfig   `json:"tracker"`
	Schedule ScheduleConfig  `json:"schedule"`
	Queries  []QueryConfig   `json:"queries,omitempty"`
	Webhooks []WebhookConfig `json:"webhooks,omitempty"`

	// Language selects notification strings: "en" (default) or "zh".
	Language string `json:"language,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// SchedulerConfig controls the poll tick.
type SchedulerConfig struct {
	// Tick is the poll interval (default "1m"). Keep it at or below the
	// schedule tolerance so the run window is never stepped over.
	Tick string `json:"tick,omitempty"`
	// Timezone is an IANA TZ name, e.g. "Asia/Shanghai". Empty = local.
	Timezone string `json:"timezone,omitempty"`
}

// StorageConfig controls the optional run-history store.
//
// Example:
//
//	"storage": { "driver": "sqlite", "path": "./duewatch.db" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"`
}

// DispatchConfig tunes webhook delivery.
type DispatchConfig struct {
	Timeout    string `json:"timeout,omitempty"`      // per-POST bound, default "10s"
	RatePerSec int    `json:"rate_per_sec,omitempty"` // default 5
}

// TrackerConfig points at the issue tracker.
type TrackerConfig struct {
	// SiteURL is the tracker base, e.g. "https://acme.atlassian.net".
	// Also used to build issue links; when empty, links fall back to a
	// placeholder host.
	SiteURL  string `json:"site_url"`
	Email    string `json:"email,omitempty"`
	APIToken string `json:"api_token,omitempty"`
	Timeout  string `json:"timeout,omitempty"` // per-search bound, default "10s"
	// MaxResults caps one query's results (default 50, hard cap 100).
	MaxResults int `json:"max_results,omitempty"`
}

// ScheduleConfig is the raw run schedule as configured. Normalization
// (invalid time → 17:00, unknown period → Daily) happens at the boundary
// when the app snapshots settings for a cycle.
type ScheduleConfig struct {
	// Period: "Daily", "Weekly" (runs Sunday), or a weekday name.
	Period string `json:"period"`
	// Time is "HH:MM" in 24h, evaluated in the scheduler timezone.
	Time string `json:"time"`
	// ToleranceMin is the run-window half-width in minutes (default 3).
	ToleranceMin int `json:"tolerance_min,omitempty"`
}

// QueryConfig is one saved search expression.
type QueryConfig struct {
	Query string `json:"query"`
}

// WebhookConfig is one notification endpoint.
type WebhookConfig struct {
	URL      string `json:"url"`
	Platform string `json:"platform"` // teams | feishu | slack | wechatwork
}
