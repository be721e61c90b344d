package app

import (
	"strings"
	"testing"
	"time"

	"duewatch/internal/config"
	"duewatch/internal/gate"
	"duewatch/internal/i18n"
	"duewatch/internal/relay"
)

func baseConfig() *config.Config {
	return &config.Config{
		Tracker:  config.TrackerConfig{SiteURL: "https://acme.atlassian.net"},
		Schedule: config.ScheduleConfig{Period: "Daily", Time: "17:00"},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	if err := Validate(nil); err == nil {
		t.Fatal("nil config must be rejected")
	}
	if err := Validate(baseConfig()); err != nil {
		t.Fatalf("minimal config rejected: %v", err)
	}

	cfg := baseConfig()
	cfg.Webhooks = []config.WebhookConfig{{URL: "http://hooks.slack.com/x", Platform: "slack"}}
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "webhooks[0]") {
		t.Fatalf("plaintext webhook: %v", err)
	}

	cfg = baseConfig()
	cfg.Webhooks = []config.WebhookConfig{{URL: "https://hooks.slack.com/x", Platform: "pager"}}
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "unknown platform") {
		t.Fatalf("unknown platform: %v", err)
	}

	cfg = baseConfig()
	cfg.Scheduler.Tick = "soon"
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "scheduler.tick") {
		t.Fatalf("bad tick: %v", err)
	}
}

func TestSettingsFromConfig(t *testing.T) {
	t.Parallel()
	cfg := baseConfig()
	cfg.Schedule = config.ScheduleConfig{Period: "Weekly", Time: "09:30", ToleranceMin: 5}
	cfg.Language = "zh-CN"
	cfg.Queries = []config.QueryConfig{{Query: "project = OPS"}}
	cfg.Webhooks = []config.WebhookConfig{
		{URL: "https://hooks.slack.com/x", Platform: "Slack"},
		{URL: "https://example.com/y", Platform: "pager"}, // skipped
	}

	s := settingsFromConfig(cfg)
	if s.Schedule.Period != gate.PeriodWeekly || s.Schedule.TimeOfDay != "09:30" || s.Schedule.ToleranceMin != 5 {
		t.Fatalf("schedule: %+v", s.Schedule)
	}
	if s.Language != i18n.LangZH {
		t.Fatalf("language = %s", s.Language)
	}
	if len(s.Queries) != 1 || s.Queries[0].Query != "project = OPS" {
		t.Fatalf("queries: %+v", s.Queries)
	}
	if len(s.Targets) != 1 || s.Targets[0].Platform != relay.PlatformSlack {
		t.Fatalf("targets: %+v", s.Targets)
	}
}

func TestSettingsFromConfigDefaults(t *testing.T) {
	t.Parallel()
	s := settingsFromConfig(&config.Config{})
	if s.Schedule.Period != gate.PeriodDaily {
		t.Fatalf("period = %v", s.Schedule.Period)
	}
	if s.Language != i18n.LangEN {
		t.Fatalf("language = %s", s.Language)
	}
	if len(s.Queries) != 0 || len(s.Targets) != 0 {
		t.Fatalf("settings: %+v", s)
	}
}

func TestParseDuration(t *testing.T) {
	t.Parallel()
	if got := parseDuration("", time.Minute); got != time.Minute {
		t.Fatalf("empty = %v", got)
	}
	if got := parseDuration("45s", time.Minute); got != 45*time.Second {
		t.Fatalf("45s = %v", got)
	}
	if got := parseDuration("bogus", 10*time.Second); got != 10*time.Second {
		t.Fatalf("bogus = %v", got)
	}
}
