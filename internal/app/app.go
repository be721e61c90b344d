// Package app assembles the daemon: config manager, logging, storage,
// tracker pipeline and the scheduler tick that drives monitoring cycles.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"duewatch/internal/config"
	"duewatch/internal/dispatch"
	"duewatch/internal/gate"
	"duewatch/internal/i18n"
	"duewatch/internal/orchestrator"
	"duewatch/internal/query"
	"duewatch/internal/relay"
	"duewatch/internal/scheduler"
	"duewatch/internal/storage"
	"duewatch/internal/tracker"
	"duewatch/pkg/logx"
)

// App owns the process lifecycle. Construct with New, then Start/Stop.
type App struct {
	mgr    *config.Manager
	logSvc *logx.Service
	log    logx.Logger
	store  storage.Store
	sched  *scheduler.Service

	// mu guards the hot-swappable pipeline; config reloads replace it.
	mu       sync.RWMutex
	orch     *orchestrator.Orchestrator
	settings orchestrator.Settings

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfgPath string) (*App, error) {
	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logSvc, log := logx.New(loggingConfig(cfg.Logging))
	mgr.SetLogger(log.With(logx.String("comp", "config")))
	mgr.SetValidator(func(_ context.Context, c *config.Config) error {
		return Validate(c)
	})

	a := &App{
		mgr:    mgr,
		logSvc: logSvc,
		log:    log,
	}

	store, err := storage.Open(storageConfig(cfg.Storage), log.With(logx.String("comp", "storage")))
	if err != nil {
		logSvc.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a.store = store

	orch, err := a.buildPipeline(cfg)
	if err != nil {
		a.closeResources()
		return nil, err
	}
	a.orch = orch
	a.settings = settingsFromConfig(cfg)
	warnUnusualHosts(log, a.settings.Targets)

	a.sched = scheduler.New(scheduler.Config{
		Tick:     parseDuration(cfg.Scheduler.Tick, time.Minute),
		Timezone: cfg.Scheduler.Timezone,
	}, log.With(logx.String("comp", "scheduler")))
	a.sched.SetJob(a.tick)

	return a, nil
}

// Start launches the config watcher and the scheduler. Non-blocking.
func (a *App) Start(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		_ = a.mgr.Watch(ctx)
	}()

	sub := a.mgr.Subscribe(1)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer a.mgr.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case cfg, ok := <-sub:
				if !ok {
					return
				}
				a.applyConfig(cfg)
			}
		}
	}()

	if err := a.sched.Start(ctx); err != nil {
		a.cancel()
		return err
	}
	a.log.Info("duewatch started")
	return nil
}

// Stop shuts down the scheduler and background goroutines, then releases
// storage and log sinks.
func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	a.sched.Stop(ctx)
	a.wg.Wait()
	a.closeResources()
	a.log.Info("duewatch stopped")
}

func (a *App) closeResources() {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.logSvc != nil {
		_ = a.logSvc.Close()
	}
}

// RunQuery validates and executes one search expression immediately,
// bypassing the schedule gate and webhooks. Used by the -test-query flag.
func (a *App) RunQuery(ctx context.Context, expr string) ([]tracker.Issue, error) {
	a.mu.RLock()
	orch := a.orch
	a.mu.RUnlock()
	return orch.SearchOne(ctx, expr)
}

// tick is the scheduler job: snapshot the pipeline, run one cycle, record
// the result. Gate-skipped ticks are not persisted.
func (a *App) tick(ctx context.Context, now time.Time) {
	a.mu.RLock()
	orch := a.orch
	settings := a.settings
	a.mu.RUnlock()

	sum := orch.RunCycle(ctx, settings, now)
	if sum.Skipped || a.store == nil {
		return
	}

	rec := storage.RunRecord{
		At:           now,
		Success:      sum.Success,
		IssueCount:   len(sum.Issues),
		Notification: sum.Notification,
	}
	for _, r := range sum.Results {
		if r.Success {
			rec.SentOK++
		} else {
			rec.SentFail++
		}
	}
	if len(sum.Results) > 0 {
		if b, err := json.Marshal(sum.Results); err == nil {
			rec.OutcomeJSON = string(b)
		}
	}
	if err := a.store.AppendRun(ctx, rec); err != nil {
		a.log.Warn("run record not persisted", logx.Err(err))
	}
}

// applyConfig swaps in a reloaded config. The logging service and pipeline
// hot-swap; scheduler tick and timezone changes take effect on restart.
func (a *App) applyConfig(cfg *config.Config) {
	a.logSvc.Apply(loggingConfig(cfg.Logging))

	orch, err := a.buildPipeline(cfg)
	if err != nil {
		a.log.Warn("reloaded config not applied", logx.Err(err))
		return
	}

	settings := settingsFromConfig(cfg)
	a.mu.Lock()
	a.orch = orch
	a.settings = settings
	a.mu.Unlock()

	warnUnusualHosts(a.log, settings.Targets)
	a.log.Info("pipeline reloaded",
		logx.Int("queries", len(settings.Queries)),
		logx.Int("webhooks", len(settings.Targets)),
	)
}

func (a *App) buildPipeline(cfg *config.Config) (*orchestrator.Orchestrator, error) {
	siteURL := cfg.Tracker.SiteURL
	if siteURL == "" {
		// Keep running with obviously-wrong links rather than refusing to
		// start; the digest still tells people what is due.
		siteURL = "https://" + query.PlaceholderHost
	}
	client, err := tracker.NewClient(tracker.Config{
		SiteURL:  siteURL,
		Email:    cfg.Tracker.Email,
		APIToken: cfg.Tracker.APIToken,
		Timeout:  parseDuration(cfg.Tracker.Timeout, 0),
	}, a.log.With(logx.String("comp", "tracker")))
	if err != nil {
		return nil, fmt.Errorf("tracker client: %w", err)
	}

	runner := query.NewRunner(client, cfg.Tracker.SiteURL, cfg.Tracker.MaxResults,
		a.log.With(logx.String("comp", "query")))

	var dcfg dispatch.Config
	if cfg.Dispatch != nil {
		dcfg.Timeout = parseDuration(cfg.Dispatch.Timeout, 0)
		dcfg.RatePerSec = cfg.Dispatch.RatePerSec
	}
	disp := dispatch.New(dcfg, a.log.With(logx.String("comp", "dispatch")))

	return orchestrator.New(runner, disp, a.log.With(logx.String("comp", "orchestrator"))), nil
}

// Validate rejects configs that could not produce a working pipeline.
// Forgiving fields (schedule time, period, language) normalize instead.
func Validate(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is empty")
	}
	for i, w := range cfg.Webhooks {
		if err := dispatch.ValidateTargetURL(w.URL); err != nil {
			return fmt.Errorf("webhooks[%d]: %w", i, err)
		}
		if _, ok := relay.ParsePlatform(w.Platform); !ok {
			return fmt.Errorf("webhooks[%d]: unknown platform %q", i, w.Platform)
		}
	}
	for name, v := range map[string]string{
		"scheduler.tick":       cfg.Scheduler.Tick,
		"tracker.timeout":      cfg.Tracker.Timeout,
		"storage.busy_timeout": storageBusyTimeout(cfg.Storage),
		"dispatch.timeout":     dispatchTimeout(cfg.Dispatch),
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// settingsFromConfig normalizes the raw config into the typed snapshot a
// cycle consumes. Invalid schedule values degrade to defaults here, once,
// so the gate never sees raw input.
func settingsFromConfig(cfg *config.Config) orchestrator.Settings {
	s := orchestrator.Settings{
		Schedule: gate.Schedule{
			Period:       gate.ParsePeriod(cfg.Schedule.Period),
			TimeOfDay:    cfg.Schedule.Time,
			ToleranceMin: cfg.Schedule.ToleranceMin,
		},
		Language: i18n.ParseLang(cfg.Language),
	}
	for _, q := range cfg.Queries {
		s.Queries = append(s.Queries, relay.QuerySetting{Query: q.Query})
	}
	for _, w := range cfg.Webhooks {
		p, ok := relay.ParsePlatform(w.Platform)
		if !ok {
			continue
		}
		s.Targets = append(s.Targets, relay.WebhookTarget{URL: w.URL, Platform: p})
	}
	return s
}

func warnUnusualHosts(log logx.Logger, targets []relay.WebhookTarget) {
	for _, t := range targets {
		if !dispatch.KnownWebhookHost(t) {
			log.Warn("webhook host does not match its platform's usual domain",
				logx.String("platform", string(t.Platform)),
				logx.String("url", dispatch.RedactURL(t.URL)),
			)
		}
	}
}

func loggingConfig(lc config.LoggingConfig) logx.Config {
	return logx.Config{
		Level:   lc.Level,
		Console: lc.Console,
		File:    logx.FileConfig{Enabled: lc.File.Enabled, Path: lc.File.Path},
	}
}

func storageConfig(sc *config.StorageConfig) storage.Config {
	if sc == nil {
		return storage.Config{}
	}
	return storage.Config{
		Driver:      sc.Driver,
		Path:        sc.Path,
		BusyTimeout: parseDuration(sc.BusyTimeout, 0),
	}
}

func storageBusyTimeout(sc *config.StorageConfig) string {
	if sc == nil {
		return ""
	}
	return sc.BusyTimeout
}

func dispatchTimeout(dc *config.DispatchConfig) string {
	if dc == nil {
		return ""
	}
	return dc.Timeout
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
