// Package scheduler drives the poll loop. It fires a job on a fixed tick
// (cron "@every" spec); the gate decides which ticks actually do work.
package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"duewatch/pkg/logx"
)

// Config controls the tick service.
type Config struct {
	// Tick is the poll interval. Keep it well under the gate tolerance so
	// the run window is never stepped over. Zero means one minute.
	Tick time.Duration
	// Timezone is an IANA TZ name used for tick evaluation and for the
	// wall-clock time handed to jobs. Empty means the system local zone.
	Timezone string
}

// Job is one tick's worth of work. The passed time is the tick's wall
// clock in the scheduler's location.
type Job func(ctx context.Context, now time.Time)

// Service wraps a cron runner with a single recurring tick job.
type Service struct {
	mu sync.Mutex

	cfg Config
	log logx.Logger
	loc *time.Location

	c   *cron.Cron
	job Job
}

func New(cfg Config, log logx.Logger) *Service {
	if cfg.Tick <= 0 {
		cfg.Tick = time.Minute
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{cfg: cfg, log: log}
}

// Location returns the scheduler's resolved time location.
func (s *Service) Location() *time.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loc != nil {
		return s.loc
	}
	return s.loadLocationLocked()
}

// SetJob installs the tick job. Must be called before Start.
func (s *Service) SetJob(job Job) {
	s.mu.Lock()
	s.job = job
	s.mu.Unlock()
}

func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c != nil {
		return nil
	}
	if s.job == nil {
		return errors.New("scheduler: no job installed")
	}

	loc := s.loadLocationLocked()
	s.loc = loc
	s.c = cron.New(cron.WithLocation(loc))

	job := s.job
	_, err := s.c.AddFunc("@every "+s.cfg.Tick.String(), func() {
		job(ctx, time.Now().In(loc))
	})
	if err != nil {
		s.c = nil
		return err
	}

	s.c.Start()
	s.log.Info("scheduler started",
		logx.Duration("tick", s.cfg.Tick),
		logx.String("tz", loc.String()),
	)
	return nil
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.mu.Unlock()
	if c == nil {
		return
	}

	stopped := c.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
	}
	s.log.Info("scheduler stopped")
}

func (s *Service) loadLocationLocked() *time.Location {
	tz := strings.TrimSpace(s.cfg.Timezone)
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		s.log.Warn("invalid timezone, falling back to Local",
			logx.String("tz", tz),
			logx.Err(err),
		)
		return time.Local
	}
	return loc
}
