package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"duewatch/pkg/logx"
)

func TestStartRequiresJob(t *testing.T) {
	t.Parallel()
	s := New(Config{Tick: time.Second}, logx.Nop())
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("Start without a job must fail")
	}
}

func TestLocationFallsBackOnInvalidTZ(t *testing.T) {
	t.Parallel()
	s := New(Config{Timezone: "Not/AZone"}, logx.Nop())
	if got := s.Location(); got != time.Local {
		t.Fatalf("Location = %v, want Local", got)
	}
}

func TestLocationResolvesTZ(t *testing.T) {
	t.Parallel()
	s := New(Config{Timezone: "UTC"}, logx.Nop())
	if got := s.Location(); got.String() != "UTC" {
		t.Fatalf("Location = %v", got)
	}
}

func TestTickFiresAndStops(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fired atomic.Int32
	s := New(Config{Tick: 50 * time.Millisecond, Timezone: "UTC"}, logx.Nop())
	s.SetJob(func(_ context.Context, now time.Time) {
		if now.Location().String() != "UTC" {
			t.Errorf("job time in %v, want UTC", now.Location())
		}
		fired.Add(1)
	})

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	deadline := time.After(3 * time.Second)
	for fired.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("job never fired")
		case <-time.After(10 * time.Millisecond):
		}
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	s.Stop(stopCtx)
}
