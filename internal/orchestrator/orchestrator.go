// Package orchestrator runs one monitoring cycle: gate check, query fan-in,
// then render+dispatch fan-out per webhook target.
//
// External I/O failures are carried as data in the returned Summary; the
// only errors that escape a cycle are programming errors.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"duewatch/internal/dispatch"
	"duewatch/internal/gate"
	"duewatch/internal/i18n"
	"duewatch/internal/query"
	"duewatch/internal/relay"
	"duewatch/internal/render"
	"duewatch/internal/tracker"
	"duewatch/pkg/logx"
)

// Settings is the typed snapshot of everything one cycle needs. Produced at
// the configuration boundary; the orchestrator never reads a settings store.
type Settings struct {
	Schedule gate.Schedule
	Queries  []relay.QuerySetting
	Targets  []relay.WebhookTarget
	Language i18n.Lang
}

// Summary is the result of one cycle. The issue list and per-target
// outcomes are always populated for inspection, regardless of Success.
type Summary struct {
	Success      bool
	Skipped      bool
	Reason       string // set when Skipped
	Notification string
	Issues       []tracker.Issue
	Results      []dispatch.Outcome
}

// Orchestrator wires the gate, runner and dispatcher together.
type Orchestrator struct {
	runner     *query.Runner
	dispatcher *dispatch.Dispatcher
	log        logx.Logger
}

func New(runner *query.Runner, dispatcher *dispatch.Dispatcher, log logx.Logger) *Orchestrator {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Orchestrator{runner: runner, dispatcher: dispatcher, log: log}
}

// RunCycle executes one scheduled cycle at the given wall-clock time.
//
// Linear state machine: gate → fan-in → fan-out → aggregate. A skipped
// gate or an empty digest is a terminal success. With targets configured,
// the cycle succeeds iff at least one delivery succeeded.
func (o *Orchestrator) RunCycle(ctx context.Context, s Settings, now time.Time) Summary {
	decision := gate.Decide(s.Schedule, now)
	if !decision.ShouldRun {
		o.log.Debug("cycle skipped", logx.String("reason", decision.Reason))
		return Summary{Success: true, Skipped: true, Reason: decision.Reason}
	}

	issues := o.runner.Run(ctx, s.Queries)
	if len(issues) == 0 {
		o.log.Info("cycle complete, no issues matched")
		return Summary{Success: true, Notification: "No issues found"}
	}

	if len(s.Targets) == 0 {
		o.log.Info("cycle complete, no webhook configured", logx.Int("issues", len(issues)))
		return Summary{Success: true, Notification: "No webhook configured", Issues: issues}
	}

	results := o.fanOut(ctx, s, issues, now)

	sent := 0
	for _, r := range results {
		if r.Success {
			sent++
		}
	}

	sum := Summary{Issues: issues, Results: results}
	if sent == 0 {
		sum.Notification = "All notifications failed"
	} else {
		sum.Success = true
		sum.Notification = fmt.Sprintf("Notifications sent to %d webhook(s)", sent)
	}
	o.log.Info("cycle complete",
		logx.Int("issues", len(issues)),
		logx.Int("targets", len(s.Targets)),
		logx.Int("sent", sent),
		logx.Bool("success", sum.Success),
	)
	return sum
}

// fanOut renders and delivers to every target independently. Each target
// fills its own outcome slot; one target's failure or latency never blocks
// a sibling.
func (o *Orchestrator) fanOut(ctx context.Context, s Settings, issues []tracker.Issue, now time.Time) []dispatch.Outcome {
	results := make([]dispatch.Outcome, len(s.Targets))
	var wg sync.WaitGroup
	for i, target := range s.Targets {
		wg.Add(1)
		go func(i int, target relay.WebhookTarget) {
			defer wg.Done()
			r, err := render.For(target.Platform)
			if err != nil {
				results[i] = dispatch.Outcome{Platform: target.Platform, Error: err.Error()}
				return
			}
			payload := r.Render(issues, now, s.Language)
			results[i] = o.dispatcher.Send(ctx, target, payload)
		}(i, target)
	}
	wg.Wait()
	return results
}

// SearchOne validates and runs a single query without dispatching, for
// interactive validation of a saved search. Malformed or dangerous input is
// rejected before any network call.
func (o *Orchestrator) SearchOne(ctx context.Context, expr string) ([]tracker.Issue, error) {
	return o.runner.RunOne(ctx, expr)
}
