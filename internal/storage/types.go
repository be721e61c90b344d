package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures the run-history store.
//
// Driver values:
//   - "sqlite": SQLite database file
//
// If Driver is empty or "none", persistence is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // 0 means driver default
}

// RunRecord is one completed (non-skipped) monitoring cycle.
// Keep it compact and schema-stable.
type RunRecord struct {
	At           time.Time
	Success      bool
	IssueCount   int
	SentOK       int
	SentFail     int
	Notification string
	// OutcomeJSON is the per-target outcome list, serialized for inspection.
	OutcomeJSON string
}
