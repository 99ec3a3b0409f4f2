// Package store persists run history for the lead pipelines.
package store

import (
	"context"
	"encoding/json"
	"time"
)

// RunKind identifies which pipeline produced a run.
type RunKind string

const (
	RunKindGenerate RunKind = "generate"
	RunKindEnrich   RunKind = "enrich"
	RunKindContacts RunKind = "contacts"
)

// RunStatus tracks a run through its lifecycle.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one recorded pipeline execution.
type Run struct {
	ID         string          `json:"id"`
	Kind       RunKind         `json:"kind"`
	Status     RunStatus       `json:"status"`
	Stats      json.RawMessage `json:"stats,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// Store defines the run-history persistence interface.
type Store interface {
	CreateRun(ctx context.Context, kind RunKind) (*Run, error)
	CompleteRun(ctx context.Context, runID string, status RunStatus, stats any) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
