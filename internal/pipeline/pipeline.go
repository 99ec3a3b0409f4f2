// Package pipeline implements the three lead workflows: generation,
// enrichment, and contact fill-in. Each workflow fans its work items out
// through the dispatcher, funnels results into shared state via the sink,
// and persists the final dataset as a dated XLSX file.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/store"
)

// recordRun opens a run-history record and returns a closer that finalizes
// it. Run history is best-effort: a nil or failing store only warns.
func recordRun(ctx context.Context, runs store.Store, kind store.RunKind) func(err error, stats any) {
	if runs == nil {
		return func(error, any) {}
	}

	run, createErr := runs.CreateRun(ctx, kind)
	if createErr != nil {
		zap.L().Warn("pipeline: create run record failed", zap.String("kind", string(kind)), zap.Error(createErr))
		return func(error, any) {}
	}

	// Finalization must survive cancellation of the pipeline context.
	doneCtx := context.WithoutCancel(ctx)

	return func(err error, stats any) {
		status := store.RunStatusCompleted
		if err != nil {
			status = store.RunStatusFailed
		}
		if cerr := runs.CompleteRun(doneCtx, run.ID, status, stats); cerr != nil {
			zap.L().Warn("pipeline: complete run record failed", zap.String("run_id", run.ID), zap.Error(cerr))
		}
	}
}

// truncate caps s for log lines and error columns.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
