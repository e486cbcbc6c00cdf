package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/cohort/internal/runs"
	"github.com/JaimeStill/cohort/internal/workflow"
	"github.com/JaimeStill/cohort/pkg/pagination"
)

// worker polls for created runs and executes the assessment workflow for
// one run at a time.
type worker struct {
	rt       *workflow.Runtime
	interval time.Duration
	logger   *slog.Logger
}

func newWorker(rt *workflow.Runtime, interval time.Duration, logger *slog.Logger) *worker {
	return &worker{
		rt:       rt,
		interval: interval,
		logger:   logger.With("system", "worker"),
	}
}

// Run polls until the context is cancelled.
func (w *worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *worker) tick(ctx context.Context) {
	status := runs.StatusCreated
	page, err := w.rt.Runs.List(
		ctx,
		pagination.PageRequest{Page: 1, PageSize: 1},
		runs.Filters{Status: &status},
	)
	if err != nil {
		w.logger.Error("poll for runs failed", "error", err)
		return
	}

	if len(page.Data) == 0 {
		return
	}

	run := page.Data[0]
	w.logger.Info("run claimed", "run_id", run.ID)

	result, err := workflow.Execute(ctx, w.rt, run.ID)
	if err != nil {
		w.logger.Error("run failed", "run_id", run.ID, "error", err)
		return
	}

	w.logger.Info(
		"run completed",
		"run_id", result.RunID,
		"applicants", result.Applicants,
		"accepted", result.Accepted,
		"rejected", result.Rejected,
		"middle", result.Middle,
		"ranked", result.Ranked,
	)
}
