package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/taxi-ingest/internal/domain"
)

// TripSink persists the materialized canonical table. The production
// implementation appends to Postgres; tests substitute an in-memory double.
type TripSink interface {
	InsertBatch(ctx context.Context, trips []domain.TripRecord) (int64, error)
}

// RunRecorder persists the per-invocation bookkeeping row.
type RunRecorder interface {
	Create(ctx context.Context, run domain.IngestRun) (domain.IngestRun, error)
	Finish(ctx context.Context, id uuid.UUID, rowCount int64) (domain.IngestRun, error)
}

// Runner executes one full materialization: record the run, build the table,
// append it to the sink, and close out the run with its row count.
type Runner struct {
	mat   *Materializer
	trips TripSink
	runs  RunRecorder
	log   *slog.Logger
}

// NewRunner constructs a Runner.
func NewRunner(mat *Materializer, trips TripSink, runs RunRecorder, log *slog.Logger) *Runner {
	return &Runner{mat: mat, trips: trips, runs: runs, log: log}
}

// Run materializes the window and appends the result. An empty taxiTypes
// list falls back to the default before the run row is written, so the
// recorded run always names the types actually fetched.
func (r *Runner) Run(ctx context.Context, w domain.Window, taxiTypes []string) (domain.IngestRun, error) {
	if len(taxiTypes) == 0 {
		taxiTypes = domain.DefaultTaxiTypes()
	}

	run, err := r.runs.Create(ctx, domain.IngestRun{
		StartDate: w.Start,
		EndDate:   w.End,
		TaxiTypes: taxiTypes,
	})
	if err != nil {
		return domain.IngestRun{}, fmt.Errorf("ingest.Runner.Run: record run: %w", err)
	}

	table, err := r.mat.Materialize(ctx, w, taxiTypes)
	if err != nil {
		// The run row stays open (finished_at null) as a trace of the failure.
		return domain.IngestRun{}, err
	}

	inserted, err := r.trips.InsertBatch(ctx, table.Rows)
	if err != nil {
		return domain.IngestRun{}, fmt.Errorf("ingest.Runner.Run: append trips: %w", err)
	}

	run, err = r.runs.Finish(ctx, run.ID, inserted)
	if err != nil {
		return domain.IngestRun{}, fmt.Errorf("ingest.Runner.Run: finish run: %w", err)
	}

	r.log.Info("run complete", "run_id", run.ID, "rows", inserted)
	return run, nil
}
