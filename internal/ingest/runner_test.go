package ingest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/taxi-ingest/internal/domain"
	"github.com/pkordes/taxi-ingest/internal/fetch"
	"github.com/pkordes/taxi-ingest/internal/ingest"
)

// mockTripSink is a test double for ingest.TripSink.
type mockTripSink struct {
	inserted []domain.TripRecord
	err      error
}

func (m *mockTripSink) InsertBatch(_ context.Context, trips []domain.TripRecord) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.inserted = append(m.inserted, trips...)
	return int64(len(trips)), nil
}

// mockRunRecorder is a test double for ingest.RunRecorder.
type mockRunRecorder struct {
	created  *domain.IngestRun
	finished bool
}

func (m *mockRunRecorder) Create(_ context.Context, run domain.IngestRun) (domain.IngestRun, error) {
	run.ID = uuid.New()
	run.StartedAt = time.Now().UTC()
	m.created = &run
	return run, nil
}

func (m *mockRunRecorder) Finish(_ context.Context, id uuid.UUID, rowCount int64) (domain.IngestRun, error) {
	run := *m.created
	run.ID = id
	run.RowCount = rowCount
	now := time.Now().UTC()
	run.FinishedAt = &now
	m.finished = true
	return run, nil
}

var (
	_ ingest.TripSink    = (*mockTripSink)(nil)
	_ ingest.RunRecorder = (*mockRunRecorder)(nil)
)

func newRunner(f ingest.Fetcher, sink *mockTripSink, runs *mockRunRecorder) *ingest.Runner {
	mat := ingest.NewMaterializer(f, discardLogger())
	return ingest.NewRunner(mat, sink, runs, discardLogger())
}

func TestRunner_Run(t *testing.T) {
	w := window(t,
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
	)
	f := &mockFetcher{
		fetchMonth: func(_ context.Context, tt string, ms time.Time) (fetch.Result, error) {
			return fetchedResult(rawMonth(tt, ms.Add(time.Hour), ms.Add(2*time.Hour)))
		},
	}
	sink := &mockTripSink{}
	runs := &mockRunRecorder{}

	run, err := newRunner(f, sink, runs).Run(context.Background(), w, []string{"yellow"})

	require.NoError(t, err)
	assert.Len(t, sink.inserted, 2)
	assert.Equal(t, int64(2), run.RowCount)
	assert.True(t, runs.finished)
	require.NotNil(t, run.FinishedAt)
	assert.Equal(t, []string{"yellow"}, run.TaxiTypes)
}

func TestRunner_Run_DefaultsTaxiTypes(t *testing.T) {
	w := window(t,
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
	)
	f := &mockFetcher{
		fetchMonth: func(context.Context, string, time.Time) (fetch.Result, error) {
			return notFoundResult()
		},
	}
	runs := &mockRunRecorder{}

	run, err := newRunner(f, &mockTripSink{}, runs).Run(context.Background(), w, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"yellow"}, run.TaxiTypes, "recorded run must name the defaulted types")
	assert.Equal(t, int64(0), run.RowCount)
}

func TestRunner_Run_FetchFailureLeavesRunOpen(t *testing.T) {
	w := window(t,
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
	)
	f := &mockFetcher{
		fetchMonth: func(context.Context, string, time.Time) (fetch.Result, error) {
			return fetch.Result{}, errors.New("dial tcp: timeout")
		},
	}
	runs := &mockRunRecorder{}

	_, err := newRunner(f, &mockTripSink{}, runs).Run(context.Background(), w, []string{"yellow"})

	require.Error(t, err)
	require.NotNil(t, runs.created, "run row is written before fetching")
	assert.False(t, runs.finished)
}

func TestRunner_Run_SinkFailure(t *testing.T) {
	w := window(t,
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
	)
	f := &mockFetcher{
		fetchMonth: func(_ context.Context, tt string, ms time.Time) (fetch.Result, error) {
			return fetchedResult(rawMonth(tt, ms.Add(time.Hour)))
		},
	}
	sink := &mockTripSink{err: errors.New("copy failed")}
	runs := &mockRunRecorder{}

	_, err := newRunner(f, sink, runs).Run(context.Background(), w, []string{"yellow"})

	require.Error(t, err)
	require.ErrorContains(t, err, "copy failed")
	assert.False(t, runs.finished)
}
