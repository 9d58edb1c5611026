// Package ingest drives the monthly-window pipeline: enumerate months, fetch
// each (taxi type, month) file, normalize its schema, filter to the window,
// and concatenate the survivors into one canonical table.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/taxi-ingest/internal/domain"
	"github.com/pkordes/taxi-ingest/internal/fetch"
	"github.com/pkordes/taxi-ingest/internal/schema"
)

// Fetcher is the slice of fetch.Fetcher the materializer depends on.
// Defining the interface here (in the consumer package) lets tests inject a
// deterministic double without any network.
type Fetcher interface {
	FetchMonth(ctx context.Context, taxiType string, monthStart time.Time) (fetch.Result, error)
}

// Materializer assembles the canonical trip table for one window and taxi
// type list. It is safe for concurrent use.
type Materializer struct {
	fetcher Fetcher
	workers int
	log     *slog.Logger
	now     func() time.Time
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithConcurrency bounds the number of in-flight month fetches. Values below
// one are treated as one (strictly sequential, the reference behavior).
func WithConcurrency(n int) Option {
	return func(m *Materializer) {
		if n > 0 {
			m.workers = n
		}
	}
}

// WithClock overrides the wall clock used to stamp extracted_at. Tests use
// this to pin the ingestion timestamp.
func WithClock(now func() time.Time) Option {
	return func(m *Materializer) { m.now = now }
}

// NewMaterializer constructs a Materializer over the given fetcher.
func NewMaterializer(f Fetcher, log *slog.Logger, opts ...Option) *Materializer {
	m := &Materializer{fetcher: f, workers: 1, log: log, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Materialize runs the pipeline over every (taxi type, month) combination and
// returns the concatenated canonical table. Rows are ordered subtype-major,
// then month-chronological, regardless of fetch completion order, and every
// row shares one extracted_at value for the invocation.
//
// An empty taxiTypes list falls back to the default. A window with missing
// bounds fails with domain.ErrValidation before any fetch is attempted. A
// transport failure on any unit aborts the whole run; months the host does
// not have are skipped and contribute zero rows.
//
// When no unit yields any rows the result is a zero-row table that still
// declares the full canonical column set.
func (m *Materializer) Materialize(ctx context.Context, w domain.Window, taxiTypes []string) (domain.Table, error) {
	if w.Start.IsZero() || w.End.IsZero() {
		return domain.Table{}, fmt.Errorf("ingest.Materializer.Materialize: %w: window start and end dates are required", domain.ErrValidation)
	}
	if w.Start.After(w.End) {
		return domain.Table{}, fmt.Errorf("ingest.Materializer.Materialize: %w: window start is after end", domain.ErrValidation)
	}
	if len(taxiTypes) == 0 {
		taxiTypes = domain.DefaultTaxiTypes()
	}
	for _, tt := range taxiTypes {
		if strings.TrimSpace(tt) == "" {
			return domain.Table{}, fmt.Errorf("ingest.Materializer.Materialize: %w: empty taxi type", domain.ErrValidation)
		}
	}

	// Fixed encounter order: subtype-major, then month-chronological. Each
	// unit gets one result slot so concurrent completion cannot reorder the
	// output.
	type unit struct {
		taxiType   string
		monthStart time.Time
	}
	var units []unit
	for _, tt := range taxiTypes {
		for ms := range w.MonthStarts() {
			units = append(units, unit{taxiType: tt, monthStart: ms})
		}
	}

	m.log.Info("materializing trip window",
		"start", w.Start.Format("2006-01-02"),
		"end", w.End.Format("2006-01-02"),
		"taxi_types", taxiTypes,
		"months", len(units)/len(taxiTypes),
	)

	results := make([]domain.Table, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i, u := range units {
		g.Go(func() error {
			res, err := m.fetcher.FetchMonth(gctx, u.taxiType, u.monthStart)
			if err != nil {
				return err
			}
			if res.Status != fetch.StatusFetched || res.Table.Empty() {
				return nil
			}

			tbl := schema.Normalize(res.Table, u.taxiType)
			tbl = FilterWindow(tbl, w)
			if tbl.Empty() {
				return nil
			}
			results[i] = tbl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Table{}, fmt.Errorf("ingest.Materializer.Materialize: %w", err)
	}

	extractedAt := m.now().UTC()

	out := domain.Table{Columns: domain.NewColumnSet()}
	for _, tbl := range results {
		if tbl.Empty() {
			continue
		}
		for col := range tbl.Columns {
			out.Columns.Add(col)
		}
		for _, row := range tbl.Rows {
			row.ExtractedAt = extractedAt
			out.Rows = append(out.Rows, row)
		}
	}

	if len(out.Rows) == 0 {
		return domain.EmptyCanonicalTable(), nil
	}
	out.Columns.Add(domain.ColExtractedAt)
	return out, nil
}
