// Package repo contains all database access logic for the taxi ingest
// pipeline. Each resource has its own file with an interface and a Postgres
// implementation. No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/taxi-ingest/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// TripRepo defines the persistence operations for the canonical trip table.
// The ingest layer depends on this interface, not the concrete Postgres
// implementation, which allows it to be unit-tested with a mock.
type TripRepo interface {
	// InsertBatch appends the given canonical rows and returns the number of
	// rows written. The trips table is append-only materialization: rows are
	// never updated or deleted by the pipeline.
	InsertBatch(ctx context.Context, trips []domain.TripRecord) (int64, error)

	// CountByWindow returns the number of stored trips whose pickup falls
	// inside the half-open window.
	CountByWindow(ctx context.Context, w domain.Window) (int64, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// tripColumns is the canonical column list in table order, shared by
// InsertBatch and the migration that creates the table.
var tripColumns = domain.CanonicalColumns()

// InsertBatch bulk-appends rows via the Postgres COPY protocol, which is
// substantially faster than row-at-a-time inserts for monthly files that run
// to millions of rows.
func (r *pgTripRepo) InsertBatch(ctx context.Context, trips []domain.TripRecord) (int64, error) {
	if len(trips) == 0 {
		return 0, nil
	}

	rows := make([][]any, len(trips))
	for i, t := range trips {
		rows[i] = []any{
			t.TaxiType,
			t.PickupDatetime,
			t.DropoffDatetime,
			t.PickupLocationID,
			t.DropoffLocationID,
			t.PassengerCount,
			t.TripDistance,
			t.FareAmount,
			t.TotalAmount,
			t.PaymentType,
			t.ExtractedAt,
		}
	}

	n, err := r.db.CopyFrom(ctx, pgx.Identifier{"trips"}, tripColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("repo.TripRepo.InsertBatch: %w", err)
	}
	return n, nil
}

// CountByWindow counts stored rows with start <= pickup_datetime < end.
func (r *pgTripRepo) CountByWindow(ctx context.Context, w domain.Window) (int64, error) {
	const q = `
		SELECT count(*)
		FROM trips
		WHERE pickup_datetime >= @start
		AND   pickup_datetime <  @end`

	var n int64
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"start": w.Start, "end": w.End}).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("repo.TripRepo.CountByWindow: %w", err)
	}
	return n, nil
}
