package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/taxi-ingest/internal/domain"
)

// RunRepo defines the persistence operations for ingest run bookkeeping.
type RunRepo interface {
	// Create inserts a new run row and returns the persisted record (with
	// DB-generated id and started_at populated). finished_at stays null
	// until Finish is called.
	Create(ctx context.Context, run domain.IngestRun) (domain.IngestRun, error)

	// Finish stamps finished_at and the final row count on an existing run.
	// Returns domain.ErrNotFound if no run with that ID exists.
	Finish(ctx context.Context, id uuid.UUID, rowCount int64) (domain.IngestRun, error)

	// GetByID retrieves a single run by its UUID primary key.
	// Returns domain.ErrNotFound if no run with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.IngestRun, error)
}

// pgRunRepo is the Postgres implementation of RunRepo.
type pgRunRepo struct {
	db db
}

// NewRunRepo constructs a RunRepo backed by the provided db connection.
func NewRunRepo(db db) RunRepo {
	return &pgRunRepo{db: db}
}

// Create inserts a new run row and returns the full persisted record.
func (r *pgRunRepo) Create(ctx context.Context, run domain.IngestRun) (domain.IngestRun, error) {
	const q = `
		INSERT INTO ingest_runs (start_date, end_date, taxi_types)
		VALUES (@start_date, @end_date, @taxi_types)
		RETURNING id, start_date, end_date, taxi_types, row_count, started_at, finished_at`

	args := pgx.NamedArgs{
		"start_date": run.StartDate,
		"end_date":   run.EndDate,
		"taxi_types": run.TaxiTypes,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanRun(row)
	if err != nil {
		return domain.IngestRun{}, fmt.Errorf("repo.RunRepo.Create: %w", err)
	}
	return result, nil
}

// Finish stamps the completion time and row count.
func (r *pgRunRepo) Finish(ctx context.Context, id uuid.UUID, rowCount int64) (domain.IngestRun, error) {
	const q = `
		UPDATE ingest_runs
		SET row_count   = @row_count,
		    finished_at = now()
		WHERE id = @id
		RETURNING id, start_date, end_date, taxi_types, row_count, started_at, finished_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "row_count": rowCount})
	result, err := scanRun(row)
	if err != nil {
		return domain.IngestRun{}, fmt.Errorf("repo.RunRepo.Finish: %w", err)
	}
	return result, nil
}

// GetByID retrieves a run by primary key.
func (r *pgRunRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.IngestRun, error) {
	const q = `
		SELECT id, start_date, end_date, taxi_types, row_count, started_at, finished_at
		FROM ingest_runs
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanRun(row)
	if err != nil {
		return domain.IngestRun{}, fmt.Errorf("repo.RunRepo.GetByID: %w", err)
	}
	return result, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanRun to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanRun maps a single database row into a domain.IngestRun.
// It handles the UUID, date, and nullable finished_at conversions.
func scanRun(s scanner) (domain.IngestRun, error) {
	var (
		run        domain.IngestRun
		id         pgtype.UUID
		startDate  pgtype.Date
		endDate    pgtype.Date
		finishedAt pgtype.Timestamptz
	)

	err := s.Scan(&id, &startDate, &endDate, &run.TaxiTypes, &run.RowCount, &run.StartedAt, &finishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.IngestRun{}, domain.ErrNotFound
		}
		return domain.IngestRun{}, err
	}

	run.ID = uuid.UUID(id.Bytes)
	run.StartDate = startDate.Time
	run.EndDate = endDate.Time
	if finishedAt.Valid {
		ft := finishedAt.Time
		run.FinishedAt = &ft
	}
	return run, nil
}
