package domain

import (
	"time"

	"github.com/google/uuid"
)

// IngestRun is the bookkeeping record for one materialization: which window
// and taxi types were requested, when it ran, and how many canonical rows it
// appended. One row is written per invocation of the pipeline.
type IngestRun struct {
	ID         uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	TaxiTypes  []string
	RowCount   int64
	StartedAt  time.Time
	FinishedAt *time.Time // nil while the run is still in progress
}
