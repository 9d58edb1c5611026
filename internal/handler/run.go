package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/taxi-ingest/internal/domain"
)

const dateLayout = "2006-01-02"

// createRunRequest is the body of POST /runs. Dates are ISO-8601 calendar
// dates; end_date is exclusive. taxi_types defaults to ["yellow"] when
// omitted.
type createRunRequest struct {
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	TaxiTypes []string `json:"taxi_types,omitempty"`
}

// runResponse is the JSON view of a domain.IngestRun.
type runResponse struct {
	ID         uuid.UUID  `json:"id"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	TaxiTypes  []string   `json:"taxi_types"`
	RowCount   int64      `json:"row_count"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func toRunResponse(run domain.IngestRun) runResponse {
	return runResponse{
		ID:         run.ID,
		StartDate:  run.StartDate.Format(dateLayout),
		EndDate:    run.EndDate.Format(dateLayout),
		TaxiTypes:  run.TaxiTypes,
		RowCount:   run.RowCount,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
}

// CreateRun handles POST /runs: it executes one synchronous materialization
// over the requested window and returns the completed run record.
//
// Status mapping: 400 malformed body, 422 invalid window or taxi types,
// 502 upstream fetch failure (the trip-data host was unreachable).
func (s *Server) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req createRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	window, err := parseWindow(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
		return
	}

	run, err := s.ingestor.Run(r.Context(), window, req.TaxiTypes)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
			return
		}
		// Anything else is a transport or storage failure on our side of the
		// contract, not the client's.
		writeError(w, http.StatusBadGateway, "upstream_error", "trip data fetch failed")
		return
	}

	writeJSON(w, http.StatusCreated, toRunResponse(run))
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid run id")
		return
	}

	run, err := s.runs.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load run")
		return
	}

	writeJSON(w, http.StatusOK, toRunResponse(run))
}

// parseWindow builds a validated window from the request's date strings.
func parseWindow(start, end string) (domain.Window, error) {
	if start == "" || end == "" {
		return domain.Window{}, domain.ErrValidationMessage("start_date and end_date are required")
	}
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return domain.Window{}, domain.ErrValidationMessage("start_date must be a YYYY-MM-DD date")
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return domain.Window{}, domain.ErrValidationMessage("end_date must be a YYYY-MM-DD date")
	}
	return domain.NewWindow(startDate, endDate)
}
