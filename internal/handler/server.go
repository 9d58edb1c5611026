// Package handler implements the HTTP handlers for the ingest trigger API.
// All handlers are methods on Server; methods are split into purpose-specific
// files (health.go, run.go) but share the same struct so they can access its
// dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/taxi-ingest/internal/domain"
)

// Ingestor defines the pipeline operation the run handler depends on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the network or the database.
type Ingestor interface {
	Run(ctx context.Context, w domain.Window, taxiTypes []string) (domain.IngestRun, error)
}

// RunGetter defines the read operation behind GET /runs/{id}.
type RunGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.IngestRun, error)
}

// Server holds the dependencies for all API endpoints.
type Server struct {
	ingestor Ingestor
	runs     RunGetter
}

// NewServer constructs the Server with all its dependencies.
func NewServer(ingestor Ingestor, runs RunGetter) *Server {
	return &Server{ingestor: ingestor, runs: runs}
}

// Routes returns the API route tree. Application-level middleware (request
// ID, logging, recovery) is applied by main around this router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Post("/runs", s.CreateRun)
	r.Get("/runs/{id}", s.GetRun)
	return r
}
