package handler

import (
	"net/http"

	"github.com/pkordes/taxi-ingest/spec"
)

// GetOpenAPI handles GET /openapi.yaml, serving the API description embedded
// in the binary so the spec and the running code are always in sync.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}
