package chi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	domlisting "github.com/kailas-cloud/bizlist/internal/domain/listing"
	"github.com/kailas-cloud/bizlist/internal/metrics"
	healthuc "github.com/kailas-cloud/bizlist/internal/usecase/health"
	listinguc "github.com/kailas-cloud/bizlist/internal/usecase/listing"
)

// Lister runs one listing.
type Lister interface {
	List(ctx context.Context, q listinguc.Query) ([]domlisting.Row, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server serves the listing HTTP API.
type Server struct {
	listing       Lister
	health        HealthChecker
	maxLimit      int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. maxLimit caps the limit parameter.
func NewServer(listing Lister, health HealthChecker, maxLimit int) *Server {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &Server{
		listing:       listing,
		health:        health,
		maxLimit:      maxLimit,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/businesses", s.ListBusinesses)
	r.Get("/rand-businesses", s.RandomBusinesses)
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
}

// ListBusinesses handles GET /businesses.
func (s *Server) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	s.list(w, r, false)
}

// RandomBusinesses handles GET /rand-businesses.
func (s *Server) RandomBusinesses(w http.ResponseWriter, r *http.Request) {
	s.list(w, r, true)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, random bool) {
	q, err := parseListQuery(r, s.maxLimit, random)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	rows, err := s.listing.List(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, RowsToResponse(rows))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}
