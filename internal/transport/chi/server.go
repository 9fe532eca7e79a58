// Package chi exposes the HTTP API: search, index maintenance, health
// and metrics endpoints on a chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/openark/solrmapper/internal/domain/query"
	"github.com/openark/solrmapper/internal/domain/resource"
	"github.com/openark/solrmapper/internal/domain/result"
	"github.com/openark/solrmapper/internal/solr"
	healthuc "github.com/openark/solrmapper/internal/usecase/health"
)

// errorCode is the machine-readable error code of an API error body.
type errorCode string

const (
	codeBadRequest        errorCode = "bad_request"
	codeValidationFailed  errorCode = "validation_failed"
	codeEngineUnavailable errorCode = "engine_unavailable"
	codeMalformedDocument errorCode = "malformed_document"
	codeInternalError     errorCode = "internal_error"
)

// Searcher runs compiled queries.
type Searcher interface {
	Search(ctx context.Context, q *query.Query) (*result.Response, error)
	SearchWithIDs(ctx context.Context, q *query.Query) (*result.Response, error)
}

// Writer maintains the index.
type Writer interface {
	IndexBatch(ctx context.Context, resources []resource.Resource) error
	DeleteDocument(ctx context.Context, kind string, resourceID int64) error
	ClearIndex(ctx context.Context) error
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server is the HTTP API server.
type Server struct {
	search Searcher
	writer Writer
	health HealthChecker
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, writer Writer, health HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{search: search, writer: writer, health: health, logger: logger}
}

// Mount attaches all routes to a router. Middleware is composed by
// the caller.
func (s *Server) Mount(r chirouter.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chirouter.Router) {
		r.Post("/search", s.SearchResources)
		r.Post("/index", s.IndexResources)
		r.Delete("/index", s.ClearIndex)
		r.Delete("/index/{kind}/{id}", s.DeleteResource)
	})
}

// SearchResources handles POST /api/v1/search.
func (s *Server) SearchResources(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := req.toQuery()
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	var resp *result.Response
	if req.IncludeIDs {
		resp, err = s.search.SearchWithIDs(r.Context(), q)
	} else {
		resp, err = s.search.Search(r.Context(), q)
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, responseToDTO(resp))
}

// IndexResources handles POST /api/v1/index.
func (s *Server) IndexResources(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	resources, err := req.toResources()
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	if err := s.writer.IndexBatch(r.Context(), resources); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, indexResponse{Accepted: len(resources)})
}

// DeleteResource handles DELETE /api/v1/index/{kind}/{id}.
func (s *Server) DeleteResource(w http.ResponseWriter, r *http.Request) {
	kind := chirouter.URLParam(r, "kind")
	id, err := strconv.ParseInt(chirouter.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "id must be a positive integer")
		return
	}

	if err := s.writer.DeleteDocument(r.Context(), kind, id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearIndex handles DELETE /api/v1/index.
func (s *Server) ClearIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.writer.ClearIndex(r.Context()); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	switch {
	case errors.Is(err, solr.ErrEngineUnavailable):
		writeError(w, http.StatusBadGateway, codeEngineUnavailable, solr.ErrEngineUnavailable.Error())
	case errors.Is(err, solr.ErrSchemaUnavailable):
		writeError(w, http.StatusBadGateway, codeEngineUnavailable, solr.ErrSchemaUnavailable.Error())
	case errors.Is(err, solr.ErrMalformedDocument):
		writeError(w, http.StatusBadRequest, codeMalformedDocument, solr.ErrMalformedDocument.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
