// Package chi exposes the search service over HTTP. Handlers are thin: they
// decode, delegate to a usecase, and translate domain sentinels to statuses.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/promptforge/searchd/internal/domain"
	healthuc "github.com/promptforge/searchd/internal/usecase/health"
)

// requesterHeader carries the already-resolved requester id. Authentication
// happens upstream; an absent header means an anonymous requester.
const requesterHeader = "X-Requester-Id"

// maxBodySize caps request bodies.
const maxBodySize = 1 << 20

// Searcher serves queries and the popular-queries report.
type Searcher interface {
	Search(ctx context.Context, q domain.Query, requesterID string) (*domain.Result, error)
	PopularQueries(ctx context.Context, limit int) ([]domain.PopularQuery, error)
}

// Suggester serves autocomplete.
type Suggester interface {
	Suggest(ctx context.Context, partial string, limit int) ([]domain.Suggestion, error)
}

// Indexer applies content lifecycle events.
type Indexer interface {
	IndexDocument(ctx context.Context, raw domain.RawEntity) error
	RemoveDocument(ctx context.Context, t domain.DocType, entityID string) error
	RebuildAll(ctx context.Context) (int, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API server.
type Server struct {
	search        Searcher
	suggest       Suggester
	indexer       Indexer
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, suggest Suggester, indexer Indexer, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		search:  search,
		suggest: suggest,
		indexer: indexer,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrUnknownDocType, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrRebuildInProgress, http.StatusConflict, CodeRebuildInProgress),
		sentinelHandler(domain.ErrBackendUnavailable, http.StatusServiceUnavailable, CodeBackendUnavailable),
	}
	return s
}

// Handler mounts every route on a fresh router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/search", s.Search)
		r.Get("/search/popular", s.PopularQueries)
		r.Get("/suggest", s.Suggest)
		r.Put("/index/{type}", s.IndexDocument)
		r.Delete("/index/{type}/{id}", s.RemoveDocument)
		r.Post("/reindex", s.Rebuild)
	})

	return r
}

// Search handles POST /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}

	q, err := req.toQuery()
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	res, err := s.search.Search(r.Context(), q, r.Header.Get(requesterHeader))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// Suggest handles GET /v1/suggest.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	partial := r.URL.Query().Get("q")
	if partial == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "query parameter q is required")
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	suggestions, err := s.suggest.Suggest(r.Context(), partial, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestionsResponse{Suggestions: suggestions})
}

// PopularQueries handles GET /v1/search/popular.
func (s *Server) PopularQueries(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	queries, err := s.search.PopularQueries(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, popularResponse{Queries: queries})
}

// IndexDocument handles PUT /v1/index/{type}. The body is the raw content
// entity as exported by the owning collaborator.
func (s *Server) IndexDocument(w http.ResponseWriter, r *http.Request) {
	t, err := domain.ParseDocType(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil || len(payload) == 0 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "request body required")
		return
	}

	if err := s.indexer.IndexDocument(r.Context(), domain.RawEntity{Type: t, Payload: payload}); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// RemoveDocument handles DELETE /v1/index/{type}/{id}.
func (s *Server) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	t, err := domain.ParseDocType(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	if err := s.indexer.RemoveDocument(r.Context(), t, chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Rebuild handles POST /v1/reindex.
func (s *Server) Rebuild(w http.ResponseWriter, r *http.Request) {
	n, err := s.indexer.RebuildAll(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rebuildResponse{Indexed: n})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	// A degraded report still answers 200: the local index keeps queries
	// alive while the engine is down, so probes must not restart us.
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    string(report.Status),
		Checks:    report.Checks,
		LocalDocs: report.LocalDocs,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrUnknownDocType,
		domain.ErrNotFound,
		domain.ErrRebuildInProgress,
		domain.ErrBackendUnavailable,
	}
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return err.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
