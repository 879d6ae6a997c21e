package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecbrowse/internal/commands"
	"github.com/kailas-cloud/vecbrowse/internal/domain"
	"github.com/kailas-cloud/vecbrowse/internal/domain/listing"
	healthuc "github.com/kailas-cloud/vecbrowse/internal/usecase/health"
)

// NextTokenHeader carries the continuation token of a partial listing.
const NextTokenHeader = "X-Next-Token"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Commands is the listing surface served over HTTP.
type Commands interface {
	GetBucketList(ctx context.Context, region string, req listing.PageRequest) (commands.Result, error)
	GetBucketIndexes(ctx context.Context, region, bucket string, req listing.PageRequest) (commands.Result, error)
	GetBucketVectors(
		ctx context.Context, region, bucket, index string, req listing.PageRequest,
	) (commands.Result, error)
}

// Server serves the listing API for the UI shell.
type Server struct {
	commands      Commands
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(cmds Commands, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		commands: cmds,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrRemoteCall, http.StatusBadGateway, ErrorCodeRemoteError),
		sentinelHandler(domain.ErrSerialization, http.StatusInternalServerError, ErrorCodeSerializationError),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/api/v1/regions/{region}/buckets", s.GetBucketList)
	r.Get("/api/v1/regions/{region}/buckets/{bucket}/indexes", s.GetBucketIndexes)
	r.Get("/api/v1/regions/{region}/buckets/{bucket}/indexes/{index}/vectors", s.GetBucketVectors)
}

// GetBucketList handles GET /api/v1/regions/{region}/buckets.
func (s *Server) GetBucketList(w http.ResponseWriter, r *http.Request) {
	var region string
	if !bindPath(w, r, "region", &region) {
		return
	}
	req, ok := bindPageRequest(w, r)
	if !ok {
		return
	}

	res, err := s.commands.GetBucketList(r.Context(), region, req)
	s.writeResult(w, res, err)
}

// GetBucketIndexes handles GET /api/v1/regions/{region}/buckets/{bucket}/indexes.
func (s *Server) GetBucketIndexes(w http.ResponseWriter, r *http.Request) {
	var region, bucket string
	if !bindPath(w, r, "region", &region) || !bindPath(w, r, "bucket", &bucket) {
		return
	}
	req, ok := bindPageRequest(w, r)
	if !ok {
		return
	}

	res, err := s.commands.GetBucketIndexes(r.Context(), region, bucket, req)
	s.writeResult(w, res, err)
}

// GetBucketVectors handles GET /api/v1/regions/{region}/buckets/{bucket}/indexes/{index}/vectors.
func (s *Server) GetBucketVectors(w http.ResponseWriter, r *http.Request) {
	var region, bucket, index string
	if !bindPath(w, r, "region", &region) ||
		!bindPath(w, r, "bucket", &bucket) ||
		!bindPath(w, r, "index", &index) {
		return
	}
	req, ok := bindPageRequest(w, r)
	if !ok {
		return
	}

	res, err := s.commands.GetBucketVectors(r.Context(), region, bucket, index, req)
	s.writeResult(w, res, err)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// writeResult writes the payload as-is; it is already JSON text.
func (s *Server) writeResult(w http.ResponseWriter, res commands.Result, err error) {
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if res.NextToken != "" {
		w.Header().Set(NextTokenHeader, res.NextToken)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(res.Payload))
}

// bindPath binds a required path segment. Writes 400 and returns false on failure.
func bindPath(w http.ResponseWriter, r *http.Request, name string, dest *string) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid path parameter "+name+": "+err.Error())
		return false
	}
	return true
}

// bindPageRequest binds max_results, next_token and all.
// Writes 400 and returns false on failure.
func bindPageRequest(w http.ResponseWriter, r *http.Request) (listing.PageRequest, bool) {
	var (
		maxResults *int32
		nextToken  *string
		all        *bool
	)
	q := r.URL.Query()

	for _, p := range []struct {
		name string
		dest any
	}{
		{"max_results", &maxResults},
		{"next_token", &nextToken},
		{"all", &all},
	} {
		if err := runtime.BindQueryParameter("form", true, false, p.name, q, p.dest); err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid query parameter "+p.name+": "+err.Error())
			return listing.PageRequest{}, false
		}
	}

	var req listing.PageRequest
	if maxResults != nil {
		if *maxResults < 1 {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "max_results must be positive")
			return listing.PageRequest{}, false
		}
		req.MaxResults = *maxResults
	}
	if nextToken != nil {
		req.NextToken = *nextToken
	}
	if all != nil {
		req.All = *all
	}
	return req, true
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

// handleDomainError maps err to a status. The message is the error text
// unchanged; the UI shows it to the user as is.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := err.Error()
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
