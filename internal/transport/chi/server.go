// Package chi exposes the HTTP API: candidate recommendations for a job
// posting, batch candidate processing, health and metrics.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/talent-cloud/matchdex/internal/domain"
	dombatch "github.com/talent-cloud/matchdex/internal/domain/batch"
	healthuc "github.com/talent-cloud/matchdex/internal/usecase/health"
	ingestuc "github.com/talent-cloud/matchdex/internal/usecase/ingest"
	searchuc "github.com/talent-cloud/matchdex/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements the HTTP handlers over the usecase services.
type Server struct {
	search        *searchuc.Service
	ingest        *ingestuc.Service
	health        *healthuc.Service
	rawPath       string
	processedPath string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. rawPath and processedPath are the
// candidate snapshot locations the batch endpoint reads from and writes to.
func NewServer(
	search *searchuc.Service,
	ingest *ingestuc.Service,
	health *healthuc.Service,
	rawPath, processedPath string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:        search,
		ingest:        ingest,
		health:        health,
		rawPath:       rawPath,
		processedPath: processedPath,
		logger:        logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, "bad_request"),
		sentinelHandler(domain.ErrGatewayTimeout, http.StatusGatewayTimeout, "gateway_timeout"),
		sentinelHandler(domain.ErrFeatureExtraction, http.StatusBadGateway, "feature_extraction_failed"),
		sentinelHandler(domain.ErrEmbeddingFailed, http.StatusBadGateway, "embedding_failed"),
		sentinelHandler(domain.ErrDimensionMismatch, http.StatusInternalServerError, "dimension_mismatch"),
		sentinelHandler(domain.ErrCorpusInvalid, http.StatusInternalServerError, "corpus_invalid"),
	}
	return s
}

// Routes registers all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/recommend", s.Recommend)
	r.Post("/process-candidates", s.ProcessCandidates)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RecommendResponse lists ranked candidates for a job posting.
type RecommendResponse struct {
	Items []domain.RankedCandidate `json:"items"`
	Count int                      `json:"count"`
	TopN  int                      `json:"top_n"`
}

// Recommend handles POST /recommend.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var job domain.RawJob
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	if job.JobTitle == "" && job.JobDescription == "" {
		writeError(w, http.StatusBadRequest, "validation_failed",
			"job_title or job_description is required")
		return
	}

	topN, err := parseTopN(r.URL.Query().Get("top_n"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	ranked, err := s.search.Search(r.Context(), job, topN)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if ranked == nil {
		ranked = []domain.RankedCandidate{}
	}

	writeJSON(w, http.StatusOK, RecommendResponse{
		Items: ranked,
		Count: len(ranked),
		TopN:  topN,
	})
}

// parseTopN validates the top_n query parameter. Absent means the default;
// anything present must be an integer in [1, MaxTopN].
func parseTopN(raw string) (int, error) {
	if raw == "" {
		return searchuc.DefaultTopN, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("top_n must be an integer")
	}
	if n <= 0 || n > searchuc.MaxTopN {
		return 0, errors.New("top_n must be between 1 and " + strconv.Itoa(searchuc.MaxTopN))
	}
	return n, nil
}

// BatchResultItem reports the outcome for one candidate in a batch run.
type BatchResultItem struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ProcessCandidatesResponse summarizes a batch run.
type ProcessCandidatesResponse struct {
	Items     []BatchResultItem `json:"items"`
	Total     int               `json:"total"`
	Processed int               `json:"processed"`
	Dropped   int               `json:"dropped"`
}

// ProcessCandidates handles POST /process-candidates: it reruns the batch
// pipeline over the raw snapshot and republishes the serving corpus.
func (s *Server) ProcessCandidates(w http.ResponseWriter, r *http.Request) {
	report, err := s.ingest.ProcessFile(r.Context(), s.rawPath, s.processedPath)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]BatchResultItem, len(report.Results))
	for i, res := range report.Results {
		items[i] = batchResultItem(res)
	}

	writeJSON(w, http.StatusOK, ProcessCandidatesResponse{
		Items:     items,
		Total:     report.Total,
		Processed: report.Processed,
		Dropped:   report.Dropped,
	})
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
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

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func batchResultItem(r dombatch.Result) BatchResultItem {
	item := BatchResultItem{
		ID:     r.ID(),
		Status: string(r.Status()),
	}
	if r.Err() != nil {
		item.Error = r.Err().Error()
	}
	return item
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrGatewayTimeout,
		domain.ErrFeatureExtraction,
		domain.ErrEmbeddingFailed,
		domain.ErrDimensionMismatch,
		domain.ErrCorpusInvalid,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
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
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
