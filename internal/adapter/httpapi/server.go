// Package httpapi serves analyses over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"readscore/internal/adapter/resilience"
	"readscore/internal/domain"
	"readscore/internal/port"
)

// Analyzer is the analysis entry point the API exposes.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*domain.Result, error)
}

// RequestObserver records served requests.
type RequestObserver interface {
	ObserveHTTP(method, path string, status int, duration time.Duration)
}

type AnalyzeRequest struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
	Save   bool   `json:"save,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

type Server struct {
	analyzer     Analyzer
	store        port.ReportStore
	metrics      http.Handler
	observer     RequestObserver
	logger       *slog.Logger
	maxBodyBytes int64
	newReport    func(source string, result *domain.Result) domain.Report
}

type Option func(*Server)

// WithStore enables saving and the /v1/reports endpoints.
func WithStore(store port.ReportStore, newReport func(source string, result *domain.Result) domain.Report) Option {
	return func(s *Server) {
		s.store = store
		s.newReport = newReport
	}
}

// WithMetrics mounts h on /metrics and reports each request to obs.
func WithMetrics(h http.Handler, obs RequestObserver) Option {
	return func(s *Server) {
		s.metrics = h
		s.observer = obs
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBodyBytes = n }
}

func NewServer(analyzer Analyzer, opts ...Option) *Server {
	s := &Server{
		analyzer:     analyzer,
		logger:       slog.Default(),
		maxBodyBytes: 1 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler wrapped in logging and metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.store != nil {
		mux.HandleFunc("GET /v1/reports", s.handleListReports)
		mux.HandleFunc("GET /v1/reports/{id}", s.handleGetReport)
	}
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
	return s.instrument(mux)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	if req.Save && s.store == nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "saving is not enabled on this server"})
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), req.Text)
	if err != nil {
		status, body := s.classify(err)
		if status >= 500 {
			s.logger.ErrorContext(r.Context(), "analysis failed", slog.Any("error", err))
		}
		writeError(w, status, body)
		return
	}

	if !req.Save {
		writeJSON(w, http.StatusOK, result)
		return
	}

	report := s.newReport(req.Source, result)
	if err := s.store.PutReport(report); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to save report", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "failed to save report"})
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.store.ListReports()
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to list reports", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "failed to list reports"})
		return
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.GetReport(r.PathValue("id"))
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, errorResponse{Error: "report not found"})
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to load report", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "failed to load report"})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// classify maps an analysis error to a status code. Input problems are the
// caller's fault; failures of external services are reported as gateway
// errors with the failing stage.
func (s *Server) classify(err error) (int, errorResponse) {
	body := errorResponse{Error: err.Error()}

	var se *domain.StageError
	if errors.As(err, &se) {
		body.Stage = string(se.Stage)
	}

	switch {
	case errors.Is(err, domain.ErrEmptyInput), errors.Is(err, domain.ErrDivisionByZero):
		return http.StatusBadRequest, body
	case errors.Is(err, domain.ErrTranslationDisabled):
		return http.StatusUnprocessableEntity, body
	case errors.Is(err, resilience.ErrCircuitOpen):
		return http.StatusServiceUnavailable, body
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, body
	case se != nil && se.External():
		return http.StatusBadGateway, body
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal server error", Stage: body.Stage}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		path := routeLabel(r.URL.Path)
		if s.observer != nil {
			s.observer.ObserveHTTP(r.Method, path, rec.status, duration)
		}
		s.logger.DebugContext(r.Context(), "request served",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", duration))
	})
}

// routeLabel keeps metric cardinality bounded by collapsing report ids.
func routeLabel(path string) string {
	if strings.HasPrefix(path, "/v1/reports/") {
		return "/v1/reports/{id}"
	}
	switch path {
	case "/v1/analyze", "/v1/reports", "/healthz", "/metrics":
		return path
	}
	return "other"
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode JSON response",
			slog.Int("status_code", code),
			slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, code int, body errorResponse) {
	writeJSON(w, code, body)
}

// ListenAndServe runs srv until ctx is canceled, then shuts it down
// gracefully within shutdownTimeout.
func ListenAndServe(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
