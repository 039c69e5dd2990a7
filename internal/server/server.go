// Package server exposes fetch cycles, health and Prometheus metrics over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/agbru/fetchboard/internal/content"
	"github.com/agbru/fetchboard/internal/logging"
	"github.com/agbru/fetchboard/internal/metrics"
	"github.com/agbru/fetchboard/internal/orchestration"
	"github.com/agbru/fetchboard/internal/sysmon"
)

// Server timeouts.
const (
	ReadTimeout     = 10 * time.Second
	WriteTimeout    = 2 * time.Minute
	IdleTimeout     = 2 * time.Minute
	ShutdownTimeout = 10 * time.Second
)

// CycleExecutor runs one synchronous fetch cycle.
type CycleExecutor interface {
	Execute(ctx context.Context) orchestration.Aggregate
}

// Server is the HTTP surface of the application.
type Server struct {
	httpServer *http.Server
	executor   CycleExecutor
	metrics    *metrics.Metrics
	logger     logging.Logger
	security   SecurityConfig
	sample     sysmon.Sampler
	version    string
	startTime  time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithSecurityConfig replaces DefaultSecurityConfig.
func WithSecurityConfig(c SecurityConfig) Option {
	return func(s *Server) { s.security = c }
}

// WithSampler replaces sysmon.Sample for /health.
func WithSampler(f sysmon.Sampler) Option {
	return func(s *Server) { s.sample = f }
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a server listening on addr. A nil m gets a fresh registry.
func New(addr string, executor CycleExecutor, m *metrics.Metrics, opts ...Option) *Server {
	if m == nil {
		m = metrics.NewMetrics()
	}
	s := &Server{
		executor:  executor,
		metrics:   m,
		logger:    logging.NewNopLogger(),
		security:  DefaultSecurityConfig(),
		sample:    sysmon.Sample,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}
	return s
}

// Handler returns the route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.wrap(s.handleHealth))
	mux.HandleFunc("/metrics", s.wrap(s.handleMetrics))
	mux.HandleFunc("/api/cycle", s.wrap(s.handleCycle))
	return mux
}

func (s *Server) wrap(h http.HandlerFunc) http.HandlerFunc {
	return SecurityMiddleware(s.security, s.metricsMiddleware(h))
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", logging.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	s.logger.Info("server shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// metricsMiddleware tracks active and total requests.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()
		s.metrics.CountRequest(r.URL.Path)
		next(w, r)
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status  string                  `json:"status"`
	Version string                  `json:"version,omitempty"`
	Uptime  string                  `json:"uptime"`
	Runtime metrics.RuntimeSnapshot `json:"runtime"`
	System  sysmon.Stats            `json:"system"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: s.version,
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
		Runtime: metrics.TakeRuntimeSnapshot(),
		System:  s.sample(),
	})
}

func (s *Server) handleCycle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	agg := s.executor.Execute(r.Context())
	v := NewCycleView(agg)
	if v.ImageError != "" {
		s.logger.Error("describe fetched image", errors.New(v.ImageError),
			logging.String("cycle_id", agg.CycleID))
	}
	s.writeJSON(w, http.StatusOK, v)
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", err)
	}
}

// CycleView is the JSON form of an aggregate.
type CycleView struct {
	CycleID    string             `json:"cycle_id"`
	StartedAt  time.Time          `json:"started_at"`
	DurationMS int64              `json:"duration_ms"`
	Result     string             `json:"result"`
	Joke       *content.Joke      `json:"joke"`
	Comments   []content.Comment  `json:"comments"`
	Image      *content.ImageInfo `json:"image"`
	ImageError string             `json:"image_error,omitempty"`
	Failures   []FailureView      `json:"failures"`
}

// FailureView is the JSON form of a failed slot.
type FailureView struct {
	Resource string `json:"resource"`
	Kind     string `json:"kind"`
	Status   int    `json:"status,omitempty"`
	Message  string `json:"message"`
}

// NewCycleView converts an aggregate. Failed slots are null and listed in
// Failures. A fetched image whose header cannot be read leaves Image null
// and sets ImageError.
func NewCycleView(agg orchestration.Aggregate) CycleView {
	v := CycleView{
		CycleID:    agg.CycleID,
		StartedAt:  agg.StartedAt,
		DurationMS: agg.Duration.Milliseconds(),
		Result:     agg.Result(),
		Failures:   []FailureView{},
	}
	if joke, ok := agg.Joke.Value(); ok {
		v.Joke = &joke
	}
	if comments, ok := agg.Comments.Value(); ok {
		v.Comments = comments
	}
	if data, ok := agg.Image.Value(); ok {
		info, err := content.DescribeImage(data)
		if err != nil {
			v.ImageError = err.Error()
		} else {
			v.Image = &info
		}
	}
	for _, f := range agg.Failures() {
		v.Failures = append(v.Failures, FailureView{
			Resource: f.Resource,
			Kind:     f.Kind.String(),
			Status:   f.Status,
			Message:  f.UserMessage(),
		})
	}
	return v
}
