package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wargaair/water-safety-service/internal/domain"
)

// AssessmentService is the scoring API the handlers call. It is satisfied by
// *assessment.Service.
type AssessmentService interface {
	ClassifySensory(ctx context.Context, in domain.SensoryInput) domain.Verdict
	ClassifyLab(ctx context.Context, in domain.LabInput) (domain.Verdict, error)
	PredictDiseases(ctx context.Context, in domain.LabInput) []string
	FormatReport(v domain.Verdict) string
	ParameterStandards(ctx context.Context) ([]domain.ParameterStandard, error)
	Assess(ctx context.Context, r domain.Reading) (domain.Assessment, error)
}

// Server exposes the scoring API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        AssessmentService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the /v1 scoring routes and the
// /healthz, /readyz, and /metrics routes.
func NewServer(addr string, svc AssessmentService, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("POST /v1/classify/sensory", s.handleClassifySensory)
	mux.HandleFunc("POST /v1/classify/lab", s.handleClassifyLab)
	mux.HandleFunc("POST /v1/diseases/predict", s.handlePredictDiseases)
	mux.HandleFunc("POST /v1/reports", s.handleReport)
	mux.HandleFunc("POST /v1/assessments", s.handleAssess)
	mux.HandleFunc("GET /v1/standards", s.handleStandards)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
