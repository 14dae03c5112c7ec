package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

type Server struct {
	reports     *services.Reports
	mux         *http.ServeMux
	logger      *slog.Logger
	metrics     *observability.Metrics
	dashboard   *handlers.DashboardHandler
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

func NewServer(reports *services.Reports, logger *slog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		reports:     reports,
		mux:         http.NewServeMux(),
		logger:      logger,
		metrics:     metrics,
		dashboard:   handlers.NewDashboardHandler(reports, logger, metrics, handlers.DefaultTableLimit),
		apiHandlers: handlers.NewAPIHandlers(reports, logger, metrics),
		sseHandlers: handlers.NewSSEHandlers(reports, logger, metrics, handlers.DefaultTableLimit),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Dashboard and operational routes
	s.mux.Handle("GET /{$}", s.dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)
	s.mux.Handle("GET /metrics", s.metrics.Handler())

	// REST API endpoints
	s.mux.HandleFunc("GET /api/kpis", s.apiHandlers.HandleKPIs)
	s.mux.HandleFunc("GET /api/sales-over-time", s.apiHandlers.HandleSalesOverTime)
	s.mux.HandleFunc("GET /api/sales-by-category", s.apiHandlers.HandleSalesByCategory)
	s.mux.HandleFunc("GET /api/records", s.apiHandlers.HandleRecords)
	s.mux.HandleFunc("GET /api/records.xlsx", s.apiHandlers.HandleRecordsXLSX)
	s.mux.HandleFunc("GET /api/", s.apiHandlers.HandleNotFound)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/kpis", s.sseHandlers.HandleKPIs)
	s.mux.HandleFunc("GET /sse/records", s.sseHandlers.HandleRecords)
	s.mux.HandleFunc("GET /sse/sales-over-time", s.sseHandlers.HandleSalesOverTime)
	s.mux.HandleFunc("GET /sse/sales-by-category", s.sseHandlers.HandleSalesByCategory)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Handler wraps the routes in the full middleware chain.
func (s *Server) Handler(cfg config.SecurityConfig, limiter *middleware.RateLimiter) http.Handler {
	chain := middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.RequestID(),
		middleware.Logger(s.logger),
		middleware.Tracing(),
		middleware.Metrics(s.metrics),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg),
		middleware.TrustedProxy(cfg),
		middleware.RateLimit(limiter, s.logger),
	)
	return chain(s)
}
