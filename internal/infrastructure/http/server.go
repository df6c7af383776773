package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/inventory-browser/internal/infrastructure/config"
	"github.com/mrops-br/inventory-browser/internal/infrastructure/http/handler"
	"github.com/mrops-br/inventory-browser/internal/infrastructure/http/middleware"
	"github.com/mrops-br/inventory-browser/internal/infrastructure/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// Server is the local diagnostics endpoint: health, Prometheus metrics and a
// JSON dump of the session view
type Server struct {
	router    *chi.Mux
	handler   *handler.DiagnosticsHandler
	sessionID string
	logger    *slog.Logger
	telemetry *telemetry.Telemetry
	srv       *http.Server
}

// NewServer creates a new diagnostics server
func NewServer(
	cfg *config.DiagnosticsConfig,
	handler *handler.DiagnosticsHandler,
	sessionID string,
	logger *slog.Logger,
	telem *telemetry.Telemetry,
) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		handler:   handler,
		sessionID: sessionID,
		logger:    logger,
		telemetry: telem,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.HTTPRouteContext())
	s.router.Use(middleware.SessionContext(s.sessionID))

	meter := s.telemetry.MeterProvider.Meter("inventory-browser/http")
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handler.Health)
	s.router.Get("/debug/view", s.handler.View)

	s.router.Get("/metrics", promhttp.HandlerFor(s.telemetry.Registry, promhttp.HandlerOpts{}).ServeHTTP)
}

// Handler returns the router wrapped with otelhttp, which records
// http.server.request.duration and friends for every request
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "diagnostics",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithTracerProvider(s.telemetry.TracerProvider),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			pattern := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				pattern = rctx.RoutePattern()
			}
			return []attribute.KeyValue{
				attribute.String("http.route", pattern),
			}
		}),
	)
}

// Start serves until Shutdown is called. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	s.logger.Info("Starting diagnostics server",
		slog.String("address", s.srv.Addr),
	)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
