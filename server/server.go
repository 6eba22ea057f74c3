// Package server wires the router, middleware and HTTP lifecycle for
// the prescription safety API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rxguard/rxguard-api/checker"
	"github.com/rxguard/rxguard-api/config"
	"github.com/rxguard/rxguard-api/data"
	"github.com/rxguard/rxguard-api/dosing"
	"github.com/rxguard/rxguard-api/drugkb"
	"github.com/rxguard/rxguard-api/handlers"
	"github.com/rxguard/rxguard-api/health"
	"github.com/rxguard/rxguard-api/labs"
	"github.com/rxguard/rxguard-api/logging"
	"github.com/rxguard/rxguard-api/metrics"
	"github.com/rxguard/rxguard-api/validation"
)

// Server represents the HTTP server
type Server struct {
	server    *http.Server
	router    chi.Router
	container *data.DataContainer
	config    *config.Config
}

// NewServer creates a new server instance with all evaluators wired to
// the shared snapshot container.
func NewServer(cfg *config.Config, container *data.DataContainer) *Server {
	router := chi.NewRouter()

	s := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:    router,
		container: container,
		config:    cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.DefaultLoggingService.Logger))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestSizeMiddleware(s.config))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(RateLimitHandler)
	s.router.Use(metrics.Metrics)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	kb := drugkb.NewKnowledgeBase(s.container)
	chk := checker.NewInteractionChecker(s.container)
	calculator := dosing.NewCalculator(s.container)
	labEvaluator := labs.NewCriticalValueEvaluator(s.container)
	healthChecker := health.NewHealthChecker(s.container, s.config.ReloadAt)
	validator := validation.NewDataValidator()

	// Drug catalog
	s.router.Get("/drugs/search/{query}", handlers.SearchDrugs(kb, validator))
	s.router.Get("/drugs/salt/{salt}", handlers.GetDrugsBySalt(kb, validator))
	s.router.Get("/drugs/{name}", handlers.GetDrug(kb, validator))
	s.router.Get("/drugs/{name}/formulations", handlers.GetFormulations(kb, validator))
	s.router.Get("/drugs/{name}/alternatives", handlers.GetAlternatives(chk, validator))

	// Safety evaluation
	s.router.Post("/prescriptions/check", handlers.CheckPrescription(chk))
	s.router.Post("/labs/critical", handlers.CheckCriticalValue(labEvaluator))

	// Dose calculation
	s.router.Post("/renal/egfr", handlers.CalculateEGFR())
	s.router.Post("/renal/crcl", handlers.CalculateCreatinineClearance())
	s.router.Post("/dose/renal", handlers.RenalDose(calculator))
	s.router.Post("/dose/hepatic", handlers.HepaticDose(calculator))
	s.router.Post("/dose/pediatric", handlers.PediatricDose(calculator))
	s.router.Post("/dose/geriatric", handlers.GeriatricDose(calculator))

	// Operability
	s.router.Get("/health", handlers.HealthCheck(healthChecker, s.container))
	s.router.Handle("/metrics", promhttp.Handler())
}

// Start starts the server
func (s *Server) Start() error {
	if s.config.Env == "dev" {
		s.startProfilingServer()
	}

	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// startProfilingServer starts the pprof profiling server in development mode
func (s *Server) startProfilingServer() {
	go func() {
		logging.Info("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			logging.Error("Profiling server failed", "error", err)
		}
	}()
}
