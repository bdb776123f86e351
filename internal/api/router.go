// Package api provides the HTTP API for EnviroScore.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/enviroscore/enviroscore/internal/api/handler"
	"github.com/enviroscore/enviroscore/internal/api/middleware"
	"github.com/enviroscore/enviroscore/internal/noise"
	"github.com/enviroscore/enviroscore/internal/provider/resilience"
	"github.com/enviroscore/enviroscore/internal/report"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version       string
	BuildTime     string
	Logger        zerolog.Logger
	ServiceName   string
	Metrics       *middleware.Metrics
	ReportService *report.Service
	NoiseService  *noise.Service
	Registry      *resilience.Registry
	Database      handler.ReadinessChecker
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "enviroscore-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry, cfg.Database)
	reportHandler := handler.NewReportHandler(cfg.ReportService)
	noiseHandler := handler.NewNoiseHandler(cfg.NoiseService)

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Report card assembly fans out to several upstream providers -
		// strict rate limiting
		r.With(expensiveRateLimit).Post("/report-card", reportHandler.CreateReportCard)

		// Stored reports - standard rate limiting
		r.With(standardRateLimit).Get("/reports/{reportId}", reportHandler.GetReportCard)

		// Standalone noise assessment - expensive upstream geodata query
		r.With(expensiveRateLimit).Get("/noise", noiseHandler.AssessNoise)
	})

	return r
}
