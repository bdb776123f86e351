// Package main provides the entrypoint for the EnviroScore API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/enviroscore/enviroscore/internal/airquality"
	"github.com/enviroscore/enviroscore/internal/airquality/openaq"
	"github.com/enviroscore/enviroscore/internal/airquality/waqi"
	"github.com/enviroscore/enviroscore/internal/api"
	"github.com/enviroscore/enviroscore/internal/api/middleware"
	"github.com/enviroscore/enviroscore/internal/complaints"
	"github.com/enviroscore/enviroscore/internal/complaints/classifier"
	"github.com/enviroscore/enviroscore/internal/database"
	"github.com/enviroscore/enviroscore/internal/geocode"
	"github.com/enviroscore/enviroscore/internal/geocode/locationiq"
	"github.com/enviroscore/enviroscore/internal/noise"
	"github.com/enviroscore/enviroscore/internal/noise/overpass"
	"github.com/enviroscore/enviroscore/internal/provider/resilience"
	"github.com/enviroscore/enviroscore/internal/report"
	"github.com/enviroscore/enviroscore/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "enviroscore-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting EnviroScore API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize air quality providers; OpenAQ is primary, WAQI fallback
	var aqProviders []airquality.Provider
	if key := os.Getenv("OPENAQ_API_KEY"); key != "" {
		aqProviders = append(aqProviders, openaq.NewClient(openaq.ClientConfig{APIKey: key}))
	} else {
		log.Warn().Msg("OPENAQ_API_KEY not set - OpenAQ provider disabled")
	}
	if token := os.Getenv("WAQI_TOKEN"); token != "" {
		aqProviders = append(aqProviders, waqi.NewClient(waqi.ClientConfig{Token: token}))
	} else {
		log.Warn().Msg("WAQI_TOKEN not set - WAQI provider disabled")
	}

	airQualityService := airquality.NewService(airquality.ServiceConfig{
		Providers: aqProviders,
		Logger:    log,
	})
	log.Info().Int("providers", len(aqProviders)).Msg("air quality service initialized")

	// Initialize noise service with the Overpass geodata provider
	overpassClient := overpass.NewClient(overpass.ClientConfig{
		BaseURL: os.Getenv("OVERPASS_BASE_URL"),
	})
	noiseService := noise.NewService(noise.ServiceConfig{
		Provider: overpassClient,
		Logger:   log,
	})
	log.Info().Msg("noise service initialized")

	// Initialize geocoding service
	geocodeService := geocode.NewService(geocode.ServiceConfig{
		Geocoder: locationiq.NewClient(locationiq.ClientConfig{
			APIKey: os.Getenv("LOCATIONIQ_API_KEY"),
		}),
		Logger: log,
	})
	log.Info().Msg("geocode service initialized")

	// Initialize complaints service; the ML classifier is optional
	var complaintClassifier complaints.Classifier
	if classifierURL := os.Getenv("CLASSIFIER_BASE_URL"); classifierURL != "" {
		complaintClassifier = classifier.NewClient(classifier.ClientConfig{
			BaseURL: classifierURL,
		})
		log.Info().Str("base_url", classifierURL).Msg("complaint classifier initialized")
	} else {
		log.Warn().Msg("CLASSIFIER_BASE_URL not set - complaint classification disabled")
	}

	complaintsService := complaints.NewService(complaints.ServiceConfig{
		Source:     complaints.NewStaticSource(),
		Classifier: complaintClassifier,
		Logger:     log,
	})

	// Initialize report service with Postgres-backed archive
	reportService := report.NewService(report.ServiceConfig{
		Geocoder:   geocodeService,
		AirQuality: airQualityService,
		Noise:      noiseService,
		Complaints: complaintsService,
		Repository: report.NewPostgresRepository(pool),
		Logger:     log,
	})
	log.Info().Msg("report service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:       Version,
		BuildTime:     BuildTime,
		Logger:        log,
		ServiceName:   serviceName,
		Metrics:       metrics,
		ReportService: reportService,
		NoiseService:  noiseService,
		Registry:      resilience.GlobalRegistry,
		Database:      pool,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
