// Package main provides the entrypoint for the EnviroScore background worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/enviroscore/enviroscore/internal/airquality"
	"github.com/enviroscore/enviroscore/internal/airquality/openaq"
	"github.com/enviroscore/enviroscore/internal/airquality/waqi"
	"github.com/enviroscore/enviroscore/internal/noise"
	"github.com/enviroscore/enviroscore/internal/noise/overpass"
	"github.com/enviroscore/enviroscore/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "enviroscore-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting EnviroScore worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")
	if subscription == "" {
		subscription = "provider-refresh"
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize air quality providers
	var aqProviders []airquality.Provider
	if key := os.Getenv("OPENAQ_API_KEY"); key != "" {
		aqProviders = append(aqProviders, openaq.NewClient(openaq.ClientConfig{APIKey: key}))
	}
	if token := os.Getenv("WAQI_TOKEN"); token != "" {
		aqProviders = append(aqProviders, waqi.NewClient(waqi.ClientConfig{Token: token}))
	}

	airQualityService := airquality.NewService(airquality.ServiceConfig{
		Providers: aqProviders,
		Logger:    log,
	})

	noiseService := noise.NewService(noise.ServiceConfig{
		Provider: overpass.NewClient(overpass.ClientConfig{
			BaseURL: os.Getenv("OVERPASS_BASE_URL"),
		}),
		Logger: log,
	})

	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:            worker.DefaultRefreshConfig(),
		Logger:            log,
		AirQualityService: airQualityService,
		NoiseService:      noiseService,
	})

	// Create HTTP server for health checks
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start health check server
	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Start the Pub/Sub consumer when configured; otherwise fall back to a
	// fixed-interval refresh loop for local development.
	if projectID != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			RefreshJob:       refreshJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer handler.Close()

		go func() {
			if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Fatal().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		log.Warn().Msg("PUBSUB_PROJECT_ID not set - running interval refresh loop")

		go func() {
			ticker := time.NewTicker(15 * time.Minute)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					refreshJob.Run(ctx)
				}
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
