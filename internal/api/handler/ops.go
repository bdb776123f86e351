// Package handler provides HTTP handlers for the EnviroScore API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/enviroscore/enviroscore/internal/api/models"
	"github.com/enviroscore/enviroscore/internal/api/response"
	"github.com/enviroscore/enviroscore/internal/provider/resilience"
)

// ReadinessChecker reports whether a subsystem is ready to serve.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
	database  ReadinessChecker
}

// NewOpsHandler creates a new OpsHandler. The registry and database checker
// may be nil; the corresponding sections are then omitted.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry, database ReadinessChecker) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
		database:  database,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.database != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.database.Ping(ctx); err != nil {
			health.Status = models.HealthStatusFail
			health.Details = map[string]interface{}{"database": err.Error()}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
// Provider health comes from the resilience registry; a provider with an open
// circuit breaker degrades the overall status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())
	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   now,
	}

	if h.database != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		dbStatus := models.SubsystemStatus{Name: "postgres", Status: models.HealthStatusOK}
		if err := h.database.Ping(ctx); err != nil {
			detail := err.Error()
			dbStatus.Status = models.HealthStatusFail
			dbStatus.Detail = &detail
			status.Status = models.HealthStatusDegraded
		}
		status.Subsystems = append(status.Subsystems, dbStatus)
	}

	if h.registry != nil {
		for _, health := range h.registry.AllHealth() {
			providerStatus := models.ProviderStatus{
				Provider: health.Name,
				Status:   models.HealthStatusOK,
			}
			if !health.Healthy() {
				providerStatus.Status = models.HealthStatusDegraded
				status.Status = models.HealthStatusDegraded
			}
			if health.LastSuccessAt != nil {
				ts := models.Timestamp(*health.LastSuccessAt)
				providerStatus.LastSuccessAt = &ts
			}
			if health.LastFailureAt != nil {
				ts := models.Timestamp(*health.LastFailureAt)
				providerStatus.LastFailureAt = &ts
			}
			if health.LastError != "" {
				msg := health.LastError
				providerStatus.Message = &msg
			}
			status.Providers = append(status.Providers, providerStatus)
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}
