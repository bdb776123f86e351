package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/enviroscore/enviroscore/internal/api/handler"
	"github.com/enviroscore/enviroscore/internal/provider/resilience"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(_ context.Context) error { return f.err }

func TestHealthCheck(t *testing.T) {
	h := handler.NewOpsHandler("1.2.3", "2026-01-01", nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	rec := httptest.NewRecorder()
	h.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"1.2.3"`)
}

func TestReadinessCheck_DatabaseDown(t *testing.T) {
	h := handler.NewOpsHandler("dev", "unknown", nil, fakePinger{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	rec := httptest.NewRecorder()
	h.ReadinessCheck(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"FAIL"`)
}

func TestReadinessCheck_DatabaseUp(t *testing.T) {
	h := handler.NewOpsHandler("dev", "unknown", nil, fakePinger{})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	rec := httptest.NewRecorder()
	h.ReadinessCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSystemStatus_ReportsProviderHealth(t *testing.T) {
	registry := resilience.NewRegistry()
	registry.Register("openaq", resilience.NewClient(resilience.ClientConfig{Name: "openaq"}))
	registry.RecordSuccess("openaq")

	h := handler.NewOpsHandler("dev", "unknown", registry, fakePinger{})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody)
	rec := httptest.NewRecorder()
	h.SystemStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"provider":"openaq"`)
	assert.Contains(t, body, `"lastSuccessAt"`)
	assert.Contains(t, body, `"name":"postgres"`)
}

func TestSystemStatus_DegradedWhenDatabaseDown(t *testing.T) {
	h := handler.NewOpsHandler("dev", "unknown", nil, fakePinger{err: errors.New("timeout")})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody)
	rec := httptest.NewRecorder()
	h.SystemStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"DEGRADED"`)
}
