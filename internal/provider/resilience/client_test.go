package resilience_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enviroscore/enviroscore/internal/provider/resilience"
)

func TestClient_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := resilience.NewClient(resilience.ClientConfig{Name: "test-success"})

	req, err := http.NewRequest(http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := resilience.NewClient(resilience.ClientConfig{
		Name:            "test-retry",
		MaxRetries:      3,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	})

	req, err := http.NewRequest(http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_ClientErrorsNotRetried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := resilience.NewClient(resilience.ClientConfig{
		Name:            "test-4xx",
		MaxRetries:      3,
		InitialInterval: time.Millisecond,
	})

	req, err := http.NewRequest(http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_ExhaustedRetriesReturnLastResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := resilience.NewClient(resilience.ClientConfig{
		Name:            "test-exhausted",
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
	})

	req, err := http.NewRequest(http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRegistry_TracksOutcomes(t *testing.T) {
	registry := resilience.NewRegistry()
	client := resilience.NewClient(resilience.ClientConfig{Name: "tracked"})
	registry.Register("tracked", client)

	registry.RecordSuccess("tracked")
	registry.RecordFailure("tracked", assert.AnError)

	health := registry.AllHealth()
	require.Len(t, health, 1)
	assert.Equal(t, "tracked", health[0].Name)
	assert.NotNil(t, health[0].LastSuccessAt)
	assert.NotNil(t, health[0].LastFailureAt)
	assert.Equal(t, assert.AnError.Error(), health[0].LastError)
	assert.True(t, health[0].Healthy())
}
