package waqi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enviroscore/enviroscore/internal/airquality"
	"github.com/enviroscore/enviroscore/internal/airquality/waqi"
)

var _ airquality.Provider = (*waqi.Client)(nil)

func TestFetchReading(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/feed/geo:28.6139;77.209/", r.URL.Path)
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "ok",
			"data": {
				"aqi": 164,
				"iaqi": {
					"pm25": {"v": 82.5},
					"pm10": {"v": 110}
				}
			}
		}`))
	}))
	defer server.Close()

	client := waqi.NewClient(waqi.ClientConfig{
		BaseURL:    server.URL,
		Token:      "test-token",
		HTTPClient: server.Client(),
	})

	reading, err := client.FetchReading(context.Background(), 28.6139, 77.2090)
	require.NoError(t, err)

	assert.Equal(t, 164, reading.AQI)
	assert.Equal(t, 82.5, reading.PM25)
	assert.Equal(t, 110.0, reading.PM10)
	assert.Equal(t, "waqi", reading.Provider)
}

func TestFetchReading_MissingToken(t *testing.T) {
	client := waqi.NewClient(waqi.ClientConfig{BaseURL: "http://localhost", HTTPClient: http.DefaultClient})

	_, err := client.FetchReading(context.Background(), 28.6139, 77.2090)
	assert.ErrorIs(t, err, airquality.ErrProviderUnavailable)
}

func TestFetchReading_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error", "data": "Invalid key"}`))
	}))
	defer server.Close()

	client := waqi.NewClient(waqi.ClientConfig{
		BaseURL:    server.URL,
		Token:      "bad-token",
		HTTPClient: server.Client(),
	})

	_, err := client.FetchReading(context.Background(), 28.6139, 77.2090)
	require.Error(t, err)
	assert.ErrorIs(t, err, airquality.ErrNoData)
}

func TestFetchReading_MissingParticulates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok", "data": {"aqi": 55, "iaqi": {"o3": {"v": 21}}}}`))
	}))
	defer server.Close()

	client := waqi.NewClient(waqi.ClientConfig{
		BaseURL:    server.URL,
		Token:      "test-token",
		HTTPClient: server.Client(),
	})

	reading, err := client.FetchReading(context.Background(), 28.6139, 77.2090)
	require.NoError(t, err)
	assert.Equal(t, 55, reading.AQI)
	assert.Zero(t, reading.PM25)
	assert.Zero(t, reading.PM10)
}

func TestFetchReading_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := waqi.NewClient(waqi.ClientConfig{
		BaseURL:    server.URL,
		Token:      "test-token",
		HTTPClient: server.Client(),
	})

	_, err := client.FetchReading(context.Background(), 28.6139, 77.2090)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}
