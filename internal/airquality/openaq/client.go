// Package openaq provides a client for the OpenAQ v3 API, the primary air
// quality provider.
package openaq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/enviroscore/enviroscore/internal/airquality"
	"github.com/enviroscore/enviroscore/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the OpenAQ API.
	DefaultBaseURL = "https://api.openaq.org"

	// ProviderName identifies this provider.
	ProviderName = "openaq"

	// searchRadiusMeters is how far around the query point stations are
	// considered.
	searchRadiusMeters = 25000
)

// ClientConfig holds configuration for the OpenAQ client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// APIKey is sent as the X-API-Key header. Required by OpenAQ v3.
	APIKey string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client is created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an OpenAQ API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPDoer
}

// NewClient creates a new OpenAQ client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:    ProviderName,
			Timeout: timeout,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}
}

// Name implements airquality.Provider.
func (c *Client) Name() string { return ProviderName }

// API response types (OpenAQ v3).

type latestResponse struct {
	Results []measurementResult `json:"results"`
}

type measurementResult struct {
	Parameter string  `json:"parameter"`
	Value     float64 `json:"value"`
}

// FetchReading implements airquality.Provider. It fetches the latest
// particulate measurements within 25 km and derives the EPA AQI.
func (c *Client) FetchReading(ctx context.Context, lat, lon float64) (*airquality.Reading, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openaq: %w: missing API key", airquality.ErrProviderUnavailable)
	}

	url := fmt.Sprintf("%s/v3/latest?coordinates=%v,%v&radius=%d&limit=10", c.baseURL, lat, lon, searchRadiusMeters)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch latest measurements: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from openaq", resp.StatusCode)
	}

	var result latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode openaq response: %w", err)
	}

	if len(result.Results) == 0 {
		return nil, airquality.ErrNoData
	}

	var pm25, pm10 float64
	for _, m := range result.Results {
		switch m.Parameter {
		case "pm25":
			pm25 = m.Value
		case "pm10":
			pm10 = m.Value
		}
	}

	return &airquality.Reading{
		AQI:       airquality.ComputeAQI(pm25, pm10),
		PM25:      pm25,
		PM10:      pm10,
		Provider:  ProviderName,
		FetchedAt: time.Now(),
	}, nil
}
