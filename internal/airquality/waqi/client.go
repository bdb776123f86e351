// Package waqi provides a client for the World Air Quality Index API, the
// fallback air quality provider.
package waqi

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
	// DefaultBaseURL is the base URL for the WAQI API.
	DefaultBaseURL = "https://api.waqi.info"

	// ProviderName identifies this provider.
	ProviderName = "waqi"
)

// ClientConfig holds configuration for the WAQI client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// Token is the WAQI API token, passed as a query parameter.
	Token string

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

// Client is a WAQI API client.
type Client struct {
	baseURL    string
	token      string
	httpClient HTTPDoer
}

// NewClient creates a new WAQI client.
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
		token:      cfg.Token,
		httpClient: httpClient,
	}
}

// Name implements airquality.Provider.
func (c *Client) Name() string { return ProviderName }

// API response types (WAQI feed endpoint).

type feedResponse struct {
	Status string `json:"status"`
	// Data is an object on success but a bare error string otherwise,
	// so it is decoded only after the status check.
	Data json.RawMessage `json:"data"`
}

type feedData struct {
	AQI  float64 `json:"aqi"`
	IAQI struct {
		PM25 *iaqiValue `json:"pm25"`
		PM10 *iaqiValue `json:"pm10"`
	} `json:"iaqi"`
}

type iaqiValue struct {
	V float64 `json:"v"`
}

// FetchReading implements airquality.Provider using the nearest-station
// geo feed. WAQI reports its own composite AQI, which is used directly.
func (c *Client) FetchReading(ctx context.Context, lat, lon float64) (*airquality.Reading, error) {
	if c.token == "" {
		return nil, fmt.Errorf("waqi: %w: missing API token", airquality.ErrProviderUnavailable)
	}

	url := fmt.Sprintf("%s/feed/geo:%v;%v/?token=%s", c.baseURL, lat, lon, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch geo feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from waqi", resp.StatusCode)
	}

	var result feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode waqi response: %w", err)
	}

	if result.Status != "ok" {
		return nil, fmt.Errorf("waqi status %q: %w", result.Status, airquality.ErrNoData)
	}

	var data feedData
	if err := json.Unmarshal(result.Data, &data); err != nil {
		return nil, fmt.Errorf("decode waqi feed data: %w", err)
	}

	reading := &airquality.Reading{
		AQI:       int(data.AQI),
		Provider:  ProviderName,
		FetchedAt: time.Now(),
	}
	if data.IAQI.PM25 != nil {
		reading.PM25 = data.IAQI.PM25.V
	}
	if data.IAQI.PM10 != nil {
		reading.PM10 = data.IAQI.PM10.V
	}

	return reading, nil
}
