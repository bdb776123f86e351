// Package locationiq provides a client for the LocationIQ geocoding API.
package locationiq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/enviroscore/enviroscore/internal/geocode"
	"github.com/enviroscore/enviroscore/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the LocationIQ API.
	DefaultBaseURL = "https://us1.locationiq.com"

	// ProviderName identifies this provider.
	ProviderName = "locationiq"
)

// ClientConfig holds configuration for the LocationIQ client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// APIKey is the LocationIQ access token.
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

// Client is a LocationIQ API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPDoer
}

// NewClient creates a new LocationIQ client.
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

// API response types. LocationIQ returns coordinates as strings.

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Forward implements geocode.Geocoder.
func (c *Client) Forward(ctx context.Context, query string) (*geocode.Location, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("locationiq: %w: missing API key", geocode.ErrProviderUnavailable)
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	var results []place
	if err := c.get(ctx, "/v1/search.php", params, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %q", geocode.ErrNotFound, query)
	}

	return toLocation(results[0])
}

// Reverse implements geocode.Geocoder.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*geocode.Location, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("locationiq: %w: missing API key", geocode.ErrProviderUnavailable)
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("format", "json")

	var result place
	if err := c.get(ctx, "/v1/reverse.php", params, &result); err != nil {
		return nil, err
	}

	return toLocation(result)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return geocode.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from locationiq", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode locationiq response: %w", err)
	}
	return nil
}

func toLocation(p place) (*geocode.Location, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude %q: %w", p.Lon, err)
	}

	return &geocode.Location{
		Lat:         lat,
		Lon:         lon,
		DisplayName: p.DisplayName,
	}, nil
}
