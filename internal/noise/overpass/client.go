// Package overpass provides a client for the Overpass API, serving as the
// noise engine's geospatial feature provider.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/enviroscore/enviroscore/internal/noise"
	"github.com/enviroscore/enviroscore/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the public Overpass API interpreter endpoint.
	DefaultBaseURL = "https://overpass-api.de/api/interpreter"

	// ProviderName identifies this provider.
	ProviderName = "overpass"

	// serverTimeoutSeconds is the query timeout requested from the
	// Overpass server itself, distinct from the client-side deadline.
	serverTimeoutSeconds = 120
)

// ClientConfig holds configuration for the Overpass client.
type ClientConfig struct {
	// BaseURL is the interpreter URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client is created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 30s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries the Overpass API for noise-relevant geographic features.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new Overpass client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      2,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// API response types (Overpass JSON output).

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type     string            `json:"type"` // "node", "way" or "relation"
	ID       int64             `json:"id"`
	Lat      float64           `json:"lat"`
	Lon      float64           `json:"lon"`
	Tags     map[string]string `json:"tags"`
	Geometry []overpassVertex  `json:"geometry"`
}

type overpassVertex struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FeaturesNear implements noise.FeatureProvider. It fetches all nodes and
// ways within radiusMeters of center matching the requested category and
// subtype combinations, with way vertex geometry included.
func (c *Client) FeaturesNear(ctx context.Context, center noise.Coordinate, radiusMeters int, subtypes map[string][]string) ([]noise.RawFeature, error) {
	query := buildQuery(center, radiusMeters, subtypes)

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query overpass: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from overpass", resp.StatusCode)
	}

	var result overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}

	features := make([]noise.RawFeature, 0, len(result.Elements))
	for i := range result.Elements {
		if feature, ok := toFeature(&result.Elements[i]); ok {
			features = append(features, feature)
		}
	}

	return features, nil
}

// buildQuery assembles an Overpass QL statement selecting nodes and ways
// for each requested category within the radius. Categories are emitted in
// sorted order so the query text is deterministic.
func buildQuery(center noise.Coordinate, radiusMeters int, subtypes map[string][]string) string {
	categories := make([]string, 0, len(subtypes))
	for category := range subtypes {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", serverTimeoutSeconds)
	for _, category := range categories {
		pattern := strings.Join(subtypes[category], "|")
		fmt.Fprintf(&b, "  way[%q~%q](around:%d,%v,%v);\n", category, pattern, radiusMeters, center.Lat, center.Lon)
		fmt.Fprintf(&b, "  node[%q~%q](around:%d,%v,%v);\n", category, pattern, radiusMeters, center.Lat, center.Lon)
	}
	b.WriteString(");\nout geom;")

	return b.String()
}

// toFeature converts an Overpass element into a RawFeature. Relations and
// other element types are dropped; ways map to line geometry (possibly
// empty, which the engine excludes via its distance check).
func toFeature(el *overpassElement) (noise.RawFeature, bool) {
	feature := noise.RawFeature{
		ID:   el.ID,
		Name: el.Tags["name"],
		Tags: el.Tags,
	}

	switch el.Type {
	case "node":
		feature.Geometry = noise.PointGeometry(el.Lat, el.Lon)
	case "way":
		vertices := make([]noise.Coordinate, 0, len(el.Geometry))
		for _, v := range el.Geometry {
			vertices = append(vertices, noise.Coordinate{Lat: v.Lat, Lon: v.Lon})
		}
		feature.Geometry = noise.LineGeometry(vertices)
	default:
		return noise.RawFeature{}, false
	}

	return feature, true
}
