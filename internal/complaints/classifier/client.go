// Package classifier provides a client for the complaint classification ML
// service.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/enviroscore/enviroscore/internal/complaints"
	"github.com/enviroscore/enviroscore/internal/provider/resilience"
)

// ProviderName identifies this provider.
const ProviderName = "complaint-classifier"

// ClientConfig holds configuration for the classifier client.
type ClientConfig struct {
	// BaseURL of the classifier service. Required.
	BaseURL string

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

// Client is a complaint classifier client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new classifier client.
func NewClient(cfg ClientConfig) *Client {
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
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}
}

type predictRequest struct {
	Address string `json:"address"`
}

type categorizeRequest struct {
	Text string `json:"text"`
}

type categorizeResponse struct {
	Category string `json:"category"`
}

// Predict implements complaints.Classifier.
func (c *Client) Predict(ctx context.Context, address string) (*complaints.Prediction, error) {
	var prediction complaints.Prediction
	if err := c.post(ctx, "/predict", predictRequest{Address: address}, &prediction); err != nil {
		return nil, err
	}
	return &prediction, nil
}

// Categorize implements complaints.Classifier.
func (c *Client) Categorize(ctx context.Context, text string) (string, error) {
	var result categorizeResponse
	if err := c.post(ctx, "/categorize", categorizeRequest{Text: text}, &result); err != nil {
		return "", err
	}
	return result.Category, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("classifier: %w: no base URL configured", complaints.ErrClassifierUnavailable)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", complaints.ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from classifier", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode classifier response: %w", err)
	}
	return nil
}
