// Package resilience wraps outbound HTTP calls to external data providers
// with a circuit breaker, timeouts and retry with exponential backoff.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned when the provider's circuit breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// ClientConfig holds configuration for the resilient HTTP client.
type ClientConfig struct {
	// Name identifies this client for circuit breaker naming and the
	// provider registry.
	Name string

	// Timeout is the per-request timeout (default: 10s).
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts (default: 3).
	MaxRetries uint64

	// InitialInterval is the first retry backoff interval (default: 100ms).
	InitialInterval time.Duration

	// MaxInterval caps the retry backoff interval (default: 5s).
	MaxInterval time.Duration

	// BreakerTimeout is how long the circuit stays open before moving to
	// half-open (default: 60s).
	BreakerTimeout time.Duration
}

// Client is a resilient HTTP client. Network errors and 5xx responses are
// retried and count against the circuit breaker; 4xx responses pass through.
type Client struct {
	name       string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	cfg        ClientConfig
}

// NewClient creates a new resilient HTTP client and registers it with the
// global provider registry.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 60 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
	})

	client := &Client{
		name:       cfg.Name,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		cfg:        cfg,
	}

	GlobalRegistry.Register(cfg.Name, client)

	return client
}

// ServerError represents an HTTP 5xx response, surfaced as an error so it
// trips the breaker and triggers retries.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Do executes the request with retries and circuit breaking. The caller is
// responsible for closing the response body on success.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.cfg.InitialInterval
	policy.MaxInterval = c.cfg.MaxInterval

	retry := backoff.WithContext(backoff.WithMaxRetries(policy, c.cfg.MaxRetries), ctx)

	var lastResp *http.Response

	operation := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // ownership passes to the caller
			r, doErr := c.httpClient.Do(req.Clone(ctx))
			if doErr != nil {
				return nil, doErr
			}
			if r.StatusCode >= 500 {
				return r, &ServerError{StatusCode: r.StatusCode}
			}
			return r, nil
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				lastResp = resp
			}
			return err
		}

		lastResp = resp
		return nil
	}

	if err := backoff.Retry(operation, retry); err != nil {
		GlobalRegistry.RecordFailure(c.name, err)
		// A 5xx that exhausted retries still yields its final response.
		if lastResp != nil {
			return lastResp, nil
		}
		return nil, err
	}

	GlobalRegistry.RecordSuccess(c.name)
	return lastResp, nil
}

// DoWithContext executes the request bound to ctx.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.Do(req.WithContext(ctx))
}

// BreakerState returns the current circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// BreakerCounts returns the circuit breaker's request statistics.
func (c *Client) BreakerCounts() gobreaker.Counts {
	return c.breaker.Counts()
}
