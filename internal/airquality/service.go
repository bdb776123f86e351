package airquality

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Provider fetches an air quality reading for a coordinate.
type Provider interface {
	// Name identifies the provider for logging and result attribution.
	Name() string

	// FetchReading returns the latest reading near the coordinate.
	FetchReading(ctx context.Context, lat, lon float64) (*Reading, error)
}

// ServiceConfig holds configuration for the air quality service.
type ServiceConfig struct {
	// Providers are tried in order; the first success wins.
	Providers []Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long readings are cached per location (default: 5m).
	CacheTTL time.Duration
}

// Service resolves air quality readings through a provider fallback chain,
// caching results per rounded coordinate.
type Service struct {
	providers []Provider
	logger    zerolog.Logger
	cacheTTL  time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	reading *Reading
	expires time.Time
}

// NewService creates a new air quality service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	return &Service{
		providers: cfg.Providers,
		logger:    cfg.Logger,
		cacheTTL:  cacheTTL,
		cache:     make(map[string]cacheEntry),
	}
}

// ReadingAt returns the air quality reading nearest to (lat, lon). Providers
// are consulted in configured order; a provider error falls through to the
// next. ErrAllProvidersFailed is returned when none succeed.
func (s *Service) ReadingAt(ctx context.Context, lat, lon float64) (*Reading, error) {
	key := cacheKey(lat, lon)

	s.mu.RLock()
	if entry, ok := s.cache[key]; ok && time.Now().Before(entry.expires) {
		s.mu.RUnlock()
		return entry.reading, nil
	}
	s.mu.RUnlock()

	var lastErr error
	for _, provider := range s.providers {
		reading, err := provider.FetchReading(ctx, lat, lon)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("provider", provider.Name()).
				Msg("air quality provider failed, trying next")
			lastErr = err
			continue
		}

		s.mu.Lock()
		s.cache[key] = cacheEntry{reading: reading, expires: time.Now().Add(s.cacheTTL)}
		s.mu.Unlock()

		s.logger.Debug().
			Str("provider", provider.Name()).
			Int("aqi", reading.AQI).
			Msg("air quality reading fetched")

		return reading, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllProvidersFailed, lastErr)
	}
	return nil, ErrAllProvidersFailed
}

// InvalidateCache drops all cached readings.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]cacheEntry)
}

// cacheKey buckets coordinates to ~100 m so nearby queries share a reading.
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.3f:%.3f", lat, lon)
}
