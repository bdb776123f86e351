package geocode

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Geocoder converts between addresses and coordinates.
type Geocoder interface {
	// Forward resolves a free-form address query to a location.
	Forward(ctx context.Context, query string) (*Location, error)

	// Reverse resolves a coordinate to a display name.
	Reverse(ctx context.Context, lat, lon float64) (*Location, error)
}

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	// Geocoder is the upstream geocoding provider.
	Geocoder Geocoder

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service resolves location queries, accepting either a free-form address or
// a raw "lat, lon" coordinate pair.
type Service struct {
	geocoder Geocoder
	logger   zerolog.Logger
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		geocoder: cfg.Geocoder,
		logger:   cfg.Logger,
	}
}

// Resolve turns a location query into a coordinate. A query that parses as a
// coordinate pair is reverse-geocoded for its display name; reverse failures
// degrade to the raw coordinates rather than failing the request. Anything
// else is forward-geocoded.
func (s *Service) Resolve(ctx context.Context, query string) (*Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrNotFound)
	}

	if lat, lon, ok := parseCoordinatePair(query); ok {
		loc, err := s.geocoder.Reverse(ctx, lat, lon)
		if err != nil {
			s.logger.Warn().Err(err).
				Float64("lat", lat).
				Float64("lon", lon).
				Msg("reverse geocode failed, using raw coordinates")
			return &Location{
				Lat:         lat,
				Lon:         lon,
				DisplayName: fmt.Sprintf("%.4f, %.4f", lat, lon),
			}, nil
		}
		// Keep the caller's exact coordinates; the provider snaps to the
		// nearest address.
		loc.Lat = lat
		loc.Lon = lon
		return loc, nil
	}

	loc, err := s.geocoder.Forward(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("forward geocode %q: %w", query, err)
	}
	return loc, nil
}

// parseCoordinatePair recognizes "lat, lon" style queries.
func parseCoordinatePair(query string) (lat, lon float64, ok bool) {
	parts := strings.Split(query, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}

	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}
