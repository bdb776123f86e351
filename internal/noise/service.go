package noise

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// FeatureProvider queries geographic features around a point. Implementations
// own their transport concerns (endpoint, retries, auth); the engine only
// dictates which category/subtype combinations it needs.
type FeatureProvider interface {
	FeaturesNear(ctx context.Context, center Coordinate, radiusMeters int, subtypes map[string][]string) ([]RawFeature, error)
}

// ServiceConfig holds configuration for the noise service.
type ServiceConfig struct {
	// Provider is the geospatial feature query collaborator.
	Provider FeatureProvider

	// Logger for service operations.
	Logger zerolog.Logger

	// DefaultRadiusMeters is used when a request passes radius <= 0
	// (default: 1000).
	DefaultRadiusMeters int

	// QueryTimeout bounds the feature query (default: 20s). Expiry
	// surfaces as ErrServiceUnavailable.
	QueryTimeout time.Duration
}

// Service is the noise estimation engine. It is stateless between calls and
// safe for concurrent use; the source catalog it reads is immutable.
type Service struct {
	provider      FeatureProvider
	logger        zerolog.Logger
	defaultRadius int
	queryTimeout  time.Duration
}

// NewService creates a new noise service.
func NewService(cfg ServiceConfig) *Service {
	defaultRadius := cfg.DefaultRadiusMeters
	if defaultRadius <= 0 {
		defaultRadius = 1000
	}

	queryTimeout := cfg.QueryTimeout
	if queryTimeout == 0 {
		queryTimeout = 20 * time.Second
	}

	return &Service{
		provider:      cfg.Provider,
		logger:        cfg.Logger,
		defaultRadius: defaultRadius,
		queryTimeout:  queryTimeout,
	}
}

// ComputeNoise assesses the acoustic environment at (lat, lon) considering
// sources within radiusMeters. It returns ErrInvalidCoordinate before any
// external call for out-of-range input, and ErrServiceUnavailable if the
// feature query fails; there is no partial-result contract.
func (s *Service) ComputeNoise(ctx context.Context, lat, lon float64, radiusMeters int) (*Result, error) {
	center := Coordinate{Lat: lat, Lon: lon}
	if !center.Valid() {
		return nil, fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinate, lat, lon)
	}

	if radiusMeters <= 0 {
		radiusMeters = s.defaultRadius
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	features, err := s.provider.FeaturesNear(queryCtx, center, radiusMeters, QuerySubtypes())
	if err != nil {
		s.logger.Error().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Int("radius", radiusMeters).
			Msg("feature query failed")
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	if len(features) == 0 {
		return s.quietResult(center, radiusMeters), nil
	}

	sources, levels := s.processFeatures(center, radiusMeters, features)

	totalDB := Combine(levels)
	rating := Normalize(totalDB)

	s.logger.Debug().
		Float64("total_db", rating.ActualDB).
		Int("score", rating.Score).
		Int("sources_analyzed", len(sources)).
		Int("sources_found", len(features)).
		Msg("noise assessment computed")

	return &Result{
		Score:         rating.Score,
		Category:      rating.Category,
		Description:   rating.Description,
		HealthImpact:  rating.HealthImpact,
		ActualDB:      rating.ActualDB,
		Sources:       sources,
		SourcesByTier: groupByTier(sources),
		Dominant:      RankDominant(sources),
		Metadata: Metadata{
			Location:        center,
			RadiusMeters:    radiusMeters,
			SourcesAnalyzed: len(sources),
			SourcesFound:    len(features),
		},
	}, nil
}

// processFeatures runs the per-feature pipeline: classify, measure distance,
// propagate. Unclassifiable, out-of-radius and below-threshold features are
// skipped silently; the skip is visible only in the metadata counts.
func (s *Service) processFeatures(center Coordinate, radiusMeters int, features []RawFeature) ([]ProcessedSource, []float64) {
	sources := make([]ProcessedSource, 0, len(features))
	levels := make([]float64, 0, len(features))

	for _, feature := range features {
		key, ok := Classify(feature.Tags)
		if !ok {
			continue
		}

		dist := FeatureDistance(center, feature)
		if math.IsInf(dist, 1) || dist > float64(radiusMeters) {
			continue
		}

		profile, ok := LookupProfile(key)
		if !ok {
			continue
		}

		effective := Propagate(profile.BaseDB, dist, profile.ActivityFactor)
		if effective <= NoiseFloorDB {
			continue
		}

		name := feature.Name
		if name == "" {
			name = "Unnamed"
		}

		sources = append(sources, ProcessedSource{
			ID:             feature.ID,
			Name:           name,
			Type:           key,
			DistanceMeters: math.Round(dist),
			BaseDB:         profile.BaseDB,
			EffectiveDB:    math.Round(effective*10) / 10,
			ActivityFactor: profile.ActivityFactor,
			Impact:         Tier(profile.BaseDB),
		})
		levels = append(levels, effective)
	}

	return sources, levels
}

// quietResult is the zero-source short circuit: the noise floor normalized
// through the regular band table, with empty source lists.
func (s *Service) quietResult(center Coordinate, radiusMeters int) *Result {
	rating := Normalize(NoiseFloorDB)
	return &Result{
		Score:         rating.Score,
		Category:      rating.Category,
		Description:   rating.Description,
		HealthImpact:  rating.HealthImpact,
		ActualDB:      rating.ActualDB,
		Sources:       []ProcessedSource{},
		SourcesByTier: map[ImpactTier][]ProcessedSource{},
		Dominant:      []DominantSource{},
		Metadata: Metadata{
			Location:     center,
			RadiusMeters: radiusMeters,
		},
	}
}

func groupByTier(sources []ProcessedSource) map[ImpactTier][]ProcessedSource {
	byTier := make(map[ImpactTier][]ProcessedSource, 3)
	for _, src := range sources {
		byTier[src.Impact] = append(byTier[src.Impact], src)
	}
	return byTier
}
