package report

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/enviroscore/enviroscore/internal/airquality"
	"github.com/enviroscore/enviroscore/internal/complaints"
	"github.com/enviroscore/enviroscore/internal/geocode"
	"github.com/enviroscore/enviroscore/internal/noise"
)

// LocationResolver turns a location query into a coordinate.
type LocationResolver interface {
	Resolve(ctx context.Context, query string) (*geocode.Location, error)
}

// AirQualityReader fetches the air quality reading for a coordinate.
type AirQualityReader interface {
	ReadingAt(ctx context.Context, lat, lon float64) (*airquality.Reading, error)
}

// NoiseComputer runs the acoustic model around a coordinate.
type NoiseComputer interface {
	ComputeNoise(ctx context.Context, lat, lon float64, radiusMeters int) (*noise.Result, error)
}

// ComplaintSummarizer assembles the civic complaint picture for an address.
type ComplaintSummarizer interface {
	SummaryFor(ctx context.Context, address string) (*complaints.Summary, error)
}

// ServiceConfig holds configuration for the report service.
type ServiceConfig struct {
	// Geocoder resolves the request address. Required.
	Geocoder LocationResolver

	// AirQuality provides the air quality section. Required.
	AirQuality AirQualityReader

	// Noise provides the acoustic section. Required.
	Noise NoiseComputer

	// Complaints provides the civic section. Optional; reports degrade to
	// baseline ambient figures without it.
	Complaints ComplaintSummarizer

	// Repository persists finished report cards. Optional; reports are
	// still returned when persistence is not configured.
	Repository Repository

	// Logger for service operations.
	Logger zerolog.Logger

	// NoiseRadiusMeters is the search radius for the acoustic section
	// (default: 1000).
	NoiseRadiusMeters int
}

// Service builds and retrieves environment report cards.
type Service struct {
	geocoder    LocationResolver
	airQuality  AirQualityReader
	noise       NoiseComputer
	complaints  ComplaintSummarizer
	repository  Repository
	logger      zerolog.Logger
	noiseRadius int
}

// NewService creates a new report service.
func NewService(cfg ServiceConfig) *Service {
	radius := cfg.NoiseRadiusMeters
	if radius <= 0 {
		radius = 1000
	}

	return &Service{
		geocoder:    cfg.Geocoder,
		airQuality:  cfg.AirQuality,
		noise:       cfg.Noise,
		complaints:  cfg.Complaints,
		repository:  cfg.Repository,
		logger:      cfg.Logger,
		noiseRadius: radius,
	}
}

// BuildReport assembles a full report card for the address. The air quality
// and noise sections are required; a complaint section failure degrades the
// report rather than failing it. Sections are fetched concurrently once the
// address resolves.
func (s *Service) BuildReport(ctx context.Context, address string) (*ReportCard, error) {
	loc, err := s.geocoder.Resolve(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("resolve location: %w", err)
	}

	var (
		air      *airquality.Reading
		acoustic *noise.Result
		civic    *complaints.Summary
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		reading, err := s.airQuality.ReadingAt(gctx, loc.Lat, loc.Lon)
		if err != nil {
			return fmt.Errorf("%w: air quality: %v", ErrSectionFailed, err)
		}
		air = reading
		return nil
	})

	g.Go(func() error {
		result, err := s.noise.ComputeNoise(gctx, loc.Lat, loc.Lon, s.noiseRadius)
		if err != nil {
			return fmt.Errorf("%w: noise: %v", ErrSectionFailed, err)
		}
		acoustic = result
		return nil
	})

	g.Go(func() error {
		if s.complaints == nil {
			return nil
		}
		summary, err := s.complaints.SummaryFor(gctx, loc.DisplayName)
		if err != nil {
			s.logger.Warn().Err(err).Str("address", address).
				Msg("complaint section unavailable, degrading report")
			return nil
		}
		civic = summary
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	card := &ReportCard{
		ID:           uuid.NewString(),
		Location:     loc.DisplayName,
		Lat:          loc.Lat,
		Lon:          loc.Lon,
		OverallScore: overallScore(air.AQI),
		AirQuality:   air,
		Noise:        acoustic,
		NoiseLevel:   complaints.NoiseFromComplaints(nil),
		CreatedAt:    time.Now().UTC(),
	}
	if civic != nil {
		card.NoiseLevel = civic.Noise
		card.CivicComplaints = &CivicComplaints{
			Total:      civic.Total,
			Resolved:   civic.Resolved,
			Pending:    civic.Pending,
			Categories: civic.Categories,
			Zone:       civic.Zone,
			Area:       civic.Area,
		}
	}

	if s.repository != nil {
		if err := s.repository.Create(ctx, card); err != nil {
			// A persistence failure loses comparison history, not the
			// report itself.
			s.logger.Error().Err(err).Str("report_id", card.ID).
				Msg("failed to persist report card")
		}
	}

	s.logger.Info().
		Str("report_id", card.ID).
		Str("location", card.Location).
		Int("overall_score", card.OverallScore).
		Msg("report card assembled")

	return card, nil
}

// GetReport retrieves a stored report card by id.
func (s *Service) GetReport(ctx context.Context, id string) (*ReportCard, error) {
	if s.repository == nil {
		return nil, ErrReportNotFound
	}
	return s.repository.Get(ctx, id)
}

// overallScore maps the air quality index to a 0-100 livability score.
func overallScore(aqi int) int {
	score := int(math.Floor(100 - float64(aqi)/3))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
