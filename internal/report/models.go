// Package report assembles environment report cards: geocoding a location,
// gathering air quality, noise, and civic complaint sections, and scoring
// the result.
package report

import (
	"errors"
	"time"

	"github.com/enviroscore/enviroscore/internal/airquality"
	"github.com/enviroscore/enviroscore/internal/complaints"
	"github.com/enviroscore/enviroscore/internal/noise"
)

var (
	// ErrReportNotFound indicates no stored report card matches the id.
	ErrReportNotFound = errors.New("report not found")

	// ErrSectionFailed indicates a required report section could not be
	// assembled.
	ErrSectionFailed = errors.New("report section failed")
)

// CivicComplaints is the complaint section of a report card.
type CivicComplaints struct {
	Total      int                        `json:"total"`
	Resolved   int                        `json:"resolved"`
	Pending    int                        `json:"pending"`
	Categories []complaints.CategoryCount `json:"categories"`
	Zone       string                     `json:"zone,omitempty"`
	Area       string                     `json:"area,omitempty"`
}

// ReportCard is a complete environment assessment for one location.
type ReportCard struct {
	ID       string  `json:"reportId"`
	Location string  `json:"location"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`

	// OverallScore is 0-100, derived from the air quality index.
	OverallScore int `json:"overallScore"`

	AirQuality *airquality.Reading `json:"airQuality"`

	// Noise is the modeled acoustic assessment around the location.
	Noise *noise.Result `json:"noise"`

	// NoiseLevel is the complaint-derived day/night ambient estimate.
	NoiseLevel complaints.AmbientNoise `json:"noiseLevel"`

	// CivicComplaints is nil when complaint data was unavailable.
	CivicComplaints *CivicComplaints `json:"civicComplaints,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
