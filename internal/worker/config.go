// Package worker provides background job processing for EnviroScore.
package worker

import (
	"time"
)

// RefreshTarget represents a geographic region to refresh.
type RefreshTarget struct {
	// Name is the human-readable name of the target.
	Name string

	// Points are the lat/lon coordinates to refresh.
	// Typically city centers and dense residential or commercial areas.
	Points []Point

	// Priority determines refresh order (lower = higher priority).
	Priority int
}

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// RefreshConfig holds configuration for the provider refresh job.
type RefreshConfig struct {
	// Targets are the geographic regions to refresh.
	// If empty, uses DefaultRefreshTargets.
	Targets []RefreshTarget

	// Concurrency is the number of concurrent refresh operations.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each refresh operation.
	// Default: 30 seconds
	Timeout time.Duration

	// RefreshAirQuality enables air quality refresh.
	// Default: true
	RefreshAirQuality bool

	// RefreshNoise enables warming the acoustic model, which exercises the
	// geodata provider for each point.
	// Default: true
	RefreshNoise bool
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Targets:           DefaultRefreshTargets(),
		Concurrency:       3,
		Timeout:           30 * time.Second,
		RefreshAirQuality: true,
		RefreshNoise:      true,
	}
}

// DefaultRefreshTargets returns the default refresh targets for India.
// Focuses on Delhi NCR, where complaint coverage is densest, plus other
// major metros.
func DefaultRefreshTargets() []RefreshTarget {
	return []RefreshTarget{
		{
			Name:     "Delhi",
			Priority: 1,
			Points: []Point{
				{Lat: 28.6139, Lon: 77.2090}, // Connaught Place
				{Lat: 28.5245, Lon: 77.1855}, // Saket
				{Lat: 28.6507, Lon: 77.2334}, // Chandni Chowk
				{Lat: 28.5562, Lon: 77.1000}, // IGI Airport
			},
		},
		{
			Name:     "Mumbai",
			Priority: 1,
			Points: []Point{
				{Lat: 19.0760, Lon: 72.8777}, // Fort
				{Lat: 19.0596, Lon: 72.8295}, // Bandra
				{Lat: 19.1136, Lon: 72.8697}, // Andheri
			},
		},
		{
			Name:     "Bengaluru",
			Priority: 1,
			Points: []Point{
				{Lat: 12.9716, Lon: 77.5946}, // MG Road
				{Lat: 12.9352, Lon: 77.6245}, // Koramangala
			},
		},
		{
			Name:     "Kolkata",
			Priority: 2,
			Points: []Point{
				{Lat: 22.5726, Lon: 88.3639}, // Esplanade
			},
		},
		{
			Name:     "Chennai",
			Priority: 2,
			Points: []Point{
				{Lat: 13.0827, Lon: 80.2707}, // Central
			},
		},
		{
			Name:     "Hyderabad",
			Priority: 2,
			Points: []Point{
				{Lat: 17.3850, Lon: 78.4867}, // Abids
			},
		},
		{
			Name:     "Pune",
			Priority: 3,
			Points: []Point{
				{Lat: 18.5204, Lon: 73.8567}, // Shivajinagar
			},
		},
	}
}

// AllPoints returns all points from all targets, ordered by priority.
func (c RefreshConfig) AllPoints() []Point {
	var points []Point
	for _, target := range c.Targets {
		points = append(points, target.Points...)
	}
	return points
}

// TotalPoints returns the total number of points to refresh.
func (c RefreshConfig) TotalPoints() int {
	total := 0
	for _, target := range c.Targets {
		total += len(target.Points)
	}
	return total
}
