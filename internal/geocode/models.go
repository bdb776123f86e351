// Package geocode resolves free-form location queries into coordinates.
package geocode

import "errors"

var (
	// ErrNotFound indicates no location matched the query.
	ErrNotFound = errors.New("location not found")

	// ErrProviderUnavailable indicates the geocoding provider cannot be
	// used, typically due to missing credentials.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
)

// Location is a resolved geographic location.
type Location struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"displayName"`
}
