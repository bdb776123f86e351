// Package airquality provides air quality readings with provider fallback
// and short-lived caching.
package airquality

import (
	"errors"
	"time"
)

// Provider errors.
var (
	ErrNoData              = errors.New("no air quality data for location")
	ErrAllProvidersFailed  = errors.New("all air quality providers failed")
	ErrProviderUnavailable = errors.New("air quality provider unavailable")
)

// Reading is a point-in-time air quality observation near a coordinate.
type Reading struct {
	// AQI is the EPA air quality index derived from particulate levels.
	AQI int `json:"aqi"`

	// PM25 and PM10 are particulate concentrations in µg/m³.
	PM25 float64 `json:"pm25"`
	PM10 float64 `json:"pm10"`

	// Provider identifies the data source that produced this reading.
	Provider string `json:"provider,omitempty"`

	// FetchedAt is when the reading was retrieved.
	FetchedAt time.Time `json:"-"`
}
