// Package complaints aggregates civic complaint data for a location and
// derives ambient noise figures from noise-related complaint volume.
package complaints

import "errors"

var (
	// ErrClassifierUnavailable indicates the ML classifier service could
	// not be reached.
	ErrClassifierUnavailable = errors.New("complaint classifier unavailable")

	// ErrNoComplaints indicates no complaint records exist for the area.
	ErrNoComplaints = errors.New("no complaints found")
)

// CategoryCount is a complaint category with its occurrence count.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AmbientNoise is the day/night ambient noise estimate in dB derived from
// noise-related complaint volume.
type AmbientNoise struct {
	Day   int `json:"day"`
	Night int `json:"night"`
}

// Prediction is the classifier's complaint volume forecast for an area.
type Prediction struct {
	Zone       string `json:"zone"`
	Area       string `json:"area"`
	Total      int    `json:"total_complaints"`
	Resolved   int    `json:"resolved_complaints"`
	Pending    int    `json:"pending_complaints"`
	MatchScore int    `json:"match_score"`
}

// Summary is the assembled civic complaint picture for a location.
type Summary struct {
	Total      int             `json:"total"`
	Resolved   int             `json:"resolved"`
	Pending    int             `json:"pending"`
	Categories []CategoryCount `json:"categories"`
	Zone       string          `json:"zone,omitempty"`
	Area       string          `json:"area,omitempty"`

	// Noise is derived from how many complaints mention noise.
	Noise AmbientNoise `json:"noiseLevel"`
}
