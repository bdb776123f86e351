// Package noise estimates the ambient acoustic environment at a geographic
// point. It discovers nearby noise-emitting features, models each as a point
// or line sound source, propagates source levels to the query point using
// physical attenuation laws, combines the contributions logarithmically and
// normalizes the total onto a 0-100 health score.
package noise

import (
	"errors"
	"math"
)

// Engine errors.
var (
	// ErrInvalidCoordinate is returned for out-of-range or non-finite
	// coordinates, before any external query is attempted.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrServiceUnavailable is returned when the geospatial feature query
	// fails. No partial result is produced.
	ErrServiceUnavailable = errors.New("noise feature service unavailable")
)

// Coordinate is a WGS84 geographic position.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate is finite and within range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// GeometryKind discriminates feature geometry variants.
type GeometryKind string

const (
	GeometryPoint GeometryKind = "point"
	GeometryLine  GeometryKind = "line"
)

// Geometry is a tagged union of a single point and an ordered vertex
// sequence. Exactly the field matching Kind is meaningful.
type Geometry struct {
	Kind  GeometryKind
	Point Coordinate
	Line  []Coordinate
}

// PointGeometry builds a point geometry.
func PointGeometry(lat, lon float64) Geometry {
	return Geometry{Kind: GeometryPoint, Point: Coordinate{Lat: lat, Lon: lon}}
}

// LineGeometry builds a line geometry from ordered vertices.
func LineGeometry(vertices []Coordinate) Geometry {
	return Geometry{Kind: GeometryLine, Line: vertices}
}

// RawFeature is a geographic feature as returned by the feature provider.
type RawFeature struct {
	ID       int64
	Name     string
	Tags     map[string]string
	Geometry Geometry
}

// ProcessedSource is one accepted noise source after classification,
// distance calculation and propagation. Computed per request, never stored.
type ProcessedSource struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	Type           SourceTypeKey `json:"type"`
	DistanceMeters float64       `json:"distanceMeters"`
	BaseDB         float64       `json:"baseDB"`
	EffectiveDB    float64       `json:"effectiveDB"`
	ActivityFactor float64       `json:"activityFactor"`
	Impact         ImpactTier    `json:"impact"`
}

// DominantSource is a compact view of a top contributor.
type DominantSource struct {
	Name           string        `json:"name"`
	Type           SourceTypeKey `json:"type"`
	DistanceMeters float64       `json:"distanceMeters"`
	ContributionDB float64       `json:"contributionDB"`
}

// Metadata describes the query that produced a result.
type Metadata struct {
	Location     Coordinate `json:"location"`
	RadiusMeters int        `json:"radius"`

	// SourcesAnalyzed counts features that survived classification,
	// distance and threshold filtering; SourcesFound counts everything
	// the provider returned.
	SourcesAnalyzed int `json:"sourcesAnalyzed"`
	SourcesFound    int `json:"totalSourcesFound"`
}

// Result is the complete noise assessment for one query point. It is owned
// by the caller; the engine keeps no state between calls.
type Result struct {
	Score         int                            `json:"noiseScore"`
	Category      Category                       `json:"category"`
	Description   string                         `json:"description"`
	HealthImpact  string                         `json:"healthImpact"`
	ActualDB      float64                        `json:"actualDB"`
	Sources       []ProcessedSource              `json:"sources"`
	SourcesByTier map[ImpactTier][]ProcessedSource `json:"sourcesByTier"`
	Dominant      []DominantSource               `json:"dominantSources"`
	Metadata      Metadata                       `json:"metadata"`
}
