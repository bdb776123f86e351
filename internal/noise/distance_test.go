package noise_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/enviroscore/enviroscore/internal/noise"
)

func TestHaversineDistance(t *testing.T) {
	// One degree of latitude is roughly 111.19 km.
	d := noise.HaversineDistance(
		noise.Coordinate{Lat: 0, Lon: 0},
		noise.Coordinate{Lat: 1, Lon: 0},
	)
	assert.InDelta(t, 111195, d, 50)

	// Same point.
	d = noise.HaversineDistance(
		noise.Coordinate{Lat: 28.6139, Lon: 77.2090},
		noise.Coordinate{Lat: 28.6139, Lon: 77.2090},
	)
	assert.InDelta(t, 0, d, 0.001)
}

func TestFeatureDistance_Point(t *testing.T) {
	query := noise.Coordinate{Lat: 28.6139, Lon: 77.2090}
	feature := noise.RawFeature{
		Geometry: noise.PointGeometry(28.6239, 77.2090),
	}

	d := noise.FeatureDistance(query, feature)
	assert.InDelta(t, 1112, d, 5)
}

func TestFeatureDistance_LineNearestVertex(t *testing.T) {
	query := noise.Coordinate{Lat: 0, Lon: 0}
	feature := noise.RawFeature{
		Geometry: noise.LineGeometry([]noise.Coordinate{
			{Lat: 0.02, Lon: 0}, // ~2224 m
			{Lat: 0.01, Lon: 0}, // ~1112 m, nearest
			{Lat: 0.03, Lon: 0}, // ~3336 m
		}),
	}

	d := noise.FeatureDistance(query, feature)
	assert.InDelta(t, 1112, d, 5)
}

func TestFeatureDistance_Uninterpretable(t *testing.T) {
	query := noise.Coordinate{Lat: 0, Lon: 0}

	empty := noise.RawFeature{Geometry: noise.LineGeometry(nil)}
	assert.True(t, math.IsInf(noise.FeatureDistance(query, empty), 1))

	unknown := noise.RawFeature{Geometry: noise.Geometry{Kind: "polygon"}}
	assert.True(t, math.IsInf(noise.FeatureDistance(query, unknown), 1))
}
