package noise_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enviroscore/enviroscore/internal/noise"
)

// fakeProvider returns canned features and records how it was called.
type fakeProvider struct {
	features []noise.RawFeature
	err      error
	calls    int

	lastCenter noise.Coordinate
	lastRadius int
}

func (p *fakeProvider) FeaturesNear(_ context.Context, center noise.Coordinate, radiusMeters int, _ map[string][]string) ([]noise.RawFeature, error) {
	p.calls++
	p.lastCenter = center
	p.lastRadius = radiusMeters
	if p.err != nil {
		return nil, p.err
	}
	return p.features, nil
}

func newTestService(p noise.FeatureProvider) *noise.Service {
	return noise.NewService(noise.ServiceConfig{
		Provider: p,
		Logger:   zerolog.Nop(),
	})
}

// tenMetersLat is the latitude offset that puts a point exactly 10 m north
// of the query point on the great circle.
var tenMetersLat = 10.0 / 6371000.0 * 180 / math.Pi

func TestComputeNoise_InvalidCoordinate(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider)

	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"lat too high", 91, 0},
		{"lat too low", -90.5, 0},
		{"lon too high", 0, 180.5},
		{"lon too low", 0, -181},
		{"lat NaN", math.NaN(), 0},
		{"lon NaN", 0, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ComputeNoise(context.Background(), tt.lat, tt.lon, 1000)
			require.Error(t, err)
			assert.ErrorIs(t, err, noise.ErrInvalidCoordinate)
		})
	}

	// Validation happens before any external call.
	assert.Zero(t, provider.calls)
}

func TestComputeNoise_ProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("overpass: connection refused")}
	svc := newTestService(provider)

	_, err := svc.ComputeNoise(context.Background(), 28.6139, 77.2090, 1000)
	require.Error(t, err)
	assert.ErrorIs(t, err, noise.ErrServiceUnavailable)
}

func TestComputeNoise_ZeroFeatures(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider)

	result, err := svc.ComputeNoise(context.Background(), 28.6139, 77.2090, 1000)
	require.NoError(t, err)

	assert.Equal(t, noise.CategoryExcellent, result.Category)
	assert.Equal(t, 25.0, result.ActualDB)
	assert.Equal(t, 17, result.Score)
	assert.Empty(t, result.Sources)
	assert.Empty(t, result.Dominant)
	assert.Zero(t, result.Metadata.SourcesFound)
	assert.Zero(t, result.Metadata.SourcesAnalyzed)
}

func TestComputeNoise_MotorwayAtReferenceDistance(t *testing.T) {
	// A motorway (82 dB base, fully active) 10 m away: every propagation
	// term is zero, so the total stays 82 dB and rates Hazardous 99.
	provider := &fakeProvider{features: []noise.RawFeature{
		{
			ID:       42,
			Name:     "NH 48",
			Tags:     map[string]string{"highway": "motorway"},
			Geometry: noise.PointGeometry(tenMetersLat, 0),
		},
	}}
	svc := newTestService(provider)

	result, err := svc.ComputeNoise(context.Background(), 0, 0, 1000)
	require.NoError(t, err)

	assert.Equal(t, 82.0, result.ActualDB)
	assert.Equal(t, 99, result.Score)
	assert.Equal(t, noise.CategoryHazardous, result.Category)

	require.Len(t, result.Sources, 1)
	src := result.Sources[0]
	assert.Equal(t, int64(42), src.ID)
	assert.Equal(t, "NH 48", src.Name)
	assert.Equal(t, noise.SourceTypeKey("highway_motorway"), src.Type)
	assert.Equal(t, 10.0, src.DistanceMeters)
	assert.Equal(t, 82.0, src.EffectiveDB)
	assert.Equal(t, 1.0, src.ActivityFactor)
	assert.Equal(t, noise.TierHigh, src.Impact)

	require.Len(t, result.Dominant, 1)
	assert.Equal(t, "NH 48", result.Dominant[0].Name)

	assert.Equal(t, 1, result.Metadata.SourcesFound)
	assert.Equal(t, 1, result.Metadata.SourcesAnalyzed)
}

func TestComputeNoise_SkipsSilently(t *testing.T) {
	provider := &fakeProvider{features: []noise.RawFeature{
		// Unclassifiable: unrelated tags.
		{ID: 1, Tags: map[string]string{"building": "yes"}, Geometry: noise.PointGeometry(tenMetersLat, 0)},
		// Out of radius.
		{ID: 2, Tags: map[string]string{"highway": "motorway"}, Geometry: noise.PointGeometry(0.5, 0)},
		// Uninterpretable geometry.
		{ID: 3, Tags: map[string]string{"railway": "rail"}, Geometry: noise.LineGeometry(nil)},
		// Below the audibility threshold: a library ~900 m out.
		{ID: 4, Tags: map[string]string{"amenity": "library"}, Geometry: noise.PointGeometry(0.0081, 0)},
		// Accepted.
		{ID: 5, Name: "Ring Road", Tags: map[string]string{"highway": "trunk"}, Geometry: noise.PointGeometry(tenMetersLat * 3, 0)},
	}}
	svc := newTestService(provider)

	result, err := svc.ComputeNoise(context.Background(), 0, 0, 1000)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Metadata.SourcesFound)
	assert.Equal(t, 1, result.Metadata.SourcesAnalyzed)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, int64(5), result.Sources[0].ID)
}

func TestComputeNoise_UnnamedFallback(t *testing.T) {
	provider := &fakeProvider{features: []noise.RawFeature{
		{ID: 7, Tags: map[string]string{"railway": "rail"}, Geometry: noise.PointGeometry(tenMetersLat, 0)},
	}}
	svc := newTestService(provider)

	result, err := svc.ComputeNoise(context.Background(), 0, 0, 1000)
	require.NoError(t, err)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "Unnamed", result.Sources[0].Name)
}

func TestComputeNoise_DefaultRadius(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider)

	_, err := svc.ComputeNoise(context.Background(), 28.6139, 77.2090, 0)
	require.NoError(t, err)
	assert.Equal(t, 1000, provider.lastRadius)
}

func TestComputeNoise_ScoreAlwaysInRange(t *testing.T) {
	// A worst-case cluster of loud sources still normalizes into [0,100].
	features := make([]noise.RawFeature, 0, 20)
	for i := range 20 {
		features = append(features, noise.RawFeature{
			ID:       int64(i),
			Tags:     map[string]string{"aeroway": "runway"},
			Geometry: noise.PointGeometry(tenMetersLat, 0),
		})
	}
	provider := &fakeProvider{features: features}
	svc := newTestService(provider)

	result, err := svc.ComputeNoise(context.Background(), 0, 0, 1000)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
	assert.GreaterOrEqual(t, result.ActualDB, 0.0)
	assert.Len(t, result.Dominant, 5)
}
