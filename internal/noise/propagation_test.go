package noise_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/enviroscore/enviroscore/internal/noise"
)

func TestPropagate_ReferenceDistance(t *testing.T) {
	// At the 10 m reference with a fully active source both the distance
	// term and the atmospheric term vanish.
	got := noise.Propagate(82, 10, 1.0)
	assert.InDelta(t, 82, got, 1e-9)
}

func TestPropagate_SubMeterClamp(t *testing.T) {
	// Distances below 1 m clamp to 1 m, so 0.1 m and 1 m are identical.
	assert.InDelta(t, noise.Propagate(82, 1, 1.0), noise.Propagate(82, 0.1, 1.0), 1e-9)
}

func TestPropagate_ActivityCorrection(t *testing.T) {
	full := noise.Propagate(82, 10, 1.0)
	half := noise.Propagate(82, 10, 0.5)

	// Half-time activity subtracts ~3.01 dB (10*log10(0.5)).
	assert.InDelta(t, full-3.0103, half, 0.001)

	// Factors >= 1 are a no-op.
	assert.Equal(t, full, noise.Propagate(82, 10, 1.5))
}

func TestPropagate_MonotoneInDistance(t *testing.T) {
	distances := []float64{1, 5, 10, 25, 49, 50, 100, 149, 150, 300, 399, 400, 600, 699, 700, 1000, 2000, 5000}

	prev := noise.Propagate(95, distances[0], 1.0)
	for _, d := range distances[1:] {
		cur := noise.Propagate(95, d, 1.0)
		assert.LessOrEqual(t, cur, prev, "effective level must be non-increasing at %v m", d)
		prev = cur
	}
}

func TestPropagate_ClampsToZero(t *testing.T) {
	// A quiet source far away would attenuate below zero.
	got := noise.Propagate(45, 5000, 0.25)
	assert.Equal(t, 0.0, got)
}

func TestPropagate_BarrierBands(t *testing.T) {
	// Crossing a barrier band boundary adds a step of extra attenuation
	// on top of the continuous terms.
	just := noise.Propagate(90, 49.99, 1.0)
	over := noise.Propagate(90, 50.01, 1.0)
	assert.InDelta(t, 3, just-over, 0.01)
}
