package noise

import "math"

// referenceDistanceMeters is the distance at which catalog levels are
// specified.
const referenceDistanceMeters = 10

// atmosphericAbsorptionDBPerMeter approximates mid-frequency atmospheric
// absorption (ISO 9613-2).
const atmosphericAbsorptionDBPerMeter = 0.005

// Propagate converts a source's reference level into the effective sound
// pressure level at the query point, applying in order: inverse-square
// distance attenuation with atmospheric absorption, the Leq activity
// correction, and stepped urban barrier screening. The result is clamped
// to >= 0 dB.
func Propagate(baseDB, distanceMeters, activityFactor float64) float64 {
	spl := splAtDistance(baseDB, distanceMeters)
	spl = applyActivity(spl, activityFactor)
	spl -= barrierAttenuation(distanceMeters)
	return math.Max(0, spl)
}

// splAtDistance applies the inverse-square law referenced to 10 m plus
// atmospheric absorption: SPL(d) = SPL(ref) - 20*log10(d/10) - 0.005*(d-10).
// Distances below 1 m are clamped to avoid the log singularity.
func splAtDistance(baseDB, distanceMeters float64) float64 {
	if distanceMeters < 1 {
		distanceMeters = 1
	}

	distanceAttenuation := 20 * math.Log10(distanceMeters/referenceDistanceMeters)
	atmosphericAbsorption := atmosphericAbsorptionDBPerMeter * (distanceMeters - referenceDistanceMeters)

	return baseDB - distanceAttenuation - atmosphericAbsorption
}

// applyActivity converts an instantaneous level into a continuous-exposure
// equivalent: dB_eff = dB + 10*log10(activity). A source active half the
// time contributes roughly 3 dB less to the averaged figure. Fully active
// sources are unchanged; the result never goes below 0.
func applyActivity(db, activityFactor float64) float64 {
	if activityFactor >= 1 {
		return db
	}
	return math.Max(0, db+10*math.Log10(activityFactor))
}

// barrierAttenuation is a simplified urban screening model stepped by
// distance band (ISO 9613-2 section 7, Maekawa simplified).
func barrierAttenuation(distanceMeters float64) float64 {
	switch {
	case distanceMeters < 50:
		return 0
	case distanceMeters < 150:
		return 3
	case distanceMeters < 400:
		return 5
	case distanceMeters < 700:
		return 8
	default:
		return 12
	}
}
