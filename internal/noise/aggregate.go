package noise

import (
	"math"
	"sort"
)

// NoiseFloorDB is the ambient level reported when nothing audible is in
// range. Per-source contributions at or below this level are treated as
// inaudible and excluded from aggregation.
const NoiseFloorDB = 25

// maxDominantSources caps the dominantSources ranking in results.
const maxDominantSources = 5

// Combine sums independent sound pressure contributions into one total
// level: L_total = 10*log10(sum(10^(L_i/10))). Sound pressures add in
// power, not in decibels; an arithmetic mean here would be physically
// wrong. An empty input yields the noise floor.
func Combine(levels []float64) float64 {
	if len(levels) == 0 {
		return NoiseFloorDB
	}

	var sum float64
	for _, level := range levels {
		sum += math.Pow(10, level/10)
	}
	return 10 * math.Log10(sum)
}

// RankDominant returns the top contributors by effective level, descending,
// capped at five. The input slice is not modified.
func RankDominant(sources []ProcessedSource) []DominantSource {
	ranked := make([]ProcessedSource, len(sources))
	copy(ranked, sources)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EffectiveDB > ranked[j].EffectiveDB
	})

	if len(ranked) > maxDominantSources {
		ranked = ranked[:maxDominantSources]
	}

	dominant := make([]DominantSource, 0, len(ranked))
	for _, s := range ranked {
		dominant = append(dominant, DominantSource{
			Name:           s.Name,
			Type:           s.Type,
			DistanceMeters: s.DistanceMeters,
			ContributionDB: s.EffectiveDB,
		})
	}
	return dominant
}
