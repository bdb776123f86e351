package noise

import "math"

const earthRadiusMeters = 6371000

// HaversineDistance returns the great-circle distance between two
// coordinates in meters.
func HaversineDistance(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// FeatureDistance returns the distance in meters from the query point to
// the feature's nearest geometry. For line features this is the distance to
// the nearest vertex, not the nearest point on a segment interior; the
// vertex-level approximation is deliberate and changing it would shift
// results for near-miss lines. Returns +Inf for geometry that cannot be
// interpreted (unknown kind, empty line); callers exclude such features.
func FeatureDistance(query Coordinate, f RawFeature) float64 {
	switch f.Geometry.Kind {
	case GeometryPoint:
		return HaversineDistance(query, f.Geometry.Point)
	case GeometryLine:
		if len(f.Geometry.Line) == 0 {
			return math.Inf(1)
		}
		nearest := math.Inf(1)
		for _, vertex := range f.Geometry.Line {
			if d := HaversineDistance(query, vertex); d < nearest {
				nearest = d
			}
		}
		return nearest
	default:
		return math.Inf(1)
	}
}
