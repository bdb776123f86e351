package noise

// SourceTypeKey identifies a canonical noise source type, formed as
// "{category}_{subtype}" (e.g. "highway_motorway", "amenity_cafe").
type SourceTypeKey string

// SourceProfile holds the acoustic reference data for a source type.
type SourceProfile struct {
	// BaseDB is the reference sound pressure level in dB at 10 m.
	BaseDB float64

	// ActivityFactor is the fraction of time the source is acoustically
	// active, in (0, 1]. Used for the Leq temporal-averaging correction.
	ActivityFactor float64
}

// DefaultActivityFactor is applied to catalog entries without an explicit
// activity factor.
const DefaultActivityFactor = 0.5

// sourceLevels maps source types to reference levels in dB at 10 m.
// Values follow WHO, EPA, FHWA, FAA and FRA published figures.
var sourceLevels = map[SourceTypeKey]float64{
	// Aviation (FAA AC 150/5020-1)
	"aeroway_aerodrome": 90, "aeroway_runway": 95,
	"aeroway_helipad": 88, "aeroway_terminal": 85,

	// Highways (FHWA-PD-96-046)
	"highway_motorway": 82, "highway_trunk": 80,
	"highway_primary": 75, "highway_secondary": 70,

	// Railways (DOT/FRA/ORD-12/15)
	"railway_rail": 85, "railway_subway": 82,
	"railway_tram": 75, "railway_light_rail": 78,

	// Industrial and commercial land use (EPA 1971)
	"landuse_industrial": 70, "landuse_commercial": 65,
	"landuse_retail": 63, "landuse_construction": 75,

	// Transport facilities
	"amenity_bus_station": 72, "amenity_parking": 60,
	"amenity_fuel": 65, "public_transport_station": 70,
	"public_transport_stop_position": 65,

	// Entertainment and events
	"leisure_stadium": 75, "leisure_sports_centre": 68,
	"amenity_convention_centre": 68, "amenity_events_venue": 70,

	// Hospitality
	"amenity_nightclub": 70, "amenity_bar": 65,
	"amenity_pub": 63, "amenity_restaurant": 60,
	"amenity_cafe": 55, "amenity_fast_food": 58,

	// Cultural and recreation
	"amenity_theatre": 60, "amenity_cinema": 55,
	"amenity_community_centre": 58, "leisure_park": 50,
	"leisure_playground": 62,

	// Education (WHO schools guide)
	"amenity_school": 60, "amenity_college": 58,
	"amenity_university": 58, "amenity_kindergarten": 58,

	// Religious and civic
	"amenity_place_of_worship": 50, "amenity_townhall": 55,
	"amenity_library": 45,
}

// activityFactors maps source types to the fraction of time they are
// acoustically active (ISO 1996-1 Leq weighting).
var activityFactors = map[SourceTypeKey]float64{
	// Continuous, 24/7
	"highway_motorway": 1.0, "highway_trunk": 1.0,
	"highway_primary": 0.95, "highway_secondary": 0.85,

	// Frequent, reduced at night
	"railway_rail": 0.9, "railway_subway": 0.85,
	"railway_tram": 0.8, "railway_light_rail": 0.8,
	"landuse_industrial": 0.85, "landuse_construction": 0.5,

	// Business hours
	"landuse_commercial": 0.6, "landuse_retail": 0.65,
	"amenity_bus_station": 0.75, "public_transport_station": 0.75,
	"amenity_parking": 0.7, "amenity_fuel": 0.8,

	// Aviation
	"aeroway_aerodrome": 0.7, "aeroway_runway": 0.7,
	"aeroway_helipad": 0.5, "aeroway_terminal": 0.65,

	// Daytime only
	"amenity_school": 0.4, "amenity_college": 0.45,
	"amenity_university": 0.45, "amenity_kindergarten": 0.35,
	"leisure_playground": 0.4, "leisure_park": 0.5,
	"amenity_library": 0.5,

	// Evening and night
	"amenity_nightclub": 0.4, "amenity_bar": 0.5,
	"amenity_pub": 0.5, "amenity_restaurant": 0.6,
	"amenity_cafe": 0.55, "amenity_theatre": 0.3,
	"amenity_cinema": 0.4,

	// Event-driven
	"leisure_stadium": 0.3, "leisure_sports_centre": 0.45,
	"amenity_convention_centre": 0.35, "amenity_events_venue": 0.35,
	"amenity_community_centre": 0.4,

	// Occasional
	"amenity_place_of_worship": 0.25, "amenity_townhall": 0.4,
	"amenity_fast_food": 0.65, "public_transport_stop_position": 0.7,
}

// LookupProfile returns the profile for a source type. The second return
// value is false when the type is not in the catalog.
func LookupProfile(key SourceTypeKey) (SourceProfile, bool) {
	baseDB, ok := sourceLevels[key]
	if !ok {
		return SourceProfile{}, false
	}

	activity, ok := activityFactors[key]
	if !ok {
		activity = DefaultActivityFactor
	}

	return SourceProfile{BaseDB: baseDB, ActivityFactor: activity}, true
}

// ImpactTier is a coarse classification of a source's acoustic impact,
// derived from its reference level alone (independent of distance).
type ImpactTier string

const (
	TierHigh   ImpactTier = "High"
	TierMedium ImpactTier = "Medium"
	TierLow    ImpactTier = "Low"
)

// Tier classifies a reference level into an impact tier.
func Tier(baseDB float64) ImpactTier {
	switch {
	case baseDB >= 75:
		return TierHigh
	case baseDB >= 60:
		return TierMedium
	default:
		return TierLow
	}
}

// QuerySubtypes returns the feature subtypes of interest per tag category,
// derived from the catalog. Feature providers use this to scope their
// queries to sources the engine can actually model.
func QuerySubtypes() map[string][]string {
	return map[string][]string{
		"aeroway": {"aerodrome", "runway", "helipad", "terminal"},
		"highway": {"motorway", "trunk", "primary", "secondary"},
		"railway": {"rail", "subway", "tram", "light_rail"},
		"landuse": {"industrial", "commercial", "retail", "construction"},
		"amenity": {
			"bus_station", "parking", "fuel", "convention_centre",
			"events_venue", "nightclub", "bar", "pub", "restaurant",
			"cafe", "fast_food", "theatre", "cinema", "community_centre",
			"school", "college", "university", "kindergarten", "library",
			"townhall", "place_of_worship",
		},
		"public_transport": {"station", "stop_position"},
		"leisure":          {"stadium", "sports_centre", "park", "playground"},
	}
}
