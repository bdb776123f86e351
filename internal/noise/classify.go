package noise

// categoryPrecedence is the fixed order in which tag categories are
// considered. The first category present on a feature wins, regardless of
// whether the resulting key is in the catalog.
var categoryPrecedence = []string{
	"aeroway",
	"railway",
	"highway",
	"landuse",
	"public_transport",
	"leisure",
	"amenity",
}

// Classify derives the canonical source type for a feature's tag set.
// It returns false when no recognized category is present or when the
// derived key has no catalog entry; callers skip such features silently.
func Classify(tags map[string]string) (SourceTypeKey, bool) {
	if len(tags) == 0 {
		return "", false
	}

	for _, category := range categoryPrecedence {
		subtype, ok := tags[category]
		if !ok || subtype == "" {
			continue
		}

		key := SourceTypeKey(category + "_" + subtype)
		if _, known := sourceLevels[key]; !known {
			return "", false
		}
		return key, true
	}

	return "", false
}
