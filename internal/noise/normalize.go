package noise

import "math"

// Category is the qualitative noise rating band.
type Category string

const (
	CategoryExcellent Category = "Excellent"
	CategoryGood      Category = "Good"
	CategoryModerate  Category = "Moderate"
	CategoryPoor      Category = "Poor"
	CategoryVeryPoor  Category = "Very Poor"
	CategoryHazardous Category = "Hazardous"
)

// Rating is the normalized assessment of a total decibel level.
type Rating struct {
	Score        int
	Category     Category
	Description  string
	HealthImpact string

	// ActualDB is the input level rounded to one decimal place.
	ActualDB float64
}

// Normalize maps a total decibel level onto a 0-100 score with category,
// description and health impact labels, following the WHO environmental
// noise guideline bands. Band boundaries are inclusive on the upper end,
// so exactly 30 dB still rates Excellent.
func Normalize(totalDB float64) Rating {
	var (
		score        float64
		category     Category
		description  string
		healthImpact string
	)

	switch {
	case totalDB <= 30:
		score = (totalDB / 30) * 20
		category = CategoryExcellent
		description = "Very quiet, ideal for rest"
		healthImpact = "No negative health impact"
	case totalDB <= 45:
		score = 20 + ((totalDB-30)/15)*20
		category = CategoryGood
		description = "Quiet residential area"
		healthImpact = "Minimal health impact"
	case totalDB <= 55:
		score = 40 + ((totalDB-45)/10)*20
		category = CategoryModerate
		description = "Typical urban residential"
		healthImpact = "Some sleep disturbance possible"
	case totalDB <= 65:
		score = 60 + ((totalDB-55)/10)*20
		category = CategoryPoor
		description = "Noisy urban area"
		healthImpact = "Sleep disturbance, stress"
	case totalDB <= 75:
		score = 80 + ((totalDB-65)/10)*15
		category = CategoryVeryPoor
		description = "Very noisy, significant disturbance"
		healthImpact = "Health risk: hypertension, sleep disorders"
	default:
		score = 95 + math.Min((totalDB-75)/10*5, 5)
		category = CategoryHazardous
		description = "Extremely noisy, unacceptable"
		healthImpact = "Serious health risk: hearing damage"
	}

	return Rating{
		Score:        clampScore(math.Round(score)),
		Category:     category,
		Description:  description,
		HealthImpact: healthImpact,
		ActualDB:     math.Round(totalDB*10) / 10,
	}
}

func clampScore(score float64) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}
