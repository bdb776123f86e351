package airquality

import "math"

// breakpoint is one row of the EPA AQI piecewise-linear mapping.
type breakpoint struct {
	low, high       float64
	aqiLow, aqiHigh float64
}

// EPA breakpoints for 24h PM2.5 (µg/m³).
var pm25Breakpoints = []breakpoint{
	{0, 12, 0, 50},
	{12.1, 35.4, 51, 100},
	{35.5, 55.4, 101, 150},
	{55.5, 150.4, 151, 200},
	{150.5, 250.4, 201, 300},
	{250.5, 500, 301, 500},
}

// EPA breakpoints for 24h PM10 (µg/m³).
var pm10Breakpoints = []breakpoint{
	{0, 54, 0, 50},
	{55, 154, 51, 100},
	{155, 254, 101, 150},
	{255, 354, 151, 200},
	{355, 424, 201, 300},
	{425, 604, 301, 500},
}

// ComputeAQI converts particulate concentrations into the EPA air quality
// index. The overall index is the worse of the two pollutant sub-indices.
func ComputeAQI(pm25, pm10 float64) int {
	return max(subIndex(pm25, pm25Breakpoints), subIndex(pm10, pm10Breakpoints))
}

// subIndex linearly interpolates a concentration within its breakpoint band:
// AQI = (aqiHigh-aqiLow)/(high-low) * (conc-low) + aqiLow.
func subIndex(concentration float64, breakpoints []breakpoint) int {
	if concentration <= 0 {
		return 0
	}

	last := breakpoints[len(breakpoints)-1]
	if concentration > last.high {
		return int(last.aqiHigh)
	}

	bp := breakpoints[0]
	for _, candidate := range breakpoints {
		if concentration >= candidate.low && concentration <= candidate.high {
			bp = candidate
			break
		}
	}

	aqi := (bp.aqiHigh-bp.aqiLow)/(bp.high-bp.low)*(concentration-bp.low) + bp.aqiLow
	return int(math.Round(aqi))
}
