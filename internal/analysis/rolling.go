package analysis

import "math"

// DefaultRollingWindow is the number of points in a trend band
const DefaultRollingWindow = 7

// ConfidenceZ is the z-score of a two-sided 95% confidence interval
const ConfidenceZ = 1.96

// RollingPoint is the trailing mean of a series at one index, with an
// optional confidence half-width around it
type RollingPoint struct {
	Mean      float64 `json:"mean"`
	HalfWidth float64 `json:"halfWidth"`
	HasBand   bool    `json:"hasBand"`
}

// Lower returns the lower edge of the band
func (p RollingPoint) Lower() float64 {
	return p.Mean - p.HalfWidth
}

// Upper returns the upper edge of the band
func (p RollingPoint) Upper() float64 {
	return p.Mean + p.HalfWidth
}

// RollingStats computes a trailing moving average over window points
// (fewer at the start of the series) and a 95% confidence half-width
// 1.96 * sd / sqrt(window), using the sample standard deviation.
// A single-point window has no band.
func RollingStats(values []float64, window int) []RollingPoint {
	if window < 1 {
		window = 1
	}
	out := make([]RollingPoint, len(values))
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		w := values[start : i+1]

		var sum float64
		for _, v := range w {
			sum += v
		}
		mean := sum / float64(len(w))
		out[i].Mean = mean

		if len(w) < 2 {
			continue
		}
		var sq float64
		for _, v := range w {
			d := v - mean
			sq += d * d
		}
		sd := math.Sqrt(sq / float64(len(w)-1))
		out[i].HalfWidth = ConfidenceZ * sd / math.Sqrt(float64(window))
		out[i].HasBand = true
	}
	return out
}
