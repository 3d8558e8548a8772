package pipeline

import "sort"

// priceStats summarizes a non-empty sample of prices.
type priceStats struct {
	Median float64
	Mean   float64
	Min    float64
	Max    float64
}

// summarize computes exact median/mean/min/max. For an even-count sample
// the median is the average of the two middle values. Panics on an empty
// sample; callers filter first.
func summarize(prices []float64) priceStats {
	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)

	n := len(sorted)
	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	var sum float64
	for _, p := range sorted {
		sum += p
	}

	return priceStats{
		Median: median,
		Mean:   sum / float64(n),
		Min:    sorted[0],
		Max:    sorted[n-1],
	}
}

// confidence maps the number of platforms that yielded a usable price to a
// score in [0, 10]: each platform is worth 8/3 points on top of a 2.0 base,
// clipped at 10. All three platforms succeeding gives exactly 10.0.
func confidence(validCount int) float64 {
	score := (float64(validCount)/3.0)*8.0 + 2.0
	if score > 10.0 {
		return 10.0
	}
	return score
}
