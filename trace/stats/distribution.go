// Package stats summarizes delivery-delay samples.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Distribution captures statistical summary of a delay sample.
type Distribution struct {
	Count int
	Mean  float64
	Min   float64
	Max   float64
	P50   float64
	P90   float64
	P95   float64
	P99   float64
}

// NewDistribution computes a Distribution from raw values.
// Returns zero-value Distribution for empty input.
func NewDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Distribution{
		Count: len(sorted),
		Mean:  stat.Mean(sorted, nil),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		P50:   Quantile(sorted, 0.50),
		P90:   Quantile(sorted, 0.90),
		P95:   Quantile(sorted, 0.95),
		P99:   Quantile(sorted, 0.99),
	}
}

// Quantile returns the empirical p-quantile (the smallest sample whose CDF
// reaches p), matching the percentiles written to the CDF artifact.
// Input must be sorted ascending and non-empty.
func Quantile(sorted []float64, p float64) float64 {
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}
