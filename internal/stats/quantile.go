// Package stats holds the small amount of descriptive statistics the
// pipeline needs.
package stats

import "math"

// Quantile returns the p-quantile of sorted (ascending) using linear
// interpolation between closest ranks: h = (n-1)p, the estimator known as
// R type 7 and used by pandas and NumPy by default. It returns NaN for an
// empty slice or p outside [0, 1].
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 || p < 0 || p > 1 || math.IsNaN(p) {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i >= n-1 {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}
