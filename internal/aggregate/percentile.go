package aggregate

import "math"

// Percentile returns the p-th percentile (0–100) of sorted using linear
// interpolation between the two nearest ranks: the virtual index is
// p/100 * (n-1), and the result interpolates between the values at the floor
// and ceiling of that index. For [10 20 30 40 50] the 95th percentile is 48.
//
// sorted must be in ascending order and non-empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	idx := p / 100 * float64(n-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}

	frac := idx - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
