package core

import "math"

// -----------------------------------------------------------------------------

// Sum adds up a count series.
func Sum(data []int64) int64 {
	var total int64
	for _, v := range data {
		total += v
	}
	return total
}

// -----------------------------------------------------------------------------

// Mean returns the arithmetic mean, 0 for an empty series.
func Mean(data []int64) float64 {
	if len(data) == 0 {
		return 0
	}
	return float64(Sum(data)) / float64(len(data))
}

// -----------------------------------------------------------------------------

// ArgMaxFirst returns the index of the maximum value; the earliest index wins ties.
// Returns -1 for an empty series.
func ArgMaxFirst(data []int64) int {
	if len(data) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(data); i++ {
		if data[i] > data[best] {
			best = i
		}
	}
	return best
}

// -----------------------------------------------------------------------------

// Percent computes part/whole*100. The second result is false when whole is 0,
// in which case the value is NaN.
func Percent(part, whole int64) (float64, bool) {
	if whole == 0 {
		return math.NaN(), false
	}
	return float64(part) / float64(whole) * 100, true
}
