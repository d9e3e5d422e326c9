package counter

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// areaStatistics aggregates retained component areas. With no areas it
// returns an all-zero Statistics value; that is the defined convention for
// empty results, not an error.
func areaStatistics(areas []int) Statistics {
	if len(areas) == 0 {
		return Statistics{}
	}

	xs := make([]float64, len(areas))
	minA, maxA := areas[0], areas[0]
	for i, a := range areas {
		xs[i] = float64(a)
		if a < minA {
			minA = a
		}
		if a > maxA {
			maxA = a
		}
	}

	return Statistics{
		Total:      len(areas),
		MeanArea:   stat.Mean(xs, nil),
		MedianArea: median(xs),
		MinArea:    minA,
		MaxArea:    maxA,
		StdDevArea: stat.PopStdDev(xs, nil),
	}
}

// median returns the standard interpolated median: the middle element for
// odd counts, the mean of the two middle elements for even counts.
func median(xs []float64) float64 {
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
