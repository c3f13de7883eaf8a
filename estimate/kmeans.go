package estimate

import (
	"fmt"

	"github.com/odanek/gridcut/ndarray"
	"gonum.org/v1/gonum/floats"
)

// LloydKMeans1D partitions img's 1-D intensity distribution into k
// classes under per-class weights lambda, the initialization the
// piecewise-constant Mumford-Shah driver needs for its alpha-expansion
// outer loop.
//
// Steps:
//  1. Initialize centres evenly spaced across [min,max].
//  2. Repeat up to maxIter times: assign each pixel to
//     argmin_l lambda[l]*(I(v)-c_l)^2; recompute c_l as the mean of its
//     assigned pixels.
//  3. Stop when the summed centre movement is below conv or maxIter is
//     reached.
//
// Complexity: O(len*k*maxIter).
func LloydKMeans1D[T ndarray.Real](img *ndarray.Array[T], k int, lambda []T, maxIter int, conv float64) (centers []T, iters int, err error) {
	data := img.Data
	lo, hi := extremes(data)
	centers = make([]T, k)
	for l := 0; l < k; l++ {
		centers[l] = lo + (hi-lo)*T(float64(l)+0.5)/T(k)
	}

	sums := make([]float64, k)
	counts := make([]int, k)
	deltas := make([]float64, k)

	for iters = 0; iters < maxIter; iters++ {
		for l := range sums {
			sums[l] = 0
			counts[l] = 0
		}

		for _, v := range data {
			best, bestCost := 0, costOf(v, centers[0], lambda[0])
			for l := 1; l < k; l++ {
				c := costOf(v, centers[l], lambda[l])
				if c < bestCost {
					best, bestCost = l, c
				}
			}
			sums[best] += float64(v)
			counts[best]++
		}

		newCenters := make([]T, k)
		for l := 0; l < k; l++ {
			if counts[l] == 0 {
				return centers, iters, fmt.Errorf("estimate: LloydKMeans1D: %w", ErrEmptyRegion)
			}
			newCenters[l] = T(sums[l] / float64(counts[l]))
			deltas[l] = math64Abs(float64(newCenters[l] - centers[l]))
		}
		delta := floats.Sum(deltas)
		centers = newCenters
		if delta < conv {
			iters++

			break
		}
	}

	return centers, iters, nil
}

func costOf[T ndarray.Real](v, c, lambda T) float64 {
	d := float64(v - c)

	return float64(lambda) * d * d
}
