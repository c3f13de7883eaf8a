package estimate

import (
	"fmt"

	"github.com/odanek/gridcut/ndarray"
	"gonum.org/v1/gonum/stat"
)

// GibouFedkiwTwoMean splits img into two regions by the Gibou-Fedkiw
// weighted two-mean rule and iterates the region means to a fixed point.
//
// Steps:
//  1. Initialize from the image extremes: c1 = (min+avg)/2,
//     c2 = (avg+max)/2.
//  2. Repeat up to maxIter times: compute the residual indicator
//     R(v) = -lambda1*(I(v)-c1)^2 + lambda2*(I(v)-c2)^2; c1 <- mean{I :
//     R>=0}, c2 <- mean{I : R<0}.
//  3. Stop when |Δc1|+|Δc2| < conv or maxIter is reached.
//
// Complexity: O(len*maxIter).
func GibouFedkiwTwoMean[T ndarray.Real](img *ndarray.Array[T], lambda1, lambda2 T, maxIter int, conv float64) (c1, c2 T, iters int, err error) {
	data := img.Data
	lo, hi := extremes(data)
	avg := T(stat.Mean(toFloat64(data), nil))
	c1, c2 = (lo+avg)/2, (avg+hi)/2

	for iters = 0; iters < maxIter; iters++ {
		var sum1, sum2 float64
		var n1, n2 int
		for _, v := range data {
			d1, d2 := float64(v-c1), float64(v-c2)
			r := -float64(lambda1)*d1*d1 + float64(lambda2)*d2*d2
			if r >= 0 {
				sum1 += float64(v)
				n1++
			} else {
				sum2 += float64(v)
				n2++
			}
		}
		if n1 == 0 || n2 == 0 {
			return c1, c2, iters, fmt.Errorf("estimate: GibouFedkiwTwoMean: %w", ErrEmptyRegion)
		}
		newC1, newC2 := T(sum1/float64(n1)), T(sum2/float64(n2))
		delta := math64Abs(float64(newC1-c1)) + math64Abs(float64(newC2-c2))
		c1, c2 = newC1, newC2
		if delta < conv {
			iters++

			break
		}
	}

	return c1, c2, iters, nil
}

// GibouFedkiwTwoMeanVariance extends GibouFedkiwTwoMean with per-region
// variance, the initial estimate the Rousson-Deriche driver's
// variance-aware unary term needs.
//
// Steps: as GibouFedkiwTwoMean, but region assignment uses the unweighted
// rule R(v) = (I(v)-c1)^2 - (I(v)-c2)^2 (closer mean wins), and each
// update recomputes both mean and variance via gonum/stat.MeanVariance.
//
// Complexity: O(len*maxIter).
func GibouFedkiwTwoMeanVariance[T ndarray.Real](img *ndarray.Array[T], maxIter int, conv float64) (c1, var1, c2, var2 T, iters int, err error) {
	data := img.Data
	lo, hi := extremes(data)
	avg := T(stat.Mean(toFloat64(data), nil))
	c1, c2 = (lo+avg)/2, (avg+hi)/2
	var1, var2 = 1, 1

	for iters = 0; iters < maxIter; iters++ {
		var region1, region2 []float64
		for _, v := range data {
			d1, d2 := float64(v-c1), float64(v-c2)
			if d1*d1-d2*d2 <= 0 {
				region1 = append(region1, float64(v))
			} else {
				region2 = append(region2, float64(v))
			}
		}
		if len(region1) == 0 || len(region2) == 0 {
			return c1, var1, c2, var2, iters, fmt.Errorf("estimate: GibouFedkiwTwoMeanVariance: %w", ErrEmptyRegion)
		}
		m1, v1 := stat.MeanVariance(region1, nil)
		m2, v2 := stat.MeanVariance(region2, nil)
		newC1, newC2 := T(m1), T(m2)
		delta := math64Abs(float64(newC1-c1)) + math64Abs(float64(newC2-c2))
		c1, var1, c2, var2 = newC1, T(v1), newC2, T(v2)
		if delta < conv {
			iters++

			break
		}
	}

	return c1, var1, c2, var2, iters, nil
}

func extremes[T ndarray.Real](data []T) (lo, hi T) {
	if len(data) == 0 {
		return 0, 0
	}
	lo, hi = data[0], data[0]
	for _, v := range data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	return lo, hi
}

func toFloat64[T ndarray.Real](data []T) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}

	return out
}

func math64Abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
