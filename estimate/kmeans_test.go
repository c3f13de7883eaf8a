package estimate_test

import (
	"testing"

	"github.com/odanek/gridcut/estimate"
	"github.com/odanek/gridcut/ndarray"
	"github.com/stretchr/testify/require"
)

func TestLloydKMeans1DThreeClusters(t *testing.T) {
	img, err := ndarray.New[float64]([]int{1, 9})
	require.NoError(t, err)
	vals := []float64{0, 0, 0, 10, 10, 10, 20, 20, 20}
	copy(img.Data, vals)

	centers, iters, err := estimate.LloydKMeans1D(img, 3, []float64{1, 1, 1}, 50, 1e-6)
	require.NoError(t, err)
	require.GreaterOrEqual(t, iters, 1)
	require.Len(t, centers, 3)

	sorted := append([]float64(nil), centers...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] < sorted[i] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	require.InDelta(t, 0, sorted[0], 1e-6)
	require.InDelta(t, 10, sorted[1], 1e-6)
	require.InDelta(t, 20, sorted[2], 1e-6)
}

func TestLloydKMeans1DEmptyRegion(t *testing.T) {
	img, err := ndarray.New[float64]([]int{1, 4})
	require.NoError(t, err)
	for i := range img.Data {
		img.Data[i] = 5
	}
	_, _, err = estimate.LloydKMeans1D(img, 3, []float64{1, 1, 1}, 50, 1e-6)
	require.ErrorIs(t, err, estimate.ErrEmptyRegion)
}
