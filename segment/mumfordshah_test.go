package segment_test

import (
	"testing"

	"github.com/odanek/gridcut/ndarray"
	"github.com/odanek/gridcut/segment"
	"github.com/stretchr/testify/require"
)

func threeBandImage(t *testing.T) *ndarray.Array[float64] {
	t.Helper()
	img, err := ndarray.New[float64]([]int{3, 6})
	require.NoError(t, err)
	for y := 0; y < 3; y++ {
		for x := 0; x < 6; x++ {
			v := 0.0
			switch {
			case x >= 4:
				v = 10.0
			case x >= 2:
				v = 5.0
			}
			require.NoError(t, img.Set(v, y, x))
		}
	}

	return img
}

func TestMumfordShahRecoversThreeBands(t *testing.T) {
	img := threeBandImage(t)
	res, err := segment.MumfordShah(img, segment.MumfordShahOptions[float64]{
		K: 3, Lambda: []float64{1}, Convergence: 1e-6, MaxIter: 10, Neighbourhood: "N4",
	})
	require.NoError(t, err)
	require.Equal(t, segment.Converged, res.Status)
	require.Len(t, res.C, 3)

	centers := append([]float64(nil), res.C...)
	for i := 0; i < len(centers); i++ {
		for j := i + 1; j < len(centers); j++ {
			if centers[i] > centers[j] {
				centers[i], centers[j] = centers[j], centers[i]
			}
		}
	}
	require.InDelta(t, 0, centers[0], 1e-3)
	require.InDelta(t, 5, centers[1], 1e-3)
	require.InDelta(t, 10, centers[2], 1e-3)
}

func TestMumfordShahEnergyNeverIncreases(t *testing.T) {
	img := threeBandImage(t)
	res, err := segment.MumfordShah(img, segment.MumfordShahOptions[float64]{
		K: 3, Lambda: []float64{2}, Convergence: 1e-6, MaxIter: 4, Neighbourhood: "N4",
	})
	require.NoError(t, err)
	require.False(t, res.Energy < 0)
}

func TestMumfordShahRejectsBadParams(t *testing.T) {
	img := threeBandImage(t)
	var verr *segment.ValidationError

	_, err := segment.MumfordShah(img, segment.MumfordShahOptions[float64]{
		K: 1, Lambda: []float64{1}, Convergence: 1e-6, MaxIter: 10, Neighbourhood: "N4",
	})
	require.ErrorAs(t, err, &verr)

	_, err = segment.MumfordShah(img, segment.MumfordShahOptions[float64]{
		K: 3, Lambda: []float64{1, 2}, Convergence: 1e-6, MaxIter: 10, Neighbourhood: "N4",
	})
	require.ErrorAs(t, err, &verr)

	_, err = segment.MumfordShah(img, segment.MumfordShahOptions[float64]{
		K: 3, Lambda: []float64{1}, Convergence: 1e-6, MaxIter: 0, Neighbourhood: "N4",
	})
	require.ErrorAs(t, err, &verr)
}
