package neighborhood_test

import (
	"math"
	"testing"

	"github.com/odanek/gridcut/neighborhood"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestBuildUnsupportedSymbol(t *testing.T) {
	_, err := neighborhood.Build("N5", 2)
	require.ErrorIs(t, err, neighborhood.ErrUnsupportedNeighbourhood)

	// N6 is a valid 3D symbol, but not for dims=2.
	_, err = neighborhood.Build("N6", 2)
	require.ErrorIs(t, err, neighborhood.ErrUnsupportedNeighbourhood)
}

func TestBuildCounts(t *testing.T) {
	cases := []struct {
		symbol string
		dims   int
		want   int
	}{
		{"N4", 2, 4}, {"N8", 2, 8}, {"N16", 2, 16}, {"N32", 2, 32},
		{"N6", 3, 6}, {"N18", 3, 18}, {"N26", 3, 26}, {"N98", 3, 98},
	}
	for _, c := range cases {
		sys, err := neighborhood.Build(c.symbol, c.dims)
		require.NoError(t, err, c.symbol)
		require.Equal(t, c.want, sys.Len(), c.symbol)
	}
}

// TestNeighbourhoodSymmetry checks that for every direction d there is an
// opposite -d at a stable index, and both carry the same weight.
func TestNeighbourhoodSymmetry(t *testing.T) {
	for _, symbol := range []string{"N4", "N8", "N16", "N32"} {
		sys, err := neighborhood.Build(symbol, 2)
		require.NoError(t, err)

		for i, d := range sys.Offsets {
			opp := sys.Opposite[i]
			require.Equal(t, -d[0], sys.Offsets[opp][0])
			require.Equal(t, -d[1], sys.Offsets[opp][1])
			require.Equal(t, i, sys.Opposite[opp])
			require.InDelta(t, sys.Weights[i], sys.Weights[opp], 1e-12)
		}
	}
}

// TestNeighbourhoodSymmetry3D covers the same property for 3D symbols,
// whose Voronoi shares come from sphere sampling rather than an exact
// angular partition and so need the explicit antipodal-average pass in
// buildWithMetric to hold exactly.
func TestNeighbourhoodSymmetry3D(t *testing.T) {
	for _, symbol := range []string{"N6", "N18", "N26", "N98"} {
		sys, err := neighborhood.Build(symbol, 3)
		require.NoError(t, err)

		for i, d := range sys.Offsets {
			opp := sys.Opposite[i]
			for a := range d {
				require.Equal(t, -d[a], sys.Offsets[opp][a])
			}
			require.Equal(t, i, sys.Opposite[opp])
			require.InDelta(t, sys.Weights[i], sys.Weights[opp], 1e-12, symbol)
		}
	}
}

// TestCauchyCroftonPartitionCoversFullSphere checks that the
// hyperspherical Voronoi partition exactly covers the unit sphere, so the
// underlying solid-angle shares sum to its full measure (2*pi in 2D,
// 4*pi in 3D) regardless of how K_N later rescales the per-direction
// weights.
func TestCauchyCroftonPartitionCoversFullSphere(t *testing.T) {
	sys2, err := neighborhood.Build("N16", 2)
	require.NoError(t, err)
	sum2 := 0.0
	for i, w := range sys2.Weights {
		rho := math.Hypot(float64(sys2.Offsets[i][0]), float64(sys2.Offsets[i][1]))
		sum2 += w * rho * 2 // undo w_i = (phi_i/rho_i)/K_2 => phi_i = w_i*rho_i*K_2
	}
	require.InDelta(t, 2*math.Pi, sum2, 1e-9)

	sys3, err := neighborhood.Build("N26", 3)
	require.NoError(t, err)
	sum3 := 0.0
	for i, w := range sys3.Weights {
		o := sys3.Offsets[i]
		rho := math.Sqrt(float64(o[0]*o[0] + o[1]*o[1] + o[2]*o[2]))
		sum3 += w * rho * math.Pi
	}
	require.InDelta(t, 4*math.Pi, sum3, 0.05*4*math.Pi) // sampling approximation
}

// TestBuildRiemannianUniformScalingMatchesIsotropicTimesK checks the
// closed-form case M = k*I: transformed directions normalize back to the
// untransformed ones (shares unchanged), lengths scale by k, and det(M) =
// k^2, so every weight should come out exactly k times the isotropic
// Build weight for the same direction.
func TestBuildRiemannianUniformScalingMatchesIsotropicTimesK(t *testing.T) {
	const k = 2.0

	iso, err := neighborhood.Build("N8", 2)
	require.NoError(t, err)

	m := mat.NewSymDense(2, []float64{k, 0, 0, k})
	aniso, err := neighborhood.BuildRiemannian("N8", 2, m)
	require.NoError(t, err)

	require.Equal(t, iso.Offsets, aniso.Offsets)
	for i := range iso.Weights {
		require.InDelta(t, k*iso.Weights[i], aniso.Weights[i], 1e-9, "direction %d", i)
	}
}

// TestBuildRiemannianAnisotropicStretchChangesWeights checks that a
// genuinely anisotropic metric (not a multiple of the identity) biases
// weights away from the isotropic case: directions aligned with the
// stretch axis get a different weight than directions aligned with the
// compressed axis.
func TestBuildRiemannianAnisotropicStretchChangesWeights(t *testing.T) {
	m := mat.NewSymDense(2, []float64{4, 0, 0, 1})
	sys, err := neighborhood.BuildRiemannian("N4", 2, m)
	require.NoError(t, err)

	iso, err := neighborhood.Build("N4", 2)
	require.NoError(t, err)

	var changed bool
	for i := range sys.Weights {
		if math.Abs(sys.Weights[i]-iso.Weights[i]) > 1e-9 {
			changed = true

			break
		}
	}
	require.True(t, changed, "anisotropic metric must change at least one weight")

	for i, d := range sys.Offsets {
		opp := sys.Opposite[i]
		require.InDelta(t, sys.Weights[i], sys.Weights[opp], 1e-9, "direction %d", d)
	}
}

func TestBuildWeightsPositive(t *testing.T) {
	sys, err := neighborhood.Build("N8", 2)
	require.NoError(t, err)
	for _, w := range sys.Weights {
		require.Greater(t, w, 0.0)
	}
}
