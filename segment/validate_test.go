package segment

import (
	"testing"

	"github.com/odanek/gridcut/ndarray"
	"github.com/stretchr/testify/require"
)

func TestValidateDimsRejects1DAnd4D(t *testing.T) {
	img1, err := ndarray.New[float64]([]int{4})
	require.NoError(t, err)
	require.Error(t, validateDims(img1))

	img4, err := ndarray.New[float64]([]int{2, 2, 2, 2})
	require.NoError(t, err)
	require.Error(t, validateDims(img4))

	img2, err := ndarray.New[float64]([]int{2, 2})
	require.NoError(t, err)
	require.NoError(t, validateDims(img2))
}

func TestValidateLambdaRejectsNonPositive(t *testing.T) {
	require.Error(t, validateLambda("lambda", 0.0))
	require.Error(t, validateLambda("lambda", -1.0))
	require.NoError(t, validateLambda("lambda", 0.1))
}

func TestValidateSeedsRequiresOrdering(t *testing.T) {
	c1, c2 := 1.0, 2.0
	require.NoError(t, validateSeeds(&c1, &c2))
	require.NoError(t, validateSeeds[float64](nil, nil))

	bad1, bad2 := 2.0, 1.0
	require.Error(t, validateSeeds(&bad1, &bad2))
}

func TestValidateKBounds(t *testing.T) {
	require.Error(t, validateK(1))
	require.Error(t, validateK(255))
	require.NoError(t, validateK(2))
	require.NoError(t, validateK(254))
}
