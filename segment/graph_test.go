package segment

import (
	"testing"

	"github.com/odanek/gridcut/mask"
	"github.com/odanek/gridcut/ndarray"
	"github.com/stretchr/testify/require"
)

func TestGridCoordLinearRoundTrip(t *testing.T) {
	shape := []int{3, 4}
	for v := 0; v < gridLen(shape); v++ {
		coord := gridCoord(v, shape)
		require.Equal(t, v, gridLinear(coord, shape))
	}
}

func TestCityblockDistanceFromSingleSeed(t *testing.T) {
	shape := []int{1, 5}
	dist := cityblockDistance(shape, []int{0})
	require.Equal(t, []int{0, 1, 2, 3, 4}, dist)
}

func TestCityblockDistanceMultiSource(t *testing.T) {
	shape := []int{1, 5}
	dist := cityblockDistance(shape, []int{0, 4})
	require.Equal(t, []int{0, 1, 2, 1, 0}, dist)
}

func TestBoundarySeedsFindsLabelTransitions(t *testing.T) {
	shape := []int{1, 4}
	labels, err := ndarray.NewU8(shape)
	require.NoError(t, err)
	labels.Data = []uint8{0, 0, 1, 1}

	seeds := boundarySeeds(shape, labels)
	require.ElementsMatch(t, []int{1, 2}, seeds)
}

func TestBandMaskFixesFarNodes(t *testing.T) {
	shape := []int{1, 6}
	labels, err := ndarray.NewU8(shape)
	require.NoError(t, err)
	labels.Data = []uint8{0, 0, 0, 1, 1, 1}

	m, err := bandMask(shape, labels, 1, nil)
	require.NoError(t, err)

	v0, err := m.Data.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, mask.BackgroundFixed, v0)

	v5, err := m.Data.At(0, 5)
	require.NoError(t, err)
	require.Equal(t, mask.ForegroundFixed, v5)

	v2, err := m.Data.At(0, 2)
	require.NoError(t, err)
	require.Equal(t, mask.Unknown, v2)
}

func TestBandMaskPreservesOuterFixedNodes(t *testing.T) {
	shape := []int{1, 6}
	labels, err := ndarray.NewU8(shape)
	require.NoError(t, err)
	labels.Data = []uint8{0, 0, 0, 1, 1, 1}

	outer, err := mask.New(shape)
	require.NoError(t, err)
	require.NoError(t, outer.Data.Set(mask.ForegroundFixed, 0, 2))

	m, err := bandMask(shape, labels, 1, outer)
	require.NoError(t, err)

	v2, err := m.Data.At(0, 2)
	require.NoError(t, err)
	require.Equal(t, mask.ForegroundFixed, v2)
}

func TestWrapU8Labels(t *testing.T) {
	u8, err := wrapU8Labels([]int{2, 2}, []uint8{0, 1, 1, 0})
	require.NoError(t, err)
	require.Equal(t, []uint8{0, 1, 1, 0}, u8.Data)
}
