package gridflow

import (
	"testing"

	"github.com/odanek/gridcut/neighborhood"
	"github.com/stretchr/testify/require"
)

func TestReuseWithDeltasOrphansARootWhoseExcessFlips(t *testing.T) {
	nb, err := neighborhood.Build("N4", 2)
	require.NoError(t, err)
	shape := []int{1, 2}
	g := New(shape, nb)

	g.SetTerminalCap(0, 5, 0) // node 0 is a source root
	g.seed()
	require.True(t, g.isRoot[0])
	require.Equal(t, treeSource, g.tree[0])

	g.ReuseWithDeltas([]float64{-10, 0}, []float64{0, 0})
	require.InDelta(t, -5, g.excess[0], 1e-9)
	require.False(t, g.isRoot[0], "a source root whose excess goes negative must be orphaned")
	require.True(t, g.inOrphan[0])
}

func TestReuseWithDeltasLeavesNonRootUntouched(t *testing.T) {
	nb, err := neighborhood.Build("N4", 2)
	require.NoError(t, err)
	shape := []int{1, 2}
	g := New(shape, nb)

	g.tree[1] = treeSource
	g.isRoot[1] = false

	g.ReuseWithDeltas([]float64{0, 7}, []float64{0, 0})
	require.InDelta(t, 7, g.excess[1], 1e-9)
	require.False(t, g.inOrphan[1], "a non-root node is not orphaned directly by a delta")
}
