package gridflow_test

import (
	"context"
	"testing"

	"github.com/odanek/gridcut/gridflow"
	"github.com/odanek/gridcut/mask"
	"github.com/odanek/gridcut/neighborhood"
	"github.com/stretchr/testify/require"
)

// chainSetup builds a 1x3 line graph (nodes 0-1-2 under N4) with node 0
// strongly pulled to Source, node 2 strongly pulled to Sink, and bottleneck
// edge capacities 3 (0-1) and 2 (1-2), via the given backend selector.
func chainSetup(t *testing.T, selector string) gridflow.Backend {
	t.Helper()
	shape := []int{1, 3}
	nb, err := neighborhood.Build("N4", 2)
	require.NoError(t, err)

	fwd := findDir(t, nb, []int{0, 1})
	bwd := nb.Opposite[fwd]

	backend, err := gridflow.Factory(selector, shape, nb)
	require.NoError(t, err)

	const big = 1e6
	backend.SetTerminalCap(0, big, 0)
	backend.SetTerminalCap(1, 0, 0)
	backend.SetTerminalCap(2, 0, big)

	backend.SetEdgeCap(0, fwd, 3)
	backend.SetEdgeCap(1, bwd, 3)
	backend.SetEdgeCap(1, fwd, 2)
	backend.SetEdgeCap(2, bwd, 2)

	return backend
}

func findDir(t *testing.T, nb *neighborhood.System, offset []int) int {
	t.Helper()
	for i, o := range nb.Offsets {
		if len(o) != len(offset) {
			continue
		}
		match := true
		for a := range o {
			if o[a] != offset[a] {
				match = false

				break
			}
		}
		if match {
			return i
		}
	}
	t.Fatalf("no direction matches offset %v", offset)

	return -1
}

func TestGraphComputeBottleneckFlow(t *testing.T) {
	backend := chainSetup(t, "GRD-KO")
	flow, err := backend.Compute(context.Background(), gridflow.Options{})
	require.NoError(t, err)
	require.InDelta(t, 2, flow, 1e-6)

	require.Equal(t, gridflow.Source, backend.LabelOf(0))
	require.Equal(t, gridflow.Source, backend.LabelOf(1))
	require.Equal(t, gridflow.Sink, backend.LabelOf(2))
}

func TestPushRelabelFIFOMatchesKohliCut(t *testing.T) {
	ko := chainSetup(t, "GRD-KO")
	koFlow, err := ko.Compute(context.Background(), gridflow.Options{})
	require.NoError(t, err)

	prf := chainSetup(t, "GRD-PRF")
	prfFlow, err := prf.Compute(context.Background(), gridflow.Options{})
	require.NoError(t, err)

	require.InDelta(t, koFlow, prfFlow, 1e-6)
	for v := 0; v < 3; v++ {
		require.Equal(t, ko.LabelOf(v), prf.LabelOf(v), "node %d", v)
	}
}

func TestPushRelabelHighestLevelMatchesKohliCut(t *testing.T) {
	ko := chainSetup(t, "GRD-KO")
	koFlow, err := ko.Compute(context.Background(), gridflow.Options{})
	require.NoError(t, err)

	prh := chainSetup(t, "GRD-PRH")
	prhFlow, err := prh.Compute(context.Background(), gridflow.Options{})
	require.NoError(t, err)

	require.InDelta(t, koFlow, prhFlow, 1e-6)
	for v := 0; v < 3; v++ {
		require.Equal(t, ko.LabelOf(v), prh.LabelOf(v), "node %d", v)
	}
}

func TestFactoryRejectsGeneralGraphSelectors(t *testing.T) {
	nb, err := neighborhood.Build("N4", 2)
	require.NoError(t, err)
	_, err = gridflow.Factory("GEN-DI", []int{2, 2}, nb)
	require.ErrorIs(t, err, gridflow.ErrGeneralGraphUnsupported)
}

func TestFactoryRejectsUnknownSelector(t *testing.T) {
	nb, err := neighborhood.Build("N4", 2)
	require.NoError(t, err)
	_, err = gridflow.Factory("bogus", []int{2, 2}, nb)
	require.ErrorIs(t, err, gridflow.ErrUnknownBackend)
}

// TestPushRelabelMatchesKohliOnLargerGrid exercises the push-relabel
// backends on a 24x24 grid, large enough that a generic preflow-push run
// needs far more than O(n*d) node discharges to converge — the regime the
// three-node chain tests above never reach.
func TestPushRelabelMatchesKohliOnLargerGrid(t *testing.T) {
	const side = 24

	ko := buildRandomGrid(t, "GRD-KO", side, 10.0, 7)
	koFlow, err := ko.Compute(context.Background(), gridflow.Options{})
	require.NoError(t, err)

	for _, selector := range []string{"GRD-PRF", "GRD-PRH"} {
		backend := buildRandomGrid(t, selector, side, 10.0, 7)
		flow, err := backend.Compute(context.Background(), gridflow.Options{})
		require.NoError(t, err, selector)
		require.InDelta(t, koFlow, flow, 1e-3, selector)
		for v := 0; v < side*side; v++ {
			require.Equal(t, ko.LabelOf(v), backend.LabelOf(v), "%s node %d", selector, v)
		}
	}
}

func TestApplyMaskFoldsFixedNeighbourIntoExcess(t *testing.T) {
	shape := []int{1, 3}
	nb, err := neighborhood.Build("N4", 2)
	require.NoError(t, err)
	g := gridflow.New(shape, nb)

	fwd := findDir(t, nb, []int{0, 1})
	bwd := nb.Opposite[fwd]

	m, err := mask.New(shape)
	require.NoError(t, err)
	require.NoError(t, m.Data.Set(mask.ForegroundFixed, 0, 0))

	g.SetTerminalCap(1, 0, 0)
	g.SetEdgeCap(1, bwd, 5)
	g.SetEdgeCap(0, fwd, 5)
	g.ApplyMask(m)

	flow, err := g.Compute(context.Background(), gridflow.Options{})
	require.NoError(t, err)
	require.InDelta(t, 0, flow, 1e-9)
	require.Equal(t, gridflow.Source, g.LabelOf(1))
}
