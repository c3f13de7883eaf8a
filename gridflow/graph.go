package gridflow

import (
	"github.com/odanek/gridcut/mask"
	"github.com/odanek/gridcut/neighborhood"
)

const noParent int32 = -1

// Graph is the Kohli dynamic grid max-flow engine: the "GRD-KO" backend.
//
// All slices are indexed by the flat node offset (row-major, matching
// ndarray.Array) and have length n = product(shape); residual is a flat
// n*D buffer, residual[v*D+i] = r(v, direction i). This is a pointer-
// free, adjacency-list-free representation: parent links are direction
// indices, not pointers.
type Graph struct {
	shape []int
	nb    *neighborhood.System
	n     int
	d     int

	excess []float64 // e(v) = c_s(v) - c_t(v); sign selects tree attachment
	resid  []float64 // flat n*d forward residuals

	tree      []treeLabel
	parent    []int32 // direction index to parent, or noParent
	isRoot    []bool  // true iff attached directly to its tree's terminal
	excluded  []bool  // masked-out nodes never join the graph
	timestamp []uint32
	dist      []int32

	inActive []bool
	inOrphan []bool

	activeQueue *ring
	orphanQueue *ring

	now uint32 // current augmentation timestamp, bumped once per path found
}

// New allocates a Graph over the given shape and neighbourhood. All
// memory is allocated once; repeated Compute calls on the same Graph
// reuse it.
// Complexity: O(n*(1+d)).
func New(shape []int, nb *neighborhood.System) *Graph {
	n := 1
	for _, s := range shape {
		n *= s
	}
	d := nb.Len()

	g := &Graph{
		shape:     append([]int(nil), shape...),
		nb:        nb,
		n:         n,
		d:         d,
		excess:    make([]float64, n),
		resid:     make([]float64, n*d),
		tree:      make([]treeLabel, n),
		parent:    make([]int32, n),
		isRoot:    make([]bool, n),
		excluded:  make([]bool, n),
		timestamp: make([]uint32, n),
		dist:      make([]int32, n),
		inActive:  make([]bool, n),
		inOrphan:  make([]bool, n),
	}
	g.activeQueue = newRing(n)
	g.orphanQueue = newRing(n)
	for i := range g.parent {
		g.parent[i] = noParent
	}

	return g
}

// NumNodes reports |V| (excludes the implicit terminals).
func (g *Graph) NumNodes() int { return g.n }

// SetTerminalCap sets c_s(v) and c_t(v), storing only the signed excess
// e(v) = c_s(v) - c_t(v): only the sign matters for tree attachment.
func (g *Graph) SetTerminalCap(v int, srcCap, sinkCap float64) {
	g.excess[v] = srcCap - sinkCap
}

// AddTerminalCap adds deltas to the stored excess. ReuseWithDeltas makes
// the same excess update itself and also re-evaluates root membership.
func (g *Graph) AddTerminalCap(v int, deltaSrc, deltaSink float64) {
	g.excess[v] += deltaSrc - deltaSink
}

// SetEdgeCap sets the forward residual r(v, dir).
func (g *Graph) SetEdgeCap(v, dir int, cap float64) {
	g.resid[v*g.d+dir] = cap
}

// edgeCap reads r(v, dir).
func (g *Graph) edgeCap(v, dir int) float64 {
	return g.resid[v*g.d+dir]
}

// neighborOf returns the node reached from v along direction dir, and
// whether that node lies within the grid.
func (g *Graph) neighborOf(v, dir int) (int, bool) {
	coord := g.coordOf(v)
	off := g.nb.Offsets[dir]
	for a := range coord {
		coord[a] += off[a]
		if coord[a] < 0 || coord[a] >= g.shape[a] {
			return -1, false
		}
	}

	return g.linearOf(coord), true
}

func (g *Graph) coordOf(v int) []int {
	coord := make([]int, len(g.shape))
	rem := v
	stride := g.n
	for a := 0; a < len(g.shape); a++ {
		stride /= g.shape[a]
		coord[a] = rem / stride
		rem %= stride
	}

	return coord
}

func (g *Graph) linearOf(coord []int) int {
	off := 0
	stride := g.n
	for a := 0; a < len(g.shape); a++ {
		stride /= g.shape[a]
		off += coord[a] * stride
	}

	return off
}

// SetInitialLabelling seeds tree membership before the first Growth
// phase. Nodes are marked as FREE if labels[v] has no corresponding
// terminal excess; Compute's seeding pass still governs which nodes
// become roots, so this only biases orphan adoption/growth order, not
// correctness.
func (g *Graph) SetInitialLabelling(labels []Label) {
	for v, l := range labels {
		if g.excluded[v] {
			continue
		}
		switch {
		case l == Source && g.excess[v] > 0:
			g.tree[v] = treeSource
		case l == Sink && g.excess[v] < 0:
			g.tree[v] = treeSink
		default:
			g.tree[v] = treeFree
			continue
		}
		g.isRoot[v] = true
		g.pushActive(v)
	}
}

// ApplyMask folds the influence of fixed (excluded) neighbours into the
// terminal capacities of their UNKNOWN neighbours, and prunes direction
// residuals leading from an UNKNOWN node into a fixed one: a
// FOREGROUND_FIXED neighbour via direction i contributes +w_i to c_s(v);
// a BACKGROUND_FIXED neighbour contributes +w_i to c_t(v). This is
// applied once per direction and summed, rather than split or chosen by
// a tie-break rule.
//
// Complexity: O(n*d).
func (g *Graph) ApplyMask(m *mask.Field) {
	if m == nil {
		for i := range g.excluded {
			g.excluded[i] = false
		}

		return
	}

	for v := 0; v < g.n; v++ {
		coord := g.coordOf(v)
		mv, err := m.Data.At(coord...)
		if err != nil {
			panic(err)
		}
		if mask.IsFixed(mv) {
			g.excluded[v] = true
			continue
		}
		g.excluded[v] = false

		for dir := 0; dir < g.d; dir++ {
			nv, ok := g.neighborOf(v, dir)
			if !ok {
				continue
			}
			ncoord := g.coordOf(nv)
			nmv, err := m.Data.At(ncoord...)
			if err != nil {
				panic(err)
			}
			if !mask.IsFixed(nmv) {
				continue
			}
			w := g.nb.Weights[dir]
			if nmv == mask.ForegroundFixed {
				g.excess[v] += w
			} else {
				g.excess[v] -= w
			}
			// Direction from v toward a fixed neighbour is pruned.
			g.SetEdgeCap(v, dir, 0)
		}
	}
}

// LabelOf reads node v's side of the minimum cut: Source unless v is
// definitively in the sink tree. Nodes still in the source tree and any
// remaining FREE nodes (unreachable from the sink) both count as source
// side.
func (g *Graph) LabelOf(v int) Label {
	if g.tree[v] == treeSink {
		return Sink
	}

	return Source
}

// Reset clears all per-call state (tree membership, residuals are left
// untouched — callers re-issue SetEdgeCap/SetTerminalCap for a from-
// scratch rebuild). Used by the non-dynamic path between outer
// iterations.
func (g *Graph) Reset() {
	for i := range g.tree {
		g.tree[i] = treeFree
		g.parent[i] = noParent
		g.isRoot[i] = false
		g.timestamp[i] = 0
		g.dist[i] = 0
		g.inActive[i] = false
		g.inOrphan[i] = false
	}
	g.now = 0
	g.activeQueue.reset()
	g.orphanQueue.reset()
}
