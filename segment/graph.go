package segment

import (
	"container/list"

	"github.com/odanek/gridcut/gridflow"
	"github.com/odanek/gridcut/mask"
	"github.com/odanek/gridcut/ndarray"
	"github.com/odanek/gridcut/neighborhood"
)

// neighborCoord returns the coordinate reached from coord along offset,
// and whether it stays inside shape.
func neighborCoord(coord, offset, shape []int) ([]int, bool) {
	nc := make([]int, len(coord))
	for a := range coord {
		nc[a] = coord[a] + offset[a]
		if nc[a] < 0 || nc[a] >= shape[a] {
			return nil, false
		}
	}

	return nc, true
}

func maskValueAt(m *mask.Field, coord []int) (mask.Value, error) {
	if m == nil {
		return mask.Unknown, nil
	}

	return m.Data.At(coord...)
}

// setBinaryCapacities wires a two-label cost into backend: cs(v) is the
// cost of labelling v "0" (the Sink side of the cut), ct(v) the cost of
// labelling v "1" (the Source side); costOf supplies these per node in
// that order. Pairwise capacities are
// mu*nb.Weights[dir] in both directions, which is the submodular boundary
// term a binary label MRF needs. A fixed mask node is excluded from the
// graph entirely; its influence is folded into its Unknown neighbours'
// terminal costs, once per direction.
func setBinaryCapacities[T ndarray.Real](img *ndarray.Array[T], backend gridflow.Backend, nb *neighborhood.System, m *mask.Field, mu float64, costOf func(val T) (cs, ct float64)) error {
	shape := img.Shape
	for v := 0; v < img.Len(); v++ {
		coord := img.Coord(v)
		mv, err := maskValueAt(m, coord)
		if err != nil {
			return err
		}
		if mask.IsFixed(mv) {
			continue
		}
		val, err := img.At(coord...)
		if err != nil {
			return err
		}
		cs, ct := costOf(val)

		for dir := 0; dir < nb.Len(); dir++ {
			nc, ok := neighborCoord(coord, nb.Offsets[dir], shape)
			if !ok {
				continue
			}
			nmv, err := maskValueAt(m, nc)
			if err != nil {
				return err
			}
			w := mu * nb.Weights[dir]
			if mask.IsFixed(nmv) {
				if nmv == mask.ForegroundFixed {
					cs += w
				} else {
					ct += w
				}

				continue
			}
			backend.SetEdgeCap(v, dir, w)
		}
		backend.SetTerminalCap(v, cs, ct)
	}

	return nil
}

// readBinaryLabels reads back a {0,1} labelling: fixed mask nodes keep
// their fixed value, Unknown nodes read LabelOf. A BACKGROUND_FIXED (or
// computed Sink) node is label 0; a FOREGROUND_FIXED (or computed
// Source/Free) node is label 1, matching the ForegroundFixed-folds-into-cs
// convention setBinaryCapacities and gridflow.Graph.ApplyMask both use.
func readBinaryLabels[T ndarray.Real](img *ndarray.Array[T], backend gridflow.Backend, m *mask.Field) (*ndarray.U8Array, error) {
	labels, err := ndarray.NewU8(img.Shape)
	if err != nil {
		return nil, err
	}

	for v := 0; v < img.Len(); v++ {
		coord := img.Coord(v)
		mv, err := maskValueAt(m, coord)
		if err != nil {
			return nil, err
		}
		var lbl uint8
		switch {
		case mask.IsFixed(mv):
			if mv == mask.ForegroundFixed {
				lbl = 1
			}
		case backend.LabelOf(v) != gridflow.Sink:
			lbl = 1
		}
		labels.Data[v] = lbl
	}

	return labels, nil
}

// binaryEnergy evaluates the unary+pairwise energy of a {0,1} labelling,
// counting each undirected grid edge exactly once (only from the endpoint
// with the smaller linear offset).
func binaryEnergy[T ndarray.Real](img *ndarray.Array[T], labels *ndarray.U8Array, nb *neighborhood.System, mu float64, unaryCost func(val T, label uint8) float64) (float64, error) {
	shape := img.Shape
	var e float64
	for v := 0; v < img.Len(); v++ {
		coord := img.Coord(v)
		val, err := img.At(coord...)
		if err != nil {
			return 0, err
		}
		e += unaryCost(val, labels.Data[v])

		for dir := 0; dir < nb.Len(); dir++ {
			nc, ok := neighborCoord(coord, nb.Offsets[dir], shape)
			if !ok {
				continue
			}
			nv, err := img.Linear(nc...)
			if err != nil {
				return 0, err
			}
			if nv <= v {
				continue
			}
			if labels.Data[v] != labels.Data[nv] {
				e += mu * nb.Weights[dir]
			}
		}
	}

	return e, nil
}

// wrapU8Labels copies a flat label slice into a freshly allocated U8Array
// of the given shape.
func wrapU8Labels(shape []int, data []uint8) (*ndarray.U8Array, error) {
	arr, err := ndarray.NewU8(shape)
	if err != nil {
		return nil, err
	}
	copy(arr.Data, data)

	return arr, nil
}

// gridLen, gridCoord and gridLinear are thin aliases over ndarray's
// shape-only helpers: the BFS below only ever has a shape and flat node
// indices in hand, never a live *ndarray.Array to call Len/Coord/Linear on.
func gridLen(shape []int) int { return ndarray.ShapeLen(shape) }

func gridCoord(v int, shape []int) []int { return ndarray.ShapeCoord(v, shape) }

func gridLinear(coord, shape []int) int { return ndarray.ShapeLinear(coord, shape) }

// cityblockDistance runs a multi-source BFS along axis-aligned unit steps
// from seeds, grounded on the 0-1 BFS of gridgraph.ExpandIsland but with
// every step costing 1 (a plain multi-source BFS, container/list used for
// the same FIFO-deque style).
//
// Complexity: O(n*dims).
func cityblockDistance(shape []int, seeds []int) []int {
	n := gridLen(shape)
	const inf = int(^uint(0) >> 1)
	dist := make([]int, n)
	for i := range dist {
		dist[i] = inf
	}

	dq := list.New()
	for _, s := range seeds {
		if dist[s] != 0 {
			dist[s] = 0
			dq.PushBack(s)
		}
	}

	for dq.Len() > 0 {
		e := dq.Front()
		dq.Remove(e)
		u := e.Value.(int)
		coord := gridCoord(u, shape)

		for axis := range shape {
			for _, delta := range [2]int{-1, 1} {
				nc := append([]int(nil), coord...)
				nc[axis] += delta
				if nc[axis] < 0 || nc[axis] >= shape[axis] {
					continue
				}
				v := gridLinear(nc, shape)
				if dist[u]+1 < dist[v] {
					dist[v] = dist[u] + 1
					dq.PushBack(v)
				}
			}
		}
	}

	return dist
}

// boundarySeeds collects every node whose axis-aligned neighbour carries a
// different label, the seed set the Chan-Vese two-stage band restriction
// grows its cityblock distance field from.
func boundarySeeds(shape []int, labels *ndarray.U8Array) []int {
	var seeds []int
	for v := 0; v < gridLen(shape); v++ {
		coord := gridCoord(v, shape)
		isBoundary := false
		for axis := range shape {
			for _, delta := range [2]int{-1, 1} {
				nc := append([]int(nil), coord...)
				nc[axis] += delta
				if nc[axis] < 0 || nc[axis] >= shape[axis] {
					continue
				}
				nv := gridLinear(nc, shape)
				if labels.Data[nv] != labels.Data[v] {
					isBoundary = true
				}
			}
		}
		if isBoundary {
			seeds = append(seeds, v)
		}
	}

	return seeds
}

// bandMask fixes every node farther than radius from the boundary to its
// stage-1 label, leaving the band itself (and any node already fixed by
// outer) Unknown-or-fixed per outer. Used by Chan-Vese's two-stage variant
// to restrict the second, denser-neighbourhood run to a band around the
// current cut.
func bandMask(shape []int, labels *ndarray.U8Array, radius int, outer *mask.Field) (*mask.Field, error) {
	dist := cityblockDistance(shape, boundarySeeds(shape, labels))
	m, err := mask.New(shape)
	if err != nil {
		return nil, err
	}

	for v := 0; v < gridLen(shape); v++ {
		coord := gridCoord(v, shape)
		if outer != nil {
			ov, err := outer.Data.At(coord...)
			if err != nil {
				return nil, err
			}
			if mask.IsFixed(ov) {
				if err := m.Data.Set(ov, coord...); err != nil {
					return nil, err
				}

				continue
			}
		}
		if dist[v] > radius {
			fixed := mask.BackgroundFixed
			if labels.Data[v] == 1 {
				fixed = mask.ForegroundFixed
			}
			if err := m.Data.Set(fixed, coord...); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}
