package gridflow

import (
	"container/heap"
	"context"
	"math"

	"github.com/odanek/gridcut/neighborhood"
)

// prMode selects the active-node rule of the grid push-relabel backend:
// selector "GRD-PRF" (FIFO) or "GRD-PRH" (highest label).
type prMode uint8

const (
	prfFIFO prMode = iota
	prhHighestLevel
)

// pushRelabel is the "GRD-PRF"/"GRD-PRH" alternative to the Kohli engine:
// a generic preflow-push algorithm over the same flat grid representation,
// adapted to the same excess-encoded terminals instead of explicit
// source/sink nodes.
type pushRelabel struct {
	shape []int
	nb    *neighborhood.System
	n, d  int
	mode  prMode

	capSrc []float64 // residual source->v, drained once during seeding
	capSnk []float64 // residual v->sink
	resid  []float64 // flat n*d grid-edge residuals
	excess []float64
	height []int32
	next   []int32 // current-arc cursor, 0..d (d == the sink pseudo-arc)

	excluded []bool
	cutSide  []bool

	sinkFlow float64
}

func newPushRelabel(shape []int, nb *neighborhood.System, mode prMode) *pushRelabel {
	n := 1
	for _, s := range shape {
		n *= s
	}
	d := nb.Len()

	return &pushRelabel{
		shape:    append([]int(nil), shape...),
		nb:       nb,
		n:        n,
		d:        d,
		mode:     mode,
		capSrc:   make([]float64, n),
		capSnk:   make([]float64, n),
		resid:    make([]float64, n*d),
		excess:   make([]float64, n),
		height:   make([]int32, n),
		next:     make([]int32, n),
		excluded: make([]bool, n),
	}
}

func (p *pushRelabel) NumNodes() int { return p.n }

func (p *pushRelabel) SetTerminalCap(v int, srcCap, sinkCap float64) {
	p.capSrc[v] = srcCap
	p.capSnk[v] = sinkCap
}

func (p *pushRelabel) SetEdgeCap(v, dir int, cap float64) {
	p.resid[v*p.d+dir] = cap
}

func (p *pushRelabel) edgeCap(v, dir int) float64 {
	return p.resid[v*p.d+dir]
}

func (p *pushRelabel) neighborOf(v, dir int) (int, bool) {
	coord := p.coordOf(v)
	off := p.nb.Offsets[dir]
	for a := range coord {
		coord[a] += off[a]
		if coord[a] < 0 || coord[a] >= p.shape[a] {
			return -1, false
		}
	}

	return p.linearOf(coord), true
}

func (p *pushRelabel) coordOf(v int) []int {
	coord := make([]int, len(p.shape))
	rem := v
	stride := p.n
	for a := 0; a < len(p.shape); a++ {
		stride /= p.shape[a]
		coord[a] = rem / stride
		rem %= stride
	}

	return coord
}

func (p *pushRelabel) linearOf(coord []int) int {
	off := 0
	stride := p.n
	for a := 0; a < len(p.shape); a++ {
		stride /= p.shape[a]
		off += coord[a] * stride
	}

	return off
}

// SetInitialLabelling is accepted for Backend conformance; push-relabel's
// active-node order is not biased by it.
func (p *pushRelabel) SetInitialLabelling(labels []Label) {}

// activeSet abstracts the FIFO/highest-level node-selection policy.
type activeSet interface {
	push(v int)
	pop() (int, bool)
}

type fifoActive struct{ r *ring }

func (a fifoActive) push(v int) { a.r.pushBack(v) }
func (a fifoActive) pop() (int, bool) { return a.r.popFront() }

type heightActive struct {
	h      *prHeap
	height []int32
}

func (a heightActive) push(v int) { heap.Push(a.h, v) }
func (a heightActive) pop() (int, bool) {
	if a.h.Len() == 0 {
		return 0, false
	}

	return heap.Pop(a.h).(int), true
}

// prHeap orders active node indices by descending height, grounded on the
// heightHeap pattern of the reference push-relabel implementation.
type prHeap struct {
	ids    []int
	height []int32
}

func (h prHeap) Len() int            { return len(h.ids) }
func (h prHeap) Less(i, j int) bool  { return h.height[h.ids[i]] > h.height[h.ids[j]] }
func (h prHeap) Swap(i, j int)       { h.ids[i], h.ids[j] = h.ids[j], h.ids[i] }
func (h *prHeap) Push(x interface{}) { h.ids = append(h.ids, x.(int)) }
func (h *prHeap) Pop() interface{} {
	old := h.ids
	n := len(old)
	v := old[n-1]
	h.ids = old[:n-1]

	return v
}

// Compute runs generic preflow-push to completion: saturate every
// source arc, discharge active nodes until none remain excess, then
// recover the minimum cut via residual reachability.
//
// Complexity: O(n^2*d) worst case (no gap or global-relabel heuristics);
// offered as a simpler, non-dynamic alternative to GRD-KO.
func (p *pushRelabel) Compute(ctx context.Context, opts Options) (float64, error) {
	opts.normalize()

	var active activeSet
	if p.mode == prfFIFO {
		active = fifoActive{r: newRing(p.n)}
	} else {
		h := &prHeap{height: p.height}
		active = heightActive{h: h, height: p.height}
	}

	for v := 0; v < p.n; v++ {
		if p.excluded[v] || p.capSrc[v] <= 0 {
			continue
		}
		p.excess[v] += p.capSrc[v]
		p.capSrc[v] = 0
		active.push(v)
	}

	iterations := 0
	// Generic preflow-push (no gap/global-relabel heuristics) discharges a
	// node O(n) times over the run, each discharge doing O(d) relabel scans
	// plus pushes, for O(n^2*d) total discharge calls in the worst case —
	// matching Compute's own documented bound above.
	maxIterations := p.n * p.n * (p.d + 2)
	for {
		if err := ctx.Err(); err != nil {
			return p.sinkFlow, err
		}
		v, ok := active.pop()
		if !ok {
			break
		}
		p.discharge(v, active, opts.Epsilon)

		iterations++
		if iterations > maxIterations {
			// A correct height function never needs this many discharges;
			// treat as an internal invariant violation rather than spin.
			return p.sinkFlow, ErrInvalidInvariant
		}
	}

	p.markMinCut()

	if opts.Logger != nil {
		opts.Logger.Logf("gridflow: push-relabel max flow %g", p.sinkFlow)
	}

	return p.sinkFlow, nil
}

func (p *pushRelabel) discharge(v int, active activeSet, eps float64) {
	for p.excess[v] > eps {
		if int(p.next[v]) > p.d {
			var minH int32 = math.MaxInt32
			for dir := 0; dir < p.d; dir++ {
				if p.edgeCap(v, dir) <= eps {
					continue
				}
				u, ok := p.neighborOf(v, dir)
				if !ok || p.excluded[u] {
					continue
				}
				if p.height[u] < minH {
					minH = p.height[u]
				}
			}
			if p.capSnk[v] > eps && minH > 0 {
				minH = 0
			}
			if minH == math.MaxInt32 {
				return // stuck: v's excess stays on the source side of the cut.
			}
			p.height[v] = minH + 1
			p.next[v] = 0
			if int(p.height[v]) > p.n {
				return // no residual path to the sink: excess stays on the source side.
			}

			continue
		}

		dir := int(p.next[v])
		if dir == p.d {
			if p.capSnk[v] > eps && p.height[v] == 1 {
				delta := p.excess[v]
				if p.capSnk[v] < delta {
					delta = p.capSnk[v]
				}
				p.capSnk[v] -= delta
				p.excess[v] -= delta
				p.sinkFlow += delta
			}
			p.next[v]++

			continue
		}

		u, ok := p.neighborOf(v, dir)
		if !ok || p.excluded[u] || p.edgeCap(v, dir) <= eps || p.height[v] != p.height[u]+1 {
			p.next[v]++

			continue
		}

		delta := p.excess[v]
		if cap := p.edgeCap(v, dir); cap < delta {
			delta = cap
		}
		p.resid[v*p.d+dir] -= delta
		p.resid[u*p.d+p.nb.Opposite[dir]] += delta

		p.excess[v] -= delta
		p.excess[u] += delta
		if p.excess[u] > eps {
			active.push(u)
		}
		if p.excess[v] <= eps {
			return
		}
		p.next[v]++
	}
}

// markMinCut records, via side, every node reachable from a node with
// leftover excess along residual edges: per max-flow min-cut, these are
// exactly the source-side nodes once preflow-push has converged.
func (p *pushRelabel) side() []bool {
	side := make([]bool, p.n)
	var stack []int
	for v := 0; v < p.n; v++ {
		if !p.excluded[v] && p.excess[v] > 0 {
			side[v] = true
			stack = append(stack, v)
		}
	}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for dir := 0; dir < p.d; dir++ {
			if p.edgeCap(v, dir) <= 0 {
				continue
			}
			u, ok := p.neighborOf(v, dir)
			if !ok || p.excluded[u] || side[u] {
				continue
			}
			side[u] = true
			stack = append(stack, u)
		}
	}

	return side
}

func (p *pushRelabel) markMinCut() {
	p.cutSide = p.side()
}

func (p *pushRelabel) LabelOf(v int) Label {
	if p.cutSide != nil && !p.cutSide[v] {
		return Sink
	}

	return Source
}
