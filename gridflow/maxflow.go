package gridflow

import "context"

// Compute runs the three-phase augmenting-path loop: Growth,
// Augmentation, Adoption, repeated until no augmenting path exists.
// Search-tree state is left such that LabelOf reads the minimum cut
// directly.
//
// Steps:
//  1. Seed: any non-excluded node with nonzero excess and no tree yet
//     becomes an active root of the corresponding tree (source if
//     excess>0, sink if excess<0). Already-tree-member nodes (from a
//     prior DynamicReuse call) are left untouched.
//  2. Growth: pop the next active node; scan its directions in the
//     neighbourhood's stable order; grow FREE neighbours into the same
//     tree, or stop at the first neighbour already in the opposite tree
//     (an augmenting path has been found).
//  3. Augmentation: compute the path bottleneck, push it, and collect
//     every node whose parent edge saturated as an orphan.
//  4. Adoption: drain the orphan queue, reparenting within the same tree
//     where possible; unreparentable orphans become FREE and cascade
//     their own children into the orphan set.
//  5. Repeat from Growth until the active queue is empty with no orphans
//     pending.
//
// Complexity: polynomial in |V|*|D|; see package doc.
func (g *Graph) Compute(ctx context.Context, opts Options) (float64, error) {
	opts.normalize()
	g.seed()

	var maxFlow float64
	for {
		if err := ctx.Err(); err != nil {
			return maxFlow, err
		}

		su, sdir, sv, found := g.grow()
		if !found {
			return maxFlow, nil
		}

		g.now++
		delta, err := g.augment(su, sdir, sv, opts.Epsilon)
		if err != nil {
			return maxFlow, err
		}
		maxFlow += delta
		if opts.Logger != nil {
			opts.Logger.Logf("gridflow: pushed %g, total %g", delta, maxFlow)
		}

		g.adopt(opts)
	}
}

// seed activates every node with nonzero terminal excess and no current
// tree membership as a root of the corresponding tree.
func (g *Graph) seed() {
	for v := 0; v < g.n; v++ {
		if g.excluded[v] || g.tree[v] != treeFree {
			continue
		}
		switch {
		case g.excess[v] > 0:
			g.tree[v] = treeSource
			g.isRoot[v] = true
			g.pushActive(v)
		case g.excess[v] < 0:
			g.tree[v] = treeSink
			g.isRoot[v] = true
			g.pushActive(v)
		}
	}
}

func (g *Graph) pushActive(v int) {
	if g.inActive[v] {
		return
	}
	g.inActive[v] = true
	g.activeQueue.pushBack(v)
}

func (g *Graph) pushOrphan(v int) {
	if g.inOrphan[v] {
		return
	}
	g.inOrphan[v] = true
	g.orphanQueue.pushBack(v)
}

// grow pops active nodes and scans their directions until it either
// exhausts the active queue (no path, returns found=false) or finds an
// edge connecting to the opposite tree.
func (g *Graph) grow() (su, sdir, sv int, found bool) {
	for {
		u, ok := g.activeQueue.popFront()
		if !ok {
			return 0, 0, 0, false
		}
		g.inActive[u] = false
		if g.excluded[u] || g.tree[u] == treeFree {
			continue
		}

		for dir := 0; dir < g.d; dir++ {
			v, ok := g.neighborOf(u, dir)
			if !ok || g.excluded[v] {
				continue
			}

			if g.tree[u] == treeSource {
				if g.edgeCap(u, dir) <= 0 {
					continue
				}
				switch g.tree[v] {
				case treeFree:
					g.tree[v] = treeSource
					g.parent[v] = int32(g.nb.Opposite[dir])
					g.isRoot[v] = false
					g.pushActive(v)
				case treeSink:
					g.pushActive(u) // may still have capacity on later directions
					return u, dir, v, true
				}
			} else { // treeSink
				revCap := g.edgeCap(v, g.nb.Opposite[dir])
				if revCap <= 0 {
					continue
				}
				switch g.tree[v] {
				case treeFree:
					g.tree[v] = treeSink
					g.parent[v] = int32(g.nb.Opposite[dir])
					g.isRoot[v] = false
					g.pushActive(v)
				case treeSource:
					g.pushActive(u)
					return v, g.nb.Opposite[dir], u, true
				}
			}
		}
	}
}

// sourceChain walks from node up to (and including) its source-tree root,
// returning the chain in child-to-root order.
func (g *Graph) chainToRoot(node int) []int {
	chain := []int{node}
	cur := node
	for !g.isRoot[cur] {
		cur, _ = g.neighborOf(cur, int(g.parent[cur]))
		chain = append(chain, cur)
	}

	return chain
}

// augment pushes the bottleneck flow along the path
// (su's source-tree root -> ... -> su) + edge(su,sdir) + (sv -> ... ->
// sv's sink-tree root). It returns the amount pushed and queues every
// node whose parent edge saturated as an orphan.
func (g *Graph) augment(su, sdir, sv int, eps float64) (float64, error) {
	srcChain := g.chainToRoot(su) // [su, ..., sourceRoot]
	sinkChain := g.chainToRoot(sv)

	delta := g.excess[srcChain[len(srcChain)-1]]
	for i := 0; i < len(srcChain)-1; i++ {
		child, parent := srcChain[i], srcChain[i+1]
		cap := g.edgeCap(parent, g.nb.Opposite[int(g.parent[child])])
		if cap < delta {
			delta = cap
		}
	}

	bridge := g.edgeCap(su, sdir)
	if bridge < delta {
		delta = bridge
	}

	sinkAvail := -g.excess[sinkChain[len(sinkChain)-1]]
	if sinkAvail < delta {
		delta = sinkAvail
	}
	for i := 0; i < len(sinkChain)-1; i++ {
		child := sinkChain[i]
		cap := g.edgeCap(child, int(g.parent[child]))
		if cap < delta {
			delta = cap
		}
	}

	if delta <= 0 {
		return 0, ErrInvalidInvariant
	}

	// Apply delta along the source segment (root -> su), orphaning any
	// child whose parent edge saturates.
	for i := 0; i < len(srcChain)-1; i++ {
		child, parent := srcChain[i], srcChain[i+1]
		dir := g.nb.Opposite[int(g.parent[child])]
		g.resid[parent*g.d+dir] -= delta
		g.resid[child*g.d+int(g.parent[child])] += delta
		if g.resid[parent*g.d+dir] <= eps {
			g.orphanNode(child)
		}
	}
	srcRoot := srcChain[len(srcChain)-1]
	g.excess[srcRoot] -= delta
	if g.excess[srcRoot] <= eps {
		g.isRoot[srcRoot] = false
		g.orphanNode(srcRoot)
	}

	// Bridge edge.
	g.resid[su*g.d+sdir] -= delta
	g.resid[sv*g.d+g.nb.Opposite[sdir]] += delta

	// Apply delta along the sink segment (sv -> root).
	for i := 0; i < len(sinkChain)-1; i++ {
		child, parent := sinkChain[i], sinkChain[i+1]
		dir := int(g.parent[child])
		g.resid[child*g.d+dir] -= delta
		g.resid[parent*g.d+g.nb.Opposite[dir]] += delta
		if g.resid[child*g.d+dir] <= eps {
			g.orphanNode(child)
		}
	}
	sinkRoot := sinkChain[len(sinkChain)-1]
	g.excess[sinkRoot] += delta
	if -g.excess[sinkRoot] <= eps {
		g.isRoot[sinkRoot] = false
		g.orphanNode(sinkRoot)
	}

	return delta, nil
}

// orphanNode clears a saturated node's parent link and queues it for
// adoption, without changing its tree label.
func (g *Graph) orphanNode(v int) {
	g.parent[v] = noParent
	g.pushOrphan(v)
}

// adopt drains the orphan queue: each orphan searches its own tree for a
// new parent minimizing dist+1; failing that, it becomes FREE and
// cascades its former children into the orphan set while activating
// tree neighbours that have a positive residual toward it.
func (g *Graph) adopt(opts Options) {
	for {
		var o int
		var ok bool
		if opts.OrphanOrder == OrphanFIFO {
			o, ok = g.orphanQueue.popFront()
		} else {
			o, ok = g.orphanQueue.popBack()
		}
		if !ok {
			return
		}
		g.inOrphan[o] = false
		if g.tree[o] == treeFree {
			continue // already resolved by a cascade
		}

		if g.tryAdopt(o) {
			continue
		}

		g.freeNode(o)
	}
}

// tryAdopt searches o's own tree for a valid new parent, picking the
// candidate with the smallest verified distance to its root. Returns
// true and updates o's parent/dist/timestamp on success.
func (g *Graph) tryAdopt(o int) bool {
	bestDir := -1
	bestDist := int32(1<<31 - 1)

	for dir := 0; dir < g.d; dir++ {
		p, ok := g.neighborOf(o, dir)
		if !ok || g.excluded[p] || g.tree[p] != g.tree[o] {
			continue
		}

		var valid bool
		if g.tree[o] == treeSource {
			valid = g.edgeCap(p, g.nb.Opposite[dir]) > 0
		} else {
			valid = g.edgeCap(o, dir) > 0
		}
		if !valid {
			continue
		}

		ok, d := g.verifyRootPath(p)
		if !ok {
			continue
		}
		if d < bestDist {
			bestDist = d
			bestDir = dir
		}
	}

	if bestDir < 0 {
		return false
	}
	g.parent[o] = int32(bestDir)
	g.dist[o] = bestDist + 1
	g.timestamp[o] = g.now

	return true
}

// verifyRootPath walks p's parent chain, trusting any node already
// verified at the current timestamp, to confirm it still traces back to
// a live tree root. Verified nodes along the way are stamped so later
// lookups in the same adoption round are O(1).
func (g *Graph) verifyRootPath(p int) (bool, int32) {
	var path []int
	cur := p
	for {
		if g.isRoot[cur] {
			break
		}
		if g.timestamp[cur] == g.now {
			break
		}
		if g.tree[cur] == treeFree || g.parent[cur] == noParent {
			return false, 0
		}
		path = append(path, cur)
		cur, _ = g.neighborOf(cur, int(g.parent[cur]))
	}

	d := g.dist[cur]
	if g.isRoot[cur] {
		d = 0
	}
	for i := len(path) - 1; i >= 0; i-- {
		d++
		g.dist[path[i]] = d
		g.timestamp[path[i]] = g.now
	}

	return true, d
}

// freeNode demotes an unreparentable orphan to FREE and cascades the
// consequences to its neighbours.
func (g *Graph) freeNode(o int) {
	oldTree := g.tree[o]
	g.tree[o] = treeFree
	g.isRoot[o] = false

	for dir := 0; dir < g.d; dir++ {
		n, ok := g.neighborOf(o, dir)
		if !ok || g.excluded[n] || g.tree[n] == treeFree {
			continue
		}

		if g.tree[n] == oldTree {
			if g.parent[n] != noParent {
				if pn, ok := g.neighborOf(n, int(g.parent[n])); ok && pn == o {
					g.orphanNode(n)
				}
			}
		}

		// Reactivate n (in either tree) if it has a positive residual
		// toward o, so growth can re-claim o next round. revDir is the
		// direction from n to o.
		revDir := g.nb.Opposite[dir]
		var reachable bool
		if g.tree[n] == treeSource {
			reachable = g.edgeCap(n, revDir) > 0
		} else {
			reachable = g.edgeCap(o, g.nb.Opposite[revDir]) > 0
		}
		if reachable {
			g.pushActive(n)
		}
	}
}

// ReuseWithDeltas implements the Kohli dynamic reuse path: adjusts
// residuals by a terminal-capacity delta per node, reinterpreting tree
// membership when a node's excess changes sign, then lets the next
// Compute call re-run adoption and growth instead of rebuilding from
// scratch.
//
// Complexity: O(n) to apply deltas, plus whatever Compute needs to settle.
func (g *Graph) ReuseWithDeltas(deltaSrcCap, deltaSinkCap []float64) {
	for v := 0; v < g.n; v++ {
		if g.excluded[v] {
			continue
		}
		delta := deltaSrcCap[v] - deltaSinkCap[v]
		if delta == 0 {
			continue
		}
		g.excess[v] += delta
		after := g.excess[v]

		// Only a root's standing depends directly on excess; a tree-
		// internal node's attachment runs through its parent link and is
		// unaffected until Compute's next adoption pass re-evaluates it.
		if !g.isRoot[v] {
			continue
		}
		switch g.tree[v] {
		case treeSource:
			if after <= 0 {
				g.isRoot[v] = false
				g.orphanNode(v)
			}
		case treeSink:
			if after >= 0 {
				g.isRoot[v] = false
				g.orphanNode(v)
			}
		}
	}
}
