// Package gridflow implements an augmenting-path maximum-flow engine
// specialized for regular N-dimensional grid graphs (the
// Boykov-Kolmogorov / Kohli "dynamic" variant), plus grid-adapted
// push-relabel back-ends selectable under the same interface.
//
// Unlike a general graph max-flow library, gridflow never stores an
// adjacency list: every node is identified by a flat array offset, and
// every edge is identified by a (node, direction-index) pair into a
// shared neighborhood.System, exploiting grid regularity to avoid the
// O(V*D) adjacency bookkeeping a general graph library needs.
//
// # Algorithms
//
//   - Kohli (Graph, selector "GRD-KO"): augmenting-path search with trees
//     rooted at source and sink, orphan reparenting, and optional
//     between-call state reuse when only terminal capacities change
//     (ReuseWithDeltas).
//   - Grid push-relabel, FIFO selection ("GRD-PRF") and highest-level
//     selection ("GRD-PRH"): alternative back-ends sharing the same
//     Backend capability set, for callers that want a different
//     empirical performance profile on dense grids.
//
// General-graph selectors ("GEN-*") are recognized by Factory and
// rejected: general-graph max-flow is outside this module's scope.
//
// # Contract
//
// Compute leaves search-tree state such that the minimum cut is readable
// via LabelOf: a node is on the source side iff LabelOf reports anything
// other than Sink. Complexity is polynomial; Compute itself cannot fail
// once the graph is well-formed — errors are reserved for context
// cancellation and internal invariant violations.
//
// # Resource policy
//
// All graph memory, O(|V|*(1+|D|)), is allocated once by New and reused
// across repeated Compute calls on the same Graph; no growth happens
// mid-phase, only the active/orphan queues are grown as needed.
package gridflow
