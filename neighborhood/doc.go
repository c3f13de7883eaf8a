// Package neighborhood enumerates grid displacement vectors and derives
// their Cauchy-Crofton edge weights.
//
// What:
//
//   - Build maps a neighbourhood symbol ("N4".."N32" in 2D, "N6".."N98" in
//     3D) to a deterministic, index-stable set of integer displacement
//     vectors closed under negation.
//   - Each direction carries a weight coefficient derived from a
//     hyperspherical Voronoi partition of the normalized direction set
//     (the Cauchy-Crofton / Danek approximation), so that a grid min-cut
//     approximates a continuous boundary-length (or, under
//     BuildRiemannian, Riemannian-metric) surface integral.
//
// Why:
//
//   - The max-flow engine (package gridflow) walks this table by index,
//     never by recomputing geometry, so direction indices must be stable
//     across calls and the opposite-direction lookup must be O(1).
//
// Complexity:
//
//   - Build: O(R^N log(R^N)) to enumerate and sort candidate offsets,
//     plus O(M^2) (2D) or O(M*S) (3D, S = Voronoi sample count) for the
//     weight pass. Both run once per (symbol, dims[, metric]) and are
//     meant to be cached by the caller across outer iterations.
//
// Errors:
//
//   - ErrUnsupportedNeighbourhood ("Unsupported neighbourhood"): symbol is
//     not one of the recognized names.
package neighborhood
