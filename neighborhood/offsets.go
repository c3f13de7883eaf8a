package neighborhood

import (
	"sort"
)

// symbolSpec names the (Chebyshev radius, max non-zero components) that
// generate a named neighbourhood's displacement vectors from first
// principles: enumerate every primitive integer vector (no two offsets
// collinear, i.e. no shared direction at different lengths) inside a
// Chebyshev-radius R box, keeping only vectors with at most maxNonzero
// non-zero components, then take the shortest M under L2 ordering.
//
// This reproduces the textbook 2D/3D grid neighbourhood systems without
// hand-listing every vector: e.g. 3D N18 is "face + edge, no corners"
// (maxNonzero=2), N98 is "5x5x5 box, collinear duplicates removed"
// (R=2, maxNonzero=dims, i.e. no component-count restriction).
type symbolSpec struct {
	dims      int
	radius    int
	maxNZ     int
	wantCount int
}

var symbolTable = map[string]symbolSpec{
	"N4":  {dims: 2, radius: 1, maxNZ: 1, wantCount: 4},
	"N8":  {dims: 2, radius: 1, maxNZ: 2, wantCount: 8},
	"N16": {dims: 2, radius: 2, maxNZ: 2, wantCount: 16},
	"N32": {dims: 2, radius: 3, maxNZ: 2, wantCount: 32},
	"N6":  {dims: 3, radius: 1, maxNZ: 1, wantCount: 6},
	"N18": {dims: 3, radius: 1, maxNZ: 2, wantCount: 18},
	"N26": {dims: 3, radius: 1, maxNZ: 3, wantCount: 26},
	"N98": {dims: 3, radius: 2, maxNZ: 3, wantCount: 98},
}

// offsetsFor enumerates the displacement vectors for a symbol, in a fixed
// deterministic order with each d paired against -d at indices i, i^1.
//
// Steps:
//  1. Look up (dims, radius, maxNZ, wantCount); reject unknown symbols or
//     a dims mismatch with ErrUnsupportedNeighbourhood.
//  2. Enumerate every non-zero integer vector in [-radius,radius]^dims
//     whose component count of non-zeros is <= maxNZ and whose
//     components share no common integer factor (primitive; a
//     non-primitive vector is a collinear duplicate of a shorter one
//     already in the set).
//  3. Sort by (L2 length, then lexicographically) for determinism, split
//     into antipodal pairs, and interleave each pair at (2k, 2k+1) so the
//     opposite of direction i is i^1.
//  4. Verify the enumerated count matches wantCount (a programming-error
//     invariant, not a caller-facing error).
//
// Complexity: O(R^dims log(R^dims)).
func offsetsFor(symbol string, dims int) ([][]int, error) {
	spec, ok := symbolTable[symbol]
	if !ok || spec.dims != dims {
		return nil, errUnsupportedNeighbourhood
	}

	candidates := enumeratePrimitive(spec.dims, spec.radius, spec.maxNZ)
	sortByLength(candidates)

	pairs := pairAntipodal(candidates)
	if len(pairs)*2 != spec.wantCount {
		panic("neighborhood: offset generation invariant violated for " + symbol)
	}

	offsets := make([][]int, 0, spec.wantCount)
	for _, p := range pairs {
		offsets = append(offsets, p[0], p[1])
	}

	return offsets, nil
}

// enumeratePrimitive walks the (2*radius+1)^dims box and keeps non-zero,
// primitive vectors with at most maxNZ non-zero components.
func enumeratePrimitive(dims, radius, maxNZ int) [][]int {
	var out [][]int
	v := make([]int, dims)
	var rec func(axis int)
	rec = func(axis int) {
		if axis == dims {
			if allZero(v) {
				return
			}
			if nonZeroCount(v) > maxNZ {
				return
			}
			if gcdAbsAll(v) != 1 {
				return
			}
			out = append(out, append([]int(nil), v...))
			return
		}
		for c := -radius; c <= radius; c++ {
			v[axis] = c
			rec(axis + 1)
		}
	}
	rec(0)

	return out
}

func allZero(v []int) bool {
	for _, c := range v {
		if c != 0 {
			return false
		}
	}

	return true
}

func nonZeroCount(v []int) int {
	n := 0
	for _, c := range v {
		if c != 0 {
			n++
		}
	}

	return n
}

func gcdAbsAll(v []int) int {
	g := 0
	for _, c := range v {
		g = gcdInt(g, absInt(c))
	}

	return g
}

func gcdInt(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}

	return x
}

// sortByLength orders offsets by squared L2 length, breaking ties
// lexicographically so the ordering is reproducible across runs.
func sortByLength(v [][]int) {
	sort.Slice(v, func(i, j int) bool {
		li, lj := sqLen(v[i]), sqLen(v[j])
		if li != lj {
			return li < lj
		}
		for k := range v[i] {
			if v[i][k] != v[j][k] {
				return v[i][k] < v[j][k]
			}
		}

		return false
	})
}

func sqLen(v []int) int {
	s := 0
	for _, c := range v {
		s += c * c
	}

	return s
}

// pairAntipodal groups a length-sorted, negation-closed offset slice into
// antipodal (d, -d) pairs, each pair's first element chosen deterministically
// (the lexicographically smaller of the two).
func pairAntipodal(v [][]int) [][2][]int {
	used := make([]bool, len(v))
	var pairs [][2][]int
	for i, d := range v {
		if used[i] {
			continue
		}
		neg := negate(d)
		for j := i + 1; j < len(v); j++ {
			if used[j] || !equal(v[j], neg) {
				continue
			}
			used[i], used[j] = true, true
			pairs = append(pairs, [2][]int{d, neg})
			break
		}
	}

	return pairs
}

func negate(v []int) []int {
	out := make([]int, len(v))
	for i, c := range v {
		out[i] = -c
	}

	return out
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
