package neighborhood

import "math"

// fibonacciSphereSamples is the sample count for the 3D area-preserving
// Voronoi approximation. Deterministic and fixed so weights are
// reproducible across runs.
const fibonacciSphereSamples = 20000

// hypersphereVoronoiShares partitions the unit (dims-1)-sphere among the
// normalized directions dirs and returns, for each direction, its share
// of the sphere's total measure (so the shares sum to the full measure:
// 2*pi for dims=2, 4*pi for dims=3).
//
// 2D reduces to an exact angular sort (each direction's share is the
// angular gap to its two neighbours, halved and summed). 3D has no closed
// form here, so it falls back to an area-preserving sampling
// approximation: a deterministic Fibonacci lattice on the sphere, with
// each sample assigned to its nearest direction by dot product.
func hypersphereVoronoiShares(dirs [][]float64) []float64 {
	dims := len(dirs[0])
	switch dims {
	case 2:
		return voronoiShares2D(dirs)
	case 3:
		return voronoiShares3D(dirs)
	default:
		panic("neighborhood: hyperspherical Voronoi only supports 2 or 3 dimensions")
	}
}

// angleEntry pairs a direction's original index with its polar angle, for
// the 2D exact angular-sort Voronoi computation.
type angleEntry struct {
	idx   int
	angle float64
}

// voronoiShares2D computes exact angular Voronoi shares on the unit circle.
// Complexity: O(M^2) (insertion sort of the angles).
func voronoiShares2D(dirs [][]float64) []float64 {
	m := len(dirs)
	entries := make([]angleEntry, m)
	for i, d := range dirs {
		entries[i] = angleEntry{idx: i, angle: math.Atan2(d[1], d[0])}
	}
	sortAngleEntries(entries)

	shares := make([]float64, m)
	for k := 0; k < m; k++ {
		prev := entries[(k-1+m)%m]
		cur := entries[k]
		next := entries[(k+1)%m]

		gapNext := angularGap(cur.angle, next.angle)
		gapPrev := angularGap(prev.angle, cur.angle)
		shares[cur.idx] = (gapNext + gapPrev) / 2
	}

	return shares
}

// sortAngleEntries sorts by angle ascending; M is at most 32 for the 2D
// symbols, so a simple insertion sort is plenty.
func sortAngleEntries(e []angleEntry) {
	for i := 1; i < len(e); i++ {
		j := i
		for j > 0 && e[j-1].angle > e[j].angle {
			e[j-1], e[j] = e[j], e[j-1]
			j--
		}
	}
}

// angularGap returns the non-negative forward angular distance from a to
// b travelling counter-clockwise, wrapping through +/-pi.
func angularGap(a, b float64) float64 {
	g := b - a
	for g < 0 {
		g += 2 * math.Pi
	}
	for g >= 2*math.Pi {
		g -= 2 * math.Pi
	}

	return g
}

// voronoiShares3D approximates spherical Voronoi shares by sampling a
// deterministic Fibonacci lattice on the unit sphere and assigning each
// sample to the direction of maximum dot product.
// Complexity: O(M * fibonacciSphereSamples).
func voronoiShares3D(dirs [][]float64) []float64 {
	m := len(dirs)
	counts := make([]int, m)

	const n = fibonacciSphereSamples
	goldenAngle := math.Pi * (3 - math.Sqrt(5))
	for i := 0; i < n; i++ {
		y := 1 - (float64(i)/float64(n-1))*2
		radius := math.Sqrt(1 - y*y)
		theta := goldenAngle * float64(i)
		x := math.Cos(theta) * radius
		z := math.Sin(theta) * radius

		best, bestDot := -1, math.Inf(-1)
		for j, d := range dirs {
			dot := d[0]*x + d[1]*y + d[2]*z
			if dot > bestDot {
				bestDot = dot
				best = j
			}
		}
		counts[best]++
	}

	shares := make([]float64, m)
	totalMeasure := 4 * math.Pi
	for i, c := range counts {
		shares[i] = totalMeasure * float64(c) / float64(n)
	}

	return shares
}
