package neighborhood

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// cauchyCroftonCoef is K_N, the right-hand side normalizer of the
// Cauchy-Crofton formula (K_2 = 2, K_3 = pi).
func cauchyCroftonCoef(dims int) float64 {
	switch dims {
	case 2:
		return 2.0
	case 3:
		return math.Pi
	default:
		panic("neighborhood: Cauchy-Crofton coefficient only defined for 2 or 3 dimensions")
	}
}

// System is a fully-resolved neighbourhood: a fixed, index-stable set of
// integer displacement vectors plus their Cauchy-Crofton edge weights.
//
// Offsets[i] is the i-th displacement vector; Opposite[i] is the index of
// -Offsets[i]; Weights[i] is the metric coefficient for direction i.
// Weights[i] == Weights[Opposite[i]] always holds.
type System struct {
	Dims     int
	Offsets  [][]int
	Opposite []int
	Weights  []float64
}

// Len reports the number of directions.
func (s *System) Len() int { return len(s.Offsets) }

// Build resolves a neighbourhood symbol into a System with isotropic
// Cauchy-Crofton weights.
//
// Steps:
//  1. Resolve symbol -> offset table (offsetsFor); unknown symbols or a
//     dims mismatch return ErrUnsupportedNeighbourhood.
//  2. Normalize each offset to a unit direction vector.
//  3. Partition the unit (dims-1)-sphere among the normalized directions
//     (hypersphereVoronoiShares) to obtain each direction's solid-angle
//     share phi_i.
//  4. w_i = (phi_i * (1/rho_i)) / K_dims, rho_i = |offset_i| (Euclidean).
//
// Complexity: O(R^dims log(R^dims)) for enumeration plus the Voronoi pass
// (see package doc).
func Build(symbol string, dims int) (*System, error) {
	return buildWithMetric(symbol, dims, nil)
}

// BuildRiemannian resolves a neighbourhood symbol into a System whose
// weights account for an anisotropic Riemannian metric M (symmetric
// positive definite): directions are transformed by M before both the
// Voronoi partition and the length term, and the result is scaled by
// det(M) (the metric's cell area/volume).
func BuildRiemannian(symbol string, dims int, m *mat.SymDense) (*System, error) {
	if m == nil {
		return buildWithMetric(symbol, dims, nil)
	}
	if m.SymmetricDim() != dims {
		panic("neighborhood: metric dimension must match neighbourhood dims")
	}

	return buildWithMetric(symbol, dims, m)
}

func buildWithMetric(symbol string, dims int, m *mat.SymDense) (*System, error) {
	offsets, err := offsetsFor(symbol, dims)
	if err != nil {
		return nil, err
	}

	transformed := make([][]float64, len(offsets))
	lengths := make([]float64, len(offsets))
	for i, d := range offsets {
		v := transformOffset(d, m)
		lengths[i] = vecLength(v)
		transformed[i] = normalize(v, lengths[i])
	}

	shares := hypersphereVoronoiShares(transformed)
	coef := cauchyCroftonCoef(dims)
	cellScale := 1.0
	if m != nil {
		cellScale = matDet(m)
	}

	weights := make([]float64, len(offsets))
	for i := range offsets {
		weights[i] = (shares[i] * (cellScale / lengths[i])) / coef
	}

	// hypersphereVoronoiShares samples the 3D case (fibonacciSphereSamples
	// points on the unit sphere) rather than partitioning it exactly, so an
	// antipodal pair can land on slightly different share counts even
	// though offsetsFor always enumerates them together. Average each pair
	// so Weights[i] == Weights[Opposite[i]] holds exactly, independent of
	// sampling noise or a non-isotropic metric.
	opp := oppositeIndex(offsets)
	for i, j := range opp {
		if j > i {
			avg := (weights[i] + weights[j]) / 2
			weights[i], weights[j] = avg, avg
		}
	}

	return &System{
		Dims:     dims,
		Offsets:  offsets,
		Opposite: opp,
		Weights:  weights,
	}, nil
}

// transformOffset applies M (if non-nil) to an integer offset, returning
// a float64 vector; with a nil metric it is simply the offset itself.
func transformOffset(d []int, m *mat.SymDense) []float64 {
	v := make([]float64, len(d))
	for i, c := range d {
		v[i] = float64(c)
	}
	if m == nil {
		return v
	}

	src := mat.NewVecDense(len(v), v)
	dst := mat.NewVecDense(len(v), nil)
	dst.MulVec(m, src)

	out := make([]float64, len(v))
	for i := 0; i < len(v); i++ {
		out[i] = dst.AtVec(i)
	}

	return out
}

func vecLength(v []float64) float64 {
	s := 0.0
	for _, c := range v {
		s += c * c
	}

	return math.Sqrt(s)
}

func normalize(v []float64, length float64) []float64 {
	out := make([]float64, len(v))
	for i, c := range v {
		out[i] = c / length
	}

	return out
}

// matDet computes det(M) for the symmetric positive-definite metric via
// Cholesky, falling back to the general LU determinant if Cholesky fails
// validation (M not strictly PD, e.g. due to floating-point roundoff).
func matDet(m *mat.SymDense) float64 {
	var chol mat.Cholesky
	if ok := chol.Factorize(m); ok {
		return chol.Det()
	}

	return mat.Det(m)
}

// oppositeIndex returns, for each offset, the index of its negation. The
// enumeration in offsetsFor already interleaves antipodal pairs at
// (2k, 2k+1), so this is a direct computation, not a search.
func oppositeIndex(offsets [][]int) []int {
	opp := make([]int, len(offsets))
	for i := range offsets {
		opp[i] = i ^ 1
	}

	return opp
}
