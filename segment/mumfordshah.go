package segment

import (
	"context"
	"fmt"

	"github.com/odanek/gridcut/estimate"
	"github.com/odanek/gridcut/gridflow"
	"github.com/odanek/gridcut/ndarray"
	"github.com/odanek/gridcut/neighborhood"
)

const energyTolerance = 1e-9

// MumfordShahOptions configures a MumfordShah call.
type MumfordShahOptions[T ndarray.Real] struct {
	K             int
	Lambda        []T // length 1 (broadcast) or length K
	Convergence   float64
	MaxIter       int
	Neighbourhood string
	Backend       string
	Logger        gridflow.Logger
}

func (o *MumfordShahOptions[T]) normalize() {
	if o.Backend == "" {
		o.Backend = "GRD-KO"
	}
}

func (o *MumfordShahOptions[T]) lambdaPerClass() []T {
	if len(o.Lambda) == 1 {
		out := make([]T, o.K)
		for i := range out {
			out[i] = o.Lambda[0]
		}

		return out
	}

	return o.Lambda
}

func (o *MumfordShahOptions[T]) validate(img *ndarray.Array[T]) error {
	if err := validateDims(img); err != nil {
		return err
	}
	if err := validateK(o.K); err != nil {
		return err
	}
	if len(o.Lambda) != 1 && len(o.Lambda) != o.K {
		return invalid("lambda", "must have length 1 or k")
	}
	for i, l := range o.lambdaPerClass() {
		if err := validateLambda(fmt.Sprintf("lambda[%d]", i), l); err != nil {
			return err
		}
	}
	if err := validateConvergence(o.Convergence); err != nil {
		return err
	}
	if err := validateMaxIter(o.MaxIter); err != nil {
		return err
	}
	if _, err := neighborhood.Build(o.Neighbourhood, img.Rank()); err != nil {
		return invalid("neighbourhood", err.Error())
	}

	return nil
}

// MumfordShahResult is the outcome of a MumfordShah call.
type MumfordShahResult[T ndarray.Real] struct {
	Result
	Labels *ndarray.U8Array
	C      []T
}

// MumfordShah recovers a piecewise-constant labelling with k classes by
// alpha-expansion: each round proposes, for every class alpha in turn, the
// minimum-cut move that lets any node switch to alpha, accepts it if
// total energy does not increase, then re-estimates the per-class means.
//
// Steps:
//  1. Validate opts.
//  2. Initialize centres via estimate.LloydKMeans1D and assign initial
//     labels by nearest weighted centre.
//  3. Repeat up to opts.MaxIter times: one alpha-expansion round over all
//     k classes; re-estimate centres as region means; stop when no label
//     changed in the round or the summed centre movement is <=
//     opts.Convergence.
//
// Complexity: O(MaxIter * k * min-cut(n, d)).
func MumfordShah[T ndarray.Real](img *ndarray.Array[T], opts MumfordShahOptions[T]) (*MumfordShahResult[T], error) {
	opts.normalize()
	if err := opts.validate(img); err != nil {
		return nil, err
	}

	lambda := opts.lambdaPerClass()
	nb, err := neighborhood.Build(opts.Neighbourhood, img.Rank())
	if err != nil {
		return nil, err
	}

	centers, _, err := estimate.LloydKMeans1D(img, opts.K, lambda, 50, 1e-6)
	if err != nil {
		return &MumfordShahResult[T]{Result: Result{Status: ConvergenceError}}, nil
	}
	labels := nearestLabelAssignment(img, centers, lambda)
	energy, err := klabelEnergy(img, labels, nb, centers, lambda)
	if err != nil {
		return nil, err
	}

	status := MaxIterReached
	iters := 0

	for outer := 0; outer < opts.MaxIter; outer++ {
		changed := false
		for alpha := 0; alpha < opts.K; alpha++ {
			newLabels, newEnergy, moved, err := alphaExpansionRound(img, nb, labels, energy, centers, lambda, uint8(alpha), opts.Backend, opts.Logger)
			if err != nil {
				return nil, err
			}
			if moved {
				labels, energy, changed = newLabels, newEnergy, true
			}
		}

		newCenters, empty := regionMeansK(img, labels, opts.K)
		if empty {
			u8, err := wrapU8Labels(img.Shape, labels)
			if err != nil {
				return nil, err
			}

			return &MumfordShahResult[T]{Result: Result{Status: ConvergenceError, Iterations: outer, Energy: energy}, Labels: u8, C: centers}, nil
		}
		delta := 0.0
		for l := range centers {
			delta += math64Abs2(float64(newCenters[l] - centers[l]))
		}
		centers = newCenters
		iters = outer + 1

		recomputed, err := klabelEnergy(img, labels, nb, centers, lambda)
		if err != nil {
			return nil, err
		}
		energy = recomputed

		if !changed || delta <= opts.Convergence {
			status = Converged

			break
		}
	}

	u8, err := wrapU8Labels(img.Shape, labels)
	if err != nil {
		return nil, err
	}

	return &MumfordShahResult[T]{Result: Result{Status: status, Iterations: iters, Energy: energy}, Labels: u8, C: centers}, nil
}

// alphaExpansionRound solves the binary subproblem "keep current label, or
// switch to alpha" for every node and accepts the move only if it does not
// increase total energy.
//
// Per directed edge (v,u) with v a candidate (labels[v] != alpha):
//   - labels[u] == alpha: folds into v's stay-cost (ct), the edge needs no
//     graph representation since u is excluded from the graph entirely.
//   - labels[u] == labels[v]: a plain submodular edge of weight w, exactly
//     the original pairwise term with the switch decision as the cut
//     variable.
//   - otherwise (labels[u] is some other non-alpha class): the 3-way
//     "at most one of {v,u} can mismatch alpha without cost" term, whose
//     exact submodular decomposition is a weight-w/2 edge plus a -w/2
//     bonus on each endpoint's switch-cost.
func alphaExpansionRound[T ndarray.Real](img *ndarray.Array[T], nb *neighborhood.System, labels []uint8, energy float64, centers []T, lambda []T, alpha uint8, backendSel string, logger gridflow.Logger) ([]uint8, float64, bool, error) {
	shape := img.Shape
	backend, err := gridflow.Factory(backendSel, shape, nb)
	if err != nil {
		return nil, 0, false, err
	}

	for v := 0; v < img.Len(); v++ {
		L := labels[v]
		if L == alpha {
			continue
		}
		coord := img.Coord(v)
		val, err := img.At(coord...)
		if err != nil {
			return nil, 0, false, err
		}
		dSwitch := float64(val - centers[alpha])
		dStay := float64(val - centers[L])
		cs := float64(lambda[alpha]) * dSwitch * dSwitch
		ct := float64(lambda[L]) * dStay * dStay

		for dir := 0; dir < nb.Len(); dir++ {
			nc, ok := neighborCoord(coord, nb.Offsets[dir], shape)
			if !ok {
				continue
			}
			nv := gridLinear(nc, shape)
			Lu := labels[nv]
			w := nb.Weights[dir]
			switch {
			case Lu == alpha:
				ct += w
			case Lu == L:
				backend.SetEdgeCap(v, dir, w)
			default:
				backend.SetEdgeCap(v, dir, w/2)
				cs -= w / 2
			}
		}
		backend.SetTerminalCap(v, cs, ct)
	}

	if _, err := backend.Compute(context.Background(), gridflow.Options{Logger: logger}); err != nil {
		return nil, 0, false, fmt.Errorf("segment: MumfordShah: %w", err)
	}

	newLabels := append([]uint8(nil), labels...)
	for v := 0; v < img.Len(); v++ {
		if labels[v] != alpha && backend.LabelOf(v) == gridflow.Sink {
			newLabels[v] = alpha
		}
	}

	newEnergy, err := klabelEnergy(img, newLabels, nb, centers, lambda)
	if err != nil {
		return nil, 0, false, err
	}
	if newEnergy <= energy+energyTolerance {
		return newLabels, newEnergy, !equalLabels(labels, newLabels), nil
	}

	return labels, energy, false, nil
}

func equalLabels(a, b []uint8) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func nearestLabelAssignment[T ndarray.Real](img *ndarray.Array[T], centers, lambda []T) []uint8 {
	labels := make([]uint8, img.Len())
	for i, v := range img.Data {
		best, bestCost := 0, costOfK(v, centers[0], lambda[0])
		for l := 1; l < len(centers); l++ {
			c := costOfK(v, centers[l], lambda[l])
			if c < bestCost {
				best, bestCost = l, c
			}
		}
		labels[i] = uint8(best)
	}

	return labels
}

func costOfK[T ndarray.Real](v, c, lambda T) float64 {
	d := float64(v - c)

	return float64(lambda) * d * d
}

// regionMeansK computes the mean of I over each class 0..k-1; empty is
// true if any class has no assigned pixels.
func regionMeansK[T ndarray.Real](img *ndarray.Array[T], labels []uint8, k int) (centers []T, empty bool) {
	sums := make([]float64, k)
	counts := make([]int, k)
	for i, v := range img.Data {
		l := labels[i]
		sums[l] += float64(v)
		counts[l]++
	}
	centers = make([]T, k)
	for l := 0; l < k; l++ {
		if counts[l] == 0 {
			return nil, true
		}
		centers[l] = T(sums[l] / float64(counts[l]))
	}

	return centers, false
}

// klabelEnergy evaluates the Mumford-Shah energy of a k-label field,
// counting each undirected grid edge once.
func klabelEnergy[T ndarray.Real](img *ndarray.Array[T], labels []uint8, nb *neighborhood.System, centers, lambda []T) (float64, error) {
	shape := img.Shape
	var e float64
	for v := 0; v < img.Len(); v++ {
		coord := img.Coord(v)
		val, err := img.At(coord...)
		if err != nil {
			return 0, err
		}
		l := labels[v]
		d := float64(val - centers[l])
		e += float64(lambda[l]) * d * d

		for dir := 0; dir < nb.Len(); dir++ {
			nc, ok := neighborCoord(coord, nb.Offsets[dir], shape)
			if !ok {
				continue
			}
			nv := gridLinear(nc, shape)
			if nv <= v {
				continue
			}
			if labels[v] != labels[nv] {
				e += nb.Weights[dir]
			}
		}
	}

	return e, nil
}
