package segment

import (
	"context"
	"fmt"

	"github.com/odanek/gridcut/estimate"
	"github.com/odanek/gridcut/gridflow"
	"github.com/odanek/gridcut/mask"
	"github.com/odanek/gridcut/ndarray"
	"github.com/odanek/gridcut/neighborhood"
)

// TwoStageOptions restricts a Chan-Vese run's second pass to a band around
// the first pass's cut: stage 1 runs with the driver's own Neighbourhood
// symbol, stage 2 with FineNeighbourhood, over nodes within Radius cityblock
// steps of the stage-1 boundary; farther nodes are fixed to their stage-1
// label.
type TwoStageOptions struct {
	Radius            int
	FineNeighbourhood string
}

// ChanVeseOptions configures a ChanVese call.
type ChanVeseOptions[T ndarray.Real] struct {
	Lambda1, Lambda2 T
	// Mu scales the pairwise (boundary-length) term. Defaults to 1.
	Mu             T
	Convergence    float64
	MaxIter        int
	Neighbourhood  string
	C1Seed, C2Seed *T
	Mask           *mask.Field
	// Backend selects the max-flow selector symbol. Defaults to "GRD-KO".
	Backend  string
	TwoStage *TwoStageOptions
	Logger   gridflow.Logger
}

func (o *ChanVeseOptions[T]) normalize() {
	if o.Mu <= 0 {
		o.Mu = 1
	}
	if o.Backend == "" {
		o.Backend = "GRD-KO"
	}
}

func (o *ChanVeseOptions[T]) validate(img *ndarray.Array[T]) error {
	if err := validateDims(img); err != nil {
		return err
	}
	if err := validateLambda("lambda1", o.Lambda1); err != nil {
		return err
	}
	if err := validateLambda("lambda2", o.Lambda2); err != nil {
		return err
	}
	if err := validateConvergence(o.Convergence); err != nil {
		return err
	}
	if err := validateMaxIter(o.MaxIter); err != nil {
		return err
	}
	if err := validateSeeds(o.C1Seed, o.C2Seed); err != nil {
		return err
	}
	if err := validateMask(o.Mask, img.Shape); err != nil {
		return err
	}
	if _, err := neighborhood.Build(o.Neighbourhood, img.Rank()); err != nil {
		return invalid("neighbourhood", err.Error())
	}
	if o.TwoStage != nil {
		if o.TwoStage.Radius <= 0 {
			return invalid("two_stage.radius", "must be > 0")
		}
		if _, err := neighborhood.Build(o.TwoStage.FineNeighbourhood, img.Rank()); err != nil {
			return invalid("two_stage.fine_neighbourhood", err.Error())
		}
	}

	return nil
}

// ChanVeseResult is the outcome of a ChanVese call.
type ChanVeseResult[T ndarray.Real] struct {
	Result
	Labels *ndarray.U8Array
	C1, C2 T
}

// ChanVese segments img into foreground/background by alternating a
// min-cut over the current (c1,c2) with re-estimating (c1,c2) as the
// region means, per the two-phase Chan-Vese energy.
//
// Steps:
//  1. Validate opts.
//  2. Seed (c1,c2) from opts.C1Seed/C2Seed, or from
//     estimate.GibouFedkiwTwoMean otherwise.
//  3. Repeat up to opts.MaxIter times: build the binary min-cut graph for
//     the current means, run max-flow, read the labelling, recompute the
//     means; stop when the summed mean movement is <= opts.Convergence.
//  4. If opts.TwoStage is set, restart the loop once more over a band
//     around the first run's boundary with the denser neighbourhood.
//
// Complexity: O(MaxIter * min-cut(n, d)).
func ChanVese[T ndarray.Real](img *ndarray.Array[T], opts ChanVeseOptions[T]) (*ChanVeseResult[T], error) {
	opts.normalize()
	if err := opts.validate(img); err != nil {
		return nil, err
	}

	nb, err := neighborhood.Build(opts.Neighbourhood, img.Rank())
	if err != nil {
		return nil, err
	}

	res, err := chanVeseRun(img, nb, opts.Mu, opts.Lambda1, opts.Lambda2, opts.Convergence, opts.MaxIter, opts.C1Seed, opts.C2Seed, opts.Mask, opts.Backend, opts.Logger)
	if err != nil {
		return nil, err
	}
	if opts.TwoStage == nil || res.Status == ConvergenceError {
		return res, nil
	}

	fineNb, err := neighborhood.Build(opts.TwoStage.FineNeighbourhood, img.Rank())
	if err != nil {
		return nil, err
	}
	band, err := bandMask(img.Shape, res.Labels, opts.TwoStage.Radius, opts.Mask)
	if err != nil {
		return nil, err
	}

	c1Seed, c2Seed := res.C1, res.C2
	stage2, err := chanVeseRun(img, fineNb, opts.Mu, opts.Lambda1, opts.Lambda2, opts.Convergence, opts.MaxIter, &c1Seed, &c2Seed, band, opts.Backend, opts.Logger)
	if err != nil {
		return nil, err
	}
	stage2.Iterations += res.Iterations

	return stage2, nil
}

func chanVeseRun[T ndarray.Real](img *ndarray.Array[T], nb *neighborhood.System, mu, lambda1, lambda2 T, convergence float64, maxIter int, c1Seed, c2Seed *T, m *mask.Field, backendSel string, logger gridflow.Logger) (*ChanVeseResult[T], error) {
	var c1, c2 T
	if c1Seed != nil && c2Seed != nil {
		c1, c2 = *c1Seed, *c2Seed
	} else {
		var err error
		c1, c2, _, err = estimate.GibouFedkiwTwoMean(img, lambda1, lambda2, 50, 1e-6)
		if err != nil {
			return &ChanVeseResult[T]{Result: Result{Status: ConvergenceError}}, nil
		}
	}

	var labels *ndarray.U8Array
	status := MaxIterReached
	iters := 0

	for iter := 0; iter < maxIter; iter++ {
		backend, err := gridflow.Factory(backendSel, img.Shape, nb)
		if err != nil {
			return nil, err
		}
		cc1, cc2 := c1, c2
		err = setBinaryCapacities(img, backend, nb, m, float64(mu), func(val T) (float64, float64) {
			d1, d2 := float64(val-cc1), float64(val-cc2)

			return float64(lambda1) * d1 * d1, float64(lambda2) * d2 * d2
		})
		if err != nil {
			return nil, err
		}
		if _, err := backend.Compute(context.Background(), gridflow.Options{Logger: logger}); err != nil {
			return nil, fmt.Errorf("segment: ChanVese: %w", err)
		}
		labels, err = readBinaryLabels(img, backend, m)
		if err != nil {
			return nil, err
		}

		newC1, newC2, degenerate := regionMeans(img, labels)
		if degenerate {
			energy, _ := binaryEnergy(img, labels, nb, float64(mu), func(val T, l uint8) float64 { return unaryCV(val, l, c1, c2, lambda1, lambda2) })

			return &ChanVeseResult[T]{Result: Result{Status: ConvergenceError, Iterations: iter, Energy: energy}, Labels: labels, C1: c1, C2: c2}, nil
		}

		delta := math64Abs2(float64(newC1 - c1)) + math64Abs2(float64(newC2-c2))
		c1, c2 = newC1, newC2
		iters = iter + 1
		if delta <= convergence {
			status = Converged

			break
		}
	}

	energy, err := binaryEnergy(img, labels, nb, float64(mu), func(val T, l uint8) float64 { return unaryCV(val, l, c1, c2, lambda1, lambda2) })
	if err != nil {
		return nil, err
	}

	return &ChanVeseResult[T]{Result: Result{Status: status, Iterations: iters, Energy: energy}, Labels: labels, C1: c1, C2: c2}, nil
}

func unaryCV[T ndarray.Real](val T, label uint8, c1, c2, lambda1, lambda2 T) float64 {
	if label == 0 {
		d := float64(val - c1)

		return float64(lambda1) * d * d
	}
	d := float64(val - c2)

	return float64(lambda2) * d * d
}

// regionMeans computes mean I over label==0 and label==1; degenerate is
// true if either region is empty.
func regionMeans[T ndarray.Real](img *ndarray.Array[T], labels *ndarray.U8Array) (c1, c2 T, degenerate bool) {
	var sum0, sum1 float64
	var n0, n1 int
	for i, v := range img.Data {
		if labels.Data[i] == 0 {
			sum0 += float64(v)
			n0++
		} else {
			sum1 += float64(v)
			n1++
		}
	}
	if n0 == 0 || n1 == 0 {
		return 0, 0, true
	}

	return T(sum0 / float64(n0)), T(sum1 / float64(n1)), false
}

func math64Abs2(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
