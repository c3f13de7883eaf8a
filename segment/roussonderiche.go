package segment

import (
	"context"
	"fmt"
	"math"

	"github.com/odanek/gridcut/estimate"
	"github.com/odanek/gridcut/gridflow"
	"github.com/odanek/gridcut/ndarray"
	"github.com/odanek/gridcut/neighborhood"
	"gonum.org/v1/gonum/stat"
)

// RoussonDericheOptions configures a RoussonDeriche call.
type RoussonDericheOptions[T ndarray.Real] struct {
	// Lambda scales the pairwise (boundary-length) term, the role Mu
	// plays in ChanVeseOptions.
	Lambda        T
	Convergence   float64
	MaxIter       int
	Neighbourhood string
	// Backend selects the max-flow selector symbol. Defaults to "GRD-KO".
	Backend string
	Logger  gridflow.Logger
}

func (o *RoussonDericheOptions[T]) normalize() {
	if o.Backend == "" {
		o.Backend = "GRD-KO"
	}
}

func (o *RoussonDericheOptions[T]) validate(img *ndarray.Array[T]) error {
	if err := validateDims(img); err != nil {
		return err
	}
	if err := validateLambda("lambda", o.Lambda); err != nil {
		return err
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

// RoussonDericheResult is the outcome of a RoussonDeriche call.
type RoussonDericheResult[T ndarray.Real] struct {
	Result
	Labels             *ndarray.U8Array
	C1, Var1, C2, Var2 T
}

// RoussonDeriche is the variance-aware sibling of ChanVese: the per-label
// unary cost is a Gaussian log-likelihood rather than a plain squared
// distance, and each outer step re-estimates both the region mean and
// variance (MLE) instead of just the mean.
//
// Steps:
//  1. Validate opts.
//  2. Initialize (c1,var1,c2,var2) via
//     estimate.GibouFedkiwTwoMeanVariance.
//  3. Repeat up to opts.MaxIter times: build the binary min-cut graph for
//     the current (c,var) pair, run max-flow, read the labelling,
//     re-estimate mean and variance per region; stop when the summed
//     mean movement is <= opts.Convergence.
//
// Complexity: O(MaxIter * min-cut(n, d)).
func RoussonDeriche[T ndarray.Real](img *ndarray.Array[T], opts RoussonDericheOptions[T]) (*RoussonDericheResult[T], error) {
	opts.normalize()
	if err := opts.validate(img); err != nil {
		return nil, err
	}

	nb, err := neighborhood.Build(opts.Neighbourhood, img.Rank())
	if err != nil {
		return nil, err
	}

	c1, var1, c2, var2, _, err := estimate.GibouFedkiwTwoMeanVariance(img, 50, 1e-6)
	if err != nil {
		return &RoussonDericheResult[T]{Result: Result{Status: ConvergenceError}}, nil
	}

	var labels *ndarray.U8Array
	status := MaxIterReached
	iters := 0

	for iter := 0; iter < opts.MaxIter; iter++ {
		backend, err := gridflow.Factory(opts.Backend, img.Shape, nb)
		if err != nil {
			return nil, err
		}
		cc1, vv1, cc2, vv2 := c1, var1, c2, var2
		err = setBinaryCapacities(img, backend, nb, nil, float64(opts.Lambda), func(val T) (float64, float64) {
			return gaussianNLL(val, cc1, vv1), gaussianNLL(val, cc2, vv2)
		})
		if err != nil {
			return nil, err
		}
		if _, err := backend.Compute(context.Background(), gridflow.Options{Logger: opts.Logger}); err != nil {
			return nil, fmt.Errorf("segment: RoussonDeriche: %w", err)
		}
		labels, err = readBinaryLabels(img, backend, nil)
		if err != nil {
			return nil, err
		}

		newC1, newVar1, newC2, newVar2, degenerate := regionMeanVariance(img, labels)
		if degenerate {
			energy, _ := binaryEnergy(img, labels, nb, float64(opts.Lambda), func(val T, l uint8) float64 { return rdUnary(val, l, c1, var1, c2, var2) })

			return &RoussonDericheResult[T]{Result: Result{Status: ConvergenceError, Iterations: iter, Energy: energy}, Labels: labels, C1: c1, Var1: var1, C2: c2, Var2: var2}, nil
		}

		delta := math64Abs2(float64(newC1-c1)) + math64Abs2(float64(newC2-c2))
		c1, var1, c2, var2 = newC1, newVar1, newC2, newVar2
		iters = iter + 1
		if delta <= opts.Convergence {
			status = Converged

			break
		}
	}

	energy, err := binaryEnergy(img, labels, nb, float64(opts.Lambda), func(val T, l uint8) float64 { return rdUnary(val, l, c1, var1, c2, var2) })
	if err != nil {
		return nil, err
	}

	return &RoussonDericheResult[T]{Result: Result{Status: status, Iterations: iters, Energy: energy}, Labels: labels, C1: c1, Var1: var1, C2: c2, Var2: var2}, nil
}

// gaussianNLL is u_l(v) = (I(v)-c)^2/(2*var) + 0.5*log(var).
func gaussianNLL[T ndarray.Real](val, c, variance T) float64 {
	v := float64(variance)
	if v <= 0 {
		v = 1e-12
	}
	d := float64(val - c)

	return d*d/(2*v) + 0.5*math.Log(v)
}

func rdUnary[T ndarray.Real](val T, label uint8, c1, var1, c2, var2 T) float64 {
	if label == 0 {
		return gaussianNLL(val, c1, var1)
	}

	return gaussianNLL(val, c2, var2)
}

// regionMeanVariance computes MLE (mean, variance) of I over label==0 and
// label==1; degenerate is true if either region is empty.
func regionMeanVariance[T ndarray.Real](img *ndarray.Array[T], labels *ndarray.U8Array) (c1, var1, c2, var2 T, degenerate bool) {
	var region0, region1 []float64
	for i, v := range img.Data {
		if labels.Data[i] == 0 {
			region0 = append(region0, float64(v))
		} else {
			region1 = append(region1, float64(v))
		}
	}
	if len(region0) == 0 || len(region1) == 0 {
		return 0, 0, 0, 0, true
	}
	m0, v0 := stat.MeanVariance(region0, nil)
	m1, v1 := stat.MeanVariance(region1, nil)
	// stat.MeanVariance is the unbiased (n-1) estimate; rescale to the MLE.
	v0 *= float64(len(region0)-1) / float64(len(region0))
	v1 *= float64(len(region1)-1) / float64(len(region1))

	return T(m0), T(v0), T(m1), T(v1), false
}
