package segment

import (
	"github.com/odanek/gridcut/mask"
	"github.com/odanek/gridcut/ndarray"
)

func validateDims[T ndarray.Real](img *ndarray.Array[T]) error {
	switch img.Rank() {
	case 2, 3:
		return nil
	default:
		return invalid("image", "only 2-D and 3-D images are accepted")
	}
}

func validateMask(m *mask.Field, shape []int) error {
	if m == nil {
		return nil
	}
	if err := mask.Validate(m, shape); err != nil {
		return invalid("mask", err.Error())
	}

	return nil
}

func validateLambda[T ndarray.Real](name string, lambda T) error {
	if lambda <= 0 {
		return invalid(name, "must be > 0")
	}

	return nil
}

func validateConvergence(conv float64) error {
	if conv < 0 {
		return invalid("convergence", "must be >= 0")
	}

	return nil
}

func validateMaxIter(maxIter int) error {
	if maxIter <= 0 {
		return invalid("max_iter", "must be > 0")
	}

	return nil
}

func validateSeeds[T ndarray.Real](c1, c2 *T) error {
	if c1 != nil && c2 != nil && *c1 >= *c2 {
		return invalid("c1/c2", "c1 must be < c2 when both are supplied")
	}

	return nil
}

func validateK(k int) error {
	if k <= 1 || k >= 255 {
		return invalid("k", "must satisfy 1 < k < 255")
	}

	return nil
}
