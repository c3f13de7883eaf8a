package neighborhood

import "errors"

// errUnsupportedNeighbourhood is returned for any symbol outside the
// fixed set.
var errUnsupportedNeighbourhood = errors.New("Unsupported neighbourhood")

// ErrUnsupportedNeighbourhood is returned by Build/BuildRiemannian when the
// requested symbol is not recognized for the given dimensionality.
var ErrUnsupportedNeighbourhood = errUnsupportedNeighbourhood
