package estimate

import "errors"

// ErrEmptyRegion indicates an update step would average an empty set of
// pixels (e.g. a constant-intensity image assigns every pixel to one
// region). Callers in package segment translate this into a convergence
// error rather than propagating a division by zero.
var ErrEmptyRegion = errors.New("estimate: region is empty")
