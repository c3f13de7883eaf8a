package ndarray

import (
	"errors"
	"fmt"
)

// Sentinel errors for ndarray operations.
var (
	// ErrEmptyShape indicates a shape with zero rank or a non-positive axis length.
	ErrEmptyShape = errors.New("ndarray: shape must have rank >= 1 and all axis lengths > 0")
	// ErrRankMismatch indicates a coordinate slice whose length differs from the array rank.
	ErrRankMismatch = errors.New("ndarray: coordinate rank mismatch")
	// ErrIndexOutOfRange indicates a coordinate outside its axis bounds.
	ErrIndexOutOfRange = errors.New("ndarray: index out of range")
)

// indexErrorf wraps an indexing error with the offending coordinate for diagnostics.
func indexErrorf(method string, idx []int, err error) error {
	return fmt.Errorf("ndarray.%s(%v): %w", method, idx, err)
}
