// Package ndarray provides dense, row-major N-dimensional arrays used as the
// common storage for images, label fields and masks throughout gridcut.
//
// What:
//
//   - Array[T] wraps a flat []T buffer with a shape and row-major strides.
//   - Fast bounded neighbour indexing via per-axis range tests.
//   - Element-linear iteration and coordinate <-> linear offset conversion.
//
// Why:
//
//   - The max-flow engine and the segmentation drivers both need one node
//     per array element with O(1) coordinate <-> linear mapping and the same
//     axis order as the neighbourhood offset table (see package neighborhood).
//
// Complexity:
//
//   - At/Set/Linear/Coord/InBounds: O(rank).
//   - New/Resize: O(len).
//   - Iterate: O(len).
//
// Errors:
//
//   - ErrEmptyShape: shape has zero rank or a non-positive axis length.
//   - ErrRankMismatch: coordinate slice length does not match the array rank.
//   - ErrIndexOutOfRange: a coordinate falls outside [0, shape[axis]).
package ndarray
