package mask

import (
	"fmt"

	"github.com/odanek/gridcut/ndarray"
)

// Value is the mask field's element type: 1 = BackgroundFixed,
// 2 = ForegroundFixed, 3 = Unknown.
type Value = uint8

const (
	// BackgroundFixed marks a node excluded from the graph and counted as
	// background when folding its influence into an UNKNOWN neighbour.
	BackgroundFixed Value = 1
	// ForegroundFixed marks a node excluded from the graph and counted as
	// foreground when folding its influence into an UNKNOWN neighbour.
	ForegroundFixed Value = 2
	// Unknown marks a node that participates in the max-flow graph.
	Unknown Value = 3
)

// ShapeMismatchError reports that a mask's shape does not match the image
// it was meant to accompany.
type ShapeMismatchError struct {
	ImageShape []int
	MaskShape  []int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("mask: shape %v does not match image shape %v", e.MaskShape, e.ImageShape)
}

// Field wraps a dense uint8 array of Value entries.
type Field struct {
	Data *ndarray.U8Array
}

// New allocates a Field with every node Unknown.
func New(shape []int) (*Field, error) {
	data, err := ndarray.NewU8Filled(shape, Unknown)
	if err != nil {
		return nil, err
	}

	return &Field{Data: data}, nil
}

// Validate checks that the mask's shape matches imageShape and that every
// stored value is one of the three recognized constants.
// Complexity: O(len).
func Validate(f *Field, imageShape []int) error {
	if f == nil {
		return nil
	}
	if !f.Data.SameShape(imageShape) {
		return &ShapeMismatchError{ImageShape: imageShape, MaskShape: f.Data.Shape}
	}
	for _, v := range f.Data.Data {
		if v != BackgroundFixed && v != ForegroundFixed && v != Unknown {
			return fmt.Errorf("mask: value %d at linear offset is not a recognized mask value", v)
		}
	}

	return nil
}

// IsFixed reports whether v excludes its node from the max-flow graph.
func IsFixed(v Value) bool {
	return v == BackgroundFixed || v == ForegroundFixed
}
