package mask_test

import (
	"testing"

	"github.com/odanek/gridcut/mask"
	"github.com/stretchr/testify/require"
)

func TestNewAllUnknown(t *testing.T) {
	f, err := mask.New([]int{2, 2})
	require.NoError(t, err)
	for _, v := range f.Data.Data {
		require.Equal(t, mask.Unknown, v)
	}
}

func TestValidateShapeMismatch(t *testing.T) {
	f, err := mask.New([]int{2, 2})
	require.NoError(t, err)

	err = mask.Validate(f, []int{3, 3})
	require.Error(t, err)
	var shapeErr *mask.ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
}

func TestValidateNilMaskIsNoop(t *testing.T) {
	require.NoError(t, mask.Validate(nil, []int{2, 2}))
}

func TestIsFixed(t *testing.T) {
	require.True(t, mask.IsFixed(mask.BackgroundFixed))
	require.True(t, mask.IsFixed(mask.ForegroundFixed))
	require.False(t, mask.IsFixed(mask.Unknown))
}
