package ndarray_test

import (
	"testing"

	"github.com/odanek/gridcut/ndarray"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsEmptyShape(t *testing.T) {
	_, err := ndarray.New[float64](nil)
	require.ErrorIs(t, err, ndarray.ErrEmptyShape)

	_, err = ndarray.New[float64]([]int{4, 0})
	require.ErrorIs(t, err, ndarray.ErrEmptyShape)
}

func TestLinearCoordRoundTrip(t *testing.T) {
	a, err := ndarray.New[float64]([]int{3, 4})
	require.NoError(t, err)

	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			off, err := a.Linear(y, x)
			require.NoError(t, err)
			require.Equal(t, []int{y, x}, a.Coord(off))
		}
	}
}

func TestAtSetOutOfRange(t *testing.T) {
	a, err := ndarray.New[float64]([]int{2, 2})
	require.NoError(t, err)

	_, err = a.At(-1, 0)
	require.ErrorIs(t, err, ndarray.ErrIndexOutOfRange)

	_, err = a.At(0, 2)
	require.ErrorIs(t, err, ndarray.ErrIndexOutOfRange)

	err = a.Set(1.0, 2, 0)
	require.ErrorIs(t, err, ndarray.ErrIndexOutOfRange)
}

func TestSetGetRoundTrip(t *testing.T) {
	a, err := ndarray.New[float32]([]int{2, 3})
	require.NoError(t, err)

	require.NoError(t, a.Set(7.5, 1, 2))
	v, err := a.At(1, 2)
	require.NoError(t, err)
	require.Equal(t, float32(7.5), v)
}

func TestInBoundsFastPath(t *testing.T) {
	a, err := ndarray.New[float64]([]int{4, 4, 4})
	require.NoError(t, err)

	require.True(t, a.InBounds(0, 0, 0))
	require.True(t, a.InBounds(3, 3, 3))
	require.False(t, a.InBounds(4, 0, 0))
	require.False(t, a.InBounds(-1, 0, 0))
}

func TestIterateVisitsEveryElementOnce(t *testing.T) {
	a, err := ndarray.New[float64]([]int{2, 3})
	require.NoError(t, err)

	seen := make(map[int]bool, a.Len())
	a.Iterate(func(linear int, idx []int) {
		off, err := a.Linear(idx...)
		require.NoError(t, err)
		require.Equal(t, linear, off)
		seen[linear] = true
	})
	require.Len(t, seen, a.Len())
}

func TestU8ArrayRoundTrip(t *testing.T) {
	a, err := ndarray.NewU8Filled([]int{2, 2}, 3)
	require.NoError(t, err)

	v, err := a.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, uint8(3), v)

	require.NoError(t, a.Set(1, 1, 1))
	v, err = a.At(1, 1)
	require.NoError(t, err)
	require.Equal(t, uint8(1), v)

	require.True(t, a.SameShape([]int{2, 2}))
	require.False(t, a.SameShape([]int{2, 3}))
}
