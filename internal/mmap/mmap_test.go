package mmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocFree(t *testing.T) {
	for _, size := range []int{1, 100, 4096, 10000} {
		b, err := Alloc(size)
		require.NoError(t, err)
		require.Len(t, b, size)
		require.GreaterOrEqual(t, cap(b), size)
		for i := range b {
			require.Zero(t, b[i])
		}
		b[0], b[size-1] = 1, 2
		require.NoError(t, Free(b))
	}
}

func TestAllocEmpty(t *testing.T) {
	b, err := Alloc(0)
	require.NoError(t, err)
	require.Nil(t, b)
	require.NoError(t, Free(nil))
}

func TestRoundUp(t *testing.T) {
	require.Equal(t, 4096, roundUp(1, 4096))
	require.Equal(t, 4096, roundUp(4096, 4096))
	require.Equal(t, 8192, roundUp(4097, 4096))
}
