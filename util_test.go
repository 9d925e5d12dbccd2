package mempool_test

import (
	"errors"
	"testing"

	"github.com/stagekit/mempool"
	"github.com/stretchr/testify/require"
)

func TestAlignUp(t *testing.T) {
	require.Equal(t, 16, mempool.AlignUp(10, 8))
	require.Equal(t, 16, mempool.AlignUp(16, 8))
	require.Equal(t, 8, mempool.AlignUp(1, 8))
	require.Equal(t, 0, mempool.AlignUp(0, 8))
	require.Equal(t, 256, mempool.AlignUp(255, 128))
}

func TestAlignDown(t *testing.T) {
	require.Equal(t, 8, mempool.AlignDown(10, 8))
	require.Equal(t, 16, mempool.AlignDown(16, 8))
	require.Equal(t, 0, mempool.AlignDown(7, 8))
}

func TestCheckPow2(t *testing.T) {
	require.NoError(t, mempool.CheckPow2(uint(8), "alignment"))
	require.NoError(t, mempool.CheckPow2(uint(1), "alignment"))

	err := mempool.CheckPow2(uint(10), "alignment")
	require.Error(t, err)
	require.True(t, errors.Is(err, mempool.PowerOfTwoError))
}
