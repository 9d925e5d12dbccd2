package mempool_test

import (
	"testing"
	"unsafe"

	"github.com/stagekit/mempool"
	"github.com/stretchr/testify/require"
)

func TestAllocatorAllocateSlice(t *testing.T) {
	var allocator mempool.ResourceAllocator
	var regions []mempool.Region

	allocator.AllocateSlice(128, 3, &regions)

	require.Len(t, regions, 3)
	require.Equal(t, 3, allocator.ResourceCount())
	require.Equal(t, 384, allocator.TotalBytes())
	require.NoError(t, allocator.Validate())
	require.NoError(t, allocator.CheckCorruption())

	for _, region := range regions {
		require.Equal(t, 128, region.Size())
		require.NoError(t, region.Validate())
	}
}

func TestAllocatorAppendsToExistingDest(t *testing.T) {
	var allocator mempool.ResourceAllocator

	var regions []mempool.Region
	allocator.AllocateSlice(16, 2, &regions)

	first := regions[0]
	allocator.AllocateSlice(16, 2, &regions)

	require.Len(t, regions, 4)
	require.Equal(t, first.Start(), regions[0].Start())
}

func TestAllocatorRegionsNeverAlias(t *testing.T) {
	var allocator mempool.ResourceAllocator
	var regions []mempool.Region

	allocator.AllocateSlice(32, 4, &regions)
	allocator.AllocateSlice(32, 4, &regions)

	seen := map[unsafe.Pointer]bool{}
	for _, region := range regions {
		require.False(t, seen[region.Start()])
		seen[region.Start()] = true
	}
}

func TestAllocatorZeroAmountIsNoOp(t *testing.T) {
	var allocator mempool.ResourceAllocator
	var regions []mempool.Region

	require.NotPanics(t, func() {
		allocator.AllocateSlice(64, 0, &regions)
	})

	require.Empty(t, regions)
	require.Equal(t, 0, allocator.ResourceCount())
}

func TestAllocatorFree(t *testing.T) {
	var allocator mempool.ResourceAllocator
	var regions []mempool.Region

	allocator.AllocateSlice(64, 2, &regions)
	allocator.Free()

	require.Equal(t, 0, allocator.ResourceCount())
	require.Equal(t, 0, allocator.TotalBytes())
	require.NoError(t, allocator.Validate())
}
