package mempool_test

import (
	"testing"
	"unsafe"

	"github.com/stagekit/mempool"
	"github.com/stretchr/testify/require"
)

func TestResourceAllocation(t *testing.T) {
	resource := mempool.NewResource(64)

	require.False(t, resource.IsNil())
	require.Equal(t, 64, resource.Size())
	require.NotNil(t, resource.Pointer())
	require.NoError(t, resource.Validate())
	require.NoError(t, resource.CheckCorruption())

	region := resource.Region()
	require.Equal(t, 64, region.Size())
	require.Equal(t, resource.Pointer(), region.Start())
}

func TestResourceZeroSizePanics(t *testing.T) {
	require.Panics(t, func() {
		_ = mempool.NewResource(0)
	})
}

func TestResourceZeroValue(t *testing.T) {
	var resource mempool.Resource

	require.True(t, resource.IsNil())
	require.Equal(t, 0, resource.Size())
	require.Nil(t, resource.Pointer())
	require.True(t, resource.Region().IsEmpty())
	require.NoError(t, resource.Validate())

	writer := resource.UnsafeWriter()
	require.False(t, writer.IsValid())
}

func TestResourceFree(t *testing.T) {
	resource := mempool.NewResource(32)
	resource.Free()

	require.True(t, resource.IsNil())
	require.Equal(t, 0, resource.Size())
	require.True(t, resource.Region().IsEmpty())
	require.NoError(t, resource.Validate())

	// Freeing the empty state is a no-op
	resource.Free()
	require.True(t, resource.IsNil())
}

func TestResourceRegionAliasesBuffer(t *testing.T) {
	resource := mempool.NewResource(8)

	first := resource.Region()
	second := resource.Region()
	require.Equal(t, first.Start(), second.Start())

	first.Bytes()[0] = 0x5A
	require.Equal(t, byte(0x5A), *(*byte)(unsafe.Pointer(second.Start())))
}
