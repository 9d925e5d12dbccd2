//go:build debug_mem_pool

package mempool_test

import (
	"testing"

	"github.com/stagekit/mempool"
	"github.com/stretchr/testify/require"
)

func TestPoolDoubleReleasePanics(t *testing.T) {
	pool := mempool.NewResourcePool(64, 2, mempool.PoolCreateOptions{})
	defer pool.Destroy()

	region := pool.Acquire()
	pool.Release(region)

	require.Panics(t, func() {
		pool.Release(region)
	})
}

func TestPoolForeignReleasePanics(t *testing.T) {
	pool := mempool.NewResourcePool(64, 2, mempool.PoolCreateOptions{})
	defer pool.Destroy()

	other := mempool.NewResourcePool(64, 2, mempool.PoolCreateOptions{})
	defer other.Destroy()

	require.Panics(t, func() {
		pool.Release(other.Acquire())
	})
}

func TestPoolUnacquiredReleasePanics(t *testing.T) {
	pool := mempool.NewResourcePool(64, 2, mempool.PoolCreateOptions{})
	defer pool.Destroy()

	resource := mempool.NewResource(64)
	require.Panics(t, func() {
		pool.Release(resource.Region())
	})
}
