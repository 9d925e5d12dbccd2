//go:build debug_mem_pool

package mempool

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// regionTracker records which Regions are currently checked out of a pool so
// that checkout/checkin discipline violations panic at the offending call
// site instead of corrupting the free list. It only exists when the
// debug_mem_pool build tag is present- release builds trust the caller, as
// the pool contract requires.
type regionTracker struct {
	outstanding *swiss.Map[uintptr, struct{}]
}

func (t *regionTracker) init(capacity int) {
	t.outstanding = swiss.NewMap[uintptr, struct{}](uint32(capacity))
}

func (t *regionTracker) trackAcquire(target Region) {
	key := uintptr(target.Start())
	if _, ok := t.outstanding.Get(key); ok {
		panic(fmt.Sprintf("the pool handed out a region at 0x%x that is already outstanding- the free list has been corrupted, most likely by a double release", key))
	}

	t.outstanding.Put(key, struct{}{})
}

func (t *regionTracker) trackRelease(target Region) {
	key := uintptr(target.Start())
	if _, ok := t.outstanding.Get(key); !ok {
		panic(fmt.Sprintf("released a region at 0x%x that is not outstanding- either it was already released or it belongs to another pool", key))
	}

	t.outstanding.Delete(key)
}
