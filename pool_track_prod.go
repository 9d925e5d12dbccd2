//go:build !debug_mem_pool

package mempool

// regionTracker records which Regions are currently checked out of a pool so
// that checkout/checkin discipline violations panic at the offending call
// site instead of corrupting the free list. It only exists when the
// debug_mem_pool build tag is present- release builds trust the caller, as
// the pool contract requires.
type regionTracker struct{}

func (t *regionTracker) init(capacity int) {
}

func (t *regionTracker) trackAcquire(target Region) {
}

func (t *regionTracker) trackRelease(target Region) {
}
