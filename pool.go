package mempool

import (
	"fmt"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

// PoolCreateOptions contains optional settings when creating a ResourcePool
type PoolCreateOptions struct {
	// Name is an optional identifier included in log lines and stats output
	// for this pool. It can be helpful when several pools of different
	// resource sizes are live at once.
	Name string

	// ResourceAlignment, when nonzero, rounds the pool's resource size up to
	// the next multiple of this value. It must be a power of two. Staging
	// buffers frequently need their size aligned to a device limit such as
	// nonCoherentAtomSize, and rounding once at pool creation is cheaper than
	// aligning every transfer.
	ResourceAlignment uint

	// Logger is the *slog.Logger that the pool will send operation traces to
	// at Debug level. If one is not provided, slog.Default() will be used.
	Logger *slog.Logger
}

// ResourcePool pre-allocates fixed-size byte buffers and hands out non-owning
// Region views of them on demand. Acquired Regions return to a free list on
// release, so a steady-state workload stops allocating entirely- growth only
// happens when the free list cannot cover a request, and always in batches.
//
// The pool trusts its callers: Release does not verify that a Region actually
// originated from this pool or that it is currently outstanding. Callers
// must pair every Acquire with exactly one Release of the same Region.
// Building with the debug_mem_pool tag turns discipline violations into
// panics at the offending call site.
//
// A ResourcePool is not safe for concurrent use. Acquire, Release, and growth
// all mutate the free list without locking- wrap the pool in a mutex or give
// each worker its own pool.
//
// Destroying the pool with Destroy invalidates every Region it ever handed
// out, including Regions still held by callers.
type ResourcePool struct {
	logger *slog.Logger
	name   string

	resourceSize     int
	allocationAmount int

	available []Region
	allocator ResourceAllocator
	tracker   regionTracker

	acquireCount int
	releaseCount int
	growthCount  int
}

// NewResourcePool creates a ResourcePool that allocates resources of
// resourceSize bytes in batches of allocationAmount. Both values must be
// nonzero- a pool of zero-size resources or with a zero growth batch can
// never serve a request, so either is a contract violation and panics
// immediately rather than on first use.
//
// The pool eagerly performs one growth batch before returning, so the first
// allocationAmount calls to Acquire are guaranteed not to allocate.
func NewResourcePool(resourceSize, allocationAmount int, options PoolCreateOptions) *ResourcePool {
	if resourceSize == 0 {
		panic("attempted to create a pool with a resource size of zero")
	}
	if allocationAmount == 0 {
		panic("attempted to create a pool with an allocation amount of zero")
	}

	if options.ResourceAlignment != 0 {
		err := CheckPow2(options.ResourceAlignment, "options.ResourceAlignment")
		if err != nil {
			panic(err)
		}

		resourceSize = AlignUp(resourceSize, options.ResourceAlignment)
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pool := &ResourcePool{
		logger:           logger,
		name:             options.Name,
		resourceSize:     resourceSize,
		allocationAmount: allocationAmount,
	}
	pool.tracker.init(allocationAmount)
	pool.growRegions(allocationAmount)

	return pool
}

// Name returns the identifier this pool was created with, if any.
func (p *ResourcePool) Name() string { return p.name }

// ResourceSize returns the size in bytes of every Region this pool hands out,
// after any alignment rounding requested at creation.
func (p *ResourcePool) ResourceSize() int { return p.resourceSize }

// AllocationAmount returns the baseline number of Resources added per growth
// batch.
func (p *ResourcePool) AllocationAmount() int { return p.allocationAmount }

// AvailableCount returns the number of Regions currently in the free list.
func (p *ResourcePool) AvailableCount() int { return len(p.available) }

// ResourceCount returns the total number of Resources the pool owns. It never
// decreases while the pool is live.
func (p *ResourcePool) ResourceCount() int { return p.allocator.ResourceCount() }

// Acquire removes and returns one Region from the free list, growing the pool
// by its allocation amount first if the free list is empty. The returned
// Region is always exactly ResourceSize bytes. The most recently released
// Region is handed out first, so a caller cycling a single buffer keeps
// hitting the same warm memory.
func (p *ResourcePool) Acquire() Region {
	p.logger.Debug("ResourcePool::Acquire")

	if len(p.available) == 0 {
		p.growRegions(p.allocationAmount)
	}

	output := p.available[len(p.available)-1]
	p.available = p.available[:len(p.available)-1]

	p.tracker.trackAcquire(output)
	p.acquireCount++

	return output
}

// AcquireSlice removes and returns count Regions from the free list as a
// single batch. If the free list holds fewer than count Regions, the pool
// grows by its allocation amount plus the deficit, so the request always
// succeeds without leaving the free list short for the next caller. The
// Regions are taken from the free list's tail in one splice.
//
// A count of zero is a contract violation and panics.
func (p *ResourcePool) AcquireSlice(count int) []Region {
	p.logger.Debug("ResourcePool::AcquireSlice")

	if count == 0 {
		panic("attempted to bulk acquire zero regions")
	}

	if len(p.available) < count {
		p.growRegions(p.allocationAmount + count - len(p.available))
	}

	copyStart := len(p.available) - count

	regions := make([]Region, count)
	copy(regions, p.available[copyStart:])
	p.available = p.available[:copyStart]

	for i := 0; i < len(regions); i++ {
		p.tracker.trackAcquire(regions[i])
	}
	p.acquireCount += count

	return regions
}

// Release returns a Region to the free list. The pool does not verify that
// target came from this pool or that it is currently outstanding- a double
// release or a foreign Region will surface later as an aliased Acquire.
// Callers own that discipline (or build with debug_mem_pool, which checks).
func (p *ResourcePool) Release(target Region) {
	p.logger.Debug("ResourcePool::Release")

	p.tracker.trackRelease(target)

	p.available = append(p.available, target)
	p.releaseCount++
}

// ReleaseSlice returns a batch of Regions to the free list under the same
// unchecked contract as Release. An empty batch is a contract violation and
// panics- releasing nothing almost always means the caller's bookkeeping has
// gone wrong.
func (p *ResourcePool) ReleaseSlice(regions []Region) {
	p.logger.Debug("ResourcePool::ReleaseSlice")

	if len(regions) == 0 {
		panic("attempted to bulk release zero regions")
	}

	for i := 0; i < len(regions); i++ {
		p.tracker.trackRelease(regions[i])
	}

	p.available = append(p.available, regions...)
	p.releaseCount += len(regions)
}

// Destroy frees every Resource the pool owns, invalidating all Regions it has
// ever handed out regardless of whether they were released. The pool must not
// be used afterward.
func (p *ResourcePool) Destroy() {
	p.logger.Debug("ResourcePool::Destroy")

	p.allocator.Free()
	p.available = nil
}

// AddStatistics sums this pool's current shape into the statistics currently
// present in the provided Statistics object.
func (p *ResourcePool) AddStatistics(stats *Statistics) {
	stats.ResourceCount += p.allocator.ResourceCount()
	stats.ResourceBytes += p.allocator.TotalBytes()
	stats.AvailableCount += len(p.available)
	stats.OutstandingCount += p.allocator.ResourceCount() - len(p.available)
}

// AddDetailedStatistics sums this pool's current shape and lifetime operation
// counters into the statistics currently present in the provided
// DetailedStatistics object.
func (p *ResourcePool) AddDetailedStatistics(stats *DetailedStatistics) {
	p.AddStatistics(&stats.Statistics)
	stats.AcquireCount += p.acquireCount
	stats.ReleaseCount += p.releaseCount
	stats.GrowthCount += p.growthCount
}

// CheckCorruption verifies the corruption-detection markers of every Resource
// the pool owns. It will return nil if the marker past every resource's
// usable span is intact. This walks all owned memory and should only be run
// as part of some sort of diagnostic regime.
//
// Bear in mind that the markers are only written when this package is built
// with the debug_mem_pool build tag. This method will not return an error
// when that tag is not present.
func (p *ResourcePool) CheckCorruption() error {
	return p.allocator.CheckCorruption()
}

// Validate performs internal consistency checks on the pool, its free list,
// and every owned Resource. When this package is functioning correctly, it
// should not be possible for this method to return an error.
func (p *ResourcePool) Validate() error {
	if len(p.available) > p.allocator.ResourceCount() {
		return errors.Errorf("the free list holds %d regions, but the pool only owns %d resources", len(p.available), p.allocator.ResourceCount())
	}

	for i := 0; i < len(p.available); i++ {
		err := p.available[i].Validate()
		if err != nil {
			return errors.Wrapf(err, "free list region %d", i)
		}

		if p.available[i].Size() != p.resourceSize {
			return errors.Errorf("free list region %d is %d bytes, but every region in this pool should be %d", i, p.available[i].Size(), p.resourceSize)
		}
	}

	return p.allocator.Validate()
}

// BuildStatsString populates the provided json writer with information about
// the pool's configuration, lifetime counters, and free list.
func (p *ResourcePool) BuildStatsString(writer *jwriter.Writer) {
	objState := writer.Object()
	defer objState.End()

	if p.name != "" {
		objState.Name("Name").String(p.name)
	}
	objState.Name("ResourceSize").Int(p.resourceSize)
	objState.Name("AllocationAmount").Int(p.allocationAmount)

	var stats DetailedStatistics
	stats.Clear()
	p.AddDetailedStatistics(&stats)

	objState.Name("Resources").Int(stats.ResourceCount)
	objState.Name("TotalBytes").Int(stats.ResourceBytes)
	objState.Name("Available").Int(stats.AvailableCount)
	objState.Name("Outstanding").Int(stats.OutstandingCount)
	objState.Name("Acquires").Int(stats.AcquireCount)
	objState.Name("Releases").Int(stats.ReleaseCount)
	objState.Name("Growths").Int(stats.GrowthCount)

	freeState := objState.Name("FreeRegions").Array()
	defer freeState.End()

	for i := 0; i < len(p.available); i++ {
		regionObj := freeState.Object()
		regionObj.Name("Start").String(fmt.Sprintf("0x%x", uintptr(p.available[i].Start())))
		regionObj.Name("Size").Int(p.available[i].Size())
		regionObj.End()
	}
}

func (p *ResourcePool) growRegions(amount int) {
	p.logger.Debug("ResourcePool::growRegions",
		slog.String("pool", p.name),
		slog.Int("amount", amount),
		slog.Int("resourceSize", p.resourceSize),
		slog.Int("totalResources", p.allocator.ResourceCount()+amount),
	)

	p.available = slices.Grow(p.available, amount)
	p.allocator.AllocateSlice(p.resourceSize, amount, &p.available)

	p.growthCount++

	DebugValidate(p)
}
