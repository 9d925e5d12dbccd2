package mempool

import "github.com/pkg/errors"

// ResourceAllocator bulk-allocates Resources and retains ownership of every
// Resource it has ever created. Consumers receive Region views only- the
// backing buffers stay live until Free is called on the allocator itself.
type ResourceAllocator struct {
	resources []Resource
}

// AllocateSlice allocates amount new Resources of resourceSize bytes each
// into the allocator's retained store and appends their Region views, in
// allocation order, to dest. Each appended Region is backed by its own fresh
// buffer, so no Region appended by one call can alias a Region appended by
// another.
//
// An amount of zero appends nothing. Growth logic should never ask for zero
// regions, but this is an internal seam rather than a validated entry point
// and tolerating it is cheaper than asserting on it.
func (a *ResourceAllocator) AllocateSlice(resourceSize, amount int, dest *[]Region) {
	for i := 0; i < amount; i++ {
		resource := NewResource(resourceSize)
		a.resources = append(a.resources, resource)

		*dest = append(*dest, a.resources[len(a.resources)-1].Region())
	}
}

// ResourceCount returns the number of Resources the allocator has created and
// still owns.
func (a *ResourceAllocator) ResourceCount() int {
	return len(a.resources)
}

// TotalBytes returns the combined usable size of every owned Resource.
func (a *ResourceAllocator) TotalBytes() int {
	total := 0
	for i := 0; i < len(a.resources); i++ {
		total += a.resources[i].Size()
	}

	return total
}

// CheckCorruption verifies the corruption-detection markers of every owned
// Resource. See Resource.CheckCorruption for the build-tag caveats.
func (a *ResourceAllocator) CheckCorruption() error {
	for i := 0; i < len(a.resources); i++ {
		err := a.resources[i].CheckCorruption()
		if err != nil {
			return errors.Wrapf(err, "resource %d", i)
		}
	}

	return nil
}

// Free releases every owned Resource, invalidating every Region the allocator
// has ever handed out.
func (a *ResourceAllocator) Free() {
	for i := 0; i < len(a.resources); i++ {
		a.resources[i].Free()
	}

	a.resources = nil
}

// Validate performs internal consistency checks on the allocator and every
// owned Resource. When this package is functioning correctly, it should not
// be possible for this method to return an error.
func (a *ResourceAllocator) Validate() error {
	for i := 0; i < len(a.resources); i++ {
		if a.resources[i].IsNil() {
			return errors.Errorf("resource %d has been freed while the allocator is still live", i)
		}

		err := a.resources[i].Validate()
		if err != nil {
			return errors.Wrapf(err, "resource %d", i)
		}
	}

	return nil
}
