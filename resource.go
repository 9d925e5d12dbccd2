package mempool

import (
	"unsafe"

	"github.com/pkg/errors"
)

// Resource is an owning allocation of exactly one contiguous byte buffer of
// fixed size. The buffer is exposed to consumers only as a Region view, never
// as a second Resource- there is exactly one owner for any buffer, and that
// owner is responsible for keeping the Resource live for as long as any
// Region into it is in use.
//
// Resource values are not meant to be copied. Copying one does not copy the
// buffer, it aliases it, and an aliased Free leaves the other copy pointing
// at released memory. The bulk allocator in this package keeps every Resource
// it creates inside its own retained store for exactly this reason.
//
// The zero-value Resource is the empty state: no buffer, size zero, Free is a
// no-op.
type Resource struct {
	buf  []byte
	size int
}

// NewResource allocates a Resource of exactly size usable bytes. A zero size
// is a contract violation and panics- a zero-size resource can never be
// written to and is never useful to a pool.
//
// When the debug_mem_pool build tag is present, DebugMargin extra bytes are
// allocated past the usable span and filled with a corruption-detection
// marker that CheckCorruption verifies.
func NewResource(size int) Resource {
	if size == 0 {
		panic("attempted to allocate a zero-size resource")
	}

	resource := Resource{
		buf:  make([]byte, size+DebugMargin),
		size: size,
	}

	if DebugMargin > 0 {
		WriteMagicValue(resource.Pointer(), size)
	}

	return resource
}

// Region returns a non-owning view of the full usable span of the buffer.
func (r *Resource) Region() Region {
	if r.buf == nil {
		return Region{}
	}

	start := unsafe.Pointer(&r.buf[0])
	return NewRegion(start, unsafe.Add(start, r.size))
}

// UnsafeWriter returns an unchecked write cursor at the start of the buffer.
// This should only really be used for fixed-layout writes whose total size
// was validated against Size ahead of time- prefer a BoundedWriter over the
// Region view.
func (r *Resource) UnsafeWriter() UnsafeWriter {
	if r.buf == nil {
		return UnsafeWriter{}
	}

	return NewUnsafeWriter(unsafe.Pointer(&r.buf[0]))
}

// Pointer returns a pointer to the first byte of the buffer, or nil for the
// empty state.
func (r *Resource) Pointer() unsafe.Pointer {
	if r.buf == nil {
		return nil
	}

	return unsafe.Pointer(&r.buf[0])
}

// Size returns the usable size of the buffer in bytes.
func (r *Resource) Size() int { return r.size }

// IsNil returns true if this Resource is in the empty state.
func (r *Resource) IsNil() bool { return r.buf == nil }

// Free releases the buffer and returns the Resource to the empty state. Any
// Region still pointing into the buffer becomes invalid. Freeing an empty
// Resource is a no-op, so Free is safe to call exactly once per buffer no
// matter how the Resource reached its current owner.
func (r *Resource) Free() {
	r.buf = nil
	r.size = 0
}

// CheckCorruption verifies that the corruption-detection marker past the
// usable span is intact, returning an error if a write overran the span.
//
// Bear in mind that the marker is only written when this package is built
// with the debug_mem_pool build tag. Without that tag this method always
// returns nil.
func (r *Resource) CheckCorruption() error {
	if DebugMargin == 0 || r.buf == nil {
		return nil
	}

	if !ValidateMagicValue(r.Pointer(), r.size) {
		return errors.Errorf("memory corruption detected past the end of a %d-byte resource", r.size)
	}

	return nil
}

// Validate performs internal consistency checks on the Resource. When this
// package is functioning correctly, it should not be possible for this method
// to return an error.
func (r *Resource) Validate() error {
	if r.buf == nil && r.size != 0 {
		return errors.Errorf("the resource has no buffer but claims a size of %d bytes", r.size)
	}

	if r.buf != nil && r.size == 0 {
		return errors.New("the resource has a buffer but claims a size of zero bytes")
	}

	if r.buf != nil && len(r.buf) != r.size+DebugMargin {
		return errors.Errorf("the resource's buffer is %d bytes but its size and debug margin require %d", len(r.buf), r.size+DebugMargin)
	}

	return nil
}
