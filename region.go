package mempool

import (
	"unsafe"

	"github.com/pkg/errors"
)

// Region describes a contiguous span of bytes somewhere in memory. It is a
// plain value: copying a Region copies the description of the span, never the
// bytes, and a Region carries no ownership of the memory it points into. A
// Region is only valid for as long as the Resource backing it remains live-
// for Regions handed out by a ResourcePool, that is the lifetime of the pool
// itself.
//
// The zero-value Region is the empty sentinel. It is never returned by
// ResourcePool.Acquire.
type Region struct {
	start unsafe.Pointer
	end   unsafe.Pointer
}

// NewRegion creates a Region spanning [start, end). The caller is responsible
// for keeping start <= end and for keeping both pointers inside a single live
// allocation- Region does not check either.
func NewRegion(start, end unsafe.Pointer) Region {
	return Region{
		start: start,
		end:   end,
	}
}

// RegionWithSize creates a Region spanning size bytes beginning at start.
func RegionWithSize(start unsafe.Pointer, size int) Region {
	return NewRegion(start, unsafe.Add(start, size))
}

// Start returns a pointer to the first byte of the span.
func (r Region) Start() unsafe.Pointer { return r.start }

// End returns a pointer one past the last byte of the span.
func (r Region) End() unsafe.Pointer { return r.end }

// Size returns the number of bytes in the span.
func (r Region) Size() int {
	return int(uintptr(r.end) - uintptr(r.start))
}

// IsEmpty returns true for the zero-value sentinel and for zero-sized spans.
func (r Region) IsEmpty() bool {
	return r.start == r.end
}

// Bytes returns a slice aliasing the span. Writes through the slice are
// writes to the underlying Resource memory.
func (r Region) Bytes() []byte {
	if r.start == nil {
		return nil
	}

	return unsafe.Slice((*byte)(r.start), r.Size())
}

// Validate performs internal consistency checks on the Region. When the
// consumer is holding up its side of the Region contract, it should not be
// possible for this method to return an error.
func (r Region) Validate() error {
	if r.start == nil && r.end != nil {
		return errors.New("the region has an end pointer but no start pointer")
	}

	if uintptr(r.end) < uintptr(r.start) {
		return errors.Errorf("the region's end pointer 0x%x precedes its start pointer 0x%x", uintptr(r.end), uintptr(r.start))
	}

	return nil
}
