package mempool

import (
	"unsafe"

	"github.com/pkg/errors"
)

// BoundedWriter is a sequential write cursor over a Region that refuses to
// write past the Region's end. Every write is all-or-nothing: a write that
// would overflow the remaining space copies nothing, leaves the cursor where
// it was, and returns false. Overflow is the only condition a consumer is
// expected to branch on- everything else in this package that can go wrong is
// a contract violation and panics.
//
// The zero-value BoundedWriter wraps the empty Region and fails every
// non-empty write.
type BoundedWriter struct {
	region     Region
	writeStart unsafe.Pointer
}

// NewBoundedWriter creates a BoundedWriter with its cursor at the start of
// the destination Region.
func NewBoundedWriter(destination Region) BoundedWriter {
	return BoundedWriter{
		region:     destination,
		writeStart: destination.start,
	}
}

// Region returns the Region this writer writes into.
func (w *BoundedWriter) Region() Region { return w.region }

// Write copies all of src to the cursor and advances the cursor by len(src).
// It returns false, copies nothing, and leaves the cursor unmoved if fewer
// than len(src) bytes remain.
func (w *BoundedWriter) Write(src []byte) bool {
	if len(src) == 0 {
		return true
	}

	return w.writeRaw(unsafe.Pointer(&src[0]), len(src))
}

// BytesRemaining returns the number of bytes that can still be written before
// the cursor reaches the end of the region.
func (w *BoundedWriter) BytesRemaining() int {
	return int(uintptr(w.region.end) - uintptr(w.writeStart))
}

// BytesWritten returns the number of bytes written since the writer was
// created or last reset.
func (w *BoundedWriter) BytesWritten() int {
	return int(uintptr(w.writeStart) - uintptr(w.region.start))
}

// Reset rewinds the cursor to the start of the region so the same backing
// memory can be filled again, for instance after a downstream reader has
// consumed the previous contents.
func (w *BoundedWriter) Reset() {
	w.writeStart = w.region.start
}

// Validate performs internal consistency checks on the writer. When the
// writer is functioning correctly, it should not be possible for this method
// to return an error.
func (w *BoundedWriter) Validate() error {
	err := w.region.Validate()
	if err != nil {
		return err
	}

	if uintptr(w.writeStart) < uintptr(w.region.start) {
		return errors.New("the write cursor precedes the start of the region")
	}

	if uintptr(w.writeStart) > uintptr(w.region.end) {
		return errors.New("the write cursor has moved past the end of the region")
	}

	return nil
}

func (w *BoundedWriter) writeRaw(src unsafe.Pointer, amount int) bool {
	writeEnd := unsafe.Add(w.writeStart, amount)
	if uintptr(writeEnd) > uintptr(w.region.end) {
		return false
	}

	copy(unsafe.Slice((*byte)(w.writeStart), amount), unsafe.Slice((*byte)(src), amount))
	w.writeStart = writeEnd

	return true
}

// WriteObject copies the in-memory representation of object to the writer's
// cursor. Objects containing pointers can be copied this way, but the result
// is rarely meaningful to whatever consumes the region- this is intended for
// flat structs headed to a device or the wire.
func WriteObject[T any](w *BoundedWriter, object T) bool {
	return w.writeRaw(unsafe.Pointer(&object), int(unsafe.Sizeof(object)))
}

// WriteSlice copies the in-memory representation of every element of slice,
// in order, to the writer's cursor. The write is all-or-nothing across the
// entire slice.
func WriteSlice[T any](w *BoundedWriter, slice []T) bool {
	if len(slice) == 0 {
		return true
	}

	return w.writeRaw(unsafe.Pointer(&slice[0]), len(slice)*int(unsafe.Sizeof(slice[0])))
}
