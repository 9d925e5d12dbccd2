package mempool

import "unsafe"

// UnsafeWriter is a sequential write cursor with no bounds checking at all.
// Every write advances the cursor by exactly the amount written, whether or
// not the destination had room for it.
//
// It exists for fixed-layout serialization into a destination whose size the
// caller has already proven sufficient, where the BoundedWriter's per-write
// comparison is pure overhead. If you are not certain you need it, use
// BoundedWriter.
type UnsafeWriter struct {
	writeDest unsafe.Pointer
}

// NewUnsafeWriter creates an UnsafeWriter with its cursor at start.
func NewUnsafeWriter(start unsafe.Pointer) UnsafeWriter {
	return UnsafeWriter{writeDest: start}
}

// IsValid returns false for the zero-value writer, which has nowhere to write.
func (w *UnsafeWriter) IsValid() bool {
	return w.writeDest != nil
}

// Write copies all of src to the cursor and advances the cursor by len(src).
func (w *UnsafeWriter) Write(src []byte) {
	if len(src) == 0 {
		return
	}

	copy(unsafe.Slice((*byte)(w.writeDest), len(src)), src)
	w.writeDest = unsafe.Add(w.writeDest, len(src))
}

// WriteString copies the bytes of src to the cursor and advances the cursor
// by len(src). No terminator is written.
func (w *UnsafeWriter) WriteString(src string) {
	if len(src) == 0 {
		return
	}

	copy(unsafe.Slice((*byte)(w.writeDest), len(src)), src)
	w.writeDest = unsafe.Add(w.writeDest, len(src))
}

// Pointer returns the cursor's current position.
func (w *UnsafeWriter) Pointer() unsafe.Pointer {
	return w.writeDest
}
