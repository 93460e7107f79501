package cachebench

import (
	"fmt"
	"unsafe"
)

// Buffer is a byte region whose start address is aligned to a caller-chosen
// boundary. The region is over-allocated by the alignment and the aligned
// window carved out of it, so the garbage collector keeps the backing store
// alive for as long as the Buffer is referenced.
type Buffer struct {
	raw  []byte // full allocation, retained for GC liveness
	data []byte // aligned window of the requested size
}

// NewBuffer allocates size bytes starting at a multiple of align. The
// alignment must be a power of two. Allocation failure is reported as a
// memory error; callers treat it as fatal and never retry.
func NewBuffer(size, align int) (*Buffer, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if align <= 0 || align&(align-1) != 0 {
		return nil, NewInvalidArgError("NewBuffer", "alignment must be a power of two")
	}

	raw, err := allocRaw(size + align)
	if err != nil {
		return nil, err
	}

	base := uintptr(unsafe.Pointer(&raw[0]))
	off := int((uintptr(align) - base%uintptr(align)) % uintptr(align))
	return &Buffer{
		raw:  raw,
		data: raw[off : off+size],
	}, nil
}

// allocRaw converts the runtime's allocation panic into an error so an
// oversized request surfaces at the call site instead of crashing mid-run.
func allocRaw(n int) (buf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = NewMemoryError("NewBuffer", fmt.Sprintf("allocating %d bytes: %v", n, r), nil)
		}
	}()
	return make([]byte, n), nil
}

// Prefault writes one byte into every 4 KiB page so physical pages are
// committed before any timed measurement. The pass itself is untimed.
func (b *Buffer) Prefault() {
	for off := 0; off < len(b.data); off += PageSize {
		b.data[off] = 1
	}
}

// Byte returns the aligned region as a byte slice.
func (b *Buffer) Byte() []byte {
	return b.data
}

// Float64 returns a float64 view of the aligned region, used by the
// bandwidth kernels to stream 8-byte elements.
func (b *Buffer) Float64() []float64 {
	return unsafe.Slice((*float64)(unsafe.Pointer(&b.data[0])), len(b.data)/WordSize)
}

// Uint64 returns a uint64 view of the aligned region, used by the latency
// chase to store each node's next-offset in the buffer itself.
func (b *Buffer) Uint64() []uint64 {
	return unsafe.Slice((*uint64)(unsafe.Pointer(&b.data[0])), len(b.data)/WordSize)
}

// Len returns the usable (aligned) size in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Addr returns the start address of the aligned region.
func (b *Buffer) Addr() uintptr {
	return uintptr(unsafe.Pointer(&b.data[0]))
}
