package dynamic

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/pavanmanishd/dynamic/internal/mmap"
)

// Allocator supplies the raw byte blocks handed out by Malloc, Calloc and
// Realloc.
type Allocator interface {
	// Allocate returns a zeroed block of exactly size bytes.
	Allocate(size int) ([]byte, error)
	// Free returns a block obtained from Allocate.
	Free(b []byte) error
}

// HeapAllocator allocates from the Go heap. Free is a no-op; the garbage
// collector reclaims released blocks.
type HeapAllocator struct{}

func (HeapAllocator) Allocate(size int) ([]byte, error) { return make([]byte, size), nil }

func (HeapAllocator) Free([]byte) error { return nil }

// MmapAllocator allocates anonymous private mappings outside the Go heap.
// Released blocks are unmapped immediately, so they must not be touched
// after their frame is collected.
type MmapAllocator struct{}

func (MmapAllocator) Allocate(size int) ([]byte, error) { return mmap.Alloc(size) }

func (MmapAllocator) Free(b []byte) error { return mmap.Free(b) }

func addrOf(b []byte) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(b))
}

// allocRaw obtains size bytes from the allocator and registers the block so
// the default ReleaseFunc can find it by address.
func (st *Stack) allocRaw(op string, size int) ([]byte, error) {
	if err := st.reserve(size); err != nil {
		return nil, st.fail(op, err)
	}
	b, err := st.alloc.Allocate(size)
	if err != nil {
		st.unreserve(size)
		return nil, st.fail(op, err)
	}
	st.raw[addrOf(b)] = b
	return b, nil
}

// freeRaw is the default ReleaseFunc. Addresses that were not obtained from
// this stack's allocator are ignored.
func (st *Stack) freeRaw(p unsafe.Pointer) {
	st.releaseRaw(p)
}

// releaseRaw frees the raw block at p and reports whether there was one.
func (st *Stack) releaseRaw(p unsafe.Pointer) bool {
	b, ok := st.raw[p]
	if !ok {
		return false
	}
	delete(st.raw, p)
	st.unreserve(len(b))
	if err := st.alloc.Free(b); err != nil {
		st.log.Error("free failed", "addr", p, "err", err)
	}
	return true
}

// Malloc returns size bytes tracked in the current frame.
// Returns nil if size <= 0 or the allocation fails.
func (st *Stack) Malloc(size int) []byte {
	if size <= 0 {
		return nil
	}
	b, err := st.allocRaw("Malloc", size)
	if err != nil {
		return nil
	}
	st.Track(addrOf(b), nil)
	return b
}

// Calloc returns count*size zeroed bytes tracked in the current frame.
// Returns nil if either argument is negative or the product overflows.
func (st *Stack) Calloc(count, size int) []byte {
	if count < 0 || size < 0 {
		return nil
	}
	if size != 0 && count > math.MaxInt/size {
		st.fail("Calloc", fmt.Errorf("calloc %d x %d bytes: %w", count, size, ErrOutOfMemory))
		return nil
	}
	b := st.Malloc(count * size)
	clear(b)
	return b
}

// Realloc resizes b, which must come from Malloc, Calloc or Realloc on st.
// The contents are preserved up to the smaller size. If b is tracked in the
// top frame, its record follows the new block. On failure b is returned
// unchanged. A nil b behaves like Malloc; size <= 0 frees b and returns nil.
func (st *Stack) Realloc(b []byte, size int) []byte {
	if b == nil {
		return st.Malloc(size)
	}
	old := addrOf(b)
	if size <= 0 {
		st.Free(b)
		return nil
	}
	nb, err := st.allocRaw("Realloc", size)
	if err != nil {
		return b
	}
	copy(nb, b)
	st.rewrite(old, addrOf(nb))
	st.freeRaw(old)
	return nb
}

// Free releases a raw block immediately and drops it from the top frame.
func (st *Stack) Free(b []byte) {
	p := addrOf(b)
	if p == nil {
		return
	}
	st.forget(p)
	if st.releaseRaw(p) {
		st.stats.freed++
	}
}
