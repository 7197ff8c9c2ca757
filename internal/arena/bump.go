package arena

import (
	"unsafe"
)

// BumpAllocator is a monotonically growing allocator: each Alloc call
// advances an offset into the current chunk, falling through to a fresh
// chunk when the current one is exhausted. Individual allocations are
// never freed; the whole arena resets or is deleted at once.
type BumpAllocator struct {
	chunks  [][]byte
	current int
	offset  int
}

// NewBumpAllocator creates a new bump allocator with an initial chunk of the given size.
func NewBumpAllocator(size int) *BumpAllocator {
	return &BumpAllocator{
		chunks: [][]byte{MakePages(size)},
	}
}

// Alloc allocates memory of the specified size and alignment, growing the
// arena with a fresh chunk when the current one cannot satisfy the request.
// Pointers returned by Alloc become invalid after Reset() or Delete().
func (b *BumpAllocator) Alloc(size, align uint64) unsafe.Pointer {
	aligned := (b.offset + int(align-1)) &^ int(align-1)
	if aligned+int(size) > len(b.chunks[b.current]) {
		if b.current+1 >= len(b.chunks) {
			sz := max(int(size), len(b.chunks[0]))
			b.chunks = append(b.chunks, MakePages(sz))
		}
		b.current++
		b.offset = 0
		aligned = 0
	}
	ptr := unsafe.Pointer(&b.chunks[b.current][aligned])
	b.offset = aligned + int(size)
	return ptr
}

// Reset rewinds the allocator to its initial state, allowing reuse of the
// already-mapped pages. All previously allocated pointers become invalid.
func (b *BumpAllocator) Reset() {
	b.current, b.offset = 0, 0
}

// Delete releases every chunk back to the OS. The allocator must not be
// used afterward.
func (b *BumpAllocator) Delete() {
	for _, c := range b.chunks {
		ReleasePages(c)
	}
	b.chunks = nil
}

// Bytes returns the total capacity of every chunk this allocator has
// mapped, live or not yet bumped into — the probed chunk-capacity sum
// used for host-facing memory accounting.
func (b *BumpAllocator) Bytes() int64 {
	var total int64
	for _, c := range b.chunks {
		total += int64(len(c))
	}
	return total
}

// Owns reports whether ptr falls within a chunk owned by this allocator.
func (b *BumpAllocator) Owns(ptr unsafe.Pointer) bool {
	if ptr == nil {
		return false
	}
	ptrAddr := uintptr(ptr)
	for _, chunk := range b.chunks {
		if len(chunk) == 0 {
			continue
		}
		start := uintptr(unsafe.Pointer(&chunk[0]))
		end := start + uintptr(len(chunk))
		if ptrAddr >= start && ptrAddr < end {
			return true
		}
	}
	return false
}
