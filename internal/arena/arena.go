// Package arena provides a zero-GC bump allocator used to back the
// structures that must never shrink their backing storage: the score
// set's interned-name bytes and its dense id→score table.
//
// Memory Model:
//   - All memory is allocated via mmap and lives outside Go's garbage collector
//   - Memory is never returned to the OS until Delete() is called
//   - Reset() clears allocations but retains underlying memory pages
//
// A bump allocator is the only strategy kept from the arena toolkit this
// package started life as: the score set's growth is monotonic (ids are
// never compacted, name bytes are never edited in place), so there is
// never a need to free an individual allocation — only to grow and,
// occasionally, to reset the whole arena at once.
package arena

import (
	"syscall"
	"unsafe"
)

// Arena is a single growable bump region.
type Arena struct {
	raw *BumpAllocator
}

// New creates an arena. pages == 0 → 1 page (4 KiB default).
func New(pages int) *Arena {
	if pages <= 0 {
		pages = 1
	}
	size := pages * syscall.Getpagesize()
	return &Arena{raw: NewBumpAllocator(size)}
}

// Reset clears all allocations but keeps the underlying pages for reuse.
// Every pointer previously handed out becomes invalid.
func (a *Arena) Reset() {
	a.raw.Reset()
}

// Delete releases the arena's pages back to the OS. The arena must not be
// used afterward.
func (a *Arena) Delete() {
	a.raw.Delete()
}

// Bytes returns the total capacity of every chunk this arena has mapped.
func (a *Arena) Bytes() int64 {
	return a.raw.Bytes()
}

// Owns reports whether ptr was allocated by this arena.
func (a *Arena) Owns(ptr unsafe.Pointer) bool {
	return a.raw.Owns(ptr)
}

// Alloc reserves size bytes aligned to align from the arena.
func (a *Arena) Alloc(size, align uint64) unsafe.Pointer {
	return a.raw.Alloc(size, align)
}
