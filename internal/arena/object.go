package arena

import "unsafe"

// Alloc allocates and returns a pointer to a zero-initialized T in the
// arena. The pointer remains valid until the arena is reset or deleted.
func Alloc[T any](a *Arena) *T {
	var zero T
	size := unsafe.Sizeof(zero)
	align := unsafe.Alignof(zero)
	if size == 0 {
		size = 1
	}
	ptr := a.Alloc(uint64(size), uint64(align))
	return (*T)(ptr)
}

// MakeSlice allocates a slice of type T with the given length and capacity
// from the arena. Elements are zero-initialized. The slice remains valid
// until the arena is reset or deleted. It never shrinks on its own; its
// callers (the id→score table, Map's bucket array, skip-list forward
// arrays) replace a slice with a fresh one rather than reclaim capacity.
func MakeSlice[T any](a *Arena, length, capacity int) []T {
	if capacity == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	if size == 0 {
		size = 1
	}
	if uint64(capacity) > (1<<63)/uint64(size) {
		panic("arena: slice allocation size overflow")
	}
	ptr := a.Alloc(uint64(capacity)*uint64(size), 16)
	slice := unsafe.Slice((*T)(ptr), capacity)
	return slice[:length]
}

// MakeString copies s into the arena and returns a string header pointing
// at the copy. Bytes belonging to a removed member simply become
// unreachable garbage within the arena until the whole arena resets —
// there is no piecewise free.
func (a *Arena) MakeString(s string) string {
	if len(s) == 0 {
		return ""
	}
	ptr := a.Alloc(uint64(len(s)), 1)
	dst := unsafe.Slice((*byte)(ptr), len(s))
	copy(dst, s)
	return unsafe.String((*byte)(ptr), len(s))
}
