package arena

import (
	"hash/maphash"
	"iter"
	"unsafe"
)

const initialBucketCount = 16

// Map is a zero-GC hash map backed by an Arena, used by the string pool to
// look up an interned name's id. It is single-threaded: callers that need
// concurrent access must provide their own synchronization, the way the
// keyspace layer guards each score set with its own lock.
type Map[K comparable, V any] struct {
	arena   *Arena
	buckets []*entry[K, V]
	count   int
	mask    uint64
	seed    maphash.Seed
}

type entry[K comparable, V any] struct {
	hash uint64
	key  K
	val  V
	next *entry[K, V]
}

// NewMap creates a new Map whose entries and bucket array live in a.
func NewMap[K comparable, V any](a *Arena) *Map[K, V] {
	return &Map[K, V]{
		arena:   a,
		buckets: MakeSlice[*entry[K, V]](a, initialBucketCount, initialBucketCount),
		mask:    uint64(initialBucketCount - 1),
		seed:    maphash.MakeSeed(),
	}
}

func (m *Map[K, V]) hash(key K) uint64 {
	var h maphash.Hash
	h.SetSeed(m.seed)

	switch v := any(key).(type) {
	case string:
		h.WriteString(v)
	case int:
		writeBytes(&h, unsafe.Pointer(&v), unsafe.Sizeof(v))
	case int32:
		writeBytes(&h, unsafe.Pointer(&v), unsafe.Sizeof(v))
	case uint32:
		writeBytes(&h, unsafe.Pointer(&v), unsafe.Sizeof(v))
	case uint64:
		writeBytes(&h, unsafe.Pointer(&v), unsafe.Sizeof(v))
	default:
		writeBytes(&h, unsafe.Pointer(&key), unsafe.Sizeof(key))
	}

	return h.Sum64()
}

func writeBytes(h *maphash.Hash, ptr unsafe.Pointer, size uintptr) {
	h.Write(unsafe.Slice((*byte)(ptr), size))
}

// Set inserts or updates a key-value pair.
func (m *Map[K, V]) Set(key K, value V) {
	if m.count > len(m.buckets)*3/4 {
		m.grow()
	}

	hash := m.hash(key)
	index := hash & m.mask

	for e := m.buckets[index]; e != nil; e = e.next {
		if e.hash == hash && e.key == key {
			e.val = value
			return
		}
	}

	item := Alloc[entry[K, V]](m.arena)
	*item = entry[K, V]{hash: hash, key: key, val: value, next: m.buckets[index]}
	m.buckets[index] = item
	m.count++
}

// Get returns the value for key and whether it was found.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if len(m.buckets) == 0 {
		var zero V
		return zero, false
	}
	hash := m.hash(key)
	for e := m.buckets[hash&m.mask]; e != nil; e = e.next {
		if e.hash == hash && e.key == key {
			return e.val, true
		}
	}
	var zero V
	return zero, false
}

// Delete removes key from the map, unlinking its chain entry. The entry's
// arena bytes are not reclaimed — they become garbage until the arena is
// reset, the same contract as every other arena allocation here.
func (m *Map[K, V]) Delete(key K) {
	if len(m.buckets) == 0 {
		return
	}
	hash := m.hash(key)
	index := hash & m.mask

	var prev *entry[K, V]
	for curr := m.buckets[index]; curr != nil; curr = curr.next {
		if curr.hash == hash && curr.key == key {
			if prev == nil {
				m.buckets[index] = curr.next
			} else {
				prev.next = curr.next
			}
			m.count--
			return
		}
		prev = curr
	}
}

// Range calls f for each entry; iteration stops early if f returns false.
func (m *Map[K, V]) Range(f func(K, V) bool) {
	for _, head := range m.buckets {
		for e := head; e != nil; e = e.next {
			if !f(e.key, e.val) {
				return
			}
		}
	}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return m.count
}

func (m *Map[K, V]) grow() {
	old := m.buckets
	ncap := len(old) * 2
	if ncap < initialBucketCount {
		ncap = initialBucketCount
	}

	m.buckets = MakeSlice[*entry[K, V]](m.arena, ncap, ncap)
	m.mask = uint64(ncap - 1)

	for _, head := range old {
		for e := head; e != nil; {
			next := e.next
			index := e.hash & m.mask
			e.next = m.buckets[index]
			m.buckets[index] = e
			e = next
		}
	}
}

// Reset clears every entry while keeping the bucket array's capacity.
func (m *Map[K, V]) Reset() {
	for i := range m.buckets {
		m.buckets[i] = nil
	}
	m.count = 0
}

// Keys returns an iterator over all keys.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		m.Range(func(k K, _ V) bool { return yield(k) })
	}
}

// Values returns an iterator over all values.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		m.Range(func(_ K, v V) bool { return yield(v) })
	}
}

// All returns an iterator over all key-value pairs.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.Range(yield)
	}
}
