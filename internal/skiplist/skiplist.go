// Package skiplist provides an arena-backed ordered map with double-ended
// iteration, generalized from a native-operator skip list into one driven
// by an injected comparator. The score map's comparator is plain `<` over
// ScoreKey; NaN exclusion and the −0.0→+0.0 collapse happen before a key
// reaches the list, in the caller and in scoremap.NewScoreKey.
package skiplist

import (
	"unsafe"

	"github.com/vitarb/gzset-go/internal/arena"
)

const (
	maxLevel    = 16
	probability = 0.5
)

// Less reports whether a orders strictly before b. Implementations must be
// a strict weak ordering; ties are broken by insertion not being permitted
// (Insert on an existing key updates the value in place).
type Less[K any] func(a, b K) bool

// rng is a tiny xorshift generator private to this package, avoiding a
// shared math/rand source between concurrently-built skip lists (each
// ScoreSet owns one skip list and is used single-threaded, per the
// package's contract, but a shared global rand.Source still serializes
// unrelated ScoreSets against each other under the default lock-protected
// global source).
type rng struct{ state uint64 }

func newRNG(seed uint64) *rng {
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	return &rng{state: seed}
}

func (r *rng) next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x
}

func (r *rng) randomLevel() int {
	level := 0
	for level < maxLevel && float64(r.next()%1_000_000)/1_000_000 < probability {
		level++
	}
	return level
}

type node[K any, V any] struct {
	key     K
	value   V
	level   int
	forward []*node[K, V]
	prev    *node[K, V]
}

// SkipList is a single-threaded, arena-backed ordered map. Callers needing
// concurrent access must synchronize externally, matching the engine's
// single-writer-per-key concurrency model.
type SkipList[K any, V any] struct {
	arena *arena.Arena
	less  Less[K]
	head  *node[K, V]
	tail  *node[K, V]
	level int
	count int
	rng   *rng
}

// New creates a skip list backed by a, ordered by less.
func New[K any, V any](a *arena.Arena, less Less[K]) *SkipList[K, V] {
	head := arena.Alloc[node[K, V]](a)
	head.level = maxLevel
	head.forward = arena.MakeSlice[*node[K, V]](a, maxLevel+1, maxLevel+1)

	return &SkipList[K, V]{
		arena: a,
		less:  less,
		head:  head,
		rng:   newRNG(pointerSeed(unsafe.Pointer(head))),
	}
}

// pointerSeed derives a per-instance seed from a pointer value without
// depending on time or math/rand's global source.
func pointerSeed(p unsafe.Pointer) uint64 {
	x := uint64(uintptr(p))
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	return x
}

func (sl *SkipList[K, V]) findPredecessors(key K) [maxLevel + 1]*node[K, V] {
	var update [maxLevel + 1]*node[K, V]
	x := sl.head
	for i := sl.level; i >= 0; i-- {
		for x.forward[i] != nil && sl.less(x.forward[i].key, key) {
			x = x.forward[i]
		}
		update[i] = x
	}
	return update
}

// Search returns the value stored at key, if any.
func (sl *SkipList[K, V]) Search(key K) (V, bool) {
	update := sl.findPredecessors(key)
	x := update[0].forward[0]
	if x != nil && !sl.less(key, x.key) && !sl.less(x.key, key) {
		return x.value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present.
func (sl *SkipList[K, V]) Contains(key K) bool {
	_, ok := sl.Search(key)
	return ok
}

func (sl *SkipList[K, V]) equal(a, b K) bool {
	return !sl.less(a, b) && !sl.less(b, a)
}

// Insert adds or updates the value at key, returning true if a new node
// was created (as opposed to updating an existing one).
func (sl *SkipList[K, V]) Insert(key K, value V) bool {
	update := sl.findPredecessors(key)
	x := update[0].forward[0]
	if x != nil && sl.equal(x.key, key) {
		x.value = value
		return false
	}

	level := sl.rng.randomLevel()
	if level > sl.level {
		for i := sl.level + 1; i <= level; i++ {
			update[i] = sl.head
		}
		sl.level = level
	}

	n := arena.Alloc[node[K, V]](sl.arena)
	n.key = key
	n.value = value
	n.level = level
	n.forward = arena.MakeSlice[*node[K, V]](sl.arena, level+1, level+1)

	for i := 0; i <= level; i++ {
		n.forward[i] = update[i].forward[i]
		update[i].forward[i] = n
	}

	if update[0] != sl.head {
		n.prev = update[0]
	}
	if n.forward[0] != nil {
		n.forward[0].prev = n
	} else {
		sl.tail = n
	}

	sl.count++
	return true
}

// GetOrInsertWith returns the value at key, inserting the result of
// makeValue() if key is absent.
func (sl *SkipList[K, V]) GetOrInsertWith(key K, makeValue func() V) (V, bool) {
	if v, ok := sl.Search(key); ok {
		return v, false
	}
	v := makeValue()
	sl.Insert(key, v)
	return v, true
}

// Delete removes key, reporting whether it was present.
func (sl *SkipList[K, V]) Delete(key K) bool {
	update := sl.findPredecessors(key)
	x := update[0].forward[0]
	if x == nil || !sl.equal(x.key, key) {
		return false
	}

	for i := 0; i <= sl.level; i++ {
		if update[i].forward[i] != x {
			continue
		}
		update[i].forward[i] = x.forward[i]
	}

	if x.forward[0] != nil {
		x.forward[0].prev = x.prev
	} else {
		sl.tail = x.prev
	}

	for sl.level > 0 && sl.head.forward[sl.level] == nil {
		sl.level--
	}
	sl.count--
	return true
}

// Len returns the number of entries.
func (sl *SkipList[K, V]) Len() int {
	return sl.count
}

// First returns the smallest key and its value.
func (sl *SkipList[K, V]) First() (K, V, bool) {
	if x := sl.head.forward[0]; x != nil {
		return x.key, x.value, true
	}
	var zk K
	var zv V
	return zk, zv, false
}

// Last returns the largest key and its value.
func (sl *SkipList[K, V]) Last() (K, V, bool) {
	if sl.tail != nil {
		return sl.tail.key, sl.tail.value, true
	}
	var zk K
	var zv V
	return zk, zv, false
}

// Seek returns the first entry with key' >= key (in less-order).
func (sl *SkipList[K, V]) Seek(key K) (K, V, bool) {
	update := sl.findPredecessors(key)
	x := update[0].forward[0]
	if x == nil {
		var zk K
		var zv V
		return zk, zv, false
	}
	return x.key, x.value, true
}

// Range calls f for every entry with key >= lo, in ascending order, until
// f returns false.
func (sl *SkipList[K, V]) Range(lo K, f func(K, V) bool) {
	update := sl.findPredecessors(lo)
	for x := update[0].forward[0]; x != nil; x = x.forward[0] {
		if !f(x.key, x.value) {
			return
		}
	}
}

// All calls f for every entry in ascending order.
func (sl *SkipList[K, V]) All(f func(K, V) bool) {
	for x := sl.head.forward[0]; x != nil; x = x.forward[0] {
		if !f(x.key, x.value) {
			return
		}
	}
}

// Backward calls f for every entry in descending order, starting from the
// tail — the teacher's skip list has no equivalent; this is the whole
// reason the level-0 chain carries prev pointers here.
func (sl *SkipList[K, V]) Backward(f func(K, V) bool) {
	for x := sl.tail; x != nil; x = x.prev {
		if !f(x.key, x.value) {
			return
		}
	}
}

// Cursor is a resumable, double-ended position into the skip list's
// level-0 chain.
type Cursor[K any, V any] struct {
	node *node[K, V]
}

// At returns a cursor positioned at the first entry with key' >= key.
func (sl *SkipList[K, V]) At(key K) Cursor[K, V] {
	update := sl.findPredecessors(key)
	return Cursor[K, V]{node: update[0].forward[0]}
}

// Begin returns a cursor at the smallest entry.
func (sl *SkipList[K, V]) Begin() Cursor[K, V] {
	return Cursor[K, V]{node: sl.head.forward[0]}
}

// End returns a cursor at the largest entry.
func (sl *SkipList[K, V]) End() Cursor[K, V] {
	return Cursor[K, V]{node: sl.tail}
}

// Valid reports whether the cursor references a live entry.
func (c Cursor[K, V]) Valid() bool { return c.node != nil }

// KeyValue returns the entry the cursor references.
func (c Cursor[K, V]) KeyValue() (K, V) {
	return c.node.key, c.node.value
}

// Next advances the cursor forward.
func (c Cursor[K, V]) Next() Cursor[K, V] {
	if c.node == nil {
		return c
	}
	return Cursor[K, V]{node: c.node.forward[0]}
}

// Prev moves the cursor backward.
func (c Cursor[K, V]) Prev() Cursor[K, V] {
	if c.node == nil {
		return c
	}
	return Cursor[K, V]{node: c.node.prev}
}
