// Package scoremap provides the ordered score→bucket index: a skip list
// keyed by ScoreKey (a NaN-free, sign-normalized float64 total order),
// plus the structural memory-accounting formula the grounding source uses
// to approximate a B-tree's node footprint, since Go's skip list does not
// group entries into fixed-capacity nodes the way the original's BTreeMap
// does. The formula is kept exactly so MemBytes() stays comparable across
// ports: it prices the index as if it were still node-packed, not as the
// skip list's actual per-node allocation.
package scoremap

import (
	"github.com/vitarb/gzset-go/internal/arena"
	"github.com/vitarb/gzset-go/internal/skiplist"
	"github.com/vitarb/gzset-go/internal/types"
)

// NodeCap and NodeHdr mirror the grounding source's B-tree node
// parameters: capacity of keys per node and per-node header overhead.
const (
	NodeCap = 11
	NodeHdr = 48

	keySize    = 8 // float64
	valueSize  = 4 // types.BucketID
	mapNodeSize = NodeHdr + NodeCap*(keySize+valueSize)
)

// ScoreKey is a float64 with a strict total order: NaN must never reach
// it (enforced by the caller before insertion), and -0.0 is normalized to
// +0.0 so the two compare equal and hash identically.
type ScoreKey float64

// NewScoreKey normalizes f for use as a ScoreKey.
func NewScoreKey(f float64) ScoreKey {
	if f == 0 {
		return 0
	}
	return ScoreKey(f)
}

func less(a, b ScoreKey) bool { return a < b }

// Cursor is a resumable, double-ended position into the score map.
type Cursor = skiplist.Cursor[ScoreKey, types.BucketID]

// Map is the arena-backed ordered score→bucket index.
type Map struct {
	sl *skiplist.SkipList[ScoreKey, types.BucketID]
}

// New creates an empty score map backed by a.
func New(a *arena.Arena) *Map {
	return &Map{sl: skiplist.New[ScoreKey, types.BucketID](a, less)}
}

// Get returns the bucket for score, if any.
func (m *Map) Get(score ScoreKey) (types.BucketID, bool) { return m.sl.Search(score) }

// Insert adds or updates the bucket mapped to score, reporting whether a
// new entry was created.
func (m *Map) Insert(score ScoreKey, bucket types.BucketID) bool {
	return m.sl.Insert(score, bucket)
}

// GetOrInsertWith returns the bucket at score, allocating one via
// makeBucket if absent.
func (m *Map) GetOrInsertWith(score ScoreKey, makeBucket func() types.BucketID) (types.BucketID, bool) {
	return m.sl.GetOrInsertWith(score, makeBucket)
}

// Delete removes score's entry, reporting whether it was present.
func (m *Map) Delete(score ScoreKey) bool { return m.sl.Delete(score) }

// Len returns the number of distinct scores.
func (m *Map) Len() int { return m.sl.Len() }

// Seek returns the first entry with score' >= score.
func (m *Map) Seek(score ScoreKey) (ScoreKey, types.BucketID, bool) { return m.sl.Seek(score) }

// First returns the smallest score's entry.
func (m *Map) First() (ScoreKey, types.BucketID, bool) { return m.sl.First() }

// Last returns the largest score's entry.
func (m *Map) Last() (ScoreKey, types.BucketID, bool) { return m.sl.Last() }

// All calls f for every entry in ascending score order.
func (m *Map) All(f func(ScoreKey, types.BucketID) bool) { m.sl.All(f) }

// Backward calls f for every entry in descending score order.
func (m *Map) Backward(f func(ScoreKey, types.BucketID) bool) { m.sl.Backward(f) }

// Range calls f for every entry with score >= lo, ascending.
func (m *Map) Range(lo ScoreKey, f func(ScoreKey, types.BucketID) bool) { m.sl.Range(lo, f) }

// At returns a cursor at the first entry with score' >= score.
func (m *Map) At(score ScoreKey) Cursor { return m.sl.At(score) }

// Begin returns a cursor at the smallest score.
func (m *Map) Begin() Cursor { return m.sl.Begin() }

// End returns a cursor at the largest score.
func (m *Map) End() Cursor { return m.sl.End() }

// sizeClass rounds n up to the allocator size class the grounding source
// assumes: multiples of 8 below 512 bytes, powers of two above.
func sizeClass(n int) int {
	if n <= 512 {
		return (n + 7) &^ 7
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// btreeNodes returns how many fixed-capacity nodes would hold n entries.
func btreeNodes(n int) int {
	if n == 0 {
		return 0
	}
	return (n + NodeCap - 1) / NodeCap
}

// Bytes returns the structural memory footprint the map would have if
// its n entries were packed into fixed-capacity B-tree nodes, the same
// approximation the grounding source's score_map_bytes uses.
func Bytes(n int) int64 {
	if n == 0 {
		return 0
	}
	return int64(btreeNodes(n)) * int64(sizeClass(mapNodeSize))
}
