// Package idtable provides the dense MemberId→score vector: O(1) score
// lookup from an id, with a NaN-bit-pattern sentinel marking freed slots.
// Capacity is monotonic and arena-backed, since the table by contract
// never shrinks — a bump allocator's "old backing becomes garbage on
// grow" cost is free here.
package idtable

import (
	"math"

	"github.com/vitarb/gzset-go/internal/arena"
	"github.com/vitarb/gzset-go/internal/types"
)

// emptyBits is a NaN bit pattern reserved to mark a freed or never-used
// slot. No live score collides with it as long as callers pass only
// finite scores to ScoreSet.Insert, which does not check them itself.
const emptyBits uint64 = 0x7FF8000000000001

func emptyScore() float64 {
	return math.Float64frombits(emptyBits)
}

func isEmpty(f float64) bool {
	return math.Float64bits(f) == emptyBits
}

// Table is the arena-backed id→score vector.
type Table struct {
	arena  *arena.Arena
	scores []float64
}

// New creates an empty table backed by a.
func New(a *arena.Arena) *Table {
	return &Table{arena: a}
}

// Get returns the score for id and whether it is live.
func (t *Table) Get(id types.MemberID) (float64, bool) {
	idx := int(id)
	if idx >= len(t.scores) {
		return 0, false
	}
	v := t.scores[idx]
	if isEmpty(v) {
		return 0, false
	}
	return v, true
}

// EnsureLen grows the table, via a fresh arena allocation and copy, so
// that index n-1 is addressable. Freshly exposed slots hold the empty
// sentinel.
func (t *Table) EnsureLen(n int) {
	if n <= len(t.scores) {
		return
	}
	newCap := cap(t.scores)
	if newCap == 0 {
		newCap = 4
	}
	for newCap < n {
		newCap *= 2
	}
	grown := arena.MakeSlice[float64](t.arena, n, newCap)
	copy(grown, t.scores)
	for i := len(t.scores); i < n; i++ {
		grown[i] = emptyScore()
	}
	t.scores = grown
}

// Set writes score at id. The caller must have called EnsureLen first.
func (t *Table) Set(id types.MemberID, score float64) {
	t.scores[int(id)] = score
}

// Clear marks id's slot freed.
func (t *Table) Clear(id types.MemberID) {
	if int(id) < len(t.scores) {
		t.scores[int(id)] = emptyScore()
	}
}

// CapacityBytes reports the table's current backing-capacity contribution
// to structural memory: capacity × sizeof(float64).
func (t *Table) CapacityBytes() int64 {
	return int64(cap(t.scores)) * 8
}
