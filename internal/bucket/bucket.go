// Package bucket owns the per-score sorted member lists. Each bucket
// starts inline (up to 4 members in a fixed array) and spills to a plain
// Go slice beyond that — deliberately not arena-backed, since shrinking a
// spilled bucket back to inline must genuinely reclaim capacity (the
// boundary case this store is tested against), which a bump allocator
// cannot do.
package bucket

import (
	"sort"

	"github.com/vitarb/gzset-go/internal/types"
)

// Inline is the number of members a bucket holds before spilling to the
// heap.
const Inline = 4

const memberIDSize = 4

type entry struct {
	inline  [Inline]types.MemberID
	spill   []types.MemberID
	spilled bool
	len     int
}

// NameOf maps a MemberID to its comparison name; the store never looks
// names up itself, keeping it decoupled from the string pool.
type NameOf func(types.MemberID) string

// Store owns every bucket in a ScoreSet, indexed by BucketID.
type Store struct {
	buckets []*entry
	free    []types.BucketID
}

// NewStore creates an empty bucket store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) get(id types.BucketID) *entry {
	e := s.buckets[int(id)]
	if e == nil {
		panic("bucket: invalid bucket id")
	}
	return e
}

// Alloc returns a fresh empty bucket, reusing a freed id when possible.
func (s *Store) Alloc() types.BucketID {
	if n := len(s.free); n > 0 {
		id := s.free[n-1]
		s.free = s.free[:n-1]
		s.buckets[int(id)] = &entry{}
		return id
	}
	id := types.BucketID(len(s.buckets))
	s.buckets = append(s.buckets, &entry{})
	return id
}

// FreeIfEmpty frees id iff it currently holds zero members.
func (s *Store) FreeIfEmpty(id types.BucketID) (freed bool, bytesDelta int64) {
	e := s.get(id)
	if e.len != 0 {
		return false, 0
	}
	s.buckets[int(id)] = nil
	s.free = append(s.free, id)
	return true, 0
}

// Slice returns a read-only view of id's members in sorted order.
func (s *Store) Slice(id types.BucketID) []types.MemberID {
	e := s.get(id)
	if e.spilled {
		return e.spill
	}
	return e.inline[:e.len]
}

// Len returns the member count of id.
func (s *Store) Len(id types.BucketID) int {
	return s.get(id).len
}

// CapacityBytes returns the spill heap's byte footprint: 0 while inline.
func (s *Store) CapacityBytes(id types.BucketID) int64 {
	e := s.get(id)
	if !e.spilled {
		return 0
	}
	return int64(cap(e.spill)) * memberIDSize
}

// InsertSorted inserts member into id's bucket at its sorted position by
// name, refusing duplicates. bytesDelta is non-zero only on the
// inline→spilled transition: once spilled, further growth is not
// re-accounted here, matching the grounding source's own approximation.
func (s *Store) InsertSorted(id types.BucketID, member types.MemberID, name NameOf) (inserted bool, bytesDelta int64, spilledBefore, spilledAfter bool, pos int) {
	e := s.get(id)
	spilledBefore = e.spilled
	cur := s.Slice(id)
	memberName := name(member)

	pos = sort.Search(len(cur), func(i int) bool { return name(cur[i]) >= memberName })
	if pos < len(cur) && name(cur[pos]) == memberName {
		return false, 0, spilledBefore, spilledBefore, pos
	}

	if !e.spilled && e.len < Inline {
		copy(e.inline[pos+1:e.len+1], e.inline[pos:e.len])
		e.inline[pos] = member
		e.len++
		return true, 0, spilledBefore, false, pos
	}

	if !e.spilled {
		newCap := Inline * 2
		spill := make([]types.MemberID, e.len+1, newCap)
		copy(spill[:pos], e.inline[:pos])
		spill[pos] = member
		copy(spill[pos+1:], e.inline[pos:e.len])
		e.spill = spill
		e.spilled = true
		e.len++
		return true, int64(cap(e.spill)) * memberIDSize, spilledBefore, true, pos
	}

	e.spill = append(e.spill, 0)
	copy(e.spill[pos+1:], e.spill[pos:len(e.spill)-1])
	e.spill[pos] = member
	e.len++
	return true, 0, spilledBefore, true, pos
}

// RemoveByName removes the member named name from id's bucket.
func (s *Store) RemoveByName(id types.BucketID, name string, nameOf NameOf) (removed bool, bytesDelta int64, nowEmpty bool) {
	e := s.get(id)
	cur := s.Slice(id)
	pos := sort.Search(len(cur), func(i int) bool { return nameOf(cur[i]) >= name })
	if pos >= len(cur) || nameOf(cur[pos]) != name {
		return false, 0, false
	}

	if e.spilled {
		copy(e.spill[pos:], e.spill[pos+1:])
		e.spill = e.spill[:len(e.spill)-1]
	} else {
		copy(e.inline[pos:e.len-1], e.inline[pos+1:e.len])
	}
	e.len--
	return true, 0, e.len == 0
}

// MaybeShrink shrinks id's bucket back to inline storage if it is spilled
// and its length has dropped to threshold or below.
func (s *Store) MaybeShrink(id types.BucketID, threshold int) int64 {
	e := s.get(id)
	if !e.spilled || e.len > threshold {
		return 0
	}
	bytes := int64(cap(e.spill)) * memberIDSize
	copy(e.inline[:e.len], e.spill[:e.len])
	e.spill = nil
	e.spilled = false
	return -bytes
}
