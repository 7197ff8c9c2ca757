package scoreset

import (
	"sort"

	"github.com/vitarb/gzset-go/internal/bucket"
	"github.com/vitarb/gzset-go/internal/scoremap"
	"github.com/vitarb/gzset-go/internal/types"
)

// Iterator is a resumable, double-ended walk over (member, score) pairs in
// ascending (score, name) order. Next() consumes from the front, Prev()
// from the back; an Iterator from IterAll or IterRange can be driven from
// both ends at once without double-yielding or skipping an element,
// mirroring the grounding source's DoubleEndedIterator contract. An
// IterFrom iterator carries no count, so that guarantee does not hold for it.
type Iterator struct {
	store  *bucket.Store
	nameOf bucket.NameOf

	frontCursor     scoremap.Cursor
	frontHasCurrent bool
	frontBucket     []types.MemberID
	frontScore      float64
	frontPos        int
	frontSkip       int

	backCursor     scoremap.Cursor
	backHasCurrent bool
	backBucket     []types.MemberID
	backScore      float64
	backPos        int
	backSkip       int

	yieldedFront int
	yieldedBack  int
	total        int // -1 means unknown (IterFrom)

	frontFirst          bool
	frontFirstKey       scoremap.ScoreKey
	frontFirstMember    string
	frontFirstExclusive bool
}

// Len returns the number of pairs not yet yielded, or -1 if the iterator
// was constructed without a known exact count (IterFrom).
func (it *Iterator) Len() int {
	if it.total < 0 {
		return -1
	}
	r := it.total - it.yieldedFront - it.yieldedBack
	if r < 0 {
		return 0
	}
	return r
}

func (it *Iterator) exhausted() bool {
	return it.total >= 0 && it.total-it.yieldedFront-it.yieldedBack <= 0
}

// Next returns the next pair in ascending order.
func (it *Iterator) Next() (Pair, bool) {
	if it.exhausted() {
		return Pair{}, false
	}
	for {
		if it.frontHasCurrent {
			for it.frontPos < len(it.frontBucket) {
				id := it.frontBucket[it.frontPos]
				it.frontPos++
				if it.frontSkip > 0 {
					it.frontSkip--
					continue
				}
				it.yieldedFront++
				return Pair{Member: it.nameOf(id), Score: it.frontScore}, true
			}
			it.frontHasCurrent = false
		}
		if !it.frontCursor.Valid() {
			return Pair{}, false
		}
		k, b := it.frontCursor.KeyValue()
		it.frontScore = float64(k)
		it.frontBucket = it.store.Slice(b)
		it.frontPos = it.firstBucketStart(k)
		it.frontHasCurrent = true
		it.frontCursor = it.frontCursor.Next()
	}
}

// firstBucketStart computes the starting index into the just-loaded
// bucket. It is nonzero only on the very first bucket of an IterFrom
// iterator, landing on member's position (adjusted for exclusive).
func (it *Iterator) firstBucketStart(k scoremap.ScoreKey) int {
	if !it.frontFirst {
		return 0
	}
	it.frontFirst = false
	if k != it.frontFirstKey {
		return 0
	}
	pos := sort.Search(len(it.frontBucket), func(i int) bool {
		return it.nameOf(it.frontBucket[i]) >= it.frontFirstMember
	})
	if pos < len(it.frontBucket) && it.nameOf(it.frontBucket[pos]) == it.frontFirstMember && it.frontFirstExclusive {
		pos++
	}
	return pos
}

// Prev returns the next pair in descending order.
func (it *Iterator) Prev() (Pair, bool) {
	if it.exhausted() {
		return Pair{}, false
	}
	for {
		if it.backHasCurrent {
			for it.backPos >= 0 {
				id := it.backBucket[it.backPos]
				it.backPos--
				if it.backSkip > 0 {
					it.backSkip--
					continue
				}
				it.yieldedBack++
				return Pair{Member: it.nameOf(id), Score: it.backScore}, true
			}
			it.backHasCurrent = false
		}
		if !it.backCursor.Valid() {
			return Pair{}, false
		}
		k, b := it.backCursor.KeyValue()
		it.backScore = float64(k)
		it.backBucket = it.store.Slice(b)
		it.backPos = len(it.backBucket) - 1
		it.backHasCurrent = true
		it.backCursor = it.backCursor.Prev()
	}
}

func (s *ScoreSet) emptyIterator() *Iterator {
	return &Iterator{store: s.buckets, nameOf: s.nameOf, total: 0}
}

// IterAll returns an iterator over every (member, score) pair.
func (s *ScoreSet) IterAll() *Iterator {
	if s.Len() == 0 {
		return s.emptyIterator()
	}
	return &Iterator{
		store:       s.buckets,
		nameOf:      s.nameOf,
		frontCursor: s.byScore.Begin(),
		backCursor:  s.byScore.End(),
		total:       s.Len(),
	}
}

// IterRange returns an iterator over the closed rank interval
// [start, stop], with Python-style negative indices counting from the
// end (-1 is the last element). Out-of-bounds indices clamp rather than
// error; an empty or inverted interval yields an iterator with Len() 0.
func (s *ScoreSet) IterRange(start, stop int) *Iterator {
	length := s.Len()
	if length == 0 {
		return s.emptyIterator()
	}
	if start < 0 {
		start = length + start
	}
	if stop < 0 {
		stop = length + stop
	}
	if start < 0 {
		start = 0
	}
	if stop < 0 {
		return s.emptyIterator()
	}
	if stop >= length {
		stop = length - 1
	}
	if start > stop {
		return s.emptyIterator()
	}

	return &Iterator{
		store:       s.buckets,
		nameOf:      s.nameOf,
		frontCursor: s.byScore.Begin(),
		backCursor:  s.byScore.End(),
		frontSkip:   start,
		backSkip:    length - 1 - stop,
		total:       stop - start + 1,
	}
}

// IterFrom returns an iterator starting at the first member with
// score >= score (breaking ties by name >= member, or strictly greater
// than member when exclusive is true), running to the end of the set.
// Its exact remaining count is not tracked; Len() reports -1. Prev() on
// this iterator starts from the set's last pair without regard to the
// anchor, and the two ends are not kept from overlapping.
func (s *ScoreSet) IterFrom(score float64, member string, exclusive bool) *Iterator {
	key := scoremap.NewScoreKey(score)
	return &Iterator{
		store:               s.buckets,
		nameOf:              s.nameOf,
		frontCursor:         s.byScore.At(key),
		backCursor:          s.byScore.End(),
		total:               -1,
		frontFirst:          true,
		frontFirstKey:       key,
		frontFirstMember:    member,
		frontFirstExclusive: exclusive,
	}
}
