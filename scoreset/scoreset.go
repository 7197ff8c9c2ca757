// Package scoreset implements the ordered score-set engine: a single key's
// worth of (member, score) pairs, ranked by score then lexicographically
// by member name. It is the façade wiring together the string pool, the
// bucket store, the score map and the id→score table, and it owns the
// structural memory accounting that a higher layer reports to a caller.
//
// A ScoreSet is single-threaded and takes no locks. The keyspace layer's
// mutex guards only its key→ScoreSet map; calls on a ScoreSet it hands
// out are not serialized by it.
package scoreset

import (
	"sort"

	"github.com/vitarb/gzset-go/internal/arena"
	"github.com/vitarb/gzset-go/internal/bucket"
	"github.com/vitarb/gzset-go/internal/idtable"
	"github.com/vitarb/gzset-go/internal/pool"
	"github.com/vitarb/gzset-go/internal/scoremap"
	"github.com/vitarb/gzset-go/internal/types"
)

// bucketShrinkThreshold mirrors the grounding source's constant: a spilled
// bucket shrinks back to inline storage once it holds this many members
// or fewer.
const bucketShrinkThreshold = bucket.Inline

// Pair is a (member, score) result.
type Pair struct {
	Member string
	Score  float64
}

// ScoreSet holds one key's ordered score set.
type ScoreSet struct {
	arena    *arena.Arena
	byScore  *scoremap.Map
	buckets  *bucket.Store
	scores   *idtable.Table
	pool     *pool.Pool
	memBytes int64
}

// New creates an empty ScoreSet backed by a fresh arena of the given page
// count. The caller owns the ScoreSet's lifetime and must call Close when
// done with it.
func New(pages int) *ScoreSet {
	a := arena.New(pages)
	return &ScoreSet{
		arena:   a,
		byScore: scoremap.New(a),
		buckets: bucket.NewStore(),
		scores:  idtable.New(a),
		pool:    pool.New(a),
	}
}

// Close releases the ScoreSet's arena. The ScoreSet must not be used
// afterward.
func (s *ScoreSet) Close() {
	s.arena.Delete()
}

func (s *ScoreSet) nameOf(id types.MemberID) string { return s.pool.Get(id) }

func (s *ScoreSet) applyBucketDelta(delta int64) {
	s.memBytes += delta
}

// Insert sets member's score, creating it if absent. It reports whether a
// new member was created (false means an existing member's score was
// updated, or the score was unchanged).
func (s *ScoreSet) Insert(score float64, member string) bool {
	key := scoremap.NewScoreKey(score)
	prevScores := s.scores.CapacityBytes()
	prevMap := scoremap.Bytes(s.byScore.Len())

	id := s.pool.Intern(member)
	oldScore, hadScore := s.scores.Get(id)
	s.scores.EnsureLen(int(id) + 1)
	s.memBytes += s.scores.CapacityBytes() - prevScores

	var bucketDelta int64
	name := s.pool.Get(id)

	if hadScore {
		oldKey := scoremap.NewScoreKey(oldScore)
		if oldKey == key {
			return false
		}
		if bucketID, ok := s.byScore.Get(oldKey); ok {
			removed, delta, nowEmpty := s.buckets.RemoveByName(bucketID, name, s.nameOf)
			if removed {
				bucketDelta += delta
				if nowEmpty {
					_, freeDelta := s.buckets.FreeIfEmpty(bucketID)
					bucketDelta += freeDelta
					s.byScore.Delete(oldKey)
				} else {
					bucketDelta += s.buckets.MaybeShrink(bucketID, bucketShrinkThreshold)
				}
			}
		}
	}

	s.scores.Set(id, score)

	bucketID, _ := s.byScore.GetOrInsertWith(key, func() types.BucketID { return s.buckets.Alloc() })
	inserted, delta, _, _, _ := s.buckets.InsertSorted(bucketID, id, s.nameOf)
	bucketDelta += delta
	if inserted {
		s.memBytes += scoremap.Bytes(s.byScore.Len()) - prevMap
	}
	if bucketDelta != 0 {
		s.applyBucketDelta(bucketDelta)
	}
	return inserted && !hadScore
}

// Remove deletes member, reporting whether it was present.
func (s *ScoreSet) Remove(member string) bool {
	id, ok := s.pool.Lookup(member)
	if !ok {
		return false
	}
	score, ok := s.scores.Get(id)
	if !ok {
		return false
	}
	scoreKey := scoremap.NewScoreKey(score)
	prevScores := s.scores.CapacityBytes()
	prevMap := scoremap.Bytes(s.byScore.Len())

	var bucketDelta int64
	if bucketID, ok := s.byScore.Get(scoreKey); ok {
		removed, delta, nowEmpty := s.buckets.RemoveByName(bucketID, member, s.nameOf)
		bucketDelta += delta
		if removed {
			if nowEmpty {
				_, freeDelta := s.buckets.FreeIfEmpty(bucketID)
				bucketDelta += freeDelta
				s.byScore.Delete(scoreKey)
			} else {
				bucketDelta += s.buckets.MaybeShrink(bucketID, bucketShrinkThreshold)
			}
		}
	}
	if bucketDelta != 0 {
		s.applyBucketDelta(bucketDelta)
	}

	s.scores.Clear(id)
	s.memBytes += s.scores.CapacityBytes() - prevScores
	s.memBytes += scoremap.Bytes(s.byScore.Len()) - prevMap

	s.pool.Remove(member)
	return true
}

// Score returns member's current score.
func (s *ScoreSet) Score(member string) (float64, bool) {
	id, ok := s.pool.Lookup(member)
	if !ok {
		return 0, false
	}
	return s.scores.Get(id)
}

// Contains reports whether member currently has a score.
func (s *ScoreSet) Contains(member string) bool {
	id, ok := s.pool.Lookup(member)
	if !ok {
		return false
	}
	_, ok = s.scores.Get(id)
	return ok
}

// Len returns the number of live members.
func (s *ScoreSet) Len() int { return s.pool.Len() }

// IsEmpty reports whether the set holds no members.
func (s *ScoreSet) IsEmpty() bool { return s.pool.IsEmpty() }

// MemBytes returns the set's current structural memory footprint: the
// score table's capacity, the score map's B-tree-node approximation, and
// every bucket's spill capacity. It excludes interned string bytes, since
// the grounding source's own accounting excludes them from mem_bytes too.
func (s *ScoreSet) MemBytes() int64 { return s.memBytes }

// ArenaBytes returns the probed chunk-capacity sum of this set's arena,
// delegating to Pool.ArenaBytes(). The arena is shared: besides the
// interned member names and the name→id index it holds the id→score
// table and the score-map nodes, which MemBytes() also prices, so
// MemBytes()+ArenaBytes() counts those two structures twice.
func (s *ScoreSet) ArenaBytes() int64 { return s.pool.ArenaBytes() }

// Rank returns member's 0-based position in ascending (score, name) order.
func (s *ScoreSet) Rank(member string) (int, bool) {
	id, ok := s.pool.Lookup(member)
	if !ok {
		return 0, false
	}
	score, ok := s.scores.Get(id)
	if !ok {
		return 0, false
	}
	scoreKey := scoremap.NewScoreKey(score)
	bucketID, ok := s.byScore.Get(scoreKey)
	if !ok {
		return 0, false
	}
	slice := s.buckets.Slice(bucketID)
	pos := sort.Search(len(slice), func(i int) bool { return s.nameOf(slice[i]) >= member })
	if pos >= len(slice) || s.nameOf(slice[pos]) != member {
		return 0, false
	}

	prefix := 0
	s.byScore.All(func(k scoremap.ScoreKey, b types.BucketID) bool {
		if !(k < scoreKey) {
			return false
		}
		prefix += s.buckets.Len(b)
		return true
	})
	return prefix + pos, true
}

// SelectByRank returns the member and score at 0-based rank r. It panics
// if r is out of bounds, matching the ScoreSet contract that callers
// validate r against Len() first.
func (s *ScoreSet) SelectByRank(r int) (string, float64) {
	remaining := r
	var member string
	var score float64
	found := false
	s.byScore.All(func(k scoremap.ScoreKey, b types.BucketID) bool {
		n := s.buckets.Len(b)
		if remaining < n {
			id := s.buckets.Slice(b)[remaining]
			member = s.nameOf(id)
			score = float64(k)
			found = true
			return false
		}
		remaining -= n
		return true
	})
	if !found {
		panic("scoreset: rank out of bounds")
	}
	return member, score
}

// PopOne removes and returns the member with the lowest score (min=true)
// or highest score (min=false).
func (s *ScoreSet) PopOne(min bool) (Pair, bool) {
	prevMap := scoremap.Bytes(s.byScore.Len())

	var scoreKey scoremap.ScoreKey
	var bucketID types.BucketID
	var ok bool
	if min {
		scoreKey, bucketID, ok = s.byScore.First()
	} else {
		scoreKey, bucketID, ok = s.byScore.Last()
	}
	if !ok {
		return Pair{}, false
	}

	slice := s.buckets.Slice(bucketID)
	var memberID types.MemberID
	if min {
		memberID = slice[0]
	} else {
		memberID = slice[len(slice)-1]
	}
	memberName := s.nameOf(memberID)

	_, delta, nowEmpty := s.buckets.RemoveByName(bucketID, memberName, s.nameOf)
	bucketDelta := delta
	if nowEmpty {
		_, freeDelta := s.buckets.FreeIfEmpty(bucketID)
		bucketDelta += freeDelta
		s.byScore.Delete(scoreKey)
	} else {
		bucketDelta += s.buckets.MaybeShrink(bucketID, bucketShrinkThreshold)
	}
	if bucketDelta != 0 {
		s.applyBucketDelta(bucketDelta)
	}

	prevScores := s.scores.CapacityBytes()
	s.scores.Clear(memberID)
	s.memBytes += s.scores.CapacityBytes() - prevScores

	s.pool.Remove(memberName)

	s.memBytes += scoremap.Bytes(s.byScore.Len()) - prevMap

	return Pair{Member: memberName, Score: float64(scoreKey)}, true
}

// PopN removes and returns up to n members from the min or max end,
// stopping early if the set empties first.
func (s *ScoreSet) PopN(min bool, n int) []Pair {
	if n > s.Len() {
		n = s.Len()
	}
	out := make([]Pair, 0, n)
	for i := 0; i < n; i++ {
		p, ok := s.PopOne(min)
		if !ok {
			break
		}
		out = append(out, p)
	}
	return out
}
