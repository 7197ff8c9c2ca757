// Package pool provides the string interner: each distinct member name is
// stored once in an arena, with MemberIDs recycled through a freelist.
// Unlike the grounding source's separate Loc{chunk,off,len} indirection,
// arena.MakeString already returns a zero-copy string alias into the
// arena's backing chunk, so a single slice of (name, live) slots indexed
// by id suffices here.
package pool

import (
	"github.com/vitarb/gzset-go/internal/arena"
	"github.com/vitarb/gzset-go/internal/types"
)

type slot struct {
	name string
	live bool
}

// Pool is the arena-backed string interner.
type Pool struct {
	arena    *arena.Arena
	nameToID *arena.Map[string, types.MemberID]
	slots    []slot
	free     []types.MemberID
	len      int
}

// New creates an empty pool backed by a.
func New(a *arena.Arena) *Pool {
	return &Pool{
		arena:    a,
		nameToID: arena.NewMap[string, types.MemberID](a),
	}
}

// Intern returns the MemberID for name, creating one if absent.
func (p *Pool) Intern(name string) types.MemberID {
	if id, ok := p.nameToID.Get(name); ok {
		return id
	}

	stored := p.arena.MakeString(name)
	var id types.MemberID
	if n := len(p.free); n > 0 {
		id = p.free[n-1]
		p.free = p.free[:n-1]
		p.slots[int(id)] = slot{name: stored, live: true}
	} else {
		id = types.MemberID(len(p.slots))
		p.slots = append(p.slots, slot{name: stored, live: true})
	}

	p.nameToID.Set(stored, id)
	p.len++
	return id
}

// Lookup returns the MemberID already assigned to name, if any.
func (p *Pool) Lookup(name string) (types.MemberID, bool) {
	return p.nameToID.Get(name)
}

// Get returns the name stored at id. Panics if id is not live, matching
// the grounding source's "invalid member id" expect().
func (p *Pool) Get(id types.MemberID) string {
	idx := int(id)
	if idx >= len(p.slots) || !p.slots[idx].live {
		panic("pool: invalid member id")
	}
	return p.slots[idx].name
}

// Remove evicts name from the pool, returning its former id.
func (p *Pool) Remove(name string) (types.MemberID, bool) {
	id, ok := p.nameToID.Get(name)
	if !ok {
		return 0, false
	}
	p.nameToID.Delete(name)
	p.slots[int(id)] = slot{live: false}
	p.free = append(p.free, id)
	p.len--
	return id, true
}

// Len returns the number of live interned strings.
func (p *Pool) Len() int { return p.len }

// IsEmpty reports whether the pool holds no live strings.
func (p *Pool) IsEmpty() bool { return p.len == 0 }

// ArenaBytes returns the probed chunk-capacity sum of the arena backing
// this pool's interned name bytes and its name→id index, independent of
// how many of those bytes are actually in use. The sum covers the whole
// arena, including anything else allocated from it.
func (p *Pool) ArenaBytes() int64 {
	return p.arena.Bytes()
}

// AllocatedIDs returns the total number of id slots ever handed out,
// live or freed.
func (p *Pool) AllocatedIDs() int { return len(p.slots) }

// All calls f for every live (name, id) pair. Iteration order is by id,
// not insertion or name order.
func (p *Pool) All(f func(name string, id types.MemberID) bool) {
	for idx, s := range p.slots {
		if !s.live {
			continue
		}
		if !f(s.name, types.MemberID(idx)) {
			return
		}
	}
}
