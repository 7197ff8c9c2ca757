package pool

import (
	"fmt"
	"testing"

	"github.com/vitarb/gzset-go/internal/arena"
	"github.com/vitarb/gzset-go/internal/types"
)

func TestInternReturnsSameID(t *testing.T) {
	a := arena.New(1)
	p := New(a)

	id1 := p.Intern("alice")
	id2 := p.Intern("alice")
	if id1 != id2 {
		t.Fatalf("Intern(alice) twice gave different ids: %d, %d", id1, id2)
	}
	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", p.Len())
	}
	if p.Get(id1) != "alice" {
		t.Fatalf("Get(%d) = %q, want alice", id1, p.Get(id1))
	}
}

func TestLookupMissing(t *testing.T) {
	a := arena.New(1)
	p := New(a)
	if _, ok := p.Lookup("ghost"); ok {
		t.Fatal("Lookup found a name never interned")
	}
}

func TestRemoveAndIDReuse(t *testing.T) {
	a := arena.New(1)
	p := New(a)

	id := p.Intern("bob")
	removedID, ok := p.Remove("bob")
	if !ok || removedID != id {
		t.Fatalf("Remove(bob) = %d, %v, want %d, true", removedID, ok, id)
	}
	if p.Len() != 0 {
		t.Fatalf("Len() after remove = %d, want 0", p.Len())
	}
	if _, ok := p.Lookup("bob"); ok {
		t.Fatal("Lookup found removed name")
	}

	newID := p.Intern("carol")
	if newID != id {
		t.Fatalf("Intern did not recycle freed id: got %d, want %d", newID, id)
	}
	if p.AllocatedIDs() != 1 {
		t.Fatalf("AllocatedIDs() = %d, want 1 (slot reused, not grown)", p.AllocatedIDs())
	}
}

func TestArenaBytesTracksChunkGrowth(t *testing.T) {
	a := arena.New(1)
	p := New(a)

	before := p.ArenaBytes()
	if before <= 0 {
		t.Fatalf("ArenaBytes() before any interning = %d, want > 0 (one page already mapped)", before)
	}

	for i := 0; i < 10000; i++ {
		p.Intern(fmt.Sprintf("member-with-a-long-enough-name-to-force-growth-%d", i))
	}

	after := p.ArenaBytes()
	if after <= before {
		t.Fatalf("ArenaBytes() after heavy interning = %d, want > %d", after, before)
	}
}

func TestInternManyAndAll(t *testing.T) {
	a := arena.New(1)
	p := New(a)

	const n = 100
	ids := make(map[string]types.MemberID, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("m%d", i)
		ids[name] = p.Intern(name)
	}
	if p.Len() != n {
		t.Fatalf("Len() = %d, want %d", p.Len(), n)
	}

	seen := make(map[string]bool)
	p.All(func(name string, id types.MemberID) bool {
		if want := ids[name]; id != want {
			t.Fatalf("All gave id %d for %q, want %d", id, name, want)
		}
		seen[name] = true
		return true
	})
	if len(seen) != n {
		t.Fatalf("All visited %d names, want %d", len(seen), n)
	}
}
