package bucket

import (
	"testing"

	"github.com/vitarb/gzset-go/internal/types"
)

func names(m map[types.MemberID]string) NameOf {
	return func(id types.MemberID) string { return m[id] }
}

func TestInsertSortedInline(t *testing.T) {
	s := NewStore()
	id := s.Alloc()
	n := map[types.MemberID]string{1: "bob", 2: "alice", 3: "carol"}
	nameOf := names(n)

	for _, m := range []types.MemberID{1, 2, 3} {
		inserted, _, _, spilledAfter, _ := s.InsertSorted(id, m, nameOf)
		if !inserted {
			t.Fatalf("insert of %d reported duplicate", m)
		}
		if spilledAfter {
			t.Fatal("spilled after only 3 inserts")
		}
	}

	got := s.Slice(id)
	want := []types.MemberID{2, 1, 3}
	if len(got) != len(want) {
		t.Fatalf("Slice = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Slice = %v, want %v", got, want)
		}
	}
}

func TestInsertSortedDuplicateRejected(t *testing.T) {
	s := NewStore()
	id := s.Alloc()
	n := map[types.MemberID]string{1: "bob"}
	nameOf := names(n)

	s.InsertSorted(id, 1, nameOf)
	inserted, bytesDelta, _, _, _ := s.InsertSorted(id, 1, nameOf)
	if inserted {
		t.Fatal("duplicate insert reported success")
	}
	if bytesDelta != 0 {
		t.Fatalf("duplicate insert bytesDelta = %d, want 0", bytesDelta)
	}
}

func TestInsertSortedSpillTransition(t *testing.T) {
	s := NewStore()
	id := s.Alloc()
	n := make(map[types.MemberID]string)
	nameOf := names(n)

	for i := 0; i < Inline; i++ {
		name := string(rune('a' + i))
		n[types.MemberID(i)] = name
		inserted, bytesDelta, _, spilledAfter, _ := s.InsertSorted(id, types.MemberID(i), nameOf)
		if !inserted || spilledAfter || bytesDelta != 0 {
			t.Fatalf("inline insert %d: inserted=%v spilledAfter=%v bytesDelta=%d", i, inserted, spilledAfter, bytesDelta)
		}
	}

	fifthName := string(rune('a' + Inline))
	n[types.MemberID(Inline)] = fifthName
	inserted, bytesDelta, spilledBefore, spilledAfter, _ := s.InsertSorted(id, types.MemberID(Inline), nameOf)
	if !inserted {
		t.Fatal("5th insert reported duplicate")
	}
	if spilledBefore {
		t.Fatal("spilledBefore true before transition")
	}
	if !spilledAfter {
		t.Fatal("spilledAfter false after exceeding inline capacity")
	}
	if bytesDelta <= 0 {
		t.Fatalf("bytesDelta on spill transition = %d, want > 0", bytesDelta)
	}
	if s.CapacityBytes(id) != bytesDelta {
		t.Fatalf("CapacityBytes = %d, want %d", s.CapacityBytes(id), bytesDelta)
	}

	// Further growth while already spilled is not re-accounted, matching
	// the grounding source's own approximation.
	sixthName := string(rune('a' + Inline + 1))
	n[types.MemberID(Inline+1)] = sixthName
	_, bytesDelta2, _, _, _ := s.InsertSorted(id, types.MemberID(Inline+1), nameOf)
	if bytesDelta2 != 0 {
		t.Fatalf("post-spill insert bytesDelta = %d, want 0", bytesDelta2)
	}
}

func TestRemoveByNameAndShrink(t *testing.T) {
	s := NewStore()
	id := s.Alloc()
	n := make(map[types.MemberID]string)
	nameOf := names(n)

	for i := 0; i < Inline+2; i++ {
		name := string(rune('a' + i))
		n[types.MemberID(i)] = name
		s.InsertSorted(id, types.MemberID(i), nameOf)
	}
	if s.CapacityBytes(id) == 0 {
		t.Fatal("expected spilled bucket to report nonzero capacity")
	}

	for i := Inline + 1; i >= 2; i-- {
		name := n[types.MemberID(i)]
		removed, _, _ := s.RemoveByName(id, name, nameOf)
		if !removed {
			t.Fatalf("RemoveByName(%q) failed", name)
		}
	}

	if s.Len(id) != 2 {
		t.Fatalf("Len = %d, want 2", s.Len(id))
	}

	shrunk := s.MaybeShrink(id, Inline)
	if shrunk >= 0 {
		t.Fatalf("MaybeShrink returned %d, want negative", shrunk)
	}
	if s.CapacityBytes(id) != 0 {
		t.Fatalf("CapacityBytes after shrink = %d, want 0", s.CapacityBytes(id))
	}
	if s.Len(id) != 2 {
		t.Fatalf("Len after shrink = %d, want 2", s.Len(id))
	}
}

func TestFreeIfEmpty(t *testing.T) {
	s := NewStore()
	id := s.Alloc()
	n := map[types.MemberID]string{1: "bob"}
	nameOf := names(n)

	s.InsertSorted(id, 1, nameOf)
	if freed, _ := s.FreeIfEmpty(id); freed {
		t.Fatal("FreeIfEmpty freed a non-empty bucket")
	}

	s.RemoveByName(id, "bob", nameOf)
	freed, _ := s.FreeIfEmpty(id)
	if !freed {
		t.Fatal("FreeIfEmpty did not free an empty bucket")
	}

	id2 := s.Alloc()
	if id2 != id {
		t.Fatalf("Alloc did not recycle freed id: got %d, want %d", id2, id)
	}
}
