package idtable

import (
	"testing"

	"github.com/vitarb/gzset-go/internal/arena"
	"github.com/vitarb/gzset-go/internal/types"
)

func TestGetSetClear(t *testing.T) {
	a := arena.New(1)
	tbl := New(a)

	if _, ok := tbl.Get(0); ok {
		t.Fatal("Get on empty table reported live")
	}

	tbl.EnsureLen(1)
	tbl.Set(types.MemberID(0), 3.5)
	if v, ok := tbl.Get(0); !ok || v != 3.5 {
		t.Fatalf("Get(0) = %v, %v, want 3.5, true", v, ok)
	}

	tbl.Clear(0)
	if _, ok := tbl.Get(0); ok {
		t.Fatal("Get(0) after Clear reported live")
	}
}

func TestEnsureLenGrowth(t *testing.T) {
	a := arena.New(1)
	tbl := New(a)

	tbl.EnsureLen(100)
	for i := 0; i < 100; i++ {
		tbl.Set(types.MemberID(i), float64(i))
	}
	for i := 0; i < 100; i++ {
		v, ok := tbl.Get(types.MemberID(i))
		if !ok || v != float64(i) {
			t.Fatalf("Get(%d) = %v, %v, want %v, true", i, v, ok, float64(i))
		}
	}
	if tbl.CapacityBytes() < 100*8 {
		t.Fatalf("CapacityBytes() = %d, want >= %d", tbl.CapacityBytes(), 100*8)
	}
}

func TestMonotonicCapacity(t *testing.T) {
	a := arena.New(1)
	tbl := New(a)

	tbl.EnsureLen(50)
	cap1 := tbl.CapacityBytes()

	for i := 0; i < 50; i++ {
		tbl.Clear(types.MemberID(i))
	}
	cap2 := tbl.CapacityBytes()
	if cap2 != cap1 {
		t.Fatalf("CapacityBytes changed after clearing: %d -> %d, table must never shrink", cap1, cap2)
	}
}
