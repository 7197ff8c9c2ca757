package scoremap

import (
	"testing"

	"github.com/vitarb/gzset-go/internal/arena"
	"github.com/vitarb/gzset-go/internal/types"
)

func TestInsertGetDelete(t *testing.T) {
	a := arena.New(1)
	m := New(a)

	m.Insert(NewScoreKey(1.5), types.BucketID(10))
	if b, ok := m.Get(NewScoreKey(1.5)); !ok || b != 10 {
		t.Fatalf("Get(1.5) = %d, %v, want 10, true", b, ok)
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}

	if !m.Delete(NewScoreKey(1.5)) {
		t.Fatal("Delete reported not found")
	}
	if m.Len() != 0 {
		t.Fatalf("Len() after delete = %d, want 0", m.Len())
	}
}

func TestNegativeZeroNormalized(t *testing.T) {
	a := arena.New(1)
	m := New(a)

	m.Insert(NewScoreKey(0.0), types.BucketID(1))
	if b, ok := m.Get(NewScoreKey(-0.0)); !ok || b != 1 {
		t.Fatalf("Get(-0.0) = %d, %v, want 1, true (should collapse to +0.0)", b, ok)
	}
}

func TestOrderedTraversal(t *testing.T) {
	a := arena.New(1)
	m := New(a)

	scores := []float64{5, 1, 3, -2, 0, 10}
	for i, s := range scores {
		m.Insert(NewScoreKey(s), types.BucketID(i))
	}

	var forward []float64
	m.All(func(k ScoreKey, _ types.BucketID) bool {
		forward = append(forward, float64(k))
		return true
	})
	for i := 1; i < len(forward); i++ {
		if forward[i-1] > forward[i] {
			t.Fatalf("forward traversal not ascending: %v", forward)
		}
	}

	var backward []float64
	m.Backward(func(k ScoreKey, _ types.BucketID) bool {
		backward = append(backward, float64(k))
		return true
	})
	for i := 1; i < len(backward); i++ {
		if backward[i-1] < backward[i] {
			t.Fatalf("backward traversal not descending: %v", backward)
		}
	}
}

func TestGetOrInsertWith(t *testing.T) {
	a := arena.New(1)
	m := New(a)

	calls := 0
	make1 := func() types.BucketID { calls++; return 42 }

	b, created := m.GetOrInsertWith(NewScoreKey(2.0), make1)
	if !created || b != 42 || calls != 1 {
		t.Fatalf("first call: b=%d created=%v calls=%d", b, created, calls)
	}
	b, created = m.GetOrInsertWith(NewScoreKey(2.0), make1)
	if created || b != 42 || calls != 1 {
		t.Fatalf("second call: b=%d created=%v calls=%d", b, created, calls)
	}
}

func TestSeekFirstLast(t *testing.T) {
	a := arena.New(1)
	m := New(a)
	for _, s := range []float64{10, 20, 30} {
		m.Insert(NewScoreKey(s), types.BucketID(s))
	}

	if k, _, ok := m.First(); !ok || float64(k) != 10 {
		t.Fatalf("First() = %v, %v, want 10, true", k, ok)
	}
	if k, _, ok := m.Last(); !ok || float64(k) != 30 {
		t.Fatalf("Last() = %v, %v, want 30, true", k, ok)
	}
	if k, _, ok := m.Seek(NewScoreKey(15)); !ok || float64(k) != 20 {
		t.Fatalf("Seek(15) = %v, %v, want 20, true", k, ok)
	}
}

func TestBytesGrowsWithCardinality(t *testing.T) {
	if Bytes(0) != 0 {
		t.Fatalf("Bytes(0) = %d, want 0", Bytes(0))
	}
	b1 := Bytes(1)
	b12 := Bytes(NodeCap + 1)
	if b12 <= b1 {
		t.Fatalf("Bytes(%d) = %d, want > Bytes(1) = %d", NodeCap+1, b12, b1)
	}
	if btreeNodes(NodeCap) != 1 || btreeNodes(NodeCap+1) != 2 {
		t.Fatalf("btreeNodes boundary wrong: %d, %d", btreeNodes(NodeCap), btreeNodes(NodeCap+1))
	}
}

func TestSizeClassRounding(t *testing.T) {
	if sizeClass(1) != 8 {
		t.Fatalf("sizeClass(1) = %d, want 8", sizeClass(1))
	}
	if sizeClass(512) != 512 {
		t.Fatalf("sizeClass(512) = %d, want 512", sizeClass(512))
	}
	if sizeClass(513) != 1024 {
		t.Fatalf("sizeClass(513) = %d, want 1024", sizeClass(513))
	}
}
