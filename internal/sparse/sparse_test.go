package sparse

import "testing"

func TestSparseSetBasic(t *testing.T) {
	s := NewSparseSet(100)

	if !s.IsEmpty() {
		t.Error("new set should be empty")
	}
	if s.Contains(0) {
		t.Error("empty set should not contain 0")
	}

	s.Insert(5)
	if !s.Contains(5) {
		t.Error("set should contain 5 after insert")
	}
	s.Insert(5)
	if s.Size() != 1 {
		t.Errorf("duplicate insert should be a no-op, size = %d, want 1", s.Size())
	}

	s.Insert(10)
	s.Insert(3)
	s.Insert(7)
	if s.Size() != 4 {
		t.Errorf("size = %d, want 4", s.Size())
	}

	s.Clear()
	if !s.IsEmpty() {
		t.Error("set should be empty after clear")
	}
	if s.Contains(5) {
		t.Error("cleared set should not contain 5")
	}
}

func TestSparseSetInsertionOrder(t *testing.T) {
	s := NewSparseSet(100)
	s.Insert(5)
	s.Insert(2)
	s.Insert(8)
	s.Insert(1)

	want := []uint32{5, 2, 8, 1}
	values := s.Values()
	if len(values) != len(want) {
		t.Fatalf("len(Values()) = %d, want %d", len(values), len(want))
	}
	for i, v := range values {
		if v != want[i] {
			t.Errorf("Values()[%d] = %d, want %d", i, v, want[i])
		}
	}
}

func TestSparseSetRemove(t *testing.T) {
	s := NewSparseSet(100)
	s.Insert(1)
	s.Insert(2)
	s.Insert(3)

	s.Remove(2)
	if s.Contains(2) {
		t.Error("set should not contain 2 after remove")
	}
	if s.Size() != 2 {
		t.Errorf("size after remove = %d, want 2", s.Size())
	}
	if !s.Contains(1) || !s.Contains(3) {
		t.Error("set should still contain 1 and 3")
	}

	s.Remove(99) // absent, no-op
	if s.Size() != 2 {
		t.Errorf("removing an absent value should be a no-op, size = %d", s.Size())
	}
}

func TestSparseSetClearDoesNotLeakStaleIndices(t *testing.T) {
	s := NewSparseSet(100)
	s.Insert(5)
	s.Insert(10)
	s.Clear()

	if s.Contains(5) || s.Contains(10) {
		t.Error("cleared set should not report stale membership")
	}

	s.Insert(3)
	if !s.Contains(3) {
		t.Error("should contain 3 after a fresh insert")
	}
	if s.Contains(5) || s.Contains(10) {
		t.Error("should not contain values inserted before Clear")
	}
}

func TestSparseSetIter(t *testing.T) {
	s := NewSparseSet(10)
	want := map[uint32]bool{1: true, 4: true, 7: true}
	for v := range want {
		s.Insert(v)
	}
	seen := make(map[uint32]bool)
	s.Iter(func(v uint32) { seen[v] = true })
	if len(seen) != len(want) {
		t.Fatalf("Iter visited %d values, want %d", len(seen), len(want))
	}
	for v := range want {
		if !seen[v] {
			t.Errorf("Iter did not visit %d", v)
		}
	}
}
