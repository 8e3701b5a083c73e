package engine

import "testing"

func TestRingPushAndLen(t *testing.T) {
	r := NewRing[int](3)
	if r.Len() != 0 {
		t.Errorf("empty ring Len() = %d", r.Len())
	}
	r.Push(1)
	r.Push(2)
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestRingOverwrite(t *testing.T) {
	r := NewRing[int](3)
	for i := 1; i <= 5; i++ {
		r.Push(i)
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	got := r.All()
	want := []int{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("All() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("All()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRingAllPartial(t *testing.T) {
	r := NewRing[string](4)
	r.Push("a")
	r.Push("b")
	got := r.All()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("All() = %v, want [a b]", got)
	}
}

func TestRingLast(t *testing.T) {
	r := NewRing[int](2)
	if _, ok := r.Last(); ok {
		t.Error("Last() on empty ring should return false")
	}
	r.Push(7)
	r.Push(8)
	r.Push(9)
	if v, ok := r.Last(); !ok || v != 9 {
		t.Errorf("Last() = %d, %v; want 9, true", v, ok)
	}
}
