package tickgen

import "testing"

func TestRandomWalkEmitsExactCount(t *testing.T) {
	w := NewRandomWalk(1, 5, 0, 100, 1000, 2, 10)
	count := 0
	for {
		if _, ok := w.Next(); !ok {
			break
		}
		count++
	}
	if count != 5 {
		t.Fatalf("emitted %d ticks, want 5", count)
	}
}

func TestRandomWalkAdvancesTimestampByStep(t *testing.T) {
	w := NewRandomWalk(1, 3, 1000, 50, 1000, 2, 0)
	first, _ := w.Next()
	second, _ := w.Next()
	if first.Timestamp != 1000 {
		t.Fatalf("first.Timestamp = %d, want 1000", first.Timestamp)
	}
	if second.Timestamp != 1050 {
		t.Fatalf("second.Timestamp = %d, want 1050", second.Timestamp)
	}
}

func TestRandomWalkKeepsConstantSpread(t *testing.T) {
	w := NewRandomWalk(7, 10, 0, 10, 500, 3, 5)
	for i := 0; i < 10; i++ {
		tk, ok := w.Next()
		if !ok {
			t.Fatal("expected 10 ticks")
		}
		if got := tk.Ask - tk.Bid; got != 3 {
			t.Fatalf("spread at step %d = %d, want 3", i, got)
		}
	}
}

func TestRandomWalkBidNeverGoesBelowOne(t *testing.T) {
	w := NewRandomWalk(3, 1000, 0, 1, 1, 0, 1000)
	for i := 0; i < 1000; i++ {
		tk, ok := w.Next()
		if !ok {
			break
		}
		if tk.Bid < 1 {
			t.Fatalf("bid at step %d = %d, want >= 1", i, tk.Bid)
		}
	}
}

func TestRandomWalkIsDeterministicForSameSeed(t *testing.T) {
	a := NewRandomWalk(42, 5, 0, 10, 1000, 2, 10)
	b := NewRandomWalk(42, 5, 0, 10, 1000, 2, 10)
	for i := 0; i < 5; i++ {
		tA, _ := a.Next()
		tB, _ := b.Next()
		if tA != tB {
			t.Fatalf("step %d diverged: %+v vs %+v", i, tA, tB)
		}
	}
}
