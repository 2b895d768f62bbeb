package simqueue

import (
	"testing"

	"github.com/ahlstrom-labs/simbroker/internal/tick"
)

func TestQueueOrdersByTimestamp(t *testing.T) {
	q := NewQueue()
	q.Push(NewTickEvent(q.NextSeq(), 0, tick.Tick{Timestamp: 30}))
	q.Push(NewTickEvent(q.NextSeq(), 0, tick.Tick{Timestamp: 10}))
	q.Push(NewTickEvent(q.NextSeq(), 0, tick.Tick{Timestamp: 20}))

	var order []uint64
	for {
		ev, ok := q.Pop()
		if !ok {
			break
		}
		order = append(order, ev.Timestamp)
	}
	want := []uint64{10, 20, 30}
	for i, ts := range want {
		if order[i] != ts {
			t.Fatalf("order[%d] = %d, want %d (full order %v)", i, order[i], ts, order)
		}
	}
}

func TestQueueBreaksTiesBySeq(t *testing.T) {
	q := NewQueue()
	// Three events at the same timestamp, pushed in a specific order.
	first := NewTickEvent(q.NextSeq(), 0, tick.Tick{Timestamp: 100})
	second := NewTickEvent(q.NextSeq(), 1, tick.Tick{Timestamp: 100})
	third := NewTickEvent(q.NextSeq(), 2, tick.Tick{Timestamp: 100})

	// Push out of seq order to prove the heap isn't relying on push order.
	q.Push(third)
	q.Push(first)
	q.Push(second)

	ev1, _ := q.Pop()
	ev2, _ := q.Pop()
	ev3, _ := q.Pop()

	if ev1.SymbolIndex != 0 || ev2.SymbolIndex != 1 || ev3.SymbolIndex != 2 {
		t.Fatalf("pop order by SymbolIndex = %d,%d,%d; want 0,1,2", ev1.SymbolIndex, ev2.SymbolIndex, ev3.SymbolIndex)
	}
}

func TestQueuePeekDoesNotRemove(t *testing.T) {
	q := NewQueue()
	q.Push(NewTickEvent(q.NextSeq(), 0, tick.Tick{Timestamp: 5}))

	peeked, ok := q.Peek()
	if !ok || peeked.Timestamp != 5 {
		t.Fatalf("Peek() = %+v, %v; want timestamp 5", peeked, ok)
	}
	if q.Len() != 1 {
		t.Fatalf("Len() after Peek() = %d, want 1", q.Len())
	}

	popped, ok := q.Pop()
	if !ok || popped.Timestamp != 5 {
		t.Fatalf("Pop() = %+v, %v; want timestamp 5", popped, ok)
	}
	if q.Len() != 0 {
		t.Fatalf("Len() after Pop() = %d, want 0", q.Len())
	}
}

func TestQueueEmptyPopAndPeek(t *testing.T) {
	q := NewQueue()
	if _, ok := q.Pop(); ok {
		t.Fatal("Pop() on empty queue: ok = true, want false")
	}
	if _, ok := q.Peek(); ok {
		t.Fatal("Peek() on empty queue: ok = true, want false")
	}
}

func TestNextSeqIncrements(t *testing.T) {
	q := NewQueue()
	if s := q.NextSeq(); s != 0 {
		t.Fatalf("NextSeq() first call = %d, want 0", s)
	}
	if s := q.NextSeq(); s != 1 {
		t.Fatalf("NextSeq() second call = %d, want 1", s)
	}
}
