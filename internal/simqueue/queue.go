package simqueue

import "container/heap"

// eventHeap is the container/heap.Interface implementation backing Queue.
// There is no priority-queue implementation anywhere in the example
// corpus, so this is one of the few places this module reaches directly
// for the standard library rather than a third-party collection.
type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Timestamp != h[j].Timestamp {
		return h[i].Timestamp < h[j].Timestamp
	}
	return h[i].Seq < h[j].Seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	*h = old[:n-1]
	return ev
}

// Queue is the simulation's deterministic event queue: a min-heap ordered
// by (Timestamp, Seq). Two events at the same timestamp always dequeue in
// the order they were enqueued, which is what makes a replayed run
// byte-for-byte reproducible (spec.md §5 ordering invariant).
type Queue struct {
	heap eventHeap
	seq  uint64
}

// NewQueue creates an empty event queue.
func NewQueue() *Queue {
	q := &Queue{}
	heap.Init(&q.heap)
	return q
}

// NextSeq returns the next insertion sequence number and advances the
// counter. Callers use this to stamp events before Push so ties at the
// same timestamp resolve in submission order.
func (q *Queue) NextSeq() uint64 {
	s := q.seq
	q.seq++
	return s
}

// Push inserts ev into the queue.
func (q *Queue) Push(ev Event) {
	heap.Push(&q.heap, ev)
}

// Pop removes and returns the earliest-ordered event. ok is false if the
// queue is empty.
func (q *Queue) Pop() (ev Event, ok bool) {
	if q.heap.Len() == 0 {
		return Event{}, false
	}
	return heap.Pop(&q.heap).(Event), true
}

// Len reports the number of pending events.
func (q *Queue) Len() int { return q.heap.Len() }

// Peek returns the earliest-ordered event without removing it.
func (q *Queue) Peek() (ev Event, ok bool) {
	if q.heap.Len() == 0 {
		return Event{}, false
	}
	return q.heap[0], true
}
