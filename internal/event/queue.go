package event

import "sync"

// Queue is an unbounded FIFO. Any number of goroutines may Enqueue; a single
// consumer pops from the head.
//
// There is no backpressure: a producer that outpaces the consumer grows the
// queue without limit. Input is human-rate, so this is accepted.
type Queue struct {
	mu    sync.Mutex
	items []Event
	head  int
	wake  chan struct{}
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Enqueue appends ev to the tail. It never blocks and never drops.
func (q *Queue) Enqueue(ev Event) {
	q.mu.Lock()
	q.items = append(q.items, ev)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pop removes and returns the head event. ok is false when the queue is empty.
func (q *Queue) Pop() (ev Event, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head >= len(q.items) {
		return Event{}, false
	}
	ev = q.items[q.head]
	q.items[q.head] = Event{}
	q.head++
	if q.head == len(q.items) {
		// Reuse the backing array once fully drained.
		q.items = q.items[:0]
		q.head = 0
	}
	return ev, true
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Discard drops every queued event and returns how many were dropped.
func (q *Queue) Discard() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items) - q.head
	q.items = nil
	q.head = 0
	return n
}

// Wake is signalled after an Enqueue. Signals coalesce, so a receiver must
// drain with Pop until empty.
func (q *Queue) Wake() <-chan struct{} {
	return q.wake
}
