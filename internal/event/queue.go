package event

import "sync/atomic"

const defaultQueueSize = 256

// slot pairs an event with a sequence number that publishes it. The
// sequence of slot i cycles through i (empty, lap k writable),
// i+1 (holds an event) and i+n (consumed, lap k+1 writable), so both
// sides always know who owns the slot without touching head or tail.
type slot struct {
	seq atomic.Uint64
	ev  NoteEvent
}

// Queue is a bounded single-producer/single-consumer ring carrying
// NoteEvents from the input goroutine to the render path. Push never
// blocks: when the ring is full the oldest pending event is discarded
// and the overflow counter is bumped. Drain never blocks and performs
// no allocation, so it is safe to call from the audio callback.
type Queue struct {
	buf       []slot
	mask      uint64
	head      atomic.Uint64 // next slot to read
	tail      atomic.Uint64 // next slot to write
	overflows atomic.Uint64
}

// NewQueue returns a queue holding at least size pending events.
// Size is rounded up to a power of two; size <= 0 selects the default.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = defaultQueueSize
	}
	n := 1
	for n < size {
		n <<= 1
	}
	q := &Queue{
		buf:  make([]slot, n),
		mask: uint64(n - 1),
	}
	for i := range q.buf {
		q.buf[i].seq.Store(uint64(i))
	}
	return q
}

// Push appends ev. It reports false when the ring was full and the
// oldest pending event had to be dropped to make room.
func (q *Queue) Push(ev NoteEvent) bool {
	n := q.mask + 1
	pos := q.tail.Load()
	s := &q.buf[pos&q.mask]
	ok := true
	for s.seq.Load() != pos {
		// Full: the slot still carries the oldest pending event.
		// Reclaim it; when the CAS loses the consumer popped it first
		// and will publish the slot's next sequence itself, so no
		// event was dropped and the slot opens momentarily.
		head := q.head.Load()
		if pos-head > q.mask && q.head.CompareAndSwap(head, head+1) {
			s.seq.Store(head + n)
			q.overflows.Add(1)
			ok = false
		}
	}
	s.ev = ev
	s.seq.Store(pos + 1)
	q.tail.Store(pos + 1)
	return ok
}

// Drain pops every event that was pending when it was called, in FIFO
// order, invoking fn for each. Events pushed mid-drain wait for the
// next call. Returns the number of events delivered.
func (q *Queue) Drain(fn func(NoteEvent)) int {
	n := q.mask + 1
	tail := q.tail.Load()
	delivered := 0
	for {
		head := q.head.Load()
		if head == tail {
			return delivered
		}
		s := &q.buf[head&q.mask]
		if s.seq.Load() != head+1 {
			// The producer reclaimed this slot on overflow; head has
			// already moved, re-read it.
			continue
		}
		// A failed CAS means the producer discarded this slot after
		// the sequence check; re-read head and continue.
		if q.head.CompareAndSwap(head, head+1) {
			ev := s.ev
			s.seq.Store(head + n)
			fn(ev)
			delivered++
		}
	}
}

// Len returns the number of pending events. Approximate under
// concurrent use; exact when called from the consumer side.
func (q *Queue) Len() int {
	return int(q.tail.Load() - q.head.Load())
}

// Overflows returns how many events have been dropped since creation.
func (q *Queue) Overflows() uint64 {
	return q.overflows.Load()
}
