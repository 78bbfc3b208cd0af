package resolver

import "errors"

// ErrInvalidCapacity is returned when a queue is created with a
// non-positive capacity.
var ErrInvalidCapacity = errors.New("queue capacity must be positive")

// Queue is a fixed-capacity circular buffer of pending address strings
// with membership testing. Admission order is preserved (FIFO) and the
// capacity never changes after construction.
//
// Queue is not safe for concurrent use on its own: the Service that
// embeds it serializes all access under one mutex, which is also what
// keeps membership tests consistent with enqueues.
type Queue struct {
	buf  []string
	head int
	tail int
	size int
}

// NewQueue creates an empty queue with the given capacity.
func NewQueue(capacity int) (*Queue, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &Queue{
		buf: make([]string, capacity),
	}, nil
}

// Enqueue appends addr at the tail. It returns false without mutating
// the queue when full.
func (q *Queue) Enqueue(addr string) bool {
	if q.Full() {
		return false
	}
	q.buf[q.tail] = addr
	q.tail = (q.tail + 1) % len(q.buf)
	q.size++
	return true
}

// Dequeue removes and returns the head item. It returns false when the
// queue is empty.
func (q *Queue) Dequeue() (string, bool) {
	if q.Empty() {
		return "", false
	}
	addr := q.buf[q.head]
	q.buf[q.head] = "" // release the slot's backing string
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return addr, true
}

// Find reports whether addr is currently queued, by exact string
// equality over the live slots.
func (q *Queue) Find(addr string) bool {
	for i := 0; i < q.size; i++ {
		if q.buf[(q.head+i)%len(q.buf)] == addr {
			return true
		}
	}
	return false
}

// Empty reports whether the queue holds no items.
func (q *Queue) Empty() bool { return q.size == 0 }

// Full reports whether the queue is at capacity.
func (q *Queue) Full() bool { return q.size == len(q.buf) }

// Len returns the number of queued items.
func (q *Queue) Len() int { return q.size }

// Cap returns the fixed capacity.
func (q *Queue) Cap() int { return len(q.buf) }
