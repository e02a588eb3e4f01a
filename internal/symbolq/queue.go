// Package symbolq implements the bounded FIFO queue bridging the keyer
// (producer) and the read surface (consumer).
//
// The queue holds decoded symbol bytes drawn from {'.', '-', ' ', '\n'}.
// One lock guards the whole queue; acquisition is interruptible through a
// context, mirroring an interruptible mutex. Enqueue at capacity drops the
// symbol and counts the drop rather than blocking the producer.
package symbolq

import (
	"context"
	"errors"
	"sync/atomic"
)

// Symbol alphabet of the decoded stream.
const (
	Dot       = byte('.')
	Dash      = byte('-')
	Separator = byte(' ')

	// newlineMarker terminates each non-empty drained batch.
	newlineMarker = byte('\n')
)

// DefaultCapacity matches the reference queue size (32 Ki symbols).
const DefaultCapacity = 1 << 15

// ErrInterrupted is returned when lock acquisition is aborted by the
// caller's context. The lock is not held and no state was touched.
var ErrInterrupted = errors.New("symbolq: lock acquisition interrupted")

// Stats is a point-in-time snapshot of queue counters.
type Stats struct {
	Enqueued uint64 // symbols accepted into the queue
	Dropped  uint64 // symbols discarded because the queue was full
	Drained  uint64 // symbols copied out by drains
}

// Queue is a fixed-capacity byte FIFO with interior synchronization.
// The zero value is not usable; use New.
type Queue struct {
	lock chan struct{} // 1-slot semaphore guarding buf/head/size

	buf  []byte
	head int
	size int

	enqueued atomic.Uint64
	dropped  atomic.Uint64
	drained  atomic.Uint64
}

// New creates a queue with the given capacity. A capacity below 1 falls
// back to DefaultCapacity.
func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Queue{
		lock: make(chan struct{}, 1),
		buf:  make([]byte, capacity),
	}
}

// acquire takes the queue lock, failing with ErrInterrupted if ctx is
// cancelled first. A cancelled context never wins a free lock.
func (q *Queue) acquire(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ErrInterrupted
	default:
	}
	select {
	case q.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ErrInterrupted
	}
}

func (q *Queue) release() {
	<-q.lock
}

// putLocked appends one symbol. Caller holds the lock. Returns false and
// counts a drop when the queue is at capacity.
func (q *Queue) putLocked(sym byte) bool {
	if q.size == len(q.buf) {
		q.dropped.Add(1)
		return false
	}
	q.buf[(q.head+q.size)%len(q.buf)] = sym
	q.size++
	q.enqueued.Add(1)
	return true
}

// Enqueue appends the given symbols in order under one lock acquisition.
// Symbols that do not fit are dropped and counted; the caller is not
// failed for a full queue. Returns ErrInterrupted if the lock could not
// be taken before ctx was cancelled.
func (q *Queue) Enqueue(ctx context.Context, syms ...byte) error {
	if err := q.acquire(ctx); err != nil {
		return err
	}
	for _, sym := range syms {
		q.putLocked(sym)
	}
	q.release()
	return nil
}

// DrainInto copies up to len(dst) symbols out in FIFO order, removing
// them from the queue. If the queue is non-empty a newline marker is
// appended to the tail first, unless the tail already holds one left by
// a previous partial drain. Returns the number of bytes copied; 0 for an
// empty queue, without blocking.
func (q *Queue) DrainInto(ctx context.Context, dst []byte) (int, error) {
	if err := q.acquire(ctx); err != nil {
		return 0, err
	}
	if q.size > 0 && q.buf[(q.head+q.size-1)%len(q.buf)] != newlineMarker {
		q.putLocked(newlineMarker)
	}
	n := len(dst)
	if n > q.size {
		n = q.size
	}
	for i := 0; i < n; i++ {
		dst[i] = q.buf[q.head]
		q.head = (q.head + 1) % len(q.buf)
	}
	q.size -= n
	q.drained.Add(uint64(n))
	q.release()
	return n, nil
}

// Len returns the number of queued symbols.
func (q *Queue) Len() int {
	q.lock <- struct{}{}
	n := q.size
	q.release()
	return n
}

// Cap returns the fixed capacity.
func (q *Queue) Cap() int {
	return len(q.buf)
}

// Stats returns a snapshot of the queue counters. Safe without the lock.
func (q *Queue) Stats() Stats {
	return Stats{
		Enqueued: q.enqueued.Load(),
		Dropped:  q.dropped.Load(),
		Drained:  q.drained.Load(),
	}
}
