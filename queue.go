// FILE: queue.go
package logpipe

import (
	"sync"
	"sync/atomic"
	"time"
)

// Queue is the bounded multi-producer intake buffer. Producers push
// without blocking; a full queue drops the newest record and counts it.
// Exactly one consumer may pop at a time; the worker enforces the
// single-consumer discipline so the queue itself stays allocation-light.
type Queue struct {
	ch      chan Record
	sealMu  sync.RWMutex
	sealed  atomic.Bool
	pushed  atomic.Uint64
	popped  atomic.Uint64
	dropped atomic.Uint64
}

// NewQueue creates a queue with the given capacity. Capacity below one
// is raised to one.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{
		ch: make(chan Record, capacity),
	}
}

// Push enqueues a record. Returns false when the queue is at capacity
// or sealed; the record is dropped and counted, the producer is never
// blocked.
func (q *Queue) Push(rec Record) bool {
	q.sealMu.RLock()
	defer q.sealMu.RUnlock()
	if q.sealed.Load() {
		q.dropped.Add(1)
		return false
	}
	select {
	case q.ch <- rec:
		q.pushed.Add(1)
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// TryPop removes the oldest record without waiting.
func (q *Queue) TryPop() (Record, bool) {
	select {
	case rec := <-q.ch:
		q.popped.Add(1)
		return rec, true
	default:
		return Record{}, false
	}
}

// PopWait removes the oldest record, waiting up to timeout when the
// queue is empty.
func (q *Queue) PopWait(timeout time.Duration) (Record, bool) {
	select {
	case rec := <-q.ch:
		q.popped.Add(1)
		return rec, true
	case <-time.After(timeout):
		return Record{}, false
	}
}

// PopBatch drains up to len(dst) records into dst preserving queue
// order, returning the count actually drained. Zero is permissible.
func (q *Queue) PopBatch(dst []Record) int {
	n := 0
	for n < len(dst) {
		select {
		case rec := <-q.ch:
			dst[n] = rec
			n++
		default:
			return q.batchDone(n)
		}
	}
	return q.batchDone(n)
}

func (q *Queue) batchDone(n int) int {
	if n > 0 {
		q.popped.Add(uint64(n))
	}
	return n
}

// Seal permanently rejects further pushes; late producers are counted
// as drops instead of stranding records nobody will consume. Seal
// returns only after in-flight pushes have completed, so a drain after
// Seal observes every record the queue ever accepted.
func (q *Queue) Seal() {
	q.sealMu.Lock()
	q.sealed.Store(true)
	q.sealMu.Unlock()
}

// Size returns the approximate element count. It may be stale under
// concurrent pushes but never negative.
func (q *Queue) Size() int {
	return len(q.ch)
}

// Capacity returns the configured bound.
func (q *Queue) Capacity() int {
	return cap(q.ch)
}

// Dropped returns the number of records rejected at capacity.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}

// Pushed returns the number of records accepted since creation.
func (q *Queue) Pushed() uint64 {
	return q.pushed.Load()
}
