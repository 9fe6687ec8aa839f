// FILE: worker.go
package logpipe

import (
	"sync"
	"sync/atomic"
	"time"
)

// Worker states. Draining is entered by Stop: producers are rejected,
// the remaining queue is consumed synchronously, sinks are flushed,
// then the worker transitions to Stopped.
const (
	workerStopped int32 = iota
	workerRunning
	workerDraining
)

// Worker owns the queue's consumer side. Exactly one consumer goroutine
// exists per running worker; it drains records in batches and forwards
// each to the dispatcher. Dispatch failures are swallowed here, they
// are already accounted per sink.
type Worker struct {
	queue      *Queue
	dispatcher *Dispatcher

	batchSize     int
	idleWait      time.Duration
	flushInterval time.Duration

	state    atomic.Int32
	stopChan chan struct{}
	done     chan struct{}

	flushRequests chan chan struct{}
	flushMu       sync.Mutex
	lifecycleMu   sync.Mutex

	processed atomic.Uint64
}

// NewWorker creates a stopped worker bound to a queue and dispatcher.
// Non-positive batch, idle wait, or flush interval fall back to the
// defaults (100 records, 100 ms, 1 s).
func NewWorker(queue *Queue, dispatcher *Dispatcher, batchSize int, idleWait, flushInterval time.Duration) *Worker {
	if batchSize <= 0 {
		batchSize = 100
	}
	if idleWait <= 0 {
		idleWait = 100 * time.Millisecond
	}
	if flushInterval <= 0 {
		flushInterval = time.Second
	}
	return &Worker{
		queue:         queue,
		dispatcher:    dispatcher,
		batchSize:     batchSize,
		idleWait:      idleWait,
		flushInterval: flushInterval,
		flushRequests: make(chan chan struct{}, 1),
	}
}

// Start spawns the consumer goroutine. Repeated starts while running
// are a no-op returning true.
func (w *Worker) Start() bool {
	w.lifecycleMu.Lock()
	defer w.lifecycleMu.Unlock()

	if !w.state.CompareAndSwap(workerStopped, workerRunning) {
		return w.state.Load() == workerRunning
	}
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})
	go w.run(w.stopChan, w.done)
	return true
}

// Stop signals the consumer to finish its in-flight batch, drain the
// remaining queue synchronously, flush all sinks, and exit; it blocks
// until the goroutine has joined. Safe to call when already stopped.
func (w *Worker) Stop() {
	w.lifecycleMu.Lock()
	defer w.lifecycleMu.Unlock()

	if !w.state.CompareAndSwap(workerRunning, workerDraining) {
		return
	}
	close(w.stopChan)
	<-w.done
	w.confirmPending()
	w.state.Store(workerStopped)
}

// doneChannel returns the join channel of the current consumer
// goroutine, or nil when the worker has never started.
func (w *Worker) doneChannel() chan struct{} {
	w.lifecycleMu.Lock()
	defer w.lifecycleMu.Unlock()
	return w.done
}

// confirmPending closes any flush confirmation still sitting in the
// request channel so a caller racing a stop does not wait out its
// timeout; the stop path has already flushed the sinks.
func (w *Worker) confirmPending() {
	for {
		select {
		case confirm := <-w.flushRequests:
			close(confirm)
		default:
			return
		}
	}
}

// IsRunning reports whether the worker accepts queued records.
// Draining counts as not running: new records go to the fallback path.
func (w *Worker) IsRunning() bool {
	return w.state.Load() == workerRunning
}

// WaitForCompletion polls queue depth and returns false on timeout. It
// does not cancel in-flight work or alter the running state.
func (w *Worker) WaitForCompletion(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if w.queue.Size() == 0 {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// Flush asks the consumer to flush all sinks and waits for
// confirmation. On a stopped worker the sinks are flushed directly.
func (w *Worker) Flush(timeout time.Duration) error {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()

	if !w.IsRunning() {
		return w.dispatcher.Flush()
	}
	done := w.doneChannel()

	confirm := make(chan struct{})
	select {
	case w.flushRequests <- confirm:
	case <-done:
		// Consumer exited between the running check and the send; its
		// stop path already flushed, flush directly for freshness.
		return w.dispatcher.Flush()
	case <-time.After(timeout):
		return pipeErrorf("failed to send flush request to worker")
	}

	select {
	case <-confirm:
		return nil
	case <-done:
		return w.dispatcher.Flush()
	case <-time.After(timeout):
		return pipeErrorf("timeout waiting for flush confirmation (%v)", timeout)
	}
}

// Processed returns the number of records forwarded to the dispatcher.
func (w *Worker) Processed() uint64 {
	return w.processed.Load()
}

// run is the consumer loop: batch dequeues, bounded idle wait instead
// of busy-spinning, periodic sink flush, and a final synchronous drain
// on shutdown.
func (w *Worker) run(stopChan <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	batch := make([]Record, w.batchSize)
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopChan:
			w.drain(batch)
			_ = w.dispatcher.Flush()
			return
		case confirm := <-w.flushRequests:
			_ = w.dispatcher.Flush()
			close(confirm)
		case <-ticker.C:
			_ = w.dispatcher.Flush()
		default:
		}

		n := w.queue.PopBatch(batch)
		if n == 0 {
			select {
			case <-stopChan:
				w.drain(batch)
				_ = w.dispatcher.Flush()
				return
			case confirm := <-w.flushRequests:
				_ = w.dispatcher.Flush()
				close(confirm)
			case <-ticker.C:
				_ = w.dispatcher.Flush()
			case <-time.After(w.idleWait):
			}
			continue
		}

		for i := 0; i < n; i++ {
			_ = w.dispatcher.Dispatch(batch[i])
			w.processed.Add(1)
		}
	}
}

// drain consumes everything left in the queue.
func (w *Worker) drain(batch []Record) {
	for {
		n := w.queue.PopBatch(batch)
		if n == 0 {
			return
		}
		for i := 0; i < n; i++ {
			_ = w.dispatcher.Dispatch(batch[i])
			w.processed.Add(1)
		}
	}
}
