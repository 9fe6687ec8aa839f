// FILE: dispatcher.go
package logpipe

import (
	"math/rand"
	"sync"
	"sync/atomic"
)

// RoutingPolicy selects which sinks receive a record.
type RoutingPolicy int32

const (
	// RouteBroadcast delivers to every registered sink.
	RouteBroadcast RoutingPolicy = iota
	// RouteRoundRobin delivers to a single sink selected by a counter
	// that persists across calls.
	RouteRoundRobin
	// RouteRandom delivers to a single uniformly chosen sink.
	RouteRandom
	// RouteCustom delivers to the index returned by the user route
	// function; an out-of-range index yields no delivery.
	RouteCustom
)

// Dispatcher owns the configured sinks and routes records to them. The
// sink list mutates only under its lock; routing indices are valid only
// for the snapshot taken inside a dispatch, so a sink removed between
// selection and write is simply skipped.
type Dispatcher struct {
	mu      sync.Mutex
	sinks   []Sink
	filter  func(Record) bool
	route   func(Record) int
	policy  RoutingPolicy
	rrIndex atomic.Uint64

	dispatched atomic.Uint64
	delivered  atomic.Uint64
	filtered   atomic.Uint64
	failures   atomic.Uint64
}

// NewDispatcher creates a dispatcher with broadcast routing and no
// message filter.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Dispatch routes one record: the message filter runs first, then the
// routing policy selects target indices, then each selected available
// sink is written. Per-sink failures are counted and skipped so one
// broken sink never blocks delivery to the others. Returns the number
// of sinks that accepted the write.
func (d *Dispatcher) Dispatch(rec Record) int {
	d.dispatched.Add(1)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.filter != nil && !d.filter(rec) {
		d.filtered.Add(1)
		return 0
	}

	delivered := 0
	for _, idx := range d.selectTargets(rec) {
		if idx < 0 || idx >= len(d.sinks) {
			continue
		}
		sink := d.sinks[idx]
		if sink == nil || !sink.IsAvailable() {
			continue
		}
		if err := sink.Write(rec); err != nil {
			d.failures.Add(1)
			continue
		}
		delivered++
	}
	d.delivered.Add(uint64(delivered))
	return delivered
}

// selectTargets computes the routing decision. Caller holds d.mu.
func (d *Dispatcher) selectTargets(rec Record) []int {
	count := len(d.sinks)
	if count == 0 {
		return nil
	}

	if d.route != nil {
		idx := d.route(rec)
		if idx < 0 || idx >= count {
			return nil
		}
		return []int{idx}
	}

	switch d.policy {
	case RouteRoundRobin:
		idx := int((d.rrIndex.Add(1) - 1) % uint64(count))
		return []int{idx}
	case RouteRandom:
		return []int{rand.Intn(count)}
	default:
		targets := make([]int, count)
		for i := range targets {
			targets[i] = i
		}
		return targets
	}
}

// AddSink appends a sink; ownership transfers to the dispatcher.
func (d *Dispatcher) AddSink(sink Sink) {
	if sink == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, sink)
}

// RemoveSink closes and removes the sink at index, reporting whether
// the index was valid.
func (d *Dispatcher) RemoveSink(index int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.sinks) {
		return false
	}
	if s := d.sinks[index]; s != nil {
		_ = s.Close()
	}
	d.sinks = append(d.sinks[:index], d.sinks[index+1:]...)
	return true
}

// ClearSinks closes and removes every sink. The round-robin counter
// persists.
func (d *Dispatcher) ClearSinks() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.sinks {
		if s != nil {
			_ = s.Close()
		}
	}
	d.sinks = nil
}

// SinkCount returns the number of registered sinks.
func (d *Dispatcher) SinkCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sinks)
}

// SetMessageFilter installs the predicate consulted before routing.
func (d *Dispatcher) SetMessageFilter(filter func(Record) bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filter = filter
}

// ClearMessageFilter removes the message filter.
func (d *Dispatcher) ClearMessageFilter() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filter = nil
}

// SetRouteFunc installs a custom route function, overriding the policy
// until cleared.
func (d *Dispatcher) SetRouteFunc(route func(Record) int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.route = route
}

// ClearRouteFunc removes the custom route function.
func (d *Dispatcher) ClearRouteFunc() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.route = nil
}

// SetRoutingPolicy selects the built-in routing policy. Ignored while a
// custom route function is installed.
func (d *Dispatcher) SetRoutingPolicy(policy RoutingPolicy) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.policy = policy
}

// Flush flushes every sink, swallowing individual failures and
// continuing to the next; the combined error is returned for
// observability.
func (d *Dispatcher) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var combined error
	for _, s := range d.sinks {
		if s == nil || !s.IsAvailable() {
			continue
		}
		if err := s.Flush(); err != nil {
			d.failures.Add(1)
			combined = combineErrors(combined, err)
		}
	}
	return combined
}

// Close closes every sink, continuing past individual failures.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var combined error
	for _, s := range d.sinks {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil {
			combined = combineErrors(combined, err)
		}
	}
	d.sinks = nil
	return combined
}

// Stats returns dispatch counters: records seen, deliveries, records
// rejected by the filter, and per-sink write failures.
func (d *Dispatcher) Stats() (dispatched, delivered, filtered, failures uint64) {
	return d.dispatched.Load(), d.delivered.Load(), d.filtered.Load(), d.failures.Load()
}
