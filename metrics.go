// FILE: metrics.go
package logpipe

// Metrics is a point-in-time snapshot of pipeline counters. Sustained
// overflow shows up here as a growing Dropped count; producers are
// never told about drops through errors.
type Metrics struct {
	Enqueued     uint64 `json:"enqueued"`
	Dropped      uint64 `json:"dropped"`
	Processed    uint64 `json:"processed"`
	Dispatched   uint64 `json:"dispatched"`
	Delivered    uint64 `json:"delivered"`
	Filtered     uint64 `json:"filtered"`
	SinkFailures uint64 `json:"sink_failures"`

	QueueDepth    int `json:"queue_depth"`
	QueueCapacity int `json:"queue_capacity"`
	SinkCount     int `json:"sink_count"`

	Running bool `json:"running"`
}

// Metrics returns the current pipeline counters. Counts are cumulative
// across queue rebuilds: retired pipeline counters are folded in.
func (m *Manager) Metrics() Metrics {
	p := m.active.Load()
	dispatched, delivered, filtered, failures := m.dispatcher.Stats()
	return Metrics{
		Enqueued:      p.queue.Pushed() + m.retiredEnqueued.Load(),
		Dropped:       p.queue.Dropped() + m.retiredDropped.Load(),
		Processed:     p.worker.Processed() + m.retiredProcessed.Load(),
		Dispatched:    dispatched,
		Delivered:     delivered,
		Filtered:      filtered,
		SinkFailures:  failures,
		QueueDepth:    p.queue.Size(),
		QueueCapacity: p.queue.Capacity(),
		SinkCount:     m.dispatcher.SinkCount(),
		Running:       p.worker.IsRunning(),
	}
}
