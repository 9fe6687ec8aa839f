// FILE: manager.go
package logpipe

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// pipeline bundles a queue with its consumer. The pair is swapped
// atomically during reconfiguration so a producer always observes a
// matched queue and worker, never a half-replaced one.
type pipeline struct {
	queue  *Queue
	worker *Worker
}

// Manager owns the queue, worker, dispatcher, and configuration, and
// exposes the public logging API. Managers are created explicitly and
// shut down explicitly; there is no hidden global lookup, which keeps
// embedders and tests isolated from each other.
type Manager struct {
	currentConfig atomic.Pointer[Config]

	active     atomic.Pointer[pipeline]
	dispatcher *Dispatcher
	registry   *Registry

	// Counters carried over from pipelines retired by SetConfig, so
	// Metrics stays cumulative across queue rebuilds.
	retiredEnqueued  atomic.Uint64
	retiredDropped   atomic.Uint64
	retiredProcessed atomic.Uint64

	initMu         sync.Mutex
	shutdownCalled atomic.Bool
}

// NewManager creates a manager with the default configuration and the
// default decorated console chain installed.
func NewManager() *Manager {
	m, _ := NewManagerWithConfig(DefaultConfig())
	return m
}

// NewManagerWithConfig creates a manager from a validated
// configuration. When console output is enabled the default chain
// Color(Timestamp(Console)) is installed; color is applied only when
// enabled and the target stream is an interactive terminal.
func NewManagerWithConfig(cfg *Config) (*Manager, error) {
	if cfg == nil {
		return nil, pipeErrorf("configuration cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		dispatcher: NewDispatcher(),
		registry:   NewRegistry(),
	}
	m.currentConfig.Store(cfg.Clone())
	m.active.Store(m.buildPipeline(cfg))

	if cfg.EnableConsole {
		m.dispatcher.AddSink(m.buildConsoleChain(cfg))
	}
	return m, nil
}

// buildPipeline creates a stopped queue/worker pair for cfg.
func (m *Manager) buildPipeline(cfg *Config) *pipeline {
	queue := NewQueue(int(cfg.MaxQueueSize))
	return &pipeline{
		queue:  queue,
		worker: NewWorker(queue, m.dispatcher, int(cfg.BatchSize), cfg.IdleWait(), cfg.FlushInterval()),
	}
}

// buildConsoleChain assembles the default decorated console sink.
func (m *Manager) buildConsoleChain(cfg *Config) Sink {
	console := NewConsoleSinkTo(cfg.ConsoleTarget)
	var sink Sink = console
	if cfg.EnableTimestamp {
		sink = NewTimestampDecorator(sink, cfg.TimestampFormat)
	}
	sink = NewColorDecorator(sink, cfg.EnableColor && console.IsTerminal())
	return sink
}

// Log enqueues one record. Non-blocking: a saturated queue drops the
// record silently (the drop is counted, see Metrics). When the pipeline
// is not running the record is dispatched synchronously instead.
func (m *Manager) Log(level int64, message string) {
	m.submit(NewRecord(level, message))
}

// LogAt enqueues one record carrying source location information.
func (m *Manager) LogAt(level int64, message, file string, line int, function string) {
	m.submit(NewRecordAt(level, message, file, line, function))
}

func (m *Manager) submit(rec Record) {
	if m.shutdownCalled.Load() {
		return
	}
	cfg := m.getConfig()
	if rec.Level < cfg.Level {
		return
	}
	if !cfg.EnableThreadID {
		rec.ThreadID = ""
	}

	p := m.active.Load()
	if p.worker.IsRunning() {
		if !p.queue.Push(rec) {
			m.internalLog("queue full, record dropped\n")
		}
		return
	}
	// Fallback synchronous path: direct, unbuffered dispatch.
	m.dispatcher.Dispatch(rec)
}

// Trace logs a message at trace level.
func (m *Manager) Trace(args ...any) {
	m.Log(LevelTrace, formatArgs(args...))
}

// Debug logs a message at debug level.
func (m *Manager) Debug(args ...any) {
	m.Log(LevelDebug, formatArgs(args...))
}

// Info logs a message at info level.
func (m *Manager) Info(args ...any) {
	m.Log(LevelInfo, formatArgs(args...))
}

// Warn logs a message at warning level.
func (m *Manager) Warn(args ...any) {
	m.Log(LevelWarn, formatArgs(args...))
}

// Error logs a message at error level.
func (m *Manager) Error(args ...any) {
	m.Log(LevelError, formatArgs(args...))
}

// Fatal logs a message at fatal level. Process exit policy belongs to
// the caller; the pipeline only orders the level.
func (m *Manager) Fatal(args ...any) {
	m.Log(LevelFatal, formatArgs(args...))
}

// Tracef logs a printf-formatted message at trace level.
func (m *Manager) Tracef(format string, args ...any) {
	m.Log(LevelTrace, fmt.Sprintf(format, args...))
}

// Debugf logs a printf-formatted message at debug level.
func (m *Manager) Debugf(format string, args ...any) {
	m.Log(LevelDebug, fmt.Sprintf(format, args...))
}

// Infof logs a printf-formatted message at info level.
func (m *Manager) Infof(format string, args ...any) {
	m.Log(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs a printf-formatted message at warning level.
func (m *Manager) Warnf(format string, args ...any) {
	m.Log(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs a printf-formatted message at error level.
func (m *Manager) Errorf(format string, args ...any) {
	m.Log(LevelError, fmt.Sprintf(format, args...))
}

// Fatalf logs a printf-formatted message at fatal level.
func (m *Manager) Fatalf(format string, args ...any) {
	m.Log(LevelFatal, fmt.Sprintf(format, args...))
}

// Start begins background processing. Repeated starts while running
// are a no-op returning true. Returns false after shutdown.
func (m *Manager) Start() bool {
	if m.shutdownCalled.Load() {
		return false
	}
	return m.active.Load().worker.Start()
}

// Stop halts background processing after draining the queue and
// flushing all sinks. The manager can be restarted with Start.
func (m *Manager) Stop() {
	m.active.Load().worker.Stop()
}

// IsRunning reports whether records are being consumed in the
// background.
func (m *Manager) IsRunning() bool {
	return m.active.Load().worker.IsRunning()
}

// Flush forces all sinks to flush, waiting for the worker's
// confirmation while running.
func (m *Manager) Flush() error {
	cfg := m.getConfig()
	return m.active.Load().worker.Flush(2 * cfg.FlushInterval())
}

// WaitForCompletion polls queue depth until it reaches zero or the
// timeout elapses; it does not alter the running state.
func (m *Manager) WaitForCompletion(timeout time.Duration) bool {
	return m.active.Load().worker.WaitForCompletion(timeout)
}

// QueueSize returns the approximate number of queued records.
func (m *Manager) QueueSize() int {
	return m.active.Load().queue.Size()
}

// AddSink transfers ownership of a sink (or decorated chain) to the
// dispatcher.
func (m *Manager) AddSink(sink Sink) {
	m.dispatcher.AddSink(sink)
}

// RemoveSink closes and removes the sink at index.
func (m *Manager) RemoveSink(index int) bool {
	return m.dispatcher.RemoveSink(index)
}

// ClearSinks closes and removes every sink.
func (m *Manager) ClearSinks() {
	m.dispatcher.ClearSinks()
}

// SinkCount returns the number of registered sinks.
func (m *Manager) SinkCount() int {
	return m.dispatcher.SinkCount()
}

// Dispatcher exposes routing and filtering configuration.
func (m *Manager) Dispatcher() *Dispatcher {
	return m.dispatcher
}

// Registry exposes sink and decorator kind registration.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// CreateOutput builds a terminal sink of the given kind with the
// current configuration.
func (m *Manager) CreateOutput(kind string) Sink {
	return m.registry.CreateOutput(kind, m.getConfig())
}

// CreateDecorator wraps inner with a decorator of the given kind using
// the current configuration.
func (m *Manager) CreateDecorator(kind string, inner Sink) Sink {
	return m.registry.CreateDecorator(kind, inner, m.getConfig())
}

// CreateDecoratedOutput builds a decorated sink chain, first decorator
// kind outermost, using the current configuration.
func (m *Manager) CreateDecoratedOutput(kind string, decoratorKinds ...string) Sink {
	return m.registry.CreateDecoratedOutput(kind, decoratorKinds, m.getConfig())
}

// GetConfig returns a copy of the current configuration.
func (m *Manager) GetConfig() *Config {
	return m.getConfig().Clone()
}

// SetConfig applies a validated configuration atomically. Changing
// queue or worker dimensions swaps in a fresh pipeline: the old one is
// stopped and drained, the pointer is replaced, and the retired queue
// is sealed and re-drained so a producer racing the swap cannot strand
// an accepted record. Retired counters roll into Metrics.
func (m *Manager) SetConfig(cfg *Config) error {
	if cfg == nil {
		return pipeErrorf("configuration cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.initMu.Lock()
	defer m.initMu.Unlock()

	old := m.getConfig()
	needsRebuild := old.MaxQueueSize != cfg.MaxQueueSize ||
		old.BatchSize != cfg.BatchSize ||
		old.IdleWaitMs != cfg.IdleWaitMs ||
		old.FlushIntervalMs != cfg.FlushIntervalMs

	if !needsRebuild {
		m.currentConfig.Store(cfg.Clone())
		return nil
	}

	retired := m.active.Load()
	wasRunning := retired.worker.IsRunning()
	if wasRunning {
		// Stop drains the retired queue into the sinks.
		retired.worker.Stop()
	}

	next := m.buildPipeline(cfg)
	m.currentConfig.Store(cfg.Clone())
	m.active.Store(next)

	// Producers holding the retired pipeline may have pushed between
	// the worker's drain and the swap. Seal first so any later push is
	// counted as a drop, then deliver what the seal caught in flight.
	retired.queue.Seal()
	for {
		rec, ok := retired.queue.TryPop()
		if !ok {
			break
		}
		m.dispatcher.Dispatch(rec)
	}

	m.retiredEnqueued.Add(retired.queue.Pushed())
	m.retiredDropped.Add(retired.queue.Dropped())
	m.retiredProcessed.Add(retired.worker.Processed())

	if wasRunning {
		next.worker.Start()
	}
	return nil
}

// SetConfigString applies "key=value" overrides to the current
// configuration, keys matching the toml tags.
func (m *Manager) SetConfigString(overrides ...string) error {
	cfg := m.GetConfig()

	var errs []error
	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := applyConfigField(cfg, key, value); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return combineConfigErrors(errs)
	}
	return m.SetConfig(cfg)
}

// Shutdown stops the worker, drains the queue, and flushes and closes
// every sink exactly once. The manager cannot be restarted afterwards.
func (m *Manager) Shutdown() error {
	if !m.shutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	m.initMu.Lock()
	defer m.initMu.Unlock()

	p := m.active.Load()
	var flushErr error
	if p.worker.IsRunning() {
		// Stop drains the queue and flushes all sinks.
		p.worker.Stop()
	} else {
		flushErr = m.dispatcher.Flush()
	}
	return combineErrors(flushErr, m.dispatcher.Close())
}

// getConfig returns the current configuration (thread-safe).
func (m *Manager) getConfig() *Config {
	return m.currentConfig.Load()
}

// internalLog writes pipeline diagnostics to stderr when enabled.
func (m *Manager) internalLog(format string, args ...any) {
	if !m.getConfig().InternalErrorsToStderr {
		return
	}
	if !strings.HasPrefix(format, "logpipe: ") {
		format = "logpipe: " + format
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
