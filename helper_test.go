// FILE: helper_test.go
package logpipe

import (
	"sync"
)

// memorySink collects written records in memory for assertions. It can
// be switched to failing or unavailable to exercise the dispatcher's
// isolation paths.
type memorySink struct {
	mu          sync.Mutex
	records     []Record
	flushes     int
	closes      int
	failing     bool
	unavailable bool
}

func newMemorySink() *memorySink {
	return &memorySink{}
}

func (m *memorySink) Write(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return pipeErrorf("memory sink write failure")
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memorySink) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushes++
	return nil
}

func (m *memorySink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	return nil
}

func (m *memorySink) IsAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.unavailable
}

func (m *memorySink) setFailing(failing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = failing
}

func (m *memorySink) setUnavailable(unavailable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = unavailable
}

func (m *memorySink) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *memorySink) messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := make([]string, len(m.records))
	for i, rec := range m.records {
		msgs[i] = rec.Message
	}
	return msgs
}

func (m *memorySink) flushCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}

func (m *memorySink) closeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}
