// FILE: natsink.go
package logpipe

import (
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
)

// NATSSink publishes rendered records to a NATS subject. Connection
// handling mirrors the TCP sink: connect on demand, mark unavailable on
// failure, redial after the cooldown. Delivery guarantees end at the
// broker; the pipeline treats a failed publish as unavailability, never
// as a fatal condition.
type NATSSink struct {
	mu      sync.Mutex
	url     string
	subject string
	conn    *nats.Conn
	retryAt time.Time
	closed  bool
}

// NewNATSSink creates a sink publishing to subject on the server at url.
func NewNATSSink(url, subject string) *NATSSink {
	if url == "" {
		url = nats.DefaultURL
	}
	return &NATSSink{
		url:     url,
		subject: subject,
	}
}

func (s *NATSSink) Write(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return pipeErrorf("nats sink closed")
	}
	if err := s.connectLocked(); err != nil {
		return err
	}

	if err := s.conn.Publish(s.subject, []byte(rec.formatLine())); err != nil {
		s.dropConnLocked()
		return errors.Wrapf(err, "logpipe: publish to %s failed", s.subject)
	}
	return nil
}

func (s *NATSSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.FlushTimeout(2 * time.Second)
}

func (s *NATSSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	return nil
}

func (s *NATSSink) IsAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if s.conn != nil && s.conn.IsConnected() {
		return true
	}
	return time.Now().After(s.retryAt)
}

func (s *NATSSink) connectLocked() error {
	if s.conn != nil && s.conn.IsConnected() {
		return nil
	}
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	conn, err := nats.Connect(s.url,
		nats.Timeout(5*time.Second),
		nats.RetryOnFailedConnect(false),
	)
	if err != nil {
		s.retryAt = time.Now().Add(reconnectCooldown)
		return errors.Wrapf(err, "logpipe: connect to nats %s failed", s.url)
	}
	s.conn = conn
	return nil
}

func (s *NATSSink) dropConnLocked() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.retryAt = time.Now().Add(reconnectCooldown)
}
