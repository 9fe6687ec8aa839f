// FILE: sink.go
package logpipe

import (
	"io"
	"net"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Sink is the terminal or intermediate consumer of records. A failed
// write is local to the sink: the dispatcher counts it and moves on,
// it never propagates to producer code.
type Sink interface {
	Write(rec Record) error
	Flush() error
	Close() error
	IsAvailable() bool
}

// Cooldown before an unavailable network-backed sink is offered to the
// dispatcher again.
const reconnectCooldown = 5 * time.Second

// ConsoleSink writes one line per record to stdout or stderr. Coloring
// is the color decorator's job, not the sink's; the sink only reports
// whether its stream is an interactive terminal so callers can decide.
type ConsoleSink struct {
	mu         sync.Mutex
	w          io.Writer
	isTerminal bool
}

// NewConsoleSink creates a console sink on stdout.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{
		w:          os.Stdout,
		isTerminal: term.IsTerminal(syscall.Stdout),
	}
}

// NewConsoleSinkTo creates a console sink on the given target, "stderr"
// or anything else for stdout.
func NewConsoleSinkTo(target string) *ConsoleSink {
	if target == "stderr" {
		return &ConsoleSink{
			w:          os.Stderr,
			isTerminal: term.IsTerminal(syscall.Stderr),
		}
	}
	return NewConsoleSink()
}

func (c *ConsoleSink) Write(rec Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.w, rec.formatLine()+"\n")
	return err
}

func (c *ConsoleSink) Flush() error {
	return nil
}

func (c *ConsoleSink) Close() error {
	return nil
}

// IsAvailable always reports true; the console has no failure mode the
// pipeline reacts to.
func (c *ConsoleSink) IsAvailable() bool {
	return true
}

// IsTerminal reports whether the underlying stream is interactive.
func (c *ConsoleSink) IsTerminal() bool {
	return c.isTerminal
}

// NetworkSink ships rendered records to a remote TCP receiver. Write
// connects on demand; a failed send marks the sink unavailable and
// drops the connection so the next attempt after the cooldown redials.
// The wire protocol is line-oriented text; anything richer belongs to
// the receiver.
type NetworkSink struct {
	mu        sync.Mutex
	address   string
	timeout   time.Duration
	conn      net.Conn
	retryAt   time.Time
	closed    bool
}

// NewNetworkSink creates a TCP sink for the given host:port address.
func NewNetworkSink(address string) *NetworkSink {
	return &NetworkSink{
		address: address,
		timeout: 5 * time.Second,
	}
}

func (n *NetworkSink) Write(rec Record) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return pipeErrorf("network sink closed")
	}
	if err := n.connectLocked(); err != nil {
		return err
	}

	if _, err := n.conn.Write([]byte(rec.formatLine() + "\n")); err != nil {
		n.dropConnLocked()
		return errors.Wrapf(err, "logpipe: send to %s failed", n.address)
	}
	return nil
}

func (n *NetworkSink) Flush() error {
	return nil
}

func (n *NetworkSink) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	if n.conn != nil {
		err := n.conn.Close()
		n.conn = nil
		return err
	}
	return nil
}

// IsAvailable reports true while connected, and again once the retry
// cooldown after a failure has elapsed so the sink can redial.
func (n *NetworkSink) IsAvailable() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return false
	}
	if n.conn != nil {
		return true
	}
	return time.Now().After(n.retryAt)
}

func (n *NetworkSink) connectLocked() error {
	if n.conn != nil {
		return nil
	}
	conn, err := net.DialTimeout("tcp", n.address, n.timeout)
	if err != nil {
		n.retryAt = time.Now().Add(reconnectCooldown)
		return errors.Wrapf(err, "logpipe: connect to %s failed", n.address)
	}
	n.conn = conn
	return nil
}

func (n *NetworkSink) dropConnLocked() {
	if n.conn != nil {
		_ = n.conn.Close()
		n.conn = nil
	}
	n.retryAt = time.Now().Add(reconnectCooldown)
}
