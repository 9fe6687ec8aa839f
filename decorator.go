// FILE: decorator.go
package logpipe

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Decorator is a sink wrapping exactly one inner sink. Write transforms
// a copy of the record and forwards it; flush, close and availability
// delegate unchanged. Chains are strictly linear: the outermost
// decorator is the entry point, the terminal sink the end.
type Decorator struct {
	inner Sink
}

func (d *Decorator) Write(rec Record) error {
	if d.inner == nil {
		return nil
	}
	return d.inner.Write(rec)
}

func (d *Decorator) Flush() error {
	if d.inner == nil {
		return nil
	}
	return d.inner.Flush()
}

func (d *Decorator) Close() error {
	if d.inner == nil {
		return nil
	}
	return d.inner.Close()
}

func (d *Decorator) IsAvailable() bool {
	return d.inner != nil && d.inner.IsAvailable()
}

// Inner returns the wrapped sink.
func (d *Decorator) Inner() Sink {
	return d.inner
}

// TimestampDecorator prefixes the message with the current time,
// formatted with a Go time layout.
type TimestampDecorator struct {
	Decorator
	layout string
}

// NewTimestampDecorator wraps inner; an empty layout falls back to
// "2006-01-02 15:04:05".
func NewTimestampDecorator(inner Sink, layout string) *TimestampDecorator {
	if layout == "" {
		layout = "2006-01-02 15:04:05"
	}
	return &TimestampDecorator{
		Decorator: Decorator{inner: inner},
		layout:    layout,
	}
}

func (t *TimestampDecorator) Write(rec Record) error {
	if t.inner == nil {
		return nil
	}
	stamped := rec.WithMessage("[" + time.Now().Format(t.layout) + "] " + rec.Message)
	return t.inner.Write(stamped)
}

// ANSI color codes keyed by level, original palette: trace and debug
// cyan, info green, warn yellow, error red, fatal magenta.
const colorReset = "\033[0m"

func colorCode(level int64) string {
	switch {
	case level <= LevelDebug:
		return "\033[36m"
	case level <= LevelInfo:
		return "\033[32m"
	case level <= LevelWarn:
		return "\033[33m"
	case level <= LevelError:
		return "\033[31m"
	default:
		return "\033[35m"
	}
}

// ColorDecorator wraps the message in an ANSI color code keyed by level
// plus a reset code. A disabled decorator forwards untouched.
type ColorDecorator struct {
	Decorator
	enabled bool
}

func NewColorDecorator(inner Sink, enabled bool) *ColorDecorator {
	return &ColorDecorator{
		Decorator: Decorator{inner: inner},
		enabled:   enabled,
	}
}

func (c *ColorDecorator) Write(rec Record) error {
	if c.inner == nil {
		return nil
	}
	if !c.enabled {
		return c.inner.Write(rec)
	}
	colored := rec.WithMessage(colorCode(rec.Level) + rec.Message + colorReset)
	return c.inner.Write(colored)
}

// Tag prepended by the compression decorator; Decompress strips it.
const compressedTag = "[COMPRESSED] "

var whitespaceRun = regexp.MustCompile(`\s+`)

// Compress collapses whitespace runs, trims, and prefixes the tag. A
// size-reduction heuristic, not real compression.
func Compress(message string) string {
	return compressedTag + strings.TrimSpace(whitespaceRun.ReplaceAllString(message, " "))
}

// Decompress is the reversible inverse of Compress; input without the
// tag passes through unchanged.
func Decompress(message string) string {
	return strings.TrimPrefix(message, compressedTag)
}

// CompressionDecorator applies Compress to messages at or above the
// size threshold; shorter messages pass through unchanged.
type CompressionDecorator struct {
	Decorator
	minSize int
}

// NewCompressionDecorator wraps inner; minSize <= 0 falls back to 1024.
func NewCompressionDecorator(inner Sink, minSize int) *CompressionDecorator {
	if minSize <= 0 {
		minSize = 1024
	}
	return &CompressionDecorator{
		Decorator: Decorator{inner: inner},
		minSize:   minSize,
	}
}

func (c *CompressionDecorator) Write(rec Record) error {
	if c.inner == nil {
		return nil
	}
	if len(rec.Message) < c.minSize {
		return c.inner.Write(rec)
	}
	return c.inner.Write(rec.WithMessage(Compress(rec.Message)))
}

// FilterDecorator forwards only records the predicate accepts. A nil
// predicate passes everything. A dropped write is not an error.
type FilterDecorator struct {
	Decorator
	predicate func(Record) bool
}

func NewFilterDecorator(inner Sink, predicate func(Record) bool) *FilterDecorator {
	return &FilterDecorator{
		Decorator: Decorator{inner: inner},
		predicate: predicate,
	}
}

func (f *FilterDecorator) Write(rec Record) error {
	if f.inner == nil {
		return nil
	}
	if f.predicate != nil && !f.predicate(rec) {
		return nil
	}
	return f.inner.Write(rec)
}

// FormatDecorator renders a template with the record's fields and
// forwards a record whose message is the rendered string. Placeholders:
// {level}, {message}, {file}, {line}, {function}, {time}, {thread}.
type FormatDecorator struct {
	Decorator
	template string
	layout   string
}

// NewFormatDecorator wraps inner with the given template. An empty
// template falls back to "[{level}] {time} {file}:{line} - {message}".
func NewFormatDecorator(inner Sink, template, timestampLayout string) *FormatDecorator {
	if template == "" {
		template = "[{level}] {time} {file}:{line} - {message}"
	}
	if timestampLayout == "" {
		timestampLayout = "2006-01-02 15:04:05"
	}
	return &FormatDecorator{
		Decorator: Decorator{inner: inner},
		template:  template,
		layout:    timestampLayout,
	}
}

func (f *FormatDecorator) Write(rec Record) error {
	if f.inner == nil {
		return nil
	}
	return f.inner.Write(rec.WithMessage(f.render(rec)))
}

func (f *FormatDecorator) render(rec Record) string {
	r := strings.NewReplacer(
		"{level}", LevelToString(rec.Level),
		"{message}", rec.Message,
		"{file}", rec.File,
		"{line}", strconv.Itoa(rec.Line),
		"{function}", rec.Function,
		"{time}", rec.Timestamp.Format(f.layout),
		"{thread}", rec.ThreadID,
	)
	return r.Replace(f.template)
}
