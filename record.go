// FILE: record.go
package logpipe

import (
	"bytes"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Record is a single log event. Records are passed by value through the
// pipeline; a decorator that changes the message forwards a modified copy,
// never a mutation of a record another component may still hold.
type Record struct {
	Level     int64
	Message   string
	File      string
	Line      int
	Function  string
	Timestamp time.Time
	ThreadID  string
}

// NewRecord creates a record stamped with the current time and the
// calling goroutine's identifier.
func NewRecord(level int64, message string) Record {
	return Record{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
		ThreadID:  goroutineID(),
	}
}

// NewRecordAt creates a record carrying source location information.
func NewRecordAt(level int64, message, file string, line int, function string) Record {
	rec := NewRecord(level, message)
	rec.File = file
	rec.Line = line
	rec.Function = function
	return rec
}

// WithMessage returns a copy of the record with a replaced message.
func (r Record) WithMessage(message string) Record {
	r.Message = message
	return r
}

// Line rendering used by the terminal sinks. Decorator output lands in
// Message, so the line carries level, source location, and message only.
func (r Record) formatLine() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(LevelToString(r.Level))
	b.WriteString("] ")
	if r.File != "" {
		b.WriteString(r.File)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(r.Line))
		b.WriteByte(' ')
	}
	if r.Function != "" {
		b.WriteString(r.Function)
		b.WriteByte(' ')
	}
	b.WriteString("- ")
	b.WriteString(r.Message)
	return b.String()
}

// goroutineID extracts the numeric goroutine id from the stack header.
// The id is an opaque producer identifier; nothing in the pipeline
// interprets it beyond display.
func goroutineID() string {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	// Header shape: "goroutine 123 [running]:"
	fields := bytes.Fields(buf[:n])
	if len(fields) >= 2 {
		return string(fields[1])
	}
	return "0"
}
