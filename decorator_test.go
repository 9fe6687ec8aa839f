// FILE: decorator_test.go
package logpipe

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampDecorator(t *testing.T) {
	inner := newMemorySink()
	dec := NewTimestampDecorator(inner, "2006-01-02")

	require.NoError(t, dec.Write(NewRecord(LevelInfo, "stamped")))
	require.Equal(t, 1, inner.count())

	msg := inner.messages()[0]
	pattern := regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2}\] stamped$`)
	assert.True(t, pattern.MatchString(msg), "got %q", msg)
}

func TestColorDecorator(t *testing.T) {
	inner := newMemorySink()
	dec := NewColorDecorator(inner, true)

	cases := map[int64]string{
		LevelTrace: "\033[36m",
		LevelDebug: "\033[36m",
		LevelInfo:  "\033[32m",
		LevelWarn:  "\033[33m",
		LevelError: "\033[31m",
		LevelFatal: "\033[35m",
	}
	for level, code := range cases {
		require.NoError(t, dec.Write(NewRecord(level, "colored")))
		msg := inner.messages()[inner.count()-1]
		assert.True(t, strings.HasPrefix(msg, code), "level %d got %q", level, msg)
		assert.True(t, strings.HasSuffix(msg, colorReset), "level %d got %q", level, msg)
	}
}

func TestColorDecoratorDisabled(t *testing.T) {
	inner := newMemorySink()
	dec := NewColorDecorator(inner, false)

	require.NoError(t, dec.Write(NewRecord(LevelError, "plain")))
	assert.Equal(t, "plain", inner.messages()[0])
}

func TestDecoratorNesting(t *testing.T) {
	// Color outermost, then timestamp, then the sink: the color code
	// must wrap the already-stamped message.
	inner := newMemorySink()
	chain := NewColorDecorator(NewTimestampDecorator(inner, "2006"), true)

	require.NoError(t, chain.Write(NewRecord(LevelInfo, "nested")))
	msg := inner.messages()[0]
	assert.True(t, strings.HasPrefix(msg, "\033[32m["), "got %q", msg)
	assert.True(t, strings.HasSuffix(msg, "nested"+colorReset), "got %q", msg)
}

func TestCompressionDecorator(t *testing.T) {
	inner := newMemorySink()
	dec := NewCompressionDecorator(inner, 20)

	require.NoError(t, dec.Write(NewRecord(LevelInfo, "short")))
	assert.Equal(t, "short", inner.messages()[0])

	long := "  a   long \t message\nwith   runs   of whitespace  "
	require.NoError(t, dec.Write(NewRecord(LevelInfo, long)))
	compressed := inner.messages()[1]
	assert.True(t, strings.HasPrefix(compressed, "[COMPRESSED] "), "got %q", compressed)
	assert.Equal(t, "[COMPRESSED] a long message with runs of whitespace", compressed)
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	original := "collapsed to single spaces"
	assert.Equal(t, original, Decompress(Compress(original)))

	// Untagged input passes through Decompress unchanged.
	assert.Equal(t, "untouched", Decompress("untouched"))
}

func TestFilterDecorator(t *testing.T) {
	inner := newMemorySink()
	dec := NewFilterDecorator(inner, func(rec Record) bool {
		return rec.Level >= LevelWarn
	})

	require.NoError(t, dec.Write(NewRecord(LevelDebug, "dropped")))
	require.NoError(t, dec.Write(NewRecord(LevelInfo, "dropped too")))
	require.NoError(t, dec.Write(NewRecord(LevelWarn, "kept")))
	require.NoError(t, dec.Write(NewRecord(LevelError, "kept too")))

	assert.Equal(t, []string{"kept", "kept too"}, inner.messages())
}

func TestFilterDecoratorNilPredicatePassesAll(t *testing.T) {
	inner := newMemorySink()
	dec := NewFilterDecorator(inner, nil)

	require.NoError(t, dec.Write(NewRecord(LevelTrace, "anything")))
	assert.Equal(t, 1, inner.count())
}

func TestFormatDecorator(t *testing.T) {
	inner := newMemorySink()
	dec := NewFormatDecorator(inner, "{level}|{message}|{file}:{line}|{function}|{thread}", "")

	rec := NewRecordAt(LevelWarn, "formatted", "main.go", 42, "main.run")
	rec.ThreadID = "7"
	require.NoError(t, dec.Write(rec))

	assert.Equal(t, "WARN|formatted|main.go:42|main.run|7", inner.messages()[0])
}

func TestFormatDecoratorTimePlaceholder(t *testing.T) {
	inner := newMemorySink()
	dec := NewFormatDecorator(inner, "{time} {message}", "2006-01-02")

	rec := NewRecord(LevelInfo, "dated")
	rec.Timestamp = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, dec.Write(rec))

	assert.Equal(t, "2024-03-15 dated", inner.messages()[0])
}

func TestFormatDecoratorDefaultTemplate(t *testing.T) {
	inner := newMemorySink()
	dec := NewFormatDecorator(inner, "", "")

	rec := NewRecordAt(LevelInfo, "msg", "a.go", 1, "f")
	require.NoError(t, dec.Write(rec))
	assert.Contains(t, inner.messages()[0], "[INFO]")
	assert.Contains(t, inner.messages()[0], "a.go:1")
	assert.Contains(t, inner.messages()[0], "- msg")
}

func TestDecoratorDelegation(t *testing.T) {
	inner := newMemorySink()
	dec := NewTimestampDecorator(inner, "")

	require.NoError(t, dec.Flush())
	assert.Equal(t, 1, inner.flushCount())

	assert.True(t, dec.IsAvailable())
	inner.setUnavailable(true)
	assert.False(t, dec.IsAvailable())

	require.NoError(t, dec.Close())
	assert.Equal(t, 1, inner.closeCount())

	assert.Equal(t, Sink(inner), dec.Inner())
}

func TestDecoratorPreservesRecordFields(t *testing.T) {
	inner := newMemorySink()
	dec := NewTimestampDecorator(inner, "2006")

	rec := NewRecordAt(LevelError, "original", "x.go", 9, "x.f")
	require.NoError(t, dec.Write(rec))

	out := inner.records[0]
	assert.Equal(t, LevelError, out.Level)
	assert.Equal(t, "x.go", out.File)
	assert.Equal(t, 9, out.Line)
	assert.Equal(t, "x.f", out.Function)
	// The caller's record is untouched.
	assert.Equal(t, "original", rec.Message)
}
