// FILE: registry_test.go
package logpipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, []string{"console", "file", "nats", "network"}, r.RegisteredOutputKinds())
	assert.Equal(t, []string{"color", "compression", "filter", "format", "timestamp"}, r.RegisteredDecoratorKinds())

	for _, kind := range []string{"console", "file", "network", "nats"} {
		assert.True(t, r.HasOutputKind(kind), kind)
	}
	for _, kind := range []string{"timestamp", "color", "compression", "filter", "format"} {
		assert.True(t, r.HasDecoratorKind(kind), kind)
	}
}

func TestRegistryUnknownKindYieldsNil(t *testing.T) {
	r := NewRegistry()
	cfg := DefaultConfig()

	assert.Nil(t, r.CreateOutput("syslog", cfg))
	assert.Nil(t, r.CreateDecorator("encrypt", newMemorySink(), cfg))
	assert.Nil(t, r.CreateDecoratedOutput("console", []string{"timestamp", "encrypt"}, cfg))
}

func TestRegistryCreateOutput(t *testing.T) {
	r := NewRegistry()
	cfg := DefaultConfig()
	cfg.Directory = t.TempDir()

	console := r.CreateOutput("console", cfg)
	require.NotNil(t, console)
	assert.IsType(t, &ConsoleSink{}, console)

	file := r.CreateOutput("file", cfg)
	require.NotNil(t, file)
	assert.IsType(t, &FileSink{}, file)
	_ = file.Close()

	// Network output needs an address configured.
	assert.Nil(t, r.CreateOutput("network", cfg))
	cfg.NetworkAddress = "127.0.0.1:9999"
	assert.NotNil(t, r.CreateOutput("network", cfg))
}

func TestRegistryCreateDecoratedOutput(t *testing.T) {
	r := NewRegistry()
	cfg := DefaultConfig()

	// Register a capture output so the chain ends in memory.
	captured := newMemorySink()
	require.True(t, r.RegisterOutputKind("memory", func(*Config) Sink { return captured }))

	chain := r.CreateDecoratedOutput("memory", []string{"color", "timestamp"}, cfg)
	require.NotNil(t, chain)

	// First listed kind is the chain entry point.
	color, ok := chain.(*ColorDecorator)
	require.True(t, ok, "outermost must be the color decorator")
	ts, ok := color.Inner().(*TimestampDecorator)
	require.True(t, ok, "timestamp must sit inside color")
	assert.Equal(t, Sink(captured), ts.Inner())
}

func TestRegistryRegisterOverwriteUnregister(t *testing.T) {
	r := NewRegistry()
	cfg := DefaultConfig()

	first := newMemorySink()
	second := newMemorySink()
	require.True(t, r.RegisterOutputKind("custom", func(*Config) Sink { return first }))
	assert.Equal(t, Sink(first), r.CreateOutput("custom", cfg))

	// Re-registering overwrites.
	require.True(t, r.RegisterOutputKind("custom", func(*Config) Sink { return second }))
	assert.Equal(t, Sink(second), r.CreateOutput("custom", cfg))

	assert.True(t, r.UnregisterOutputKind("custom"))
	assert.False(t, r.UnregisterOutputKind("custom"))
	assert.Nil(t, r.CreateOutput("custom", cfg))

	assert.False(t, r.RegisterOutputKind("", func(*Config) Sink { return nil }))
	assert.False(t, r.RegisterOutputKind("nil-ctor", nil))
}

func TestRegistryUnregisterDecorator(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.UnregisterDecoratorKind("color"))
	assert.False(t, r.HasDecoratorKind("color"))
	assert.Nil(t, r.CreateDecorator("color", newMemorySink(), DefaultConfig()))
}

func TestRegistryPartialChainClosedOnFailure(t *testing.T) {
	r := NewRegistry()
	cfg := DefaultConfig()

	captured := newMemorySink()
	require.True(t, r.RegisterOutputKind("memory", func(*Config) Sink { return captured }))

	chain := r.CreateDecoratedOutput("memory", []string{"timestamp", "nosuch"}, cfg)
	assert.Nil(t, chain)
	assert.Equal(t, 1, captured.closeCount(), "partial chain must be closed")
}

func TestRegistryFilterDecoratorUsesConfigLevel(t *testing.T) {
	r := NewRegistry()
	cfg := DefaultConfig()
	cfg.Level = LevelWarn

	inner := newMemorySink()
	dec := r.CreateDecorator("filter", inner, cfg)
	require.NotNil(t, dec)

	require.NoError(t, dec.Write(NewRecord(LevelInfo, "below")))
	require.NoError(t, dec.Write(NewRecord(LevelError, "above")))
	assert.Equal(t, []string{"above"}, inner.messages())
}
