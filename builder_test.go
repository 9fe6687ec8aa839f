// FILE: builder_test.go
package logpipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderBuildsManager(t *testing.T) {
	m, err := NewBuilder().
		Directory(t.TempDir()).
		LevelString("debug").
		MaxQueueSize(512).
		BatchSize(32).
		EnableConsole(false).
		NATSSubject("events.logs").
		Build()
	require.NoError(t, err)
	defer m.Shutdown()

	cfg := m.GetConfig()
	assert.Equal(t, LevelDebug, cfg.Level)
	assert.Equal(t, int64(512), cfg.MaxQueueSize)
	assert.Equal(t, int64(32), cfg.BatchSize)
	assert.False(t, cfg.EnableConsole)
	assert.Equal(t, "events.logs", cfg.NATSSubject)
	assert.Equal(t, 0, m.SinkCount(), "no console chain when disabled")
}

func TestBuilderLevelStringError(t *testing.T) {
	_, err := NewBuilder().LevelString("shouty").Build()
	assert.Error(t, err)
}

func TestBuilderInvalidConfig(t *testing.T) {
	_, err := NewBuilder().MaxQueueSize(0).Build()
	assert.Error(t, err)
}

func TestBuilderSizeConvenience(t *testing.T) {
	b := NewBuilder().MaxFileSizeMB(2)
	assert.Equal(t, int64(2000), b.cfg.MaxFileSizeKB)
}

func TestBuilderFluentCoverage(t *testing.T) {
	b := NewBuilder().
		Level(LevelWarn).
		FileName("svc").
		Extension("txt").
		IdleWaitMs(20).
		FlushIntervalMs(500).
		ConsoleTarget("stderr").
		EnableColor(false).
		EnableTimestamp(false).
		TimestampFormat("15:04:05").
		FormatTemplate("{level} {message}").
		MaxFileSizeKB(256).
		MaxFileCount(4).
		NetworkAddress("127.0.0.1:6000").
		NATSURL("nats://127.0.0.1:4222").
		CompressionMinSize(64).
		InternalErrorsToStderr(true)

	cfg := b.cfg
	assert.Equal(t, LevelWarn, cfg.Level)
	assert.Equal(t, "svc", cfg.FileName)
	assert.Equal(t, "txt", cfg.Extension)
	assert.Equal(t, int64(20), cfg.IdleWaitMs)
	assert.Equal(t, int64(500), cfg.FlushIntervalMs)
	assert.Equal(t, "stderr", cfg.ConsoleTarget)
	assert.False(t, cfg.EnableColor)
	assert.False(t, cfg.EnableTimestamp)
	assert.Equal(t, "15:04:05", cfg.TimestampFormat)
	assert.Equal(t, "{level} {message}", cfg.FormatTemplate)
	assert.Equal(t, int64(256), cfg.MaxFileSizeKB)
	assert.Equal(t, int64(4), cfg.MaxFileCount)
	assert.Equal(t, "127.0.0.1:6000", cfg.NetworkAddress)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATSURL)
	assert.Equal(t, int64(64), cfg.CompressionMinSize)
	assert.True(t, cfg.InternalErrorsToStderr)
}
