// FILE: level_test.go
package logpipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelToString(t *testing.T) {
	assert.Equal(t, "TRACE", LevelToString(LevelTrace))
	assert.Equal(t, "DEBUG", LevelToString(LevelDebug))
	assert.Equal(t, "INFO", LevelToString(LevelInfo))
	assert.Equal(t, "WARN", LevelToString(LevelWarn))
	assert.Equal(t, "ERROR", LevelToString(LevelError))
	assert.Equal(t, "FATAL", LevelToString(LevelFatal))
	assert.Equal(t, "LEVEL(3)", LevelToString(3))
}

func TestParseLevel(t *testing.T) {
	cases := map[string]int64{
		"trace":   LevelTrace,
		"Debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		" error ": LevelError,
		"fatal":   LevelFatal,
	}
	for input, expected := range cases {
		level, err := ParseLevel(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, expected, level, "input %q", input)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLevelOrdering(t *testing.T) {
	assert.True(t, LevelTrace < LevelDebug)
	assert.True(t, LevelDebug < LevelInfo)
	assert.True(t, LevelInfo < LevelWarn)
	assert.True(t, LevelWarn < LevelError)
	assert.True(t, LevelError < LevelFatal)
}
