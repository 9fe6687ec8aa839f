// FILE: compat/gnet.go
package compat

import (
	"fmt"
	"os"

	"github.com/lixenwraith/logpipe"
)

// GnetAdapter wraps logpipe.Manager to implement gnet logging.Logger interface
type GnetAdapter struct {
	pipe         *logpipe.Manager
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(pipe *logpipe.Manager, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		pipe: pipe,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.pipe.Log(logpipe.LevelDebug, "gnet: "+fmt.Sprintf(format, args...))
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.pipe.Log(logpipe.LevelInfo, "gnet: "+fmt.Sprintf(format, args...))
}

// Warnf logs at warn level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.pipe.Log(logpipe.LevelWarn, "gnet: "+fmt.Sprintf(format, args...))
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.pipe.Log(logpipe.LevelError, "gnet: "+fmt.Sprintf(format, args...))
}

// Fatalf logs at fatal level and triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.pipe.Log(logpipe.LevelFatal, "gnet: "+msg)

	// Ensure the record reaches the sinks before exit
	_ = a.pipe.Flush()

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
