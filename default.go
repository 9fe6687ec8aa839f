// FILE: default.go
package logpipe

import "sync"

// Process-wide convenience manager. Created lazily so importing the
// package has no side effects; applications that inject their own
// managers never pay for it.
var (
	defaultMu      sync.Mutex
	defaultManager *Manager
)

// Default returns the package-level manager, creating and starting it
// on first use.
func Default() *Manager {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultManager == nil {
		defaultManager = NewManager()
		defaultManager.Start()
	}
	return defaultManager
}

// CloseDefault shuts the package-level manager down. The next Default
// call creates a fresh one.
func CloseDefault() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultManager == nil {
		return nil
	}
	err := defaultManager.Shutdown()
	defaultManager = nil
	return err
}

// Package-level functions that delegate to the default manager

// Trace logs a message at trace level
func Trace(args ...any) {
	Default().Trace(args...)
}

// Debug logs a message at debug level
func Debug(args ...any) {
	Default().Debug(args...)
}

// Info logs a message at info level
func Info(args ...any) {
	Default().Info(args...)
}

// Warn logs a message at warning level
func Warn(args ...any) {
	Default().Warn(args...)
}

// Error logs a message at error level
func Error(args ...any) {
	Default().Error(args...)
}

// Fatal logs a message at fatal level
func Fatal(args ...any) {
	Default().Fatal(args...)
}

// Flush flushes all sinks of the default manager, waiting for
// completion or timeout
func Flush() error {
	return Default().Flush()
}

// SetConfigString applies key=value overrides to the default manager
func SetConfigString(overrides ...string) error {
	return Default().SetConfigString(overrides...)
}
