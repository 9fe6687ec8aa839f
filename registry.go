// FILE: registry.go
package logpipe

import (
	"sort"
	"sync"
)

// OutputConstructor builds a terminal sink from a configuration.
type OutputConstructor func(cfg *Config) Sink

// DecoratorConstructor wraps an existing sink from a configuration.
type DecoratorConstructor func(inner Sink, cfg *Config) Sink

// Registry maps string kinds to sink and decorator constructors and
// assembles decorated chains declaratively. Registries are instances,
// not package state, so tests and embedders stay isolated. An unknown
// kind yields nil, never an error.
type Registry struct {
	mu         sync.RWMutex
	outputs    map[string]OutputConstructor
	decorators map[string]DecoratorConstructor
}

// NewRegistry creates a registry pre-loaded with the built-in kinds:
// outputs "console", "file", "network", "nats" and decorators
// "timestamp", "color", "compression", "filter", "format".
func NewRegistry() *Registry {
	r := &Registry{
		outputs:    make(map[string]OutputConstructor),
		decorators: make(map[string]DecoratorConstructor),
	}

	r.RegisterOutputKind("console", func(cfg *Config) Sink {
		return NewConsoleSinkTo(cfg.ConsoleTarget)
	})
	r.RegisterOutputKind("file", func(cfg *Config) Sink {
		ext := ""
		if cfg.Extension != "" {
			ext = "." + cfg.Extension
		}
		return NewFileSink(cfg.Directory, cfg.FileName, ext, cfg.MaxFileSizeKB*1024, int(cfg.MaxFileCount))
	})
	r.RegisterOutputKind("network", func(cfg *Config) Sink {
		if cfg.NetworkAddress == "" {
			return nil
		}
		return NewNetworkSink(cfg.NetworkAddress)
	})
	r.RegisterOutputKind("nats", func(cfg *Config) Sink {
		if cfg.NATSSubject == "" {
			return nil
		}
		return NewNATSSink(cfg.NATSURL, cfg.NATSSubject)
	})

	r.RegisterDecoratorKind("timestamp", func(inner Sink, cfg *Config) Sink {
		return NewTimestampDecorator(inner, cfg.TimestampFormat)
	})
	r.RegisterDecoratorKind("color", func(inner Sink, cfg *Config) Sink {
		return NewColorDecorator(inner, cfg.EnableColor)
	})
	r.RegisterDecoratorKind("compression", func(inner Sink, cfg *Config) Sink {
		return NewCompressionDecorator(inner, int(cfg.CompressionMinSize))
	})
	r.RegisterDecoratorKind("filter", func(inner Sink, cfg *Config) Sink {
		minLevel := cfg.Level
		return NewFilterDecorator(inner, func(rec Record) bool {
			return rec.Level >= minLevel
		})
	})
	r.RegisterDecoratorKind("format", func(inner Sink, cfg *Config) Sink {
		return NewFormatDecorator(inner, cfg.FormatTemplate, cfg.TimestampFormat)
	})

	return r
}

// CreateOutput builds a terminal sink of the given kind. Unknown kinds
// yield nil.
func (r *Registry) CreateOutput(kind string, cfg *Config) Sink {
	r.mu.RLock()
	ctor, ok := r.outputs[kind]
	r.mu.RUnlock()
	if !ok || cfg == nil {
		return nil
	}
	return ctor(cfg)
}

// CreateDecorator wraps inner with a decorator of the given kind.
// Unknown kinds yield nil; the caller still owns inner.
func (r *Registry) CreateDecorator(kind string, inner Sink, cfg *Config) Sink {
	r.mu.RLock()
	ctor, ok := r.decorators[kind]
	r.mu.RUnlock()
	if !ok || cfg == nil || inner == nil {
		return nil
	}
	return ctor(inner, cfg)
}

// CreateDecoratedOutput builds a sink of outputKind wrapped by the
// listed decorator kinds, first kind outermost. Any unknown kind yields
// nil; a partially built chain is closed before returning.
func (r *Registry) CreateDecoratedOutput(outputKind string, decoratorKinds []string, cfg *Config) Sink {
	sink := r.CreateOutput(outputKind, cfg)
	if sink == nil {
		return nil
	}

	// Wrap from the innermost listed decorator outward so the first
	// listed kind ends up as the chain entry point.
	for i := len(decoratorKinds) - 1; i >= 0; i-- {
		wrapped := r.CreateDecorator(decoratorKinds[i], sink, cfg)
		if wrapped == nil {
			_ = sink.Close()
			return nil
		}
		sink = wrapped
	}
	return sink
}

// RegisterOutputKind adds or overwrites an output constructor. A nil
// constructor is rejected.
func (r *Registry) RegisterOutputKind(name string, ctor OutputConstructor) bool {
	if name == "" || ctor == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs[name] = ctor
	return true
}

// RegisterDecoratorKind adds or overwrites a decorator constructor.
func (r *Registry) RegisterDecoratorKind(name string, ctor DecoratorConstructor) bool {
	if name == "" || ctor == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decorators[name] = ctor
	return true
}

// UnregisterOutputKind removes an output kind, reporting whether it
// existed.
func (r *Registry) UnregisterOutputKind(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.outputs[name]; !ok {
		return false
	}
	delete(r.outputs, name)
	return true
}

// UnregisterDecoratorKind removes a decorator kind.
func (r *Registry) UnregisterDecoratorKind(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.decorators[name]; !ok {
		return false
	}
	delete(r.decorators, name)
	return true
}

// HasOutputKind reports whether an output kind is registered.
func (r *Registry) HasOutputKind(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.outputs[name]
	return ok
}

// HasDecoratorKind reports whether a decorator kind is registered.
func (r *Registry) HasDecoratorKind(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.decorators[name]
	return ok
}

// RegisteredOutputKinds returns the sorted output kind names.
func (r *Registry) RegisteredOutputKinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.outputs))
	for name := range r.outputs {
		kinds = append(kinds, name)
	}
	sort.Strings(kinds)
	return kinds
}

// RegisteredDecoratorKinds returns the sorted decorator kind names.
func (r *Registry) RegisteredDecoratorKinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.decorators))
	for name := range r.decorators {
		kinds = append(kinds, name)
	}
	sort.Strings(kinds)
	return kinds
}
