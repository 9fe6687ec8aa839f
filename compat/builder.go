// FILE: compat/builder.go
package compat

import (
	"fmt"

	"github.com/lixenwraith/logpipe"
)

// Builder provides a flexible way to create configured pipeline adapters for gnet and fasthttp
// It can use an existing *logpipe.Manager instance or create a new one from a *logpipe.Config
type Builder struct {
	pipe    *logpipe.Manager
	pipeCfg *logpipe.Config
	err     error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithManager specifies an existing manager to use for the adapters
// Recommended for applications that already have a central pipeline instance
// If this is set WithConfig is ignored
func (b *Builder) WithManager(m *logpipe.Manager) *Builder {
	if m == nil {
		b.err = fmt.Errorf("logpipe/compat: provided manager cannot be nil")
		return b
	}
	b.pipe = m
	return b
}

// WithConfig provides a configuration for a new manager instance
// This is used only if an existing manager is NOT provided via WithManager
// If neither WithManager nor WithConfig is used, a default manager will be created
func (b *Builder) WithConfig(cfg *logpipe.Config) *Builder {
	b.pipeCfg = cfg
	return b
}

// getManager resolves the manager to be used, creating one if necessary
func (b *Builder) getManager() (*logpipe.Manager, error) {
	if b.err != nil {
		return nil, b.err
	}

	// An existing manager was provided, so we use it
	if b.pipe != nil {
		return b.pipe, nil
	}

	cfg := b.pipeCfg
	if cfg == nil {
		// If no config was provided, use the default
		cfg = logpipe.DefaultConfig()
	}
	m, err := logpipe.NewManagerWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	m.Start()

	// Cache the newly created manager for subsequent builds with this builder
	b.pipe = m
	return m, nil
}

// BuildGnet creates a gnet adapter
// It can be used for servers that require a standard gnet logger
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	m, err := b.getManager()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(m, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	m, err := b.getManager()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(m, opts...), nil
}

// GetManager returns the underlying *logpipe.Manager instance
// If a manager has not been provided or created yet, it will be initialized
func (b *Builder) GetManager() (*logpipe.Manager, error) {
	return b.getManager()
}
