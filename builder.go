// FILE: builder.go
package logpipe

// Builder provides a fluent API for building pipeline configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Manager with the specified configuration. The
// manager is returned stopped; call Start to begin background
// processing.
func (b *Builder) Build() (*Manager, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewManagerWithConfig(b.cfg)
}

// Level sets the minimum accepted level.
func (b *Builder) Level(level int64) *Builder {
	b.cfg.Level = level
	return b
}

// LevelString sets the minimum accepted level from a name.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := ParseLevel(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = levelVal
	return b
}

// Directory sets the log directory for the file sink.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// FileName sets the base name for log files.
func (b *Builder) FileName(name string) *Builder {
	b.cfg.FileName = name
	return b
}

// Extension sets the log file extension.
func (b *Builder) Extension(ext string) *Builder {
	b.cfg.Extension = ext
	return b
}

// MaxQueueSize sets the bounded queue capacity.
func (b *Builder) MaxQueueSize(size int64) *Builder {
	b.cfg.MaxQueueSize = size
	return b
}

// BatchSize sets the consumer batch size.
func (b *Builder) BatchSize(size int64) *Builder {
	b.cfg.BatchSize = size
	return b
}

// IdleWaitMs sets the consumer idle wait in milliseconds.
func (b *Builder) IdleWaitMs(ms int64) *Builder {
	b.cfg.IdleWaitMs = ms
	return b
}

// FlushIntervalMs sets the periodic flush interval in milliseconds.
func (b *Builder) FlushIntervalMs(ms int64) *Builder {
	b.cfg.FlushIntervalMs = ms
	return b
}

// EnableConsole enables or disables the default console chain.
func (b *Builder) EnableConsole(enable bool) *Builder {
	b.cfg.EnableConsole = enable
	return b
}

// ConsoleTarget selects "stdout" or "stderr" for the console sink.
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// EnableColor enables ANSI coloring on the default console chain.
func (b *Builder) EnableColor(enable bool) *Builder {
	b.cfg.EnableColor = enable
	return b
}

// EnableTimestamp enables the timestamp prefix on the default console chain.
func (b *Builder) EnableTimestamp(enable bool) *Builder {
	b.cfg.EnableTimestamp = enable
	return b
}

// TimestampFormat sets the Go time layout used by timestamp decoration.
func (b *Builder) TimestampFormat(layout string) *Builder {
	b.cfg.TimestampFormat = layout
	return b
}

// FormatTemplate sets the placeholder template used by format decoration.
func (b *Builder) FormatTemplate(template string) *Builder {
	b.cfg.FormatTemplate = template
	return b
}

// MaxFileSizeKB sets the maximum log file size in KB.
func (b *Builder) MaxFileSizeKB(size int64) *Builder {
	b.cfg.MaxFileSizeKB = size
	return b
}

// MaxFileSizeMB sets the maximum log file size in MB. Convenience.
func (b *Builder) MaxFileSizeMB(size int64) *Builder {
	b.cfg.MaxFileSizeKB = size * 1000
	return b
}

// MaxFileCount sets the number of files kept by rotation.
func (b *Builder) MaxFileCount(count int64) *Builder {
	b.cfg.MaxFileCount = count
	return b
}

// NetworkAddress sets the host:port target for the TCP sink.
func (b *Builder) NetworkAddress(addr string) *Builder {
	b.cfg.NetworkAddress = addr
	return b
}

// NATSURL sets the NATS server URL for the NATS sink.
func (b *Builder) NATSURL(url string) *Builder {
	b.cfg.NATSURL = url
	return b
}

// NATSSubject sets the NATS publish subject.
func (b *Builder) NATSSubject(subject string) *Builder {
	b.cfg.NATSSubject = subject
	return b
}

// CompressionMinSize sets the compression decorator threshold in bytes.
func (b *Builder) CompressionMinSize(size int64) *Builder {
	b.cfg.CompressionMinSize = size
	return b
}

// InternalErrorsToStderr enables internal diagnostic output.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// Example usage:
// pipe, err := logpipe.NewBuilder().
//
//	Directory("/var/log/app").
//	LevelString("debug").
//	MaxQueueSize(4096).
//	EnableConsole(true).
//	Build()
//
// if err == nil {
//
//	 pipe.Start()
//	 defer pipe.Shutdown()
//	 pipe.Info("pipeline initialized")
//
// }
