// FILE: config.go
package logpipe

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/lixenwraith/config"
)

// Config holds all pipeline configuration values. Configurations are
// immutable once applied: the manager swaps a pointer atomically, so
// readers never observe a partially-updated configuration.
type Config struct {
	// Basic settings
	Level     int64  `toml:"level"`     // Minimum level accepted into the queue
	Directory string `toml:"directory"` // Log directory for the file sink
	FileName  string `toml:"file_name"` // Base name for log files
	Extension string `toml:"extension"` // File extension without the dot

	// Console output
	EnableConsole bool   `toml:"enable_console"`
	ConsoleTarget string `toml:"console_target"` // "stdout" or "stderr"

	// Default decoration of the console chain
	EnableColor     bool   `toml:"enable_color"`
	EnableTimestamp bool   `toml:"enable_timestamp"`
	EnableThreadID  bool   `toml:"enable_thread_id"`
	TimestampFormat string `toml:"timestamp_format"` // Go time layout
	FormatTemplate  string `toml:"format_template"`  // Placeholder template for the format decorator

	// Queue and worker
	MaxQueueSize    int64 `toml:"max_queue_size"`
	BatchSize       int64 `toml:"batch_size"`
	IdleWaitMs      int64 `toml:"idle_wait_ms"`
	FlushIntervalMs int64 `toml:"flush_interval_ms"`

	// File sink limits
	MaxFileSizeKB int64 `toml:"max_file_size_kb"` // Max size per log file
	MaxFileCount  int64 `toml:"max_file_count"`   // Active file plus numbered backups

	// Remote sinks
	NetworkAddress string `toml:"network_address"` // host:port for the TCP sink
	NATSURL        string `toml:"nats_url"`
	NATSSubject    string `toml:"nats_subject"`

	// Decorator thresholds
	CompressionMinSize int64 `toml:"compression_min_size"`

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"`
}

// defaultConfig is the single source for all configurable default
// values. An absent configuration logs everything.
var defaultConfig = Config{
	Level:     LevelTrace,
	Directory: "./logs",
	FileName:  "app",
	Extension: "log",

	EnableConsole: true,
	ConsoleTarget: "stdout",

	EnableColor:     true,
	EnableTimestamp: true,
	EnableThreadID:  true,
	TimestampFormat: "2006-01-02 15:04:05",
	FormatTemplate:  "[{level}] {time} {file}:{line} - {message}",

	MaxQueueSize:    10000,
	BatchSize:       100,
	IdleWaitMs:      100,
	FlushIntervalMs: 1000,

	MaxFileSizeKB: 10 * 1024,
	MaxFileCount:  5,

	NetworkAddress: "",
	NATSURL:        "",
	NATSSubject:    "logpipe",

	CompressionMinSize: 1024,

	InternalErrorsToStderr: false,
}

// DefaultConfig returns a copy of the default configuration.
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	copied := *c
	return &copied
}

// Validate checks the configuration for values the pipeline cannot run
// with.
func (c *Config) Validate() error {
	if c.FileName == "" {
		return pipeErrorf("file name cannot be empty")
	}
	if c.Directory == "" {
		return pipeErrorf("directory cannot be empty")
	}
	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return pipeErrorf("console target must be stdout or stderr, got %q", c.ConsoleTarget)
	}
	if c.MaxQueueSize < 1 {
		return pipeErrorf("max queue size must be positive, got %d", c.MaxQueueSize)
	}
	if c.BatchSize < 1 {
		return pipeErrorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.IdleWaitMs < 1 {
		return pipeErrorf("idle wait must be positive, got %d", c.IdleWaitMs)
	}
	if c.FlushIntervalMs < 1 {
		return pipeErrorf("flush interval must be positive, got %d", c.FlushIntervalMs)
	}
	if c.MaxFileCount < 1 {
		return pipeErrorf("max file count must be at least 1, got %d", c.MaxFileCount)
	}
	if c.MaxFileSizeKB < 0 {
		return pipeErrorf("max file size cannot be negative, got %d", c.MaxFileSizeKB)
	}
	return nil
}

// FlushInterval returns the flush interval as a duration.
func (c *Config) FlushInterval() time.Duration {
	return time.Duration(c.FlushIntervalMs) * time.Millisecond
}

// IdleWait returns the consumer idle wait as a duration.
func (c *Config) IdleWait() time.Duration {
	return time.Duration(c.IdleWaitMs) * time.Millisecond
}

// NewConfigFromFile loads configuration from a TOML file and returns a
// validated Config. A missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()
	if err := loader.RegisterStruct("logpipe.", *cfg); err != nil {
		return nil, pipeErrorf("failed to register config struct: %w", err)
	}
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, pipeErrorf("failed to load config from %s: %w", path, err)
	}
	if err := extractConfig(loader, "logpipe.", cfg); err != nil {
		return nil, pipeErrorf("failed to extract config values: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and
// applies overrides keyed by toml tag.
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()
	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// extractConfig pulls values from the loader into the Config struct.
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}
		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}
		if err := setFieldValue(v.Field(i), val); err != nil {
			return pipeErrorf("failed to set field %s: %w", field.Name, err)
		}
	}
	return nil
}

// applyOverrides applies a map of toml-tag keyed overrides.
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("toml"); tag != "" {
			fieldMap[tag] = v.Field(i)
		}
	}

	for key, val := range overrides {
		field, ok := fieldMap[key]
		if !ok {
			return pipeErrorf("unknown config key %q", key)
		}
		if err := setFieldValue(field, val); err != nil {
			return pipeErrorf("failed to set %q: %w", key, err)
		}
	}
	return nil
}

// applyConfigField sets a single field from a string value, used by the
// key=value override path.
func applyConfigField(cfg *Config, key, value string) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") != key {
			continue
		}
		return setFieldValue(v.Field(i), value)
	}
	return pipeErrorf("unknown config key %q", key)
}

// setFieldValue assigns val to field with type conversion. Strings are
// parsed for numeric and boolean fields; "level" style names are
// resolved through ParseLevel by the caller.
func setFieldValue(field reflect.Value, val any) error {
	switch field.Kind() {
	case reflect.String:
		switch v := val.(type) {
		case string:
			field.SetString(v)
		default:
			field.SetString(fmt.Sprint(val))
		}
	case reflect.Int64:
		switch v := val.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case float64:
			field.SetInt(int64(v))
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				// Allow named levels for the level field
				if lvl, lvlErr := ParseLevel(v); lvlErr == nil {
					field.SetInt(lvl)
					return nil
				}
				return pipeErrorf("cannot parse %q as integer", v)
			}
			field.SetInt(n)
		default:
			return pipeErrorf("cannot convert %T to int64", val)
		}
	case reflect.Bool:
		switch v := val.(type) {
		case bool:
			field.SetBool(v)
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return pipeErrorf("cannot parse %q as bool", v)
			}
			field.SetBool(b)
		default:
			return pipeErrorf("cannot convert %T to bool", val)
		}
	default:
		return pipeErrorf("unsupported field kind %s", field.Kind())
	}
	return nil
}
