package satchel

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names accepted in configuration.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ErrInvalidConfig is returned for configuration that cannot be acted on.
// Configuration errors are fatal at startup; they are never produced by a
// running store.
var ErrInvalidConfig = errors.New("invalid configuration")

// Duration wraps time.Duration so YAML values can use human-readable forms
// like "30m" or "5s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%w: bad duration %q: %v", ErrInvalidConfig, raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// FileConfig configures the file backend.
type FileConfig struct {
	Directory string `yaml:"directory"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Address   string `yaml:"address"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// Config is the single configuration surface of the store. Backend
// selection is a pure configuration concern: swapping "file" for "redis"
// changes latency and persistence characteristics, never semantics.
type Config struct {
	Backend          string      `yaml:"backend"`
	TTL              Duration    `yaml:"ttl"`
	OperationTimeout Duration    `yaml:"operation_timeout"`
	SweepInterval    Duration    `yaml:"sweep_interval"`
	Listen           string      `yaml:"listen"`
	File             FileConfig  `yaml:"file"`
	Redis            RedisConfig `yaml:"redis"`
}

// DefaultConfig returns the baseline configuration: a file backend under
// ./sessions with a 30 minute sliding window.
func DefaultConfig() *Config {
	return &Config{
		Backend:          BackendFile,
		TTL:              Duration(30 * time.Minute),
		OperationTimeout: Duration(5 * time.Second),
		SweepInterval:    Duration(5 * time.Minute),
		Listen:           ":8080",
		File:             FileConfig{Directory: "sessions"},
		Redis:            RedisConfig{Address: "localhost:6379"},
	}
}

// LoadConfig reads a YAML config file over the defaults and applies
// environment overrides. An empty path skips the file and uses defaults
// plus environment.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays SATCHEL_* environment variables on the config.
func (c *Config) applyEnv() error {
	if v := os.Getenv("SATCHEL_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("SATCHEL_TTL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: SATCHEL_TTL: %v", ErrInvalidConfig, err)
		}
		c.TTL = Duration(parsed)
	}
	if v := os.Getenv("SATCHEL_FILE_DIR"); v != "" {
		c.File.Directory = v
	}
	if v := os.Getenv("SATCHEL_REDIS_ADDR"); v != "" {
		c.Redis.Address = v
	}
	if v := os.Getenv("SATCHEL_REDIS_PREFIX"); v != "" {
		c.Redis.KeyPrefix = v
	}
	if v := os.Getenv("SATCHEL_LISTEN"); v != "" {
		c.Listen = v
	}
	return nil
}

// Validate rejects configuration the store cannot act on.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile:
		if c.File.Directory == "" {
			return fmt.Errorf("%w: file backend requires file.directory", ErrInvalidConfig)
		}
	case BackendRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("%w: redis backend requires redis.address", ErrInvalidConfig)
		}
	case BackendMemory:
		// Nothing to check.
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}

	if c.TTL.Std() <= 0 {
		return fmt.Errorf("%w: ttl must be positive", ErrInvalidConfig)
	}
	if c.OperationTimeout.Std() < 0 {
		return fmt.Errorf("%w: operation_timeout cannot be negative", ErrInvalidConfig)
	}
	return nil
}
