package satchel

import (
	"fmt"
	"log/slog"

	"github.com/satchel-dev/satchel/internal/logging"
	"github.com/satchel-dev/satchel/pkg/adapters/file"
	"github.com/satchel-dev/satchel/pkg/adapters/memory"
	"github.com/satchel-dev/satchel/pkg/adapters/redis"
	"github.com/satchel-dev/satchel/pkg/ports"
	"github.com/satchel-dev/satchel/pkg/session"
)

// Version of the satchel library.
const Version = "0.3.0"

// Open builds the storage backend selected by cfg and returns a session
// manager over it, plus a close function releasing backend resources.
// Additional session options (metrics, a distributed locker, a test clock)
// are appended after the config-derived ones, so they win on conflict.
//
// A nil logger disables logging.
func Open(cfg *Config, logger *slog.Logger, opts ...session.Option) (*session.Manager, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	var store ports.Store
	closeFn := func() error { return nil }

	switch cfg.Backend {
	case BackendFile:
		store = file.New(cfg.File.Directory, file.WithLogger(logger))
	case BackendRedis:
		redisOpts := []redis.Option{redis.WithLogger(logger)}
		if cfg.Redis.KeyPrefix != "" {
			redisOpts = append(redisOpts, redis.WithPrefix(cfg.Redis.KeyPrefix))
		}
		rs := redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, redisOpts...)
		store = rs
		closeFn = rs.Close
	case BackendMemory:
		store = memory.New()
	default:
		// Validate already rejected this; keep the switch exhaustive.
		return nil, nil, fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, cfg.Backend)
	}

	managerOpts := []session.Option{
		session.WithTTL(cfg.TTL.Std()),
		session.WithOperationTimeout(cfg.OperationTimeout.Std()),
		session.WithLogger(logger),
	}
	managerOpts = append(managerOpts, opts...)

	return session.New(store, managerOpts...), closeFn, nil
}
