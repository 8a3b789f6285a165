package redis

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/satchel-dev/satchel/pkg/domain"
	"github.com/satchel-dev/satchel/pkg/ports"
)

// Locker implements ports.DistributedLocker using Redis SET NX PX.
// It extends the session manager's per-ID critical section across replicas
// sharing the same Redis instance.
type Locker struct {
	client *backend.Client
	prefix string
}

// NewLocker creates a Redis locker. The prefix keeps lock keys out of the
// session record namespace.
func NewLocker(client *backend.Client, prefix string) *Locker {
	if prefix == "" {
		prefix = "satchel:"
	}
	return &Locker{
		client: client,
		prefix: prefix,
	}
}

// Lock acquires the lock for key, polling with backoff until it succeeds or
// the context is canceled. The returned UnlockFunc releases the lock only if
// this holder still owns it (checked server-side via Lua), so a lock that
// expired and was re-acquired by someone else is never stolen back.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	val := fmt.Sprintf("%d", time.Now().UnixNano())

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		success, err := l.client.SetNX(ctx, lockKey, val, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: acquire lock: %v", domain.ErrBackendUnavailable, err)
		}
		if success {
			return func(ctx context.Context) error {
				script := `
					if redis.call("get", KEYS[1]) == ARGV[1] then
						return redis.call("del", KEYS[1])
					else
						return 0
					end
				`
				return l.client.Eval(ctx, script, []string{lockKey}, val).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			// Retry.
		}
	}
}
