package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/satchel-dev/satchel/internal/logging"
)

// Sweeper periodically reclaims expired sessions in the background.
// It is purely an optimization: lazy expiry on access keeps the store
// correct whether or not a sweeper runs.
type Sweeper struct {
	manager  *Manager
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper creates a Sweeper over the manager. A non-positive interval
// defaults to five minutes.
func NewSweeper(manager *Manager, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Sweeper{
		manager:  manager,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps on the configured interval until ctx is canceled.
// Sweep failures are logged, not fatal: the next tick retries.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swept, err := s.manager.Sweep(ctx)
			if err != nil {
				s.logger.Warn("Session sweep failed", "err", err)
				continue
			}
			if swept > 0 {
				s.logger.Info("Session sweep complete", "swept", swept)
			}
		}
	}
}
