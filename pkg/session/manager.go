package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/satchel-dev/satchel/internal/logging"
	"github.com/satchel-dev/satchel/pkg/domain"
	"github.com/satchel-dev/satchel/pkg/ports"
)

// DefaultTTL is the sliding expiry window used when none is configured.
const DefaultTTL = 30 * time.Minute

// distributedLockTTL bounds how long a crashed holder can wedge a session
// when a distributed locker is in use.
const distributedLockTTL = 30 * time.Second

// lockEntry holds the per-session mutex and its reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager is the facade callers use to create, read, write, and destroy
// sessions. It owns the expiry policy (sliding window, lazily enforced on
// access) and serializes operations per session ID, so concurrent updates to
// the same session cannot interleave and lose data.
//
// The per-ID lock map uses reference counting to garbage collect entries the
// moment no operation holds them.
type Manager struct {
	store ports.Store

	ttl       time.Duration
	opTimeout time.Duration

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional cross-replica locker
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithTTL sets the sliding expiry window.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithOperationTimeout bounds each public operation; a backend that doesn't
// answer in time fails with domain.ErrBackendUnavailable.
func WithOperationTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.opTimeout = d
	}
}

// WithLocker enables distributed locking for multi-replica deployments.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger configures a logger for internal events (deferred errors,
// sweep results).
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics attaches operation counters.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// New creates a Manager over the given store.
func New(store ports.Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		ttl:    DefaultTTL,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.metrics == nil {
		m.metrics = NewMetrics(nil)
	}
	return m
}

// TTL returns the configured sliding expiry window.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create generates a fresh session ID and writes a new record with the
// sliding window armed. The data map may be nil.
func (m *Manager) Create(ctx context.Context, data map[string]any) (string, error) {
	id := uuid.NewString()
	err := m.withLock(ctx, id, func(ctx context.Context) error {
		rec := domain.NewRecord(id, data, m.now(), m.ttl)
		return m.store.Set(ctx, id, rec)
	})
	if err != nil {
		return "", err
	}
	m.metrics.Created.Inc()
	return id, nil
}

// Read returns the session's data and slides the expiry window.
// An expired record is deleted and reported as domain.ErrSessionNotFound,
// indistinguishable from a session that never existed.
func (m *Manager) Read(ctx context.Context, sessionID string) (map[string]any, error) {
	var data map[string]any
	err := m.withLock(ctx, sessionID, func(ctx context.Context) error {
		rec, err := m.fetchLive(ctx, sessionID)
		if err != nil {
			return err
		}

		rec.Touch(m.now(), m.ttl)
		if err := m.store.Set(ctx, sessionID, rec); err != nil {
			return err
		}
		data = rec.Data
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			m.metrics.ReadMisses.Inc()
		}
		return nil, err
	}
	m.metrics.ReadHits.Inc()
	return data, nil
}

// Write replaces the session's data and slides the expiry window.
// Fails with domain.ErrSessionNotFound if the session does not exist or has
// expired: writes never implicitly resurrect a session.
func (m *Manager) Write(ctx context.Context, sessionID string, data map[string]any) error {
	return m.withLock(ctx, sessionID, func(ctx context.Context) error {
		rec, err := m.fetchLive(ctx, sessionID)
		if err != nil {
			return err
		}

		rec.Data = make(map[string]any, len(data))
		for k, v := range data {
			rec.Data[k] = v
		}
		rec.Touch(m.now(), m.ttl)
		return m.store.Set(ctx, sessionID, rec)
	})
}

// Destroy deletes the session unconditionally. Idempotent.
func (m *Manager) Destroy(ctx context.Context, sessionID string) error {
	err := m.withLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
	if err != nil {
		return err
	}
	m.metrics.Destroyed.Inc()
	return nil
}

// Exists reports whether a live session is present. It is a hint only and
// does not slide the expiry window.
func (m *Manager) Exists(ctx context.Context, sessionID string) (bool, error) {
	return m.store.Exists(ctx, sessionID)
}

// Keys returns the IDs of live sessions, or an empty list if the store
// cannot enumerate.
func (m *Manager) Keys(ctx context.Context) ([]string, error) {
	enum, ok := m.store.(ports.KeyEnumerator)
	if !ok {
		return []string{}, nil
	}

	all, err := enum.Keys(ctx)
	if err != nil {
		return nil, err
	}

	live := make([]string, 0, len(all))
	for _, id := range all {
		ok, err := m.store.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			live = append(live, id)
		}
	}
	return live, nil
}

// Sweep makes one reclamation pass: it enumerates the store's keys and reaps
// every expired record, returning how many were removed. It is an
// optimization that bounds storage growth for backends without native
// expiry; correctness never depends on it, because expiry is also enforced
// lazily on access. A store without enumeration support sweeps nothing.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	enum, ok := m.store.(ports.KeyEnumerator)
	if !ok {
		return 0, nil
	}

	keys, err := enum.Keys(ctx)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, id := range keys {
		err := m.withLock(ctx, id, func(ctx context.Context) error {
			rec, err := m.store.Get(ctx, id)
			if errors.Is(err, domain.ErrSessionNotFound) {
				// The store reaped it on Get (or it was destroyed since
				// enumeration). Either way it is gone now.
				swept++
				return nil
			}
			if err != nil {
				return err
			}
			if rec.Expired(m.now()) {
				swept++
				return m.store.Delete(ctx, id)
			}
			return nil
		})
		if err != nil {
			return swept, err
		}
	}

	m.metrics.Swept.Add(float64(swept))
	return swept, nil
}

// fetchLive loads a record and enforces lazy expiry under the caller's lock.
// Stores already refuse to serve expired records; the re-check here covers a
// record that expires between the store's check and ours.
func (m *Manager) fetchLive(ctx context.Context, sessionID string) (*domain.Record, error) {
	rec, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if rec.Expired(m.now()) {
		m.metrics.Expired.Inc()
		if err := m.store.Delete(ctx, sessionID); err != nil {
			return nil, err
		}
		return nil, domain.ErrSessionNotFound
	}
	return rec, nil
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after
// unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// withLock runs fn inside the per-ID critical section, applying the
// configured operation timeout. The lock is released on every exit path;
// a timeout or cancellation surfaces as domain.ErrBackendUnavailable, since
// the manager cannot tell whether the backend applied the operation.
func (m *Manager) withLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	if m.opTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opTimeout)
		defer cancel()
	}

	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, distributedLockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	err := fn(ctx)
	if err != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)) {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	return err
}
