// Package redis implements ports.Store on a Redis-compatible key-value
// service. The native per-key TTL mirrors each record's expiry, so the
// server reclaims memory even for sessions that are never touched again.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/satchel-dev/satchel/internal/logging"
	"github.com/satchel-dev/satchel/pkg/codec"
	"github.com/satchel-dev/satchel/pkg/domain"
)

// DefaultPrefix namespaces session keys so they cannot collide with
// unrelated keys in a shared instance.
const DefaultPrefix = "satchel:session:"

// Store implements ports.Store using Redis.
type Store struct {
	client *backend.Client
	prefix string
	logger *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithLogger sets the logger used for corruption warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: DefaultPrefix,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

// Get retrieves and decodes the record. Driver errors other than a missing
// key surface as domain.ErrBackendUnavailable: the store cannot safely
// report absence when it could not reach the service.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.Record, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: redis get: %v", domain.ErrBackendUnavailable, err)
	}

	rec, err := codec.Decode(val)
	if err != nil {
		s.logger.Warn("Discarding corrupted session key",
			"session_id", sessionID,
			"err", err,
		)
		_ = s.client.Del(ctx, s.key(sessionID)).Err()
		return nil, domain.ErrSessionNotFound
	}

	if rec.Expired(time.Now()) {
		// The native TTL should have removed this already; reap defensively.
		_ = s.client.Del(ctx, s.key(sessionID)).Err()
		return nil, domain.ErrSessionNotFound
	}

	return rec, nil
}

// Set stores the record with a native TTL derived from its expiry.
// A record that is already expired is deleted instead of written.
func (s *Store) Set(ctx context.Context, sessionID string, record *domain.Record) error {
	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, sessionID)
	}

	data, err := codec.Encode(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %v", domain.ErrBackendUnavailable, err)
	}
	return nil
}

// Delete removes the session key. Absence is not an error (DEL is a no-op
// for missing keys).
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: redis del: %v", domain.ErrBackendUnavailable, err)
	}
	return nil
}

// Exists reports whether a live key is present. The native TTL tracks the
// record's expiry exactly (every write re-arms it), so EXISTS is an accurate
// hint without a decode round-trip.
func (s *Store) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: redis exists: %v", domain.ErrBackendUnavailable, err)
	}
	return n > 0, nil
}

// Keys enumerates session IDs by scanning the key prefix.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: redis scan: %v", domain.ErrBackendUnavailable, err)
	}
	return keys, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
