package ports

import (
	"context"

	"github.com/satchel-dev/satchel/pkg/domain"
)

// Store defines the interface for persisting session records.
// Implementations are passive: lifecycle decisions (touching, TTL policy)
// belong to the session manager. The one behavioral obligation stores carry
// themselves is that Get never serves a record whose expiry has passed.
type Store interface {
	// Get retrieves the record for a session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist or has
	// expired. Implementations may reap the expired record as a side effect.
	Get(ctx context.Context, sessionID string) (*domain.Record, error)

	// Set overwrites the record for a session ID atomically: a concurrent
	// reader observes either the previous record or the new one, never a
	// partial write.
	Set(ctx context.Context, sessionID string, record *domain.Record) error

	// Delete removes the record. Deleting a nonexistent session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// Exists reports whether a live record is present. It is an optimization
	// hint equivalent to Get succeeding, without the cost of decoding.
	Exists(ctx context.Context, sessionID string) (bool, error)
}

// KeyEnumerator is an optional capability for stores that can list the
// session IDs they hold. The listing may include expired records that have
// not been reaped yet; callers resolve each ID through Get.
//
// The background sweeper requires this capability; stores without cheap
// enumeration simply don't implement it and rely on lazy expiry alone.
type KeyEnumerator interface {
	Keys(ctx context.Context) ([]string, error)
}
