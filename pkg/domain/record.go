package domain

import "time"

// Record represents the stored unit of state associated with one session ID.
type Record struct {
	// ID is the opaque session identifier. Immutable once created.
	ID string `json:"id"`

	// Data holds arbitrary caller-supplied values. Values must survive JSON
	// serialization (strings, numbers, booleans, nested maps and slices).
	Data map[string]any `json:"data"`

	// CreatedAt is set once, when the session is first written.
	CreatedAt time.Time `json:"created_at"`

	// LastAccessedAt is refreshed on every successful read or write.
	LastAccessedAt time.Time `json:"last_accessed_at"`

	// ExpiresAt is the sliding deadline: LastAccessedAt + TTL.
	// A record past this instant is logically absent, regardless of whether
	// the backend has physically purged it yet.
	ExpiresAt time.Time `json:"expires_at"`
}

// NewRecord creates a fresh record for id with the sliding window armed.
// The data map is copied so the caller cannot mutate stored state by reference.
func NewRecord(id string, data map[string]any, now time.Time, ttl time.Duration) *Record {
	r := &Record{
		ID:             id,
		Data:           make(map[string]any, len(data)),
		CreatedAt:      now,
		LastAccessedAt: now,
		ExpiresAt:      now.Add(ttl),
	}
	for k, v := range data {
		r.Data[k] = v
	}
	return r
}

// Touch slides the expiry window forward from now.
func (r *Record) Touch(now time.Time, ttl time.Duration) {
	r.LastAccessedAt = now
	r.ExpiresAt = now.Add(ttl)
}

// Expired reports whether the record is logically absent at the given instant.
func (r *Record) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Clone returns a deep copy of the record (one level of the data map).
// Stores that keep records in process memory hand out clones so callers
// cannot mutate stored state directly by pointer.
func (r *Record) Clone() *Record {
	c := *r
	c.Data = make(map[string]any, len(r.Data))
	for k, v := range r.Data {
		c.Data[k] = v
	}
	return &c
}
