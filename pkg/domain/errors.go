package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
// Absence is an expected outcome: a caller cannot distinguish a session that
// never existed from one that was destroyed or expired.
var ErrSessionNotFound = errors.New("session not found")

// ErrBackendUnavailable is returned when the storage backend is unreachable or
// timed out. It is never conflated with ErrSessionNotFound: on unavailability
// the store cannot safely assume absence or presence.
var ErrBackendUnavailable = errors.New("session backend unavailable")
