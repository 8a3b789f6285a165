// Package codec serializes session records into a versioned byte format.
//
// Records are wrapped in an envelope carrying a format version, so stored
// bytes from a future schema change are detected at decode time instead of
// being misread.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/satchel-dev/satchel/pkg/domain"
)

// Version is the current encoding format version.
const Version = 1

// ErrMalformed is returned when stored bytes cannot be decoded: truncated
// input, invalid JSON, a missing envelope, or an unknown version tag.
var ErrMalformed = errors.New("malformed session record")

// envelope wraps a record with its format version.
type envelope struct {
	Version int             `json:"version"`
	Session json.RawMessage `json:"session"`
}

// Encode serializes a record into the versioned envelope format.
func Encode(r *domain.Record) ([]byte, error) {
	session, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	return json.Marshal(envelope{Version: Version, Session: session})
}

// Decode deserializes bytes produced by Encode. Round-trips are exact for
// every JSON value shape; numeric data values decode as float64, per
// encoding/json.
func Decode(data []byte) (*domain.Record, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformed, env.Version)
	}
	if len(env.Session) == 0 {
		return nil, fmt.Errorf("%w: missing session payload", ErrMalformed)
	}

	var record domain.Record
	if err := json.Unmarshal(env.Session, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if record.ID == "" {
		return nil, fmt.Errorf("%w: missing record id", ErrMalformed)
	}
	return &record, nil
}
