// Package file implements ports.Store using the local filesystem.
//
// Each session is one file in a configured directory. Writes go through a
// temp-file-and-rename sequence so a reader never observes a partial record;
// filesystem rename atomicity also keeps the write path safe across
// processes without any in-process lock.
package file

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/satchel-dev/satchel/internal/logging"
	"github.com/satchel-dev/satchel/pkg/codec"
	"github.com/satchel-dev/satchel/pkg/domain"
)

const fileExt = ".session"

// Store implements ports.Store on a directory of session files.
type Store struct {
	dir    string
	logger *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger used for corruption warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Store rooted at dir. If dir is empty, it defaults to
// ".satchel/sessions".
func New(dir string, opts ...Option) *Store {
	if dir == "" {
		dir = filepath.Join(".satchel", "sessions")
	}
	s := &Store{
		dir:    dir,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// path maps a session ID to its file. The ID is base64url-encoded, never
// used raw: an attacker-controlled ID must not be able to traverse out of
// the session directory. The encoding is reversible so Keys can enumerate.
func (s *Store) path(sessionID string) string {
	return filepath.Join(s.dir, base64.RawURLEncoding.EncodeToString([]byte(sessionID))+fileExt)
}

// Get reads and decodes the session file.
// A corrupted file is treated as session loss, not a hard error: it is
// logged, best-effort removed, and reported as not found.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.Record, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionNotFound
	}

	filePath := s.path(sessionID)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: read session file: %v", domain.ErrBackendUnavailable, err)
	}

	rec, err := codec.Decode(data)
	if err != nil {
		s.logger.Warn("Discarding corrupted session file",
			"session_id", sessionID,
			"path", filePath,
			"err", err,
		)
		_ = os.Remove(filePath)
		return nil, domain.ErrSessionNotFound
	}

	if rec.Expired(time.Now()) {
		_ = os.Remove(filePath)
		return nil, domain.ErrSessionNotFound
	}

	return rec, nil
}

// Set persists the record atomically: encode, write to a temp file in the
// same directory (same filesystem, required for atomic rename), fsync,
// close, rename over the destination.
func (s *Store) Set(ctx context.Context, sessionID string, record *domain.Record) error {
	if sessionID == "" {
		return errors.New("sessionID cannot be empty")
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("%w: ensure session directory: %v", domain.ErrBackendUnavailable, err)
	}

	data, err := codec.Encode(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", domain.ErrBackendUnavailable, err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		// No-ops on the success path: the file is already closed and renamed.
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("%w: write temp file: %v", domain.ErrBackendUnavailable, err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("%w: fsync temp file: %v", domain.ErrBackendUnavailable, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %v", domain.ErrBackendUnavailable, err)
	}

	if err := os.Rename(tmpPath, s.path(sessionID)); err != nil {
		return fmt.Errorf("%w: rename temp file: %v", domain.ErrBackendUnavailable, err)
	}
	return nil
}

// Delete removes the session file. Absence is not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	err := os.Remove(s.path(sessionID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: delete session file: %v", domain.ErrBackendUnavailable, err)
	}
	return nil
}

// Exists reports whether a live record is present. The expiry check requires
// decoding, so this delegates to Get.
func (s *Store) Exists(ctx context.Context, sessionID string) (bool, error) {
	_, err := s.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Keys returns the IDs of all stored session files, including expired ones
// that have not been reaped yet. Files that don't decode as session names
// (stray temp files, unrelated content) are skipped.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: list session directory: %v", domain.ErrBackendUnavailable, err)
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSuffix(name, fileExt))
		if err != nil {
			continue
		}
		keys = append(keys, string(raw))
	}
	return keys, nil
}
