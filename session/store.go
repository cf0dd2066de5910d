package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrStorageUnavailable is returned when the persistence backend cannot be reached.
var ErrStorageUnavailable = errors.New("session storage unavailable")

// ErrNotFound is returned by a [Backend] when the key does not exist.
var ErrNotFound = errors.New("session key not found")

// DefaultKey is the slot name used when none is configured.
const DefaultKey = "admin"

// Backend is a byte-oriented key-value store holding the session slot.
//
// Get must return [ErrNotFound] for a missing key. Delete of a missing key must succeed.
// Each call is expected to be a single atomic write or read.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store owns the single session slot under a fixed key.
//
//	Concurrency: each operation is one backend call, so concurrent Save/Clear calls
//	leave the slot as written by whichever completes last.
type Store struct {
	backend Backend
	key     string
}

// NewStore creates a [Store] over backend. An empty key selects [DefaultKey].
func NewStore(backend Backend, key string) *Store {
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		backend: backend,
		key:     key,
	}
}

// Key returns the slot name.
func (s *Store) Key() string {
	return s.key
}

// Load returns the stored record, or nil when the slot is empty or holds a malformed
// value. Only backend failures are returned, as [ErrStorageUnavailable].
func (s *Store) Load(ctx context.Context) (*Record, error) {
	rec, _, err := s.LoadWithStatus(ctx)
	return rec, err
}

// LoadWithStatus is [Store.Load] plus what was found, so callers can report malformed data.
func (s *Store) LoadWithStatus(ctx context.Context) (*Record, LoadStatus, error) {
	if s == nil || s.backend == nil {
		return nil, StatusAbsent, fmt.Errorf("%w: no backend configured", ErrStorageUnavailable)
	}

	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, StatusAbsent, nil
		}
		return nil, StatusAbsent, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	rec, err := Decode(data)
	if err != nil {
		return nil, StatusMalformed, nil
	}
	return rec, StatusPresent, nil
}

// Save overwrites the slot with rec in a single write.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	data, err := Encode(rec)
	if err != nil {
		return err
	}
	if s == nil || s.backend == nil {
		return fmt.Errorf("%w: no backend configured", ErrStorageUnavailable)
	}

	if err := s.backend.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Clear removes the slot. Clearing an empty slot succeeds.
func (s *Store) Clear(ctx context.Context) error {
	if s == nil || s.backend == nil {
		return fmt.Errorf("%w: no backend configured", ErrStorageUnavailable)
	}

	if err := s.backend.Delete(ctx, s.key); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}
