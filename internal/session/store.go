// Package session implements server-side session storage. A session
// associates a request sequence with an authenticated user identity; it
// is created at login or signup, looked up on every protected request
// and destroyed at logout. Sessions are keyed by a random id generated
// via utils.NewSessionID and carry the signed-in user's identity so the
// booking and account endpoints know who is calling without touching
// the users table.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"trip-booking-server/internal/utils"
)

// ErrNotFound is returned when a session id does not resolve to a live
// session, either because it never existed, was destroyed at logout or
// has expired.
var ErrNotFound = errors.New("session not found")

// Data is the state carried by one session.
type Data struct {
	UserID   uint64 `json:"user_id"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Email    string `json:"email"`
}

// Store is the session lifecycle contract. Create opens a new session
// and returns its id, Get resolves an id to its data, Touch renews the
// session's expiry so active users stay signed in, and Destroy ends
// the session. Implementations must be safe for concurrent use.
type Store interface {
	Create(ctx context.Context, data Data) (string, error)
	Get(ctx context.Context, id string) (Data, error)
	Touch(ctx context.Context, id string) error
	Destroy(ctx context.Context, id string) error
}

// memoryEntry pairs session data with its expiry instant.
type memoryEntry struct {
	data      Data
	expiresAt time.Time
}

// MemoryStore keeps sessions in a mutex-guarded map. It is the
// fallback used when no Redis server is reachable at startup; sessions
// then do not survive a process restart.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

// NewMemoryStore returns an empty in-process store whose sessions
// expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

// Create opens a new session for the given data and returns its id.
func (s *MemoryStore) Create(ctx context.Context, data Data) (string, error) {
	id, err := utils.NewSessionID()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.entries[id] = memoryEntry{data: data, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return id, nil
}

// Get resolves a session id. Expired entries are removed lazily.
func (s *MemoryStore) Get(ctx context.Context, id string) (Data, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return Data{}, ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
		return Data{}, ErrNotFound
	}
	return entry.data, nil
}

// Touch slides the session's expiry forward by the store's TTL.
// Touching an unknown or expired id returns ErrNotFound.
func (s *MemoryStore) Touch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, id)
		return ErrNotFound
	}
	entry.expiresAt = time.Now().Add(s.ttl)
	s.entries[id] = entry
	return nil
}

// Destroy ends the session. Destroying an unknown id is not an error;
// logout must be idempotent.
func (s *MemoryStore) Destroy(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}
