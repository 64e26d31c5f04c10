// Package autosave persists in-progress create-mode form drafts to a
// durable string key-value store so a reload can pick up where the
// staff member left off.
package autosave

import (
	"context"
	"sync"
)

// DraftKeyPrefix is the fixed storage key under which product-form
// drafts are saved, scoped per staff user.
const DraftKeyPrefix = "shopverse:product-form:draft"

// DraftKey returns the autosave key for a staff user.
func DraftKey(userID string) string {
	if userID == "" {
		return DraftKeyPrefix
	}
	return DraftKeyPrefix + ":" + userID
}

// Store is a minimal string key-value interface. Get returns an empty
// string (and nil error) when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// MemoryStore is an in-process Store used in tests and local runs
// without Redis.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key], nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
