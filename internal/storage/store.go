// Package storage provides DocumentStore implementations for the hydromon
// engine. The engine persists a small set of named JSON documents; each
// backend stores them whole, replacing the previous version atomically on
// every save.
package storage

import (
	"context"
	"sync"

	"hydromon/internal/types"
)

// Names of the persisted documents.
const (
	DocWaterLogs     = "WaterLogs"
	DocRiskEntries   = "RiskEntries"
	DocUserProfile   = "UserProfile"
	DocThrottleMarks = "ThrottleMarks"
)

// Compile-time assertion that MemoryStore implements types.DocumentStore.
var _ types.DocumentStore = (*MemoryStore)(nil)

// MemoryStore is a volatile in-memory DocumentStore. Used for development
// and tests; state is lost on process exit.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Load returns the stored document body, if any.
func (s *MemoryStore) Load(_ context.Context, name string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	body, ok := s.docs[name]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(body))
	copy(cp, body)
	return cp, true, nil
}

// Save stores a copy of the document body.
func (s *MemoryStore) Save(_ context.Context, name string, body []byte) error {
	cp := make([]byte, len(body))
	copy(cp, body)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = cp
	return nil
}

// Delete removes the document. Deleting a missing document is a no-op.
func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, name)
	return nil
}
