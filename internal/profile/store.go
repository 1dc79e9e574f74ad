// Package profile persists the singleton user profile that parameterizes
// the daily water recommendation. The profile is created during onboarding
// and updated only by explicit user action, never by the engine.
package profile

import (
	"context"
	"encoding/json"
	"sync"

	"hydromon/internal/storage"
	"hydromon/internal/types"
)

// Store holds the singleton user profile.
type Store struct {
	mu      sync.RWMutex
	profile *types.UserProfile
	docs    types.DocumentStore
	logger  types.Logger
}

// NewStore creates a Store and loads any persisted profile. A malformed
// payload counts as no profile (warn-logged, non-fatal).
func NewStore(ctx context.Context, docs types.DocumentStore, logger types.Logger) *Store {
	s := &Store{docs: docs, logger: logger}

	body, ok, err := docs.Load(ctx, storage.DocUserProfile)
	if err != nil {
		logger.Warn("failed to load user profile", "error", err.Error())
		return s
	}
	if !ok {
		return s
	}

	var p types.UserProfile
	if err := json.Unmarshal(body, &p); err != nil {
		logger.Warn("malformed user profile payload, treating as absent", "error", err.Error())
		return s
	}
	if err := p.Validate(); err != nil {
		logger.Warn("invalid persisted user profile, treating as absent", "error", err.Error())
		return s
	}
	s.profile = &p
	return s
}

// Current returns a copy of the profile, or nil when none exists.
func (s *Store) Current() *types.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	cp := *s.profile
	return &cp
}

// Save validates and persists the profile, replacing any previous one.
func (s *Store) Save(ctx context.Context, p types.UserProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(p)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "failed to marshal user profile", err)
	}
	if err := s.docs.Save(ctx, storage.DocUserProfile, body); err != nil {
		return types.NewAppError(types.ErrCodeInternalStorage, "failed to persist user profile", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &p
	return nil
}
