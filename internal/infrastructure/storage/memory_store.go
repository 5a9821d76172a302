package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ConstructionWatch/internal/domain"
	"ConstructionWatch/internal/ports"
)

// MemoryStore keeps suggestions in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	suggestions map[string]domain.Suggestion
	hashes      map[string]string
	now         func() time.Time
}

var _ ports.SuggestionStore = (*MemoryStore)(nil)

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		suggestions: map[string]domain.Suggestion{},
		hashes:      map[string]string{},
		now:         time.Now,
	}
}

// FindExistingHashes returns the subset of hashes already stored.
func (m *MemoryStore) FindExistingHashes(_ context.Context, hashes []string) (map[string]struct{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	found := make(map[string]struct{})
	for _, h := range hashes {
		if _, ok := m.hashes[h]; ok {
			found[h] = struct{}{}
		}
	}
	return found, nil
}

// CreateSuggestion stores s under a new UUID.
func (m *MemoryStore) CreateSuggestion(_ context.Context, s domain.NewSuggestion) (domain.Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ContentHash != "" {
		if _, ok := m.hashes[s.ContentHash]; ok {
			return domain.Suggestion{}, fmt.Errorf("content hash %s already stored", s.ContentHash)
		}
	}

	now := m.now().UTC()
	created := domain.Suggestion{
		ID:               uuid.NewString(),
		Type:             s.Type,
		Status:           s.Status,
		ProposedData:     s.ProposedData,
		ProposedGeometry: s.ProposedGeometry,
		ContentHash:      s.ContentHash,
		SourceConfidence: s.SourceConfidence,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	m.suggestions[created.ID] = created
	if s.ContentHash != "" {
		m.hashes[s.ContentHash] = created.ID
	}
	return created, nil
}

// GetSuggestion returns ports.ErrNotFound for unknown ids.
func (m *MemoryStore) GetSuggestion(_ context.Context, id string) (domain.Suggestion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.suggestions[id]
	if !ok {
		return domain.Suggestion{}, fmt.Errorf("suggestion %s: %w", id, ports.ErrNotFound)
	}
	return s, nil
}

// UpdateSuggestionStatus moves id from one status to another atomically.
func (m *MemoryStore) UpdateSuggestionStatus(_ context.Context, id string, from, to domain.SuggestionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.suggestions[id]
	if !ok {
		return fmt.Errorf("suggestion %s: %w", id, ports.ErrNotFound)
	}
	if s.Status != from {
		return fmt.Errorf("suggestion %s is %s, expected %s: %w", id, s.Status, from, ports.ErrStatusConflict)
	}
	s.Status = to
	s.UpdatedAt = m.now().UTC()
	m.suggestions[id] = s
	return nil
}
