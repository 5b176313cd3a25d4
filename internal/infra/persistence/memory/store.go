// Package memory provides an in-memory implementation of the domain store
// used for tests and ephemeral environments.
package memory

import (
	"context"
	"sync"

	"github.com/zaocat/Purrfit/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.Store = (*Store)(nil)

// Store keeps both logical keys in process memory. Writers are serialized
// by the mutex; state does not survive a restart.
type Store struct {
	mu          sync.RWMutex
	records     []domain.WeightRecord
	settings    domain.Settings
	hasSettings bool
}

// NewStore returns an empty in-memory store.
func NewStore() *Store { return &Store{} }

// LoadRecords returns a copy of the record list.
func (s *Store) LoadRecords(_ context.Context) ([]domain.WeightRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.WeightRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// SaveRecords replaces the record list wholesale.
func (s *Store) SaveRecords(_ context.Context, records []domain.WeightRecord) error {
	cp := make([]domain.WeightRecord, len(records))
	copy(cp, records)
	s.mu.Lock()
	s.records = cp
	s.mu.Unlock()
	return nil
}

// LoadSettings returns the stored settings and whether the key exists.
func (s *Store) LoadSettings(_ context.Context) (domain.Settings, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasSettings {
		return domain.Settings{}, false, nil
	}
	cp := s.settings
	cp.Cats = append([]string(nil), s.settings.Cats...)
	return cp, true, nil
}

// SaveSettings replaces the settings wholesale.
func (s *Store) SaveSettings(_ context.Context, settings domain.Settings) error {
	cp := settings
	cp.Cats = append([]string(nil), settings.Cats...)
	s.mu.Lock()
	s.settings = cp
	s.hasSettings = true
	s.mu.Unlock()
	return nil
}

// Reset deletes both keys.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	s.records = nil
	s.settings = domain.Settings{}
	s.hasSettings = false
	s.mu.Unlock()
	return nil
}
