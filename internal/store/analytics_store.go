package store

import (
	"sync"

	"fleet-client/internal/domain"
)

// AnalyticsStore keeps the latest dashboard snapshot. It is only ever replaced whole.
type AnalyticsStore struct {
	mu       sync.RWMutex
	snapshot *domain.AnalyticsSnapshot
}

func NewAnalyticsStore() *AnalyticsStore {
	return &AnalyticsStore{}
}

func (s *AnalyticsStore) Replace(snap domain.AnalyticsSnapshot) {
	c := snap.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = &c
}

// Snapshot returns a copy of the current snapshot, if one has been loaded.
func (s *AnalyticsStore) Snapshot() (domain.AnalyticsSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return domain.AnalyticsSnapshot{}, false
	}
	return s.snapshot.Clone(), true
}

func (s *AnalyticsStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
}
