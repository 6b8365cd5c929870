package store

import (
	"context"
	"sort"
	"sync"

	"cricketflow/models"
)

// MemoryStore keeps followed matches and their snapshots in process memory.
// A key is present iff the match is followed; a nil value means followed but
// not yet observed.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*models.Match
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]*models.Match)}
}

func (s *MemoryStore) Follow(_ context.Context, matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snapshots[matchID]; !ok {
		s.snapshots[matchID] = nil
	}
	return nil
}

func (s *MemoryStore) Unfollow(_ context.Context, matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, matchID)
	return nil
}

func (s *MemoryStore) Followed(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.snapshots))
	for id := range s.snapshots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) Get(_ context.Context, matchID string) (*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.snapshots[matchID]
	if !ok || m == nil {
		return nil, nil
	}
	snapshot := *m
	return &snapshot, nil
}

func (s *MemoryStore) Put(_ context.Context, matchID string, m models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snapshots[matchID]; !ok {
		// Unfollowed while the cycle was in flight; discard the result.
		return nil
	}
	snapshot := m
	s.snapshots[matchID] = &snapshot
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
