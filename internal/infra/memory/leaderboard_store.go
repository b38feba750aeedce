package memory

import (
	"context"
	"sync"

	"forest-quiz-hub/internal/domain"
)

// LeaderboardStore is an in-memory implementation of scoreboard.Store.
// Its lifetime is the owning process (or test); nothing is shared between instances.
type LeaderboardStore struct {
	mu      sync.RWMutex
	records []domain.AttemptRecord
}

func NewLeaderboardStore() *LeaderboardStore {
	return &LeaderboardStore{}
}

func (s *LeaderboardStore) Load(_ context.Context) ([]domain.AttemptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AttemptRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *LeaderboardStore) Save(_ context.Context, records []domain.AttemptRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make([]domain.AttemptRecord, len(records))
	copy(s.records, records)
	return nil
}

// Len reports how many rows are retained.
func (s *LeaderboardStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
