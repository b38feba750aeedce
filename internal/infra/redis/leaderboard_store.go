package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"forest-quiz-hub/internal/domain"
	"github.com/redis/go-redis/v9"
)

// LeaderboardStore keeps the sorted leaderboard as one JSON snapshot in Redis.
// Notes:
//   - The engine always rewrites the full (bounded) board, so a single key is enough.
//   - Concurrent writers from several processes are not serialized here.
type LeaderboardStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewLeaderboardStore stores the board under key; ttl 0 keeps it until deleted.
func NewLeaderboardStore(client *redis.Client, key string, ttl time.Duration) *LeaderboardStore {
	if key == "" {
		key = "leaderboard:records"
	}
	return &LeaderboardStore{client: client, key: key, ttl: ttl}
}

func (s *LeaderboardStore) Load(ctx context.Context) ([]domain.AttemptRecord, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	var records []domain.AttemptRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return records, nil
}

func (s *LeaderboardStore) Save(ctx context.Context, records []domain.AttemptRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode leaderboard: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

// Clear drops the stored board.
func (s *LeaderboardStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
