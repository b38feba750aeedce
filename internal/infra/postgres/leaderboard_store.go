package postgres

import (
	"context"
	"fmt"

	"forest-quiz-hub/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var recordColumns = []string{
	"id", "display_name", "score", "total_questions", "tier", "glyph",
	"domain_name", "topic_name", "completed_at", "accuracy_percent", "seq",
}

// LeaderboardStore persists the bounded leaderboard in the leaderboard_records table.
// Save replaces the table contents inside one transaction.
type LeaderboardStore struct {
	pool *pgxpool.Pool
}

func NewLeaderboardStore(pool *pgxpool.Pool) *LeaderboardStore {
	return &LeaderboardStore{pool: pool}
}

func (s *LeaderboardStore) Load(ctx context.Context) ([]domain.AttemptRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, display_name, score, total_questions, tier, glyph,
		       domain_name, topic_name, completed_at, accuracy_percent, seq
		FROM leaderboard_records
		ORDER BY score DESC, completed_at DESC, seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var records []domain.AttemptRecord
	for rows.Next() {
		var (
			rec  domain.AttemptRecord
			tier int16
		)
		if err := rows.Scan(
			&rec.ID, &rec.DisplayName, &rec.Score, &rec.TotalQuestions, &tier, &rec.Glyph,
			&rec.DomainName, &rec.TopicName, &rec.CompletedAt, &rec.AccuracyPercent, &rec.Seq,
		); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		rec.Tier = domain.Tier(tier)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return records, nil
}

func (s *LeaderboardStore) Save(ctx context.Context, records []domain.AttemptRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM leaderboard_records`); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}
	_, err = tx.CopyFrom(ctx, pgx.Identifier{"leaderboard_records"}, recordColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]interface{}, error) {
			rec := records[i]
			return []interface{}{
				rec.ID, rec.DisplayName, int32(rec.Score), int32(rec.TotalQuestions), int16(rec.Tier), rec.Glyph,
				rec.DomainName, rec.TopicName, rec.CompletedAt, int32(rec.AccuracyPercent), rec.Seq,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy leaderboard: %w", err)
	}
	return tx.Commit(ctx)
}
