package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"forest-quiz-hub/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionLoader loads topic question sets stored as JSONB in Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context, topicID string) ([]domain.Question, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM topic_questions WHERE topic_id=$1`, topicID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTopicNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	var qs []domain.Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	return qs, nil
}

// UpsertQuestions writes the question sets keyed by topic id, replacing existing rows.
func (l *QuestionLoader) UpsertQuestions(ctx context.Context, sets map[string][]domain.Question) error {
	for topicID, qs := range sets {
		raw, err := json.Marshal(qs)
		if err != nil {
			return fmt.Errorf("marshal questions %s: %w", topicID, err)
		}
		_, err = l.pool.Exec(ctx, `
			INSERT INTO topic_questions (topic_id, data, updated_at)
			VALUES ($1, $2::jsonb, now())
			ON CONFLICT (topic_id) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`,
			topicID, string(raw))
		if err != nil {
			return fmt.Errorf("upsert questions %s: %w", topicID, err)
		}
	}
	return nil
}
