package sqlite

import (
	"context"
	"fmt"
	"time"

	"forest-quiz-hub/internal/domain"
	"github.com/jmoiron/sqlx"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS leaderboard_records (
	id               TEXT PRIMARY KEY,
	display_name     TEXT NOT NULL,
	score            INTEGER NOT NULL,
	total_questions  INTEGER NOT NULL,
	tier             INTEGER NOT NULL,
	glyph            TEXT NOT NULL,
	domain_name      TEXT NOT NULL,
	topic_name       TEXT NOT NULL,
	completed_at     TEXT NOT NULL,
	accuracy_percent INTEGER NOT NULL,
	seq              INTEGER NOT NULL
)`

// row mirrors leaderboard_records; completed_at is kept as RFC3339 text.
type row struct {
	ID              string `db:"id"`
	DisplayName     string `db:"display_name"`
	Score           int    `db:"score"`
	TotalQuestions  int    `db:"total_questions"`
	Tier            int    `db:"tier"`
	Glyph           string `db:"glyph"`
	DomainName      string `db:"domain_name"`
	TopicName       string `db:"topic_name"`
	CompletedAt     string `db:"completed_at"`
	AccuracyPercent int    `db:"accuracy_percent"`
	Seq             int64  `db:"seq"`
}

// LeaderboardStore keeps the leaderboard in a local SQLite file.
type LeaderboardStore struct {
	db *sqlx.DB
}

// Open connects to the database at dsn (":memory:" works) and creates the schema.
func Open(dsn string) (*LeaderboardStore, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single writer; also keeps ":memory:" on one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &LeaderboardStore{db: db}, nil
}

func (s *LeaderboardStore) Close() error {
	return s.db.Close()
}

func (s *LeaderboardStore) Load(ctx context.Context) ([]domain.AttemptRecord, error) {
	var rows []row
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, display_name, score, total_questions, tier, glyph,
		       domain_name, topic_name, completed_at, accuracy_percent, seq
		FROM leaderboard_records
		ORDER BY score DESC, completed_at DESC, seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}
	records := make([]domain.AttemptRecord, 0, len(rows))
	for _, r := range rows {
		at, err := time.Parse(time.RFC3339Nano, r.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("parse completed_at for %s: %w", r.ID, err)
		}
		records = append(records, domain.AttemptRecord{
			ID:              r.ID,
			DisplayName:     r.DisplayName,
			Score:           r.Score,
			TotalQuestions:  r.TotalQuestions,
			Tier:            domain.Tier(r.Tier),
			Glyph:           r.Glyph,
			DomainName:      r.DomainName,
			TopicName:       r.TopicName,
			CompletedAt:     at,
			AccuracyPercent: r.AccuracyPercent,
			Seq:             r.Seq,
		})
	}
	return records, nil
}

func (s *LeaderboardStore) Save(ctx context.Context, records []domain.AttemptRecord) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM leaderboard_records`); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}
	for _, rec := range records {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO leaderboard_records (
				id, display_name, score, total_questions, tier, glyph,
				domain_name, topic_name, completed_at, accuracy_percent, seq
			) VALUES (
				:id, :display_name, :score, :total_questions, :tier, :glyph,
				:domain_name, :topic_name, :completed_at, :accuracy_percent, :seq
			)`, toRow(rec))
		if err != nil {
			return fmt.Errorf("insert %s: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

func toRow(rec domain.AttemptRecord) row {
	return row{
		ID:              rec.ID,
		DisplayName:     rec.DisplayName,
		Score:           rec.Score,
		TotalQuestions:  rec.TotalQuestions,
		Tier:            int(rec.Tier),
		Glyph:           rec.Glyph,
		DomainName:      rec.DomainName,
		TopicName:       rec.TopicName,
		CompletedAt:     rec.CompletedAt.UTC().Format(time.RFC3339Nano),
		AccuracyPercent: rec.AccuracyPercent,
		Seq:             rec.Seq,
	}
}
