package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"forest-quiz-hub/internal/app"
	"forest-quiz-hub/internal/catalog"
	"forest-quiz-hub/internal/config"
	"forest-quiz-hub/internal/infra/memory"
	pgstore "forest-quiz-hub/internal/infra/postgres"
	redisstore "forest-quiz-hub/internal/infra/redis"
	"forest-quiz-hub/internal/infra/sqlite"
	"forest-quiz-hub/internal/scoreboard"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// services is the wired object graph shared by the subcommands.
type services struct {
	catalog   *catalog.Catalog
	board     *scoreboard.Engine
	questions app.QuestionRepository
	closers   []func()
}

func (s *services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path != "" {
		return catalog.Load(cfg.Catalog.Path)
	}
	return catalog.Bundled()
}

// openServices builds the leaderboard engine and the question cache from cfg.
func openServices(ctx context.Context, cfg config.Config) (*services, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	s := &services{catalog: cat}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s.closers = append(s.closers, func() { redisClient.Close() })
	}

	var pool *pgxpool.Pool
	if cfg.Leaderboard.Backend == config.BackendPostgres {
		if err := runMigrationsWithConfig(ctx, cfg, cat); err != nil {
			s.Close()
			return nil, err
		}
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
	}

	var store scoreboard.Store
	switch cfg.Leaderboard.Backend {
	case config.BackendRedis:
		store = redisstore.NewLeaderboardStore(redisClient, cfg.Redis.Key, config.TTLDuration(cfg.Redis.TTL, 0))
	case config.BackendPostgres:
		store = pgstore.NewLeaderboardStore(pool)
	case config.BackendSQLite:
		sq, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, func() { sq.Close() })
		store = sq
	default:
		store = memory.NewLeaderboardStore()
	}
	s.board = scoreboard.NewEngine(store, scoreboard.WithCapacity(cfg.Leaderboard.Capacity))
	log.Printf("leaderboard backend %s, capacity %d", cfg.Leaderboard.Backend, s.board.Capacity())

	var loader memory.QuestionLoader = cat
	if pool != nil {
		loader = pgstore.NewQuestionLoader(pool)
	}
	ttl := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	if redisClient != nil {
		s.questions = redisstore.NewQuestionRepository(redisClient, loader, ttl)
	} else {
		s.questions = memory.NewQuestionRepository(loader, ttl)
	}

	if cfg.Leaderboard.Seed {
		if err := seedIfEmpty(ctx, s.board, cat); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func seedIfEmpty(ctx context.Context, board *scoreboard.Engine, cat *catalog.Catalog) error {
	entries, err := board.Entries(ctx)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return nil
	}
	demo := cat.DemoLeaderboard()
	if err := board.Seed(ctx, demo); err != nil {
		return fmt.Errorf("seed leaderboard: %w", err)
	}
	log.Printf("seeded %d demo leaderboard entries", len(demo))
	return nil
}
