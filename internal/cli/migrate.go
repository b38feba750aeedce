package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"forest-quiz-hub/internal/catalog"
	"forest-quiz-hub/internal/config"
	pgstore "forest-quiz-hub/internal/infra/postgres"
	pgmigrations "forest-quiz-hub/internal/infra/postgres/migrations"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// NewMigrateCmd applies database migrations and loads the catalog questions into Postgres.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and load catalog questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath)
		},
	}
}

func runMigrations(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	return runMigrationsWithConfig(ctx, cfg, cat)
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config, cat *catalog.Catalog) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Printf("schema up to date")
	} else {
		log.Printf("migrated to %s", group)
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	sets := cat.QuestionSets()
	if err := pgstore.NewQuestionLoader(pool).UpsertQuestions(ctx, sets); err != nil {
		return err
	}
	log.Printf("loaded questions for %d topics", len(sets))
	return nil
}
