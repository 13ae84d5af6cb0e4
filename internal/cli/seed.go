package cli

import (
	"context"
	"fmt"
	"log"

	"civics-quiz-service/internal/config"
	"civics-quiz-service/internal/infra/file"
	"civics-quiz-service/internal/infra/postgres"
	"civics-quiz-service/internal/infra/sqlite"
	"github.com/spf13/cobra"
)

// NewSeedCmd loads a pool file into the configured database.
func NewSeedCmd(configPath *string) *cobra.Command {
	var poolName string
	cmd := &cobra.Command{
		Use:   "seed <pool-file>",
		Short: "Load a JSON or YAML question pool into Postgres or SQLite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if poolName != "" {
				cfg.Quiz.Pool = poolName
			}
			return runSeed(cmd.Context(), cfg, args[0])
		},
	}
	cmd.Flags().StringVar(&poolName, "pool", "", "pool name (defaults to quiz.pool)")
	return cmd
}

func runSeed(ctx context.Context, cfg config.Config, path string) error {
	questions, err := file.ReadPoolFile(path)
	if err != nil {
		return err
	}

	switch {
	case cfg.Postgres.URL != "":
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		db := postgres.OpenBun(cfg.Postgres.URL)
		defer db.Close()
		if err := postgres.NewSeeder(db).SeedPool(ctx, cfg.Quiz.Pool, questions); err != nil {
			return err
		}
		log.Printf("seeded %d questions into postgres pool %q", len(questions), cfg.Quiz.Pool)
	case cfg.SQLite.Path != "":
		store, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SeedPool(ctx, cfg.Quiz.Pool, questions); err != nil {
			return err
		}
		log.Printf("seeded %d questions into sqlite pool %q", len(questions), cfg.Quiz.Pool)
	default:
		return fmt.Errorf("neither postgres.url nor sqlite.path is configured")
	}
	return nil
}
