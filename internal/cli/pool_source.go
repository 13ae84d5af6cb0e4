package cli

import (
	"context"
	"log"

	"civics-quiz-service/internal/config"
	"civics-quiz-service/internal/infra/file"
	"civics-quiz-service/internal/infra/memory"
	pgloader "civics-quiz-service/internal/infra/postgres"
	"civics-quiz-service/internal/infra/sqlite"
	"github.com/jackc/pgx/v4/pgxpool"
)

// openPoolLoader picks the pool backend: Postgres, then SQLite, then files.
// The returned close func releases the backend.
func openPoolLoader(ctx context.Context, cfg config.Config) (memory.PoolLoader, func(), error) {
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("loading question pools from postgres")
		return pgloader.NewPoolLoader(pool), pool.Close, nil
	case cfg.SQLite.Path != "":
		store, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("loading question pools from sqlite %s", cfg.SQLite.Path)
		return store, func() { _ = store.Close() }, nil
	default:
		log.Printf("loading question pools from %s", cfg.Quiz.QuestionsDir)
		return file.NewPoolLoader(cfg.Quiz.QuestionsDir), func() {}, nil
	}
}
