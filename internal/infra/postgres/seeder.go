package postgres

import (
	"context"
	"fmt"

	"civics-quiz-service/internal/domain"
	"github.com/uptrace/bun"
)

type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID             int64    `bun:"id,pk,autoincrement"`
	Pool           string   `bun:"pool,notnull"`
	Position       int      `bun:"position,notnull"`
	Question       string   `bun:"question,notnull"`
	Theme          string   `bun:"theme,notnull"`
	CorrectAnswers []string `bun:"correct_answers,type:jsonb,notnull"`
	WrongAnswers   []string `bun:"wrong_answers,type:jsonb,notnull"`
}

// Seeder replaces the contents of a pool in the questions table.
type Seeder struct {
	db *bun.DB
}

func NewSeeder(db *bun.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedPool deletes the existing rows of pool and inserts questions in order.
func (s *Seeder) SeedPool(ctx context.Context, pool string, questions []domain.RawQuestion) error {
	rows := make([]questionRow, 0, len(questions))
	for i, q := range questions {
		rows = append(rows, questionRow{
			Pool:           pool,
			Position:       i,
			Question:       q.Question,
			Theme:          q.Theme,
			CorrectAnswers: nonNil(q.CorrectAnswers),
			WrongAnswers:   nonNil(q.WrongAnswers),
		})
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*questionRow)(nil)).Where("pool = ?", pool).Exec(ctx); err != nil {
			return fmt.Errorf("clear pool: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert questions: %w", err)
		}
		return nil
	})
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
