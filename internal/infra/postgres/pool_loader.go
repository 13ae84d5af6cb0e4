package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"civics-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// PoolLoader loads question pools from the questions table.
type PoolLoader struct {
	pool *pgxpool.Pool
}

func NewPoolLoader(pool *pgxpool.Pool) *PoolLoader {
	return &PoolLoader{pool: pool}
}

func (l *PoolLoader) LoadPool(ctx context.Context, name string) ([]domain.RawQuestion, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT question, theme, correct_answers, wrong_answers
		FROM questions
		WHERE pool = $1
		ORDER BY position`, name)
	if err != nil {
		return nil, fmt.Errorf("load pool: %w", err)
	}
	defer rows.Close()

	var questions []domain.RawQuestion
	for rows.Next() {
		var (
			q              domain.RawQuestion
			correct, wrong []byte
		)
		if err := rows.Scan(&q.Question, &q.Theme, &correct, &wrong); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(correct, &q.CorrectAnswers); err != nil {
			return nil, fmt.Errorf("unmarshal correct answers: %w", err)
		}
		if err := json.Unmarshal(wrong, &q.WrongAnswers); err != nil {
			return nil, fmt.Errorf("unmarshal wrong answers: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load pool: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrPoolNotFound, name)
	}
	return questions, nil
}
