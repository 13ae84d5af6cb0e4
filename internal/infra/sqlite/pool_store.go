package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"civics-quiz-service/internal/domain"
	_ "modernc.org/sqlite" // driver: sqlite
)

const schema = `
CREATE TABLE IF NOT EXISTS questions (
  pool TEXT NOT NULL,
  position INTEGER NOT NULL,
  question TEXT NOT NULL,
  theme TEXT NOT NULL DEFAULT '',
  correct_answers TEXT NOT NULL,
  wrong_answers TEXT NOT NULL,
  PRIMARY KEY (pool, position)
);
`

// PoolStore keeps question pools in an embedded SQLite database.
type PoolStore struct {
	db *sql.DB
}

// Open opens the database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*PoolStore, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PoolStore{db: db}, nil
}

func (s *PoolStore) Close() error {
	return s.db.Close()
}

// SeedPool replaces the contents of pool with questions, in order.
func (s *PoolStore) SeedPool(ctx context.Context, pool string, questions []domain.RawQuestion) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE pool = ?`, pool); err != nil {
		return fmt.Errorf("clear pool: %w", err)
	}
	for i, q := range questions {
		correct, err := json.Marshal(nonNil(q.CorrectAnswers))
		if err != nil {
			return err
		}
		wrong, err := json.Marshal(nonNil(q.WrongAnswers))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO questions (pool, position, question, theme, correct_answers, wrong_answers) VALUES (?, ?, ?, ?, ?, ?)`,
			pool, i, q.Question, q.Theme, string(correct), string(wrong)); err != nil {
			return fmt.Errorf("insert question %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (s *PoolStore) LoadPool(ctx context.Context, name string) ([]domain.RawQuestion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question, theme, correct_answers, wrong_answers FROM questions WHERE pool = ? ORDER BY position`, name)
	if err != nil {
		return nil, fmt.Errorf("load pool: %w", err)
	}
	defer rows.Close()

	var questions []domain.RawQuestion
	for rows.Next() {
		var (
			q              domain.RawQuestion
			correct, wrong string
		)
		if err := rows.Scan(&q.Question, &q.Theme, &correct, &wrong); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(correct), &q.CorrectAnswers); err != nil {
			return nil, fmt.Errorf("unmarshal correct answers: %w", err)
		}
		if err := json.Unmarshal([]byte(wrong), &q.WrongAnswers); err != nil {
			return nil, fmt.Errorf("unmarshal wrong answers: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrPoolNotFound, name)
	}
	return questions, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
