package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"civics-quiz-service/internal/domain"
)

func TestPoolStoreSeedAndLoad(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "quiz.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	questions := []domain.RawQuestion{
		{Question: "Q1", Theme: "T", CorrectAnswers: []string{"A"}, WrongAnswers: []string{"B", "C", "D"}},
		{Question: "Q2", Theme: "T", CorrectAnswers: []string{"A", "B"}, WrongAnswers: nil},
	}
	if err := store.SeedPool(ctx, "civics", questions); err != nil {
		t.Fatalf("seed: %v", err)
	}

	pool, err := store.LoadPool(ctx, "civics")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(pool) != 2 || pool[0].Question != "Q1" || len(pool[1].CorrectAnswers) != 2 {
		t.Fatalf("unexpected pool %+v", pool)
	}
	if pool[1].WrongAnswers == nil || len(pool[1].WrongAnswers) != 0 {
		t.Fatalf("expected empty wrong answers, got %#v", pool[1].WrongAnswers)
	}

	// Reseeding replaces the pool.
	if err := store.SeedPool(ctx, "civics", questions[:1]); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	pool, err = store.LoadPool(ctx, "civics")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(pool) != 1 {
		t.Fatalf("expected 1 question after reseed, got %d", len(pool))
	}
}

func TestPoolStoreMissingPool(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "quiz.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if _, err := store.LoadPool(ctx, "civics"); !errors.Is(err, domain.ErrPoolNotFound) {
		t.Fatalf("expected pool not found, got %v", err)
	}
}
