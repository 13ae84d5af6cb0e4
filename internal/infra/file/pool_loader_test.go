package file

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"civics-quiz-service/internal/domain"
)

func TestPoolLoaderReadsJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "civics.json"), `{
  "questions": [
    {
      "question": "What is the capital of the United States?",
      "theme": "Geography",
      "correctAnswers": ["Washington, D.C."],
      "wrongAnswers": ["New York", "Philadelphia", "Boston"]
    }
  ]
}`)

	pool, err := NewPoolLoader(dir).LoadPool(context.Background(), "civics")
	if err != nil {
		t.Fatalf("load pool: %v", err)
	}
	if len(pool) != 1 || pool[0].Theme != "Geography" || len(pool[0].WrongAnswers) != 3 {
		t.Fatalf("unexpected pool %+v", pool)
	}
}

func TestPoolLoaderReadsYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "civics.yaml"), `questions:
  - question: Name one right in the First Amendment.
    theme: Rights
    correctAnswers: [Speech, Religion, Assembly, Press]
    wrongAnswers: [To bear arms, Trial by jury]
`)

	pool, err := NewPoolLoader(dir).LoadPool(context.Background(), "civics")
	if err != nil {
		t.Fatalf("load pool: %v", err)
	}
	if len(pool) != 1 || len(pool[0].CorrectAnswers) != 4 {
		t.Fatalf("unexpected pool %+v", pool)
	}
}

func TestPoolLoaderMissingPool(t *testing.T) {
	_, err := NewPoolLoader(t.TempDir()).LoadPool(context.Background(), "civics")
	if !errors.Is(err, domain.ErrPoolNotFound) {
		t.Fatalf("expected pool not found, got %v", err)
	}
}

func TestPoolLoaderMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "civics.json"), `{"questions": [`)
	if _, err := NewPoolLoader(dir).LoadPool(context.Background(), "civics"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestWritePoolRoundTrip(t *testing.T) {
	questions := []domain.RawQuestion{{
		Question:       "Who is the commander in chief?",
		Theme:          "Institutions",
		CorrectAnswers: []string{"The president"},
		WrongAnswers:   []string{"The vice president"},
	}}

	var buf bytes.Buffer
	if err := WritePool(&buf, questions); err != nil {
		t.Fatalf("write pool: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.json")
	writeFile(t, path, buf.String())

	read, err := ReadPoolFile(path)
	if err != nil {
		t.Fatalf("read pool: %v", err)
	}
	if len(read) != 1 || read[0].Question != questions[0].Question {
		t.Fatalf("unexpected pool %+v", read)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
