package memory

import (
	"testing"

	"civics-quiz-service/internal/app"
	"civics-quiz-service/internal/quiz"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()
	creates := 0
	create := func() *app.Session {
		creates++
		return app.NewSession("s1", quiz.InitialState(0))
	}

	session := store.GetOrCreate("s1", create)
	if session == nil {
		t.Fatalf("expected session")
	}
	if again := store.GetOrCreate("s1", create); again != session || creates != 1 {
		t.Fatalf("expected existing session reused, creates=%d", creates)
	}
	if _, ok := store.Get("s1"); !ok {
		t.Fatalf("expected session present")
	}

	store.DeleteIfIdle("s1")
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}
