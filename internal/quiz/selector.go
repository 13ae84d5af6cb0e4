package quiz

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"civics-quiz-service/internal/domain"
)

// SlateSize is the number of answer options presented per question.
const SlateSize = 4

// Shuffle returns a uniformly random permutation of items as a new slice.
// The input slice is never modified.
func Shuffle[T any](rnd *rand.Rand, items []T) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// Selector samples raw questions from a pool and formats them into
// answer-shuffled question instances. It is safe for concurrent use.
type Selector struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSelector builds a selector drawing from src. Pass a fixed-seed source for
// reproducible sessions.
func NewSelector(src rand.Source) *Selector {
	return &Selector{rnd: rand.New(src)}
}

// NewRandomSelector builds a selector seeded from the wall clock.
func NewRandomSelector() *Selector {
	return NewSelector(rand.NewSource(time.Now().UnixNano()))
}

// SelectQuestions shuffles pool, keeps the first count entries and formats each
// one for difficulty. A nil or empty pool yields an empty result.
func (s *Selector) SelectQuestions(pool []domain.RawQuestion, count int, difficulty domain.Difficulty) []domain.FormattedQuestion {
	if len(pool) == 0 || count <= 0 {
		return []domain.FormattedQuestion{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shuffled := Shuffle(s.rnd, pool)
	if count < len(shuffled) {
		shuffled = shuffled[:count]
	}

	questions := make([]domain.FormattedQuestion, 0, len(shuffled))
	for index, raw := range shuffled {
		questions = append(questions, s.formatLocked(raw, index, difficulty))
	}
	return questions
}

// FormatQuestion turns a raw question into a slate of at most SlateSize answers
// with IDs derived from index.
func (s *Selector) FormatQuestion(raw domain.RawQuestion, index int, difficulty domain.Difficulty) domain.FormattedQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formatLocked(raw, index, difficulty)
}

func (s *Selector) formatLocked(raw domain.RawQuestion, index int, difficulty domain.Difficulty) domain.FormattedQuestion {
	correctCount := s.correctCountLocked(len(raw.CorrectAnswers), difficulty)
	correct := Shuffle(s.rnd, raw.CorrectAnswers)[:correctCount]

	wrongCount := min(SlateSize-correctCount, len(raw.WrongAnswers))
	wrong := Shuffle(s.rnd, raw.WrongAnswers)[:wrongCount]

	slate := make([]domain.Answer, 0, correctCount+wrongCount)
	for _, text := range correct {
		slate = append(slate, domain.Answer{Text: text, IsCorrect: true})
	}
	for _, text := range wrong {
		slate = append(slate, domain.Answer{Text: text, IsCorrect: false})
	}

	answers := Shuffle(s.rnd, slate)
	for pos := range answers {
		answers[pos].ID = fmt.Sprintf("q%d-a%d", index, pos)
	}

	return domain.FormattedQuestion{
		ID:       fmt.Sprintf("question-%d", index),
		Question: raw.Question,
		Theme:    raw.Theme,
		Answers:  answers,
	}
}

// correctCountLocked picks how many correct answers go on the slate: one for
// NORMAL, uniform in [1, min(SlateSize, available)] for DIFFICULT.
func (s *Selector) correctCountLocked(available int, difficulty domain.Difficulty) int {
	if available <= 0 {
		return 0
	}
	if difficulty != domain.DifficultyDifficult {
		return 1
	}
	return 1 + s.rnd.Intn(min(SlateSize, available))
}
