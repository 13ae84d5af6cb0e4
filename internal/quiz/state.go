package quiz

import (
	"slices"

	"civics-quiz-service/internal/domain"
)

// DefaultQuestionCount is the session length used until the user picks one.
const DefaultQuestionCount = 40

// State is the full quiz session state. Values are never mutated in place:
// the Reducer always returns a fresh State.
type State struct {
	Status                domain.Status
	Difficulty            domain.Difficulty
	Questions             []domain.FormattedQuestion
	CurrentQuestionIndex  int
	SelectedAnswerIDs     []string
	UserAnswers           []domain.UserAnswer
	Score                 int
	SelectedQuestionCount int
}

// InitialState returns a NOT_STARTED session with NORMAL difficulty.
func InitialState(defaultQuestionCount int) State {
	if defaultQuestionCount <= 0 {
		defaultQuestionCount = DefaultQuestionCount
	}
	return State{
		Status:                domain.StatusNotStarted,
		Difficulty:            domain.DifficultyNormal,
		Questions:             []domain.FormattedQuestion{},
		SelectedAnswerIDs:     []string{},
		UserAnswers:           []domain.UserAnswer{},
		SelectedQuestionCount: defaultQuestionCount,
	}
}

// CurrentQuestion returns the question at CurrentQuestionIndex, if any.
func (s State) CurrentQuestion() (domain.FormattedQuestion, bool) {
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return domain.FormattedQuestion{}, false
	}
	return s.Questions[s.CurrentQuestionIndex], true
}

func (s State) TotalQuestions() int {
	return len(s.Questions)
}

func (s State) HasAnswerSelected() bool {
	return len(s.SelectedAnswerIDs) > 0
}

func (s State) IsLastQuestion() bool {
	return IsLastQuestion(s.CurrentQuestionIndex, len(s.Questions))
}

// Results summarizes the score so far against the session length.
func (s State) Results() domain.Results {
	return FormatResults(s.Score, len(s.Questions))
}

// Snapshot is the read-only view handed to presentation layers.
type Snapshot struct {
	Status                domain.Status              `json:"quizStatus"`
	Difficulty            domain.Difficulty          `json:"difficulty"`
	Questions             []domain.FormattedQuestion `json:"questions"`
	CurrentQuestionIndex  int                        `json:"currentQuestionIndex"`
	CurrentQuestion       *domain.FormattedQuestion  `json:"currentQuestion"`
	SelectedAnswerIDs     []string                   `json:"selectedAnswers"`
	UserAnswers           []domain.UserAnswer        `json:"userAnswers"`
	Score                 int                        `json:"score"`
	TotalQuestions        int                        `json:"totalQuestions"`
	SelectedQuestionCount int                        `json:"selectedQuestionCount"`
	HasAnswerSelected     bool                       `json:"hasAnswerSelected"`
	Results               *domain.Results            `json:"results,omitempty"`
}

// Snapshot copies the state together with its derived fields.
func (s State) Snapshot() Snapshot {
	snap := Snapshot{
		Status:                s.Status,
		Difficulty:            s.Difficulty,
		Questions:             slices.Clone(s.Questions),
		CurrentQuestionIndex:  s.CurrentQuestionIndex,
		SelectedAnswerIDs:     slices.Clone(s.SelectedAnswerIDs),
		UserAnswers:           slices.Clone(s.UserAnswers),
		Score:                 s.Score,
		TotalQuestions:        s.TotalQuestions(),
		SelectedQuestionCount: s.SelectedQuestionCount,
		HasAnswerSelected:     s.HasAnswerSelected(),
	}
	if current, ok := s.CurrentQuestion(); ok {
		snap.CurrentQuestion = &current
	}
	if s.Status == domain.StatusCompleted {
		results := s.Results()
		snap.Results = &results
	}
	return snap
}
