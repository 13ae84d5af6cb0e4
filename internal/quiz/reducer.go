package quiz

import (
	"slices"

	"civics-quiz-service/internal/domain"
)

// Event is an input to the session state machine.
type Event interface {
	isEvent()
}

// StartQuiz samples a new question sequence from Pool.
type StartQuiz struct {
	Pool []domain.RawQuestion
}

// SelectQuestionCount sets the length of the next session.
type SelectQuestionCount struct {
	Count int
}

// SelectDifficulty sets the difficulty of the next session.
type SelectDifficulty struct {
	Difficulty domain.Difficulty
}

// SelectAnswer replaces the in-progress selection. Single-select replace versus
// multi-select toggle is decided by the caller.
type SelectAnswer struct {
	AnswerIDs []string
}

type SubmitAnswer struct{}

type GoToNextQuestion struct{}

type RestartQuiz struct{}

func (StartQuiz) isEvent()           {}
func (SelectQuestionCount) isEvent() {}
func (SelectDifficulty) isEvent()    {}
func (SelectAnswer) isEvent()        {}
func (SubmitAnswer) isEvent()        {}
func (GoToNextQuestion) isEvent()    {}
func (RestartQuiz) isEvent()         {}

// Reducer applies events to session states. Events that have no transition in
// the current status return the state unchanged.
type Reducer struct {
	selector             *Selector
	defaultQuestionCount int
}

// NewReducer builds a reducer sampling through selector. A non-positive
// defaultQuestionCount falls back to DefaultQuestionCount.
func NewReducer(selector *Selector, defaultQuestionCount int) *Reducer {
	if defaultQuestionCount <= 0 {
		defaultQuestionCount = DefaultQuestionCount
	}
	return &Reducer{selector: selector, defaultQuestionCount: defaultQuestionCount}
}

// Initial returns the state of a freshly opened session.
func (r *Reducer) Initial() State {
	return InitialState(r.defaultQuestionCount)
}

// DefaultQuestionCount is the session length restored on restart.
func (r *Reducer) DefaultQuestionCount() int {
	return r.defaultQuestionCount
}

// QuestionCountOptions filters options for a pool of poolSize questions,
// preferring the reducer's default count.
func (r *Reducer) QuestionCountOptions(poolSize int, options []int) (domain.QuestionCountOptions, error) {
	return availableQuestionCountOptions(poolSize, options, r.defaultQuestionCount)
}

// Apply returns the state that follows event.
func (r *Reducer) Apply(state State, event Event) State {
	switch ev := event.(type) {
	case StartQuiz:
		return r.start(state, ev)
	case SelectQuestionCount:
		if ev.Count <= 0 {
			return state
		}
		state.SelectedQuestionCount = ev.Count
		return state
	case SelectDifficulty:
		if !ev.Difficulty.Valid() {
			return state
		}
		state.Difficulty = ev.Difficulty
		return state
	case SelectAnswer:
		if state.Status != domain.StatusAnswering || ev.AnswerIDs == nil {
			return state
		}
		state.SelectedAnswerIDs = dedupe(ev.AnswerIDs)
		return state
	case SubmitAnswer:
		return r.submit(state)
	case GoToNextQuestion:
		return r.next(state)
	case RestartQuiz:
		restarted := r.Initial()
		restarted.Status = domain.StatusConfiguring
		return restarted
	default:
		return state
	}
}

func (r *Reducer) start(state State, ev StartQuiz) State {
	switch state.Status {
	case domain.StatusNotStarted, domain.StatusConfiguring, domain.StatusCompleted:
	default:
		return state
	}

	started := r.Initial()
	started.Status = domain.StatusAnswering
	started.Difficulty = state.Difficulty
	started.SelectedQuestionCount = state.SelectedQuestionCount
	started.Questions = r.selector.SelectQuestions(ev.Pool, state.SelectedQuestionCount, state.Difficulty)
	return started
}

// submit grades the current selection. An empty selection is ignored.
func (r *Reducer) submit(state State) State {
	if state.Status != domain.StatusAnswering || !state.HasAnswerSelected() {
		return state
	}
	question, ok := state.CurrentQuestion()
	if !ok {
		return state
	}

	correct := IsAnswerCorrect(&question, state.SelectedAnswerIDs)
	answer := domain.UserAnswer{
		QuestionID: question.ID,
		AnswerIDs:  slices.Clone(state.SelectedAnswerIDs),
		IsCorrect:  correct,
	}

	userAnswers := make([]domain.UserAnswer, 0, len(state.UserAnswers)+1)
	userAnswers = append(userAnswers, state.UserAnswers...)
	state.UserAnswers = append(userAnswers, answer)
	if correct {
		state.Score++
	}
	state.Status = domain.StatusReviewingAnswer
	return state
}

func (r *Reducer) next(state State) State {
	if state.Status != domain.StatusReviewingAnswer {
		return state
	}

	state.SelectedAnswerIDs = []string{}
	if state.IsLastQuestion() {
		state.Status = domain.StatusCompleted
		return state
	}
	state.CurrentQuestionIndex = NextQuestionIndex(state.CurrentQuestionIndex, len(state.Questions))
	state.Status = domain.StatusAnswering
	return state
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
