package app

import (
	"context"
	"fmt"

	"civics-quiz-service/internal/domain"
	"civics-quiz-service/internal/quiz"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(sessionID string, create func() *Session) *Session
	Get(sessionID string) (*Session, bool)
	DeleteIfIdle(sessionID string)
}

// PoolRepository loads question pools (from cache/backing store).
type PoolRepository interface {
	GetPool(ctx context.Context, name string) ([]domain.RawQuestion, error)
}

// CommandType names the inbound session commands, one per state machine event.
type CommandType string

const (
	CommandStartQuiz           CommandType = "START_QUIZ"
	CommandSelectQuestionCount CommandType = "SELECT_QUESTION_COUNT"
	CommandSelectDifficulty    CommandType = "SELECT_DIFFICULTY"
	CommandSelectAnswer        CommandType = "SELECT_ANSWER"
	CommandSubmitAnswer        CommandType = "SUBMIT_ANSWER"
	CommandGoToNextQuestion    CommandType = "GO_TO_NEXT_QUESTION"
	CommandRestartQuiz         CommandType = "RESTART_QUIZ"
)

// Command is a presentation-layer request against one session.
type Command struct {
	Type       CommandType       `json:"type"`
	Count      int               `json:"count,omitempty"`
	Difficulty domain.Difficulty `json:"difficulty,omitempty"`
	AnswerIDs  []string          `json:"answerIds,omitempty"`
}

// Options tunes which pool sessions draw from and which lengths are offered.
type Options struct {
	PoolName             string
	QuestionCountOptions []int
}

// QuizService contains the quiz session use cases.
type QuizService struct {
	sessions SessionRepository
	pools    PoolRepository
	reducer  *quiz.Reducer
	opts     Options
}

func NewQuizService(store SessionRepository, pools PoolRepository, reducer *quiz.Reducer, opts Options) *QuizService {
	return &QuizService{sessions: store, pools: pools, reducer: reducer, opts: opts}
}

// Open attaches a client to the session with sessionID, creating it in
// NOT_STARTED if needed. Every Open must be paired with a Detach.
func (s *QuizService) Open(_ context.Context, sessionID string) quiz.Snapshot {
	for {
		session := s.sessions.GetOrCreate(sessionID, func() *Session {
			return NewSession(sessionID, s.reducer.Initial())
		})
		if session.attach() {
			return session.Snapshot()
		}
		// lost a race with the last Detach; clear the stale entry and retry
		s.sessions.DeleteIfIdle(sessionID)
	}
}

// Detach releases a client attached by Open and drops the session once
// no client holds it.
func (s *QuizService) Detach(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	if session.detach() == 0 {
		s.sessions.DeleteIfIdle(sessionID)
	}
}

// Dispatch translates cmd into a state machine event and applies it.
// Commands with no transition in the current status leave the state unchanged.
func (s *QuizService) Dispatch(ctx context.Context, sessionID string, cmd Command) (quiz.Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return quiz.Snapshot{}, domain.ErrSessionNotFound
	}

	event, err := s.event(ctx, cmd)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	return session.apply(s.reducer, event), nil
}

func (s *QuizService) event(ctx context.Context, cmd Command) (quiz.Event, error) {
	switch cmd.Type {
	case CommandStartQuiz:
		pool, err := s.pools.GetPool(ctx, s.opts.PoolName)
		if err != nil {
			return nil, fmt.Errorf("start quiz: %w", err)
		}
		return quiz.StartQuiz{Pool: pool}, nil
	case CommandSelectQuestionCount:
		return quiz.SelectQuestionCount{Count: cmd.Count}, nil
	case CommandSelectDifficulty:
		if !cmd.Difficulty.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDifficulty, cmd.Difficulty)
		}
		return quiz.SelectDifficulty{Difficulty: cmd.Difficulty}, nil
	case CommandSelectAnswer:
		ids := cmd.AnswerIDs
		if ids == nil {
			ids = []string{}
		}
		return quiz.SelectAnswer{AnswerIDs: ids}, nil
	case CommandSubmitAnswer:
		return quiz.SubmitAnswer{}, nil
	case CommandGoToNextQuestion:
		return quiz.GoToNextQuestion{}, nil
	case CommandRestartQuiz:
		return quiz.RestartQuiz{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCommand, cmd.Type)
	}
}

// Snapshot returns the current view of a session.
func (s *QuizService) Snapshot(_ context.Context, sessionID string) (quiz.Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return quiz.Snapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// Subscribe returns a channel that receives snapshots for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan quiz.Snapshot, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Close drops the session and ends its subscriptions regardless of how many
// clients are attached.
func (s *QuizService) Close(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.closeSubscribers()
	s.sessions.DeleteIfIdle(sessionID)
}

// QuestionCountOptions lists the session lengths that fit the configured pool.
func (s *QuizService) QuestionCountOptions(ctx context.Context) (domain.QuestionCountOptions, error) {
	pool, err := s.pools.GetPool(ctx, s.opts.PoolName)
	if err != nil {
		return domain.QuestionCountOptions{}, err
	}
	return s.reducer.QuestionCountOptions(len(pool), s.opts.QuestionCountOptions)
}
