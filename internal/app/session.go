package app

import (
	"sync"
	"time"

	"civics-quiz-service/internal/quiz"
)

// Session owns the single live quiz.State of one user and serialises the
// events applied to it.
type Session struct {
	id          string
	createdAt   time.Time
	now         func() time.Time
	mu          sync.RWMutex
	state       quiz.State
	updatedAt   time.Time
	attached    int
	closed      bool
	subscribers map[chan quiz.Snapshot]struct{}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string, initial quiz.State) *Session {
	return newSessionWithClock(id, initial, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, initial quiz.State, now func() time.Time) *Session {
	return newSessionWithClock(id, initial, now)
}

func newSessionWithClock(id string, initial quiz.State, now func() time.Time) *Session {
	created := now()
	return &Session{
		id:          id,
		createdAt:   created,
		now:         now,
		state:       initial,
		updatedAt:   created,
		subscribers: make(map[chan quiz.Snapshot]struct{}),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// UpdatedAt is the time of the last applied event.
func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// State returns the current state value.
func (s *Session) State() quiz.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot returns the read-only view of the current state.
func (s *Session) Snapshot() quiz.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Snapshot()
}

// apply runs one transition under the session lock and broadcasts the result.
func (s *Session) apply(reducer *quiz.Reducer, event quiz.Event) quiz.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = reducer.Apply(s.state, event)
	s.updatedAt = s.now()
	return s.broadcastLocked()
}

func (s *Session) subscribe() (<-chan quiz.Snapshot, func()) {
	ch := make(chan quiz.Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.state.Snapshot()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// attach registers one more client. It fails once the session has been dropped.
func (s *Session) attach() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.attached++
	return true
}

// detach releases one client and returns how many remain.
func (s *Session) detach() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attached > 0 {
		s.attached--
	}
	return s.attached
}

// CloseIfIdle drops the session when no client holds it and reports whether
// it is closed. Stores call it under their own lock before deleting the entry.
func (s *Session) CloseIfIdle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attached > 0 && !s.closed {
		return false
	}
	s.closeLocked()
	return true
}

// closeSubscribers ends every subscription, used when the session is dropped.
func (s *Session) closeSubscribers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	s.closed = true
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) broadcastLocked() quiz.Snapshot {
	snap := s.state.Snapshot()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Slow subscriber: replace its oldest pending snapshot.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}
