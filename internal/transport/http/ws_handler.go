package http

import (
	"encoding/json"
	"log"
	"net/http"

	"civics-quiz-service/internal/app"
	"civics-quiz-service/internal/domain"
	"civics-quiz-service/internal/quiz"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
	newID    func() string
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		newID: uuid.NewString,
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type commandPayload struct {
	Count      int      `json:"count"`
	Difficulty string   `json:"difficulty"`
	AnswerIDs  []string `json:"answerIds"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type sessionPayload struct {
	SessionID string `json:"sessionId"`
}

// ServeWS upgrades HTTP requests to websockets and drives one quiz session per connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		sessionID = h.newID()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	h.service.Open(ctx, sessionID)
	defer h.service.Detach(ctx, sessionID)

	updates, cancel, err := h.service.Subscribe(ctx, sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	out := newOutbox(16)
	closeSignals := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer goroutine: gorilla connections allow one concurrent writer.
	go func() {
		defer close(out.done)
		for msg := range out.messages {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				// unblock the reader below
				_ = conn.Close()
				return
			}
		}
	}()

	out.push(outboundMessage[any]{Type: "session", Payload: sessionPayload{SessionID: sessionID}})

	go func() {
		defer close(updatesDone)
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					return
				}
				select {
				case out.messages <- outboundMessage[any]{Type: "state", Payload: newStateView(sessionID, snap)}:
				case <-out.done:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	pushError := func(message string) bool {
		return out.push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}})
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if inbound.Type == "options" {
			options, err := h.service.QuestionCountOptions(ctx)
			if err != nil {
				if !pushError(err.Error()) {
					break
				}
				continue
			}
			if !out.push(outboundMessage[any]{Type: "options", Payload: options}) {
				break
			}
			continue
		}

		var payload commandPayload
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				if !pushError("invalid payload") {
					break
				}
				continue
			}
		}
		_, err := h.service.Dispatch(ctx, sessionID, app.Command{
			Type:       app.CommandType(inbound.Type),
			Count:      payload.Count,
			Difficulty: domain.Difficulty(payload.Difficulty),
			AnswerIDs:  payload.AnswerIDs,
		})
		if err != nil && !pushError(err.Error()) {
			break
		}
	}

	close(closeSignals)
	<-updatesDone
	close(out.messages)
	<-out.done
}

// outbox queues messages for the writer goroutine. done is closed when the
// writer exits, after which pushes are dropped.
type outbox struct {
	messages chan outboundMessage[any]
	done     chan struct{}
}

func newOutbox(size int) *outbox {
	return &outbox{
		messages: make(chan outboundMessage[any], size),
		done:     make(chan struct{}),
	}
}

// push reports false once the writer has gone away.
func (o *outbox) push(msg outboundMessage[any]) bool {
	select {
	case o.messages <- msg:
		return true
	case <-o.done:
		return false
	}
}

// stateView is the wire form of a snapshot. Only the current question is sent,
// and answer correctness stays hidden until the answer is submitted.
type stateView struct {
	SessionID             string              `json:"sessionId"`
	Status                domain.Status       `json:"quizStatus"`
	Difficulty            domain.Difficulty   `json:"difficulty"`
	CurrentQuestionIndex  int                 `json:"currentQuestionIndex"`
	CurrentQuestion       *questionView       `json:"currentQuestion"`
	SelectedAnswerIDs     []string            `json:"selectedAnswers"`
	UserAnswers           []domain.UserAnswer `json:"userAnswers"`
	Score                 int                 `json:"score"`
	TotalQuestions        int                 `json:"totalQuestions"`
	SelectedQuestionCount int                 `json:"selectedQuestionCount"`
	HasAnswerSelected     bool                `json:"hasAnswerSelected"`
	Results               *domain.Results     `json:"results,omitempty"`
}

type questionView struct {
	ID       string       `json:"id"`
	Question string       `json:"question"`
	Theme    string       `json:"theme"`
	Answers  []answerView `json:"answers"`
}

type answerView struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect *bool  `json:"isCorrect,omitempty"`
}

func newStateView(sessionID string, snap quiz.Snapshot) stateView {
	view := stateView{
		SessionID:             sessionID,
		Status:                snap.Status,
		Difficulty:            snap.Difficulty,
		CurrentQuestionIndex:  snap.CurrentQuestionIndex,
		SelectedAnswerIDs:     snap.SelectedAnswerIDs,
		UserAnswers:           snap.UserAnswers,
		Score:                 snap.Score,
		TotalQuestions:        snap.TotalQuestions,
		SelectedQuestionCount: snap.SelectedQuestionCount,
		HasAnswerSelected:     snap.HasAnswerSelected,
		Results:               snap.Results,
	}
	if q := snap.CurrentQuestion; q != nil {
		reveal := snap.Status == domain.StatusReviewingAnswer || snap.Status == domain.StatusCompleted
		qv := &questionView{ID: q.ID, Question: q.Question, Theme: q.Theme, Answers: make([]answerView, 0, len(q.Answers))}
		for _, a := range q.Answers {
			av := answerView{ID: a.ID, Text: a.Text}
			if reveal {
				correct := a.IsCorrect
				av.IsCorrect = &correct
			}
			qv.Answers = append(qv.Answers, av)
		}
		view.CurrentQuestion = qv
	}
	return view
}
