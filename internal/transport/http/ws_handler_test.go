package http

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"civics-quiz-service/internal/app"
	"civics-quiz-service/internal/domain"
	"civics-quiz-service/internal/infra/memory"
	"civics-quiz-service/internal/quiz"
	"github.com/gorilla/websocket"
)

func TestWebSocketQuizFlow(t *testing.T) {
	server := httptest.NewServer(newTestMux(samplePools()))
	defer server.Close()

	conn := dial(t, server, "/ws?sessionId=s1")
	defer conn.Close()

	typ, raw := readNext(conn, t)
	if typ != "session" {
		t.Fatalf("expected session message, got %s", typ)
	}
	var session sessionPayload
	_ = json.Unmarshal(raw, &session)
	if session.SessionID != "s1" {
		t.Fatalf("expected session id s1, got %q", session.SessionID)
	}

	state := readState(conn, t, func(s stateView) bool { return s.Status == domain.StatusNotStarted })
	if state.SelectedQuestionCount != 40 {
		t.Fatalf("expected default question count 40, got %d", state.SelectedQuestionCount)
	}

	send(t, conn, "SELECT_QUESTION_COUNT", map[string]any{"count": 1})
	readState(conn, t, func(s stateView) bool { return s.SelectedQuestionCount == 1 })

	send(t, conn, "START_QUIZ", nil)
	state = readState(conn, t, func(s stateView) bool { return s.Status == domain.StatusAnswering })
	if state.TotalQuestions != 1 || state.CurrentQuestion == nil {
		t.Fatalf("expected one question, got %+v", state)
	}
	for _, a := range state.CurrentQuestion.Answers {
		if a.IsCorrect != nil {
			t.Fatalf("answer correctness leaked while answering: %+v", a)
		}
	}

	answerID := state.CurrentQuestion.Answers[0].ID
	send(t, conn, "SELECT_ANSWER", map[string]any{"answerIds": []string{answerID}})
	readState(conn, t, func(s stateView) bool { return s.HasAnswerSelected })

	send(t, conn, "SUBMIT_ANSWER", nil)
	state = readState(conn, t, func(s stateView) bool { return s.Status == domain.StatusReviewingAnswer })
	if state.Score != 1 || len(state.UserAnswers) != 1 {
		t.Fatalf("expected correct submission, got %+v", state)
	}
	if a := state.CurrentQuestion.Answers[0]; a.IsCorrect == nil || !*a.IsCorrect {
		t.Fatalf("expected correctness revealed after submit, got %+v", a)
	}

	send(t, conn, "GO_TO_NEXT_QUESTION", nil)
	state = readState(conn, t, func(s stateView) bool { return s.Status == domain.StatusCompleted })
	if state.Results == nil || state.Results.Percentage != 100 {
		t.Fatalf("expected 100%% results, got %+v", state.Results)
	}
}

func TestWebSocketSharedSessionSurvivesOtherDisconnect(t *testing.T) {
	server := httptest.NewServer(newTestMux(samplePools()))
	defer server.Close()

	first := dial(t, server, "/ws?sessionId=shared")
	defer first.Close()
	readNext(first, t) // session
	readState(first, t, func(s stateView) bool { return s.Status == domain.StatusNotStarted })

	second := dial(t, server, "/ws?sessionId=shared")
	readNext(second, t)
	readState(second, t, func(s stateView) bool { return s.Status == domain.StatusNotStarted })

	send(t, second, "SELECT_QUESTION_COUNT", map[string]any{"count": 5})
	readState(first, t, func(s stateView) bool { return s.SelectedQuestionCount == 5 })
	second.Close()

	// the server handles the close asynchronously; keep dispatching until the
	// first connection sees its own update, failing on any error reply
	for count := 1; count <= 3; count++ {
		send(t, first, "SELECT_QUESTION_COUNT", map[string]any{"count": count})
		typ, raw := readNext(first, t)
		if typ != "state" {
			t.Fatalf("expected state after other client left, got %s %s", typ, raw)
		}
		var state stateView
		if err := json.Unmarshal(raw, &state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		if state.SelectedQuestionCount != count {
			t.Fatalf("expected count %d, got %d", count, state.SelectedQuestionCount)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestOutboxStopsAfterWriterExit(t *testing.T) {
	out := newOutbox(1)
	if !out.push(outboundMessage[any]{Type: "state"}) {
		t.Fatalf("expected push into empty outbox")
	}
	close(out.done)

	pushed := make(chan bool, 1)
	go func() { pushed <- out.push(outboundMessage[any]{Type: "state"}) }()
	select {
	case ok := <-pushed:
		if ok {
			t.Fatalf("expected push to fail once the writer is gone")
		}
	case <-time.After(time.Second):
		t.Fatalf("push blocked after writer exit")
	}
}

func TestWebSocketRejectsUnknownCommand(t *testing.T) {
	server := httptest.NewServer(newTestMux(samplePools()))
	defer server.Close()

	conn := dial(t, server, "/ws")
	defer conn.Close()
	readNext(conn, t) // session
	readNext(conn, t) // initial state

	send(t, conn, "JUMP_AHEAD", nil)
	typ, raw := readNext(conn, t)
	if typ != "error" {
		t.Fatalf("expected error message, got %s %s", typ, raw)
	}
}

func TestWebSocketOptions(t *testing.T) {
	server := httptest.NewServer(newTestMux(samplePools()))
	defer server.Close()

	conn := dial(t, server, "/ws")
	defer conn.Close()
	readNext(conn, t)
	readNext(conn, t)

	send(t, conn, "options", nil)
	typ, raw := readNext(conn, t)
	if typ != "options" {
		t.Fatalf("expected options message, got %s", typ)
	}
	var options domain.QuestionCountOptions
	if err := json.Unmarshal(raw, &options); err != nil {
		t.Fatalf("decode options: %v", err)
	}
	if len(options.Options) != 0 || options.Default != 0 {
		t.Fatalf("expected no options for a one-question pool, got %+v", options)
	}
}

func TestOptionsHandler(t *testing.T) {
	pools := samplePools()
	for i := 0; i < 24; i++ {
		pools["civics"] = append(pools["civics"], pools["civics"][0])
	}
	server := httptest.NewServer(newTestMux(pools))
	defer server.Close()

	resp, err := http.Get(server.URL + "/options")
	if err != nil {
		t.Fatalf("get options: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var options domain.QuestionCountOptions
	if err := json.NewDecoder(resp.Body).Decode(&options); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(options.Options) != 2 || options.Default != 10 {
		t.Fatalf("expected [10 20] defaulting to 10, got %+v", options)
	}
}

func TestOptionsHandlerMissingPool(t *testing.T) {
	server := httptest.NewServer(newTestMux(map[string][]domain.RawQuestion{}))
	defer server.Close()

	resp, err := http.Get(server.URL + "/options")
	if err != nil {
		t.Fatalf("get options: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func newTestMux(pools map[string][]domain.RawQuestion) *http.ServeMux {
	store := memory.NewSessionStore()
	poolRepo := memory.NewPoolRepository(memory.NewStaticPoolLoader(pools), time.Minute)
	reducer := quiz.NewReducer(quiz.NewSelector(rand.NewSource(1)), 40)
	service := app.NewQuizService(store, poolRepo, reducer, app.Options{
		PoolName:             "civics",
		QuestionCountOptions: []int{10, 20, 40, 80},
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", NewWSHandler(service).ServeWS)
	mux.Handle("/options", NewOptionsHandler(service))
	return mux
}

func dial(t *testing.T, server *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + path
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	msg := map[string]any{"type": typ}
	if payload != nil {
		msg["payload"] = payload
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T) (string, json.RawMessage) {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	return msg.Type, msg.Payload
}

// readState reads state messages until match accepts one.
func readState(conn *websocket.Conn, t *testing.T, match func(stateView) bool) stateView {
	t.Helper()
	for i := 0; i < 10; i++ {
		typ, raw := readNext(conn, t)
		if typ != "state" {
			t.Fatalf("expected state message, got %s %s", typ, raw)
		}
		var state stateView
		if err := json.Unmarshal(raw, &state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		if match(state) {
			return state
		}
	}
	t.Fatalf("expected state never arrived")
	return stateView{}
}

func samplePools() map[string][]domain.RawQuestion {
	return map[string][]domain.RawQuestion{
		"civics": {
			{
				Question:       "How many senators does each state have?",
				Theme:          "Congress",
				CorrectAnswers: []string{"Two"},
			},
		},
	}
}
