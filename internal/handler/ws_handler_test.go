package handler

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lexprep/lexprep-backend/internal/attempt"
	"github.com/lexprep/lexprep-backend/internal/middleware"
	"github.com/lexprep/lexprep-backend/internal/model"
	"github.com/lexprep/lexprep-backend/internal/service"
	ws "github.com/lexprep/lexprep-backend/internal/websocket"
	"github.com/rs/zerolog"
)

type stubQuizService struct {
	mu        sync.Mutex
	payload   *model.QuizPayload
	submitErr error
	submits   int
}

func (s *stubQuizService) GetPayload(ctx context.Context, id uuid.UUID) (*model.QuizPayload, error) {
	return s.payload, nil
}

func (s *stubQuizService) Submit(ctx context.Context, userID int, quizID uuid.UUID, answers []int) (*model.SubmitQuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submits++
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &model.SubmitQuizResult{
		QuizID:         quizID,
		Score:          len(answers),
		Correct:        len(answers),
		TotalQuestions: len(answers),
	}, nil
}

func (s *stubQuizService) setSubmitErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitErr = err
}

// wsEnvelope is loose enough to decode every server event.
type wsEnvelope struct {
	Event  string                  `json:"event"`
	State  *attempt.State          `json:"state"`
	Result *model.SubmitQuizResult `json:"result"`
	Error  string                  `json:"error"`
}

func dialAttempt(t *testing.T, stub *stubQuizService, quizID uuid.UUID) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewWSHandler(stub, zerolog.Nop(), nil)
	engine := gin.New()
	engine.GET("/ws/v1/quizzes/:id/attempt", func(c *gin.Context) {
		c.Set(middleware.ContextKeyClaims, &service.Claims{UserID: 7})
	}, h.QuizAttempt)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/v1/quizzes/" + quizID.String() + "/attempt"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) wsEnvelope {
	t.Helper()
	var env wsEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return env
}

func sendAction(t *testing.T, conn *websocket.Conn, action attempt.ActionType, index int) {
	t.Helper()
	if err := conn.WriteJSON(ws.RequestPayload{Action: action, Index: index}); err != nil {
		t.Fatalf("send %s: %v", action, err)
	}
}

func twoQuestionPayload(quizID uuid.UUID) *model.QuizPayload {
	return &model.QuizPayload{
		QuizID: quizID,
		Title:  "Contract basics",
		Questions: []model.QuestionForTaker{
			{ID: uuid.New(), QuestionText: "q1", Options: []string{"a", "b"}},
			{ID: uuid.New(), QuestionText: "q2", Options: []string{"a", "b"}},
		},
	}
}

func TestQuizAttemptScoringFailureKeepsAttemptOpen(t *testing.T) {
	quizID := uuid.New()
	stub := &stubQuizService{payload: twoQuestionPayload(quizID)}
	stub.setSubmitErr(errors.New("storage offline"))
	conn := dialAttempt(t, stub, quizID)

	if env := readEvent(t, conn); env.Event != string(ws.EventState) {
		t.Fatalf("initial event = %q, want state", env.Event)
	}

	sendAction(t, conn, attempt.ActionSelectAnswer, 0)
	readEvent(t, conn)
	sendAction(t, conn, attempt.ActionNext, 0)
	readEvent(t, conn)
	sendAction(t, conn, attempt.ActionSelectAnswer, 1)
	readEvent(t, conn)

	// Scoring fails: the client gets an error and the attempt must stay open.
	sendAction(t, conn, attempt.ActionSubmit, 0)
	env := readEvent(t, conn)
	if env.Event != string(ws.EventError) {
		t.Fatalf("event after failed scoring = %q, want error", env.Event)
	}

	// A retry after the backend recovers scores normally instead of
	// bouncing off an already-submitted attempt.
	stub.setSubmitErr(nil)
	sendAction(t, conn, attempt.ActionSubmit, 0)
	env = readEvent(t, conn)
	if env.Event != string(ws.EventScored) {
		t.Fatalf("event after retry = %q (error %q), want scored", env.Event, env.Error)
	}
	if env.Result == nil || env.Result.TotalQuestions != 2 {
		t.Fatalf("scored result = %+v, want 2 questions", env.Result)
	}

	env = readEvent(t, conn)
	if env.Event != string(ws.EventState) || env.State == nil || env.State.Phase != attempt.PhaseSubmitted {
		t.Fatalf("state after scoring = %+v, want submitted phase", env.State)
	}
}

func TestQuizAttemptSubmitScoresOnce(t *testing.T) {
	quizID := uuid.New()
	stub := &stubQuizService{payload: twoQuestionPayload(quizID)}
	conn := dialAttempt(t, stub, quizID)
	readEvent(t, conn)

	sendAction(t, conn, attempt.ActionSelectAnswer, 1)
	readEvent(t, conn)
	sendAction(t, conn, attempt.ActionNext, 0)
	readEvent(t, conn)
	sendAction(t, conn, attempt.ActionSelectAnswer, 0)
	readEvent(t, conn)

	sendAction(t, conn, attempt.ActionSubmit, 0)
	if env := readEvent(t, conn); env.Event != string(ws.EventScored) {
		t.Fatalf("event = %q, want scored", env.Event)
	}
	readEvent(t, conn)

	// Submitting again is rejected by the state machine, not rescored.
	sendAction(t, conn, attempt.ActionSubmit, 0)
	if env := readEvent(t, conn); env.Event != string(ws.EventError) {
		t.Fatalf("event after duplicate submit = %q, want error", env.Event)
	}

	stub.mu.Lock()
	submits := stub.submits
	stub.mu.Unlock()
	if submits != 1 {
		t.Fatalf("submit calls = %d, want 1", submits)
	}
}
