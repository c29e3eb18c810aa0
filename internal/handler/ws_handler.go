package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

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

// quizAttemptService is the slice of the quiz service the attempt channel
// needs: payload resolution before the upgrade and scoring on submit.
type quizAttemptService interface {
	GetPayload(ctx context.Context, id uuid.UUID) (*model.QuizPayload, error)
	Submit(ctx context.Context, userID int, quizID uuid.UUID, answers []int) (*model.SubmitQuizResult, error)
}

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler drives the interactive quiz attempt channel. The attempt state
// lives only on the connection: every message is folded into the state by the
// reducer and the resulting state is echoed back. Dropping the connection
// abandons the attempt.
type WSHandler struct {
	quizService quizAttemptService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(quizService quizAttemptService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		quizService: quizService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// QuizAttempt godoc
// WS /ws/v1/quizzes/:id/attempt?token=...
// Upgrades to WebSocket for an interactive quiz attempt. Submit scores the
// attempt through the same path as the REST submit endpoint.
func (h *WSHandler) QuizAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	quizID, ok := parseUUIDParam(c)
	if !ok {
		return
	}

	// Resolve the quiz before upgrading so a bad quiz ID fails as plain HTTP.
	payload, err := h.quizService.GetPayload(c.Request.Context(), quizID)
	if err != nil {
		if errors.Is(err, service.ErrQuizNotFound) || errors.Is(err, service.ErrQuizNotPublished) {
			c.JSON(http.StatusNotFound, gin.H{"error": "quiz not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	state, err := attempt.New(len(payload.Questions))
	if err != nil {
		ws.WriteError(conn, "quiz has no questions")
		return
	}

	wsLog := h.log.With().
		Int("user_id", claims.UserID).
		Str("quiz_id", quizID.String()).
		Logger()
	wsLog.Info().Msg("Attempt started")

	h.writeState(conn, state)

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		next, err := attempt.Reduce(state, attempt.Action{Type: msg.Action, Index: msg.Index})
		if err != nil {
			// Rejected actions leave the state untouched.
			ws.WriteError(conn, err.Error())
			continue
		}

		if msg.Action == attempt.ActionSubmit {
			// The submitted phase is committed only once scoring succeeds, so
			// a transient scoring failure leaves the attempt open for a retry.
			if !h.handleSubmit(conn, wsLog, claims.UserID, quizID, next) {
				continue
			}
		}
		state = next
		h.writeState(conn, state)
	}
}

// handleSubmit scores a submitted attempt through the quiz service. It
// reports whether scoring succeeded; callers must not commit the submitted
// state when it did not.
func (h *WSHandler) handleSubmit(conn *websocket.Conn, wsLog zerolog.Logger, userID int, quizID uuid.UUID, state attempt.State) bool {
	answers, err := state.Answers()
	if err != nil {
		ws.WriteError(conn, err.Error())
		return false
	}

	// The upgrade request's context dies with the HTTP handshake, so scoring
	// uses a fresh one.
	result, err := h.quizService.Submit(context.Background(), userID, quizID, answers)
	if err != nil {
		wsLog.Error().Err(err).Msg("Attempt scoring failed")
		ws.WriteError(conn, "scoring failed")
		return false
	}

	wsLog.Info().Int("score", result.Score).Int("total", result.TotalQuestions).Msg("Attempt scored")
	ws.WriteTyped(conn, ws.ScoredResponse{Event: ws.EventScored, Result: result})
	return true
}

func (h *WSHandler) writeState(conn *websocket.Conn, state attempt.State) {
	ws.WriteTyped(conn, ws.StateResponse{
		Event:    ws.EventState,
		State:    state,
		Answered: state.AnsweredCount(),
	})
}
