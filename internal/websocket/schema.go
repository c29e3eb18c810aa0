package websocket

import (
	"github.com/lexprep/lexprep-backend/internal/attempt"
	"github.com/lexprep/lexprep-backend/internal/model"
)

// ─── Requests (Client → Server) ─────────────────────────────────────

// RequestPayload is one attempt interaction from the client. Index carries
// the chosen option for select_answer and the target question for jump_to.
type RequestPayload struct {
	Action attempt.ActionType `json:"action"`
	Index  int                `json:"index"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState  Event = "state"
	EventScored Event = "scored"
	EventError  Event = "error"
)

// StateResponse carries the attempt state after every accepted action.
type StateResponse struct {
	Event    Event         `json:"event"`
	State    attempt.State `json:"state"`
	Answered int           `json:"answered"`
}

// ScoredResponse is sent once after a successful submit.
type ScoredResponse struct {
	Event  Event                   `json:"event"`
	Result *model.SubmitQuizResult `json:"result"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
